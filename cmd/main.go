package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/app"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/config"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/controllers"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/middleware"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/repositories"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/routes"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/services"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	propRepo := repositories.NewPropertyRepository(application.DB)
	assetRepo := repositories.NewAssetRepository(application.DB)
	idRepo := repositories.NewMasterIdentifierRepository(application.DB)
	seedRepo := repositories.NewPrivacySeedRepository(application.DB)
	eventRepo := repositories.NewServiceEventRepository(application.DB)
	docRepo := repositories.NewDocumentRepository(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	identifierService := services.NewIdentifierService(propRepo, idRepo, seedRepo)
	visibilityService := services.NewVisibilityService(
		identifierService,
		propRepo,
		assetRepo,
		eventRepo,
		docRepo,
		idRepo,
	)
	propertyService := services.NewPropertyService(propRepo, docRepo)
	assetService := services.NewAssetService(propRepo, assetRepo, eventRepo)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	identifierController := controllers.NewIdentifierController(identifierService, cfg.AppUrl)
	publicController := controllers.NewPublicController(visibilityService)
	propertyController := controllers.NewPropertyController(propertyService, visibilityService)
	assetController := controllers.NewAssetController(assetService)
	healthController := controllers.NewHealthController(application)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	// Health
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods("GET")

	// Public resolution: anonymous, except the asset endpoint honors an
	// owner session when one is present.
	public := router.PathPrefix(routes.PublicBase).Subrouter()
	public.Use(middleware.OptionalAuthMiddleware(cfg.RSAPublicKey))
	public.HandleFunc(routes.PublicProperty, publicController.GetPropertyHandler).Methods("GET")
	public.HandleFunc(routes.PublicAsset, publicController.GetAssetHandler).Methods("GET")

	// Owner API
	protected := router.PathPrefix(routes.OwnerBase).Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	protected.HandleFunc(routes.Properties, propertyController.CreateHandler).Methods("POST")
	protected.HandleFunc(routes.Properties, propertyController.ListHandler).Methods("GET")
	protected.HandleFunc(routes.Property, propertyController.GetHandler).Methods("GET")
	protected.HandleFunc(routes.PropertyAssets, assetController.CreateHandler).Methods("POST")
	protected.HandleFunc(routes.PropertyDocuments, propertyController.CreateDocumentHandler).Methods("POST")
	protected.HandleFunc(routes.Asset, assetController.UpdateHandler).Methods("PATCH")
	protected.HandleFunc(routes.AssetEvents, assetController.CreateEventHandler).Methods("POST")

	protected.HandleFunc(routes.Identifier, identifierController.GetStatusHandler).Methods("GET")
	protected.HandleFunc(routes.Identifier, identifierController.MutateHandler).Methods("POST")
	protected.HandleFunc(routes.IdentifierRevoke, identifierController.RevokeHandler).Methods("POST")

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
