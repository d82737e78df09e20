package config

import (
	"crypto/rsa"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

const AppName = "identifier-service"

type Config struct {
	AppName string
	AppPort string

	// AppUrl is the public origin embedded in QR payload URLs.
	AppUrl string

	DBUrl string

	// RSAPublicKey verifies access tokens minted by the auth service.
	RSAPublicKey *rsa.PublicKey
}

// LoadConfig reads the environment, optionally hydrated from a local .env
// file. Every required var missing is fatal; there is no partial startup.
func LoadConfig() *Config {
	// .env is for local development only; absence is not an error.
	if err := godotenv.Load(); err == nil {
		utils.Logger.Info("Loaded environment from .env file")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}

	pubPEM := os.Getenv("JWT_PUBLIC_KEY")
	if pubPEM == "" {
		utils.Logger.Fatal("JWT_PUBLIC_KEY env var is missing")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pubPEM))
	if err != nil {
		utils.Logger.WithError(err).Fatal("JWT_PUBLIC_KEY is not a valid RSA public key PEM")
	}

	return &Config{
		AppName:      AppName,
		AppPort:      appPort,
		AppUrl:       appURL,
		DBUrl:        dbURL,
		RSAPublicKey: pubKey,
	}
}
