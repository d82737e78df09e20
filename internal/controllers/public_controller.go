package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/middleware"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/services"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

/*
PublicController serves the anonymous resolution endpoints. Every failure
path here responds with the same 404 body: the public side must not be able
to tell a revoked token, an unknown token, and a hidden asset apart.
*/
type PublicController struct {
	visibilityService *services.VisibilityService
}

func NewPublicController(visibilityService *services.VisibilityService) *PublicController {
	return &PublicController{visibilityService: visibilityService}
}

func respondPublicNotFound(w http.ResponseWriter) {
	utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not accessible", nil)
}

// GET /api/v1/public/property/{token}
func (c *PublicController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	view, err := c.visibilityService.PublicPropertyView(r.Context(), token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenNotFound) {
			respondPublicNotFound(w)
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

// GET /api/v1/public/asset/{assetId}?token=...
//
// Runs behind OptionalAuthMiddleware: an authenticated owner sees their own
// asset in full without a token; everyone else needs the property's token.
func (c *PublicController) GetAssetHandler(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(mux.Vars(r)["assetId"])
	if err != nil {
		respondPublicNotFound(w)
		return
	}
	token := r.URL.Query().Get("token")

	var ownerID *uuid.UUID
	if ctxOwnerID := r.Context().Value(middleware.ContextKeyOwnerID); ctxOwnerID != nil {
		if id, err := uuid.Parse(ctxOwnerID.(string)); err == nil {
			ownerID = &id
		}
	}

	view, err := c.visibilityService.AssetView(r.Context(), assetID, token, ownerID)
	if err != nil {
		if errors.Is(err, utils.ErrAssetNotFound) || errors.Is(err, utils.ErrTokenNotFound) {
			respondPublicNotFound(w)
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}
