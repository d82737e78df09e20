package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/middleware"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/services"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

type IdentifierController struct {
	identifierService *services.IdentifierService
	publicOrigin      string
}

func NewIdentifierController(identifierService *services.IdentifierService, publicOrigin string) *IdentifierController {
	return &IdentifierController{
		identifierService: identifierService,
		publicOrigin:      publicOrigin,
	}
}

func getOwnerID(r *http.Request) (uuid.UUID, error) {
	ctxOwnerID := r.Context().Value(middleware.ContextKeyOwnerID)
	if ctxOwnerID == nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Missing ownerID in context",
		}
	}
	ownerID, err := uuid.Parse(ctxOwnerID.(string))
	if err != nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    "Invalid ownerID format",
			Err:        err,
		}
	}
	return ownerID, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    "Invalid " + name + " format",
			Err:        err,
		}
	}
	return id, nil
}

// respondDomainError maps service-layer sentinels to HTTP responses.
// Everything unmapped falls through to HandleAppError.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, utils.ErrPropertyNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not found", nil)
	case errors.Is(err, utils.ErrAssetNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Asset not found", nil)
	case errors.Is(err, utils.ErrNotOwner):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, "You do not own this property", nil)
	case errors.Is(err, utils.ErrIdentifierRevoked):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Identifier is revoked; regenerate to modify settings", nil)
	case errors.Is(err, utils.ErrInvalidAssetType):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid asset type", nil)
	case errors.Is(err, utils.ErrIdentifierConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Identifier changed concurrently; retry", nil)
	default:
		utils.HandleAppError(w, err)
	}
}

func (c *IdentifierController) publicURL(token string) string {
	return fmt.Sprintf("%s/property/public/%s", c.publicOrigin, token)
}

// GET /api/v1/identifier/{propertyId}
func (c *IdentifierController) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getOwnerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	propID, err := pathUUID(r, "propertyId")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	status, err := c.identifierService.Status(r.Context(), propID, ownerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if status.MasterIdentifier != nil {
		status.PublicURL = c.publicURL(*status.MasterIdentifier)
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}

// POST /api/v1/identifier/{propertyId}
//
// regenerate=true (or no identifier yet) mints a new token, revoking any
// active one atomically. Without regenerate this is a settings update.
func (c *IdentifierController) MutateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getOwnerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	propID, err := pathUUID(r, "propertyId")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.IdentifierMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if req.Regenerate {
		mi, err := c.identifierService.Generate(r.Context(), propID, ownerID, req.PrivacySettings)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		token := mi.Token
		settings := mi.Settings()
		utils.RespondWithJSON(w, http.StatusOK, dtos.IdentifierStatusResponse{
			MasterIdentifier: &token,
			PublicVisibility: &settings,
			PublicURL:        c.publicURL(token),
		})
		return
	}

	if _, err := c.identifierService.UpdatePrivacy(r.Context(), propID, ownerID, req.PrivacySettings); err != nil {
		respondDomainError(w, err)
		return
	}

	// Echo the full post-update state, same shape as the GET.
	status, err := c.identifierService.Status(r.Context(), propID, ownerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if status.MasterIdentifier != nil {
		status.PublicURL = c.publicURL(*status.MasterIdentifier)
	}
	utils.RespondWithJSON(w, http.StatusOK, status)
}

// POST /api/v1/identifier/{propertyId}/revoke
func (c *IdentifierController) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getOwnerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	propID, err := pathUUID(r, "propertyId")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.identifierService.Revoke(r.Context(), propID, ownerID); err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{
		Message: "Identifier revoked",
		ID:      propID.String(),
	})
}
