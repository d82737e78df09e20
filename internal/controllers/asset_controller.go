package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/services"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

type AssetController struct {
	assetService *services.AssetService
	validate     *validator.Validate
}

func NewAssetController(assetService *services.AssetService) *AssetController {
	return &AssetController{
		assetService: assetService,
		validate:     validator.New(),
	}
}

// POST /api/v1/properties/{propertyId}/assets
func (c *AssetController) CreateHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	asset, err := c.assetService.CreateAsset(r.Context(), propID, ownerID, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

// PATCH /api/v1/assets/{assetId}
func (c *AssetController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getOwnerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	assetID, err := pathUUID(r, "assetId")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	asset, err := c.assetService.UpdateAsset(r.Context(), assetID, ownerID, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// POST /api/v1/assets/{assetId}/events
func (c *AssetController) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getOwnerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	assetID, err := pathUUID(r, "assetId")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	event, err := c.assetService.CreateEvent(r.Context(), assetID, ownerID, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, event)
}
