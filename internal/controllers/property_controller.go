package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/services"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

type PropertyController struct {
	propertyService   *services.PropertyService
	visibilityService *services.VisibilityService
	validate          *validator.Validate
}

func NewPropertyController(propertyService *services.PropertyService, visibilityService *services.VisibilityService) *PropertyController {
	return &PropertyController{
		propertyService:   propertyService,
		visibilityService: visibilityService,
		validate:          validator.New(),
	}
}

// POST /api/v1/properties
func (c *PropertyController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getOwnerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	prop, err := c.propertyService.CreateProperty(r.Context(), ownerID, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, prop)
}

// GET /api/v1/properties
func (c *PropertyController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getOwnerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	props, err := c.propertyService.ListProperties(r.Context(), ownerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, props)
}

// GET /api/v1/properties/{propertyId}
//
// The owner's full projection, same shape the public endpoint serves so the
// dashboard can preview what a scan would show.
func (c *PropertyController) GetHandler(w http.ResponseWriter, r *http.Request) {
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

	view, err := c.visibilityService.OwnerPropertyView(r.Context(), propID, ownerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

// POST /api/v1/properties/{propertyId}/documents
func (c *PropertyController) CreateDocumentHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	doc, err := c.propertyService.CreateDocument(r.Context(), propID, ownerID, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, doc)
}
