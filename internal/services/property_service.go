package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/repositories"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

type PropertyService struct {
	propRepo repositories.PropertyRepository
	docRepo  repositories.DocumentRepository
}

func NewPropertyService(propRepo repositories.PropertyRepository, docRepo repositories.DocumentRepository) *PropertyService {
	return &PropertyService{propRepo: propRepo, docRepo: docRepo}
}

func (s *PropertyService) CreateProperty(ctx context.Context, ownerID uuid.UUID, req *dtos.CreatePropertyRequest) (*models.Property, error) {
	prop := &models.Property{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		PropertyName: req.PropertyName,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
	}
	if err := s.propRepo.Create(ctx, prop); err != nil {
		return nil, fmt.Errorf("could not create property: %w", err)
	}
	return prop, nil
}

func (s *PropertyService) GetProperty(ctx context.Context, propID, ownerID uuid.UUID) (*models.Property, error) {
	return s.ownedProperty(ctx, propID, ownerID)
}

func (s *PropertyService) ListProperties(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	props, err := s.propRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("could not list properties: %w", err)
	}
	return props, nil
}

func (s *PropertyService) CreateDocument(ctx context.Context, propID, ownerID uuid.UUID, req *dtos.CreateDocumentRequest) (*models.Document, error) {
	if _, err := s.ownedProperty(ctx, propID, ownerID); err != nil {
		return nil, err
	}
	doc := &models.Document{
		ID:         uuid.New(),
		PropertyID: propID,
		AssetID:    req.AssetID,
		Title:      req.Title,
		StorageKey: req.StorageKey,
		Amount:     req.Amount,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("could not create document: %w", err)
	}
	return doc, nil
}

func (s *PropertyService) ownedProperty(ctx context.Context, propID, ownerID uuid.UUID) (*models.Property, error) {
	prop, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve property: %w", err)
	}
	if prop == nil {
		return nil, utils.ErrPropertyNotFound
	}
	if prop.OwnerID != ownerID {
		return nil, utils.ErrNotOwner
	}
	return prop, nil
}
