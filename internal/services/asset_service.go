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

type AssetService struct {
	propRepo  repositories.PropertyRepository
	assetRepo repositories.AssetRepository
	eventRepo repositories.ServiceEventRepository
}

func NewAssetService(
	propRepo repositories.PropertyRepository,
	assetRepo repositories.AssetRepository,
	eventRepo repositories.ServiceEventRepository,
) *AssetService {
	return &AssetService{propRepo: propRepo, assetRepo: assetRepo, eventRepo: eventRepo}
}

func (s *AssetService) CreateAsset(ctx context.Context, propID, ownerID uuid.UUID, req *dtos.CreateAssetRequest) (*models.Asset, error) {
	if _, err := s.ownedProperty(ctx, propID, ownerID); err != nil {
		return nil, err
	}
	if !models.ValidAssetType(req.AssetType) {
		return nil, utils.ErrInvalidAssetType
	}
	asset := &models.Asset{
		ID:          uuid.New(),
		PropertyID:  propID,
		Name:        req.Name,
		Category:    req.Category,
		AssetType:   req.AssetType,
		InstallDate: req.InstallDate,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("could not create asset: %w", err)
	}
	return asset, nil
}

// UpdateAsset applies a partial update under optimistic locking. Changing
// asset_type reclassifies the asset; the next projection picks it up with
// no identifier change required.
func (s *AssetService) UpdateAsset(ctx context.Context, assetID, ownerID uuid.UUID, req *dtos.UpdateAssetRequest) (*models.Asset, error) {
	asset, err := s.ownedAsset(ctx, assetID, ownerID)
	if err != nil {
		return nil, err
	}
	if req.AssetType != nil && !models.ValidAssetType(*req.AssetType) {
		return nil, utils.ErrInvalidAssetType
	}

	err = s.assetRepo.UpdateWithRetry(ctx, asset.ID, func(a *models.Asset) error {
		if req.Name != nil {
			a.Name = *req.Name
		}
		if req.Category != nil {
			a.Category = *req.Category
		}
		if req.AssetType != nil {
			a.AssetType = *req.AssetType
		}
		if req.InstallDate != nil {
			a.InstallDate = req.InstallDate
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not update asset: %w", err)
	}
	return s.assetRepo.GetByID(ctx, assetID)
}

func (s *AssetService) CreateEvent(ctx context.Context, assetID, ownerID uuid.UUID, req *dtos.CreateEventRequest) (*models.ServiceEvent, error) {
	if _, err := s.ownedAsset(ctx, assetID, ownerID); err != nil {
		return nil, err
	}
	event := &models.ServiceEvent{
		ID:              uuid.New(),
		AssetID:         assetID,
		EventType:       req.EventType,
		Description:     req.Description,
		ContractorName:  req.ContractorName,
		ContractorPhone: req.ContractorPhone,
		Amount:          req.Amount,
		OccurredAt:      req.OccurredAt,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("could not create event: %w", err)
	}
	return event, nil
}

func (s *AssetService) ListAssets(ctx context.Context, propID, ownerID uuid.UUID) ([]*models.Asset, error) {
	if _, err := s.ownedProperty(ctx, propID, ownerID); err != nil {
		return nil, err
	}
	assets, err := s.assetRepo.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("could not list assets: %w", err)
	}
	return assets, nil
}

func (s *AssetService) ownedProperty(ctx context.Context, propID, ownerID uuid.UUID) (*models.Property, error) {
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

func (s *AssetService) ownedAsset(ctx context.Context, assetID, ownerID uuid.UUID) (*models.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve asset: %w", err)
	}
	if asset == nil {
		return nil, utils.ErrAssetNotFound
	}
	if _, err := s.ownedProperty(ctx, asset.PropertyID, ownerID); err != nil {
		// Hide other owners' assets entirely.
		return nil, utils.ErrAssetNotFound
	}
	return asset, nil
}
