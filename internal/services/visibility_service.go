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

/*
VisibilityService assembles a property's data and hands it to the projection
resolver. The owner endpoint and the public endpoint both come through here;
only the Viewer differs.
*/
type VisibilityService struct {
	identifiers *IdentifierService
	propRepo    repositories.PropertyRepository
	assetRepo   repositories.AssetRepository
	eventRepo   repositories.ServiceEventRepository
	docRepo     repositories.DocumentRepository
	idRepo      repositories.MasterIdentifierRepository
}

func NewVisibilityService(
	identifiers *IdentifierService,
	propRepo repositories.PropertyRepository,
	assetRepo repositories.AssetRepository,
	eventRepo repositories.ServiceEventRepository,
	docRepo repositories.DocumentRepository,
	idRepo repositories.MasterIdentifierRepository,
) *VisibilityService {
	return &VisibilityService{
		identifiers: identifiers,
		propRepo:    propRepo,
		assetRepo:   assetRepo,
		eventRepo:   eventRepo,
		docRepo:     docRepo,
		idRepo:      idRepo,
	}
}

// PublicPropertyView serves GET /public/property/{token}. Unknown and
// revoked tokens surface identically as ErrTokenNotFound.
func (s *VisibilityService) PublicPropertyView(ctx context.Context, token string) (*dtos.ProjectedView, error) {
	prop, mi, err := s.identifiers.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, PublicViewer(), prop, mi)
}

// OwnerPropertyView serves the owner's full projection of their property.
func (s *VisibilityService) OwnerPropertyView(ctx context.Context, propID, ownerID uuid.UUID) (*dtos.ProjectedView, error) {
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

	mi, err := s.idRepo.GetLatestByPropertyID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("could not load identifier: %w", err)
	}
	return s.project(ctx, OwnerViewer(ownerID), prop, mi)
}

/*
AssetView serves GET /public/asset/{assetId} at single-asset granularity.
An owner session gets the full view of their own asset; anonymous callers
must present the property's token and get the projected view. Assets that
are not disclosable to the caller look exactly like assets that do not
exist.
*/
func (s *VisibilityService) AssetView(
	ctx context.Context,
	assetID uuid.UUID,
	token string,
	ownerID *uuid.UUID,
) (*dtos.ProjectedAssetView, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve asset: %w", err)
	}
	if asset == nil {
		return nil, utils.ErrAssetNotFound
	}

	prop, err := s.propRepo.GetByID(ctx, asset.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve property: %w", err)
	}
	if prop == nil {
		return nil, utils.ErrAssetNotFound
	}

	events, err := s.eventRepo.ListByAssetID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}
	docs, err := s.docRepo.ListByAssetID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("could not list documents: %w", err)
	}

	if ownerID != nil && prop.OwnerID == *ownerID {
		return ResolveAssetProjection(OwnerViewer(*ownerID), prop, nil, asset, events, docs)
	}

	tokenProp, mi, err := s.identifiers.ResolveToken(ctx, token)
	if err != nil {
		return nil, utils.ErrAssetNotFound
	}
	if tokenProp.ID != prop.ID {
		return nil, utils.ErrAssetNotFound
	}
	view, err := ResolveAssetProjection(PublicViewer(), prop, mi, asset, events, docs)
	if err != nil {
		return nil, utils.ErrAssetNotFound
	}
	return view, nil
}

// project loads the remaining property data and runs the pure resolver.
func (s *VisibilityService) project(
	ctx context.Context,
	viewer Viewer,
	prop *models.Property,
	mi *models.MasterIdentifier,
) (*dtos.ProjectedView, error) {
	assets, err := s.assetRepo.ListByPropertyID(ctx, prop.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list assets: %w", err)
	}

	assetIDs := make([]uuid.UUID, len(assets))
	for i, a := range assets {
		assetIDs[i] = a.ID
	}
	events, err := s.eventRepo.ListByAssetIDs(ctx, assetIDs)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}
	eventsByAsset := make(map[uuid.UUID][]*models.ServiceEvent, len(assets))
	for _, e := range events {
		eventsByAsset[e.AssetID] = append(eventsByAsset[e.AssetID], e)
	}

	docs, err := s.docRepo.ListByPropertyID(ctx, prop.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list documents: %w", err)
	}

	return ResolveProjection(viewer, prop, mi, assets, eventsByAsset, docs)
}
