package services

import (
	"github.com/google/uuid"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

/*
The visibility resolver is a pure function: given a viewer, a property and
its data, it computes exactly which fields are disclosed. Two independent
axes combine here — the per-asset classification (infrastructure vs.
personal) and the property's privacy toggles — and both the owner path and
the public path go through this one function, so the two views cannot
silently diverge.

No field is ever partially redacted: a toggle is all-or-nothing for its
field group.
*/

// Viewer is either the property's authenticated owner or an anonymous holder
// of a public token.
type Viewer struct {
	OwnerID uuid.UUID
	IsOwner bool
}

func OwnerViewer(ownerID uuid.UUID) Viewer { return Viewer{OwnerID: ownerID, IsOwner: true} }
func PublicViewer() Viewer                 { return Viewer{} }

// ResolveProjection computes the property-level projection.
//
// Owner of this property → full record, all assets (tagged with their
// classification so the UI can distinguish), full document list, editable
// settings. Anyone else → the public projection, which requires an active
// identifier; a nil or revoked identifier resolves to ErrTokenNotFound.
func ResolveProjection(
	viewer Viewer,
	property *models.Property,
	identifier *models.MasterIdentifier,
	assets []*models.Asset,
	eventsByAsset map[uuid.UUID][]*models.ServiceEvent,
	documents []*models.Document,
) (*dtos.ProjectedView, error) {
	if viewer.IsOwner && viewer.OwnerID == property.OwnerID {
		return ownerProjection(property, identifier, assets, eventsByAsset, documents), nil
	}

	if identifier == nil || !identifier.IsActive() || identifier.PropertyID != property.ID {
		return nil, utils.ErrTokenNotFound
	}
	return publicProjection(property, identifier.Settings(), assets, eventsByAsset, documents), nil
}

// ResolveAssetProjection applies the same rules at single-asset granularity.
// A PERSONAL asset requested by a non-owner resolves to ErrAssetNotFound —
// indistinguishable from an asset that does not exist.
func ResolveAssetProjection(
	viewer Viewer,
	property *models.Property,
	identifier *models.MasterIdentifier,
	asset *models.Asset,
	events []*models.ServiceEvent,
	documents []*models.Document,
) (*dtos.ProjectedAssetView, error) {
	if viewer.IsOwner && viewer.OwnerID == property.OwnerID {
		return &dtos.ProjectedAssetView{
			Asset:     assetView(asset, events, fullEventView),
			Documents: documentViews(documents, true),
			IsOwner:   true,
		}, nil
	}

	if identifier == nil || !identifier.IsActive() || identifier.PropertyID != property.ID {
		return nil, utils.ErrTokenNotFound
	}
	if !asset.IsInfrastructure() {
		return nil, utils.ErrAssetNotFound
	}

	s := identifier.Settings()
	view := &dtos.ProjectedAssetView{
		Asset: assetView(asset, events, publicEventView(s)),
	}
	if s.ShowDocuments {
		view.Documents = documentViews(documents, s.ShowCosts)
	} else {
		view.Documents = []dtos.DocumentView{}
	}
	return view, nil
}

/* ---------- owner side ---------- */

func ownerProjection(
	property *models.Property,
	identifier *models.MasterIdentifier,
	assets []*models.Asset,
	eventsByAsset map[uuid.UUID][]*models.ServiceEvent,
	documents []*models.Document,
) *dtos.ProjectedView {
	view := &dtos.ProjectedView{
		Property: dtos.PropertyView{
			PropertyID:   property.ID,
			PropertyName: property.PropertyName,
			Address:      property.Address,
			City:         property.City,
			State:        property.State,
			ZipCode:      property.ZipCode,
		},
		Assets:    make([]dtos.AssetView, 0, len(assets)),
		Documents: documentViews(documents, true),
		IsOwner:   true,
	}
	for _, a := range assets {
		view.Assets = append(view.Assets, assetView(a, eventsByAsset[a.ID], fullEventView))
	}
	if identifier != nil {
		settings := identifier.Settings()
		view.PrivacySettings = &settings
		view.RevokedAt = identifier.RevokedAt
	}
	return view
}

/* ---------- public side ---------- */

func publicProjection(
	property *models.Property,
	s models.PrivacySettings,
	assets []*models.Asset,
	eventsByAsset map[uuid.UUID][]*models.ServiceEvent,
	documents []*models.Document,
) *dtos.ProjectedView {
	propView := dtos.PropertyView{
		PropertyID:   property.ID,
		PropertyName: property.PropertyName,
		City:         property.City,
		State:        property.State,
	}
	if s.ShowFullAddress {
		propView.Address = property.Address
		propView.ZipCode = property.ZipCode
	}

	view := &dtos.ProjectedView{
		Property:  propView,
		Assets:    make([]dtos.AssetView, 0, len(assets)),
		Documents: []dtos.DocumentView{},
	}

	for _, a := range assets {
		if !a.IsInfrastructure() {
			continue
		}
		view.Assets = append(view.Assets, assetView(a, eventsByAsset[a.ID], publicEventView(s)))
	}

	if s.ShowDocuments {
		view.Documents = documentViews(documents, s.ShowCosts)
	}
	return view
}

/* ---------- shared builders ---------- */

func assetView(a *models.Asset, events []*models.ServiceEvent, toView func(*models.ServiceEvent) dtos.EventView) dtos.AssetView {
	// History is always non-nil: absence of history is not absence of the asset.
	history := make([]dtos.EventView, 0, len(events))
	for _, e := range events {
		history = append(history, toView(e))
	}
	return dtos.AssetView{
		AssetID:     a.ID,
		Name:        a.Name,
		Category:    a.Category,
		AssetType:   a.AssetType,
		InstallDate: a.InstallDate,
		History:     history,
	}
}

func fullEventView(e *models.ServiceEvent) dtos.EventView {
	return dtos.EventView{
		EventID:         e.ID,
		EventType:       e.EventType,
		Description:     e.Description,
		ContractorName:  e.ContractorName,
		ContractorPhone: e.ContractorPhone,
		Amount:          e.Amount,
		OccurredAt:      e.OccurredAt,
	}
}

func publicEventView(s models.PrivacySettings) func(*models.ServiceEvent) dtos.EventView {
	return func(e *models.ServiceEvent) dtos.EventView {
		view := dtos.EventView{
			EventID:     e.ID,
			EventType:   e.EventType,
			Description: e.Description,
			OccurredAt:  e.OccurredAt,
		}
		if s.ShowContractors {
			view.ContractorName = e.ContractorName
			view.ContractorPhone = e.ContractorPhone
		}
		if s.ShowCosts {
			view.Amount = e.Amount
		}
		return view
	}
}

func documentViews(documents []*models.Document, showCosts bool) []dtos.DocumentView {
	out := make([]dtos.DocumentView, 0, len(documents))
	for _, d := range documents {
		view := dtos.DocumentView{
			DocumentID: d.ID,
			AssetID:    d.AssetID,
			Title:      d.Title,
			StorageKey: d.StorageKey,
			UploadedAt: d.UploadedAt,
		}
		if showCosts {
			view.Amount = d.Amount
		}
		out = append(out, view)
	}
	return out
}
