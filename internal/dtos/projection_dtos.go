package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
)

/*
ProjectedView is the field-filtered view of a property returned to a given
viewer. Both the owner path and the public path are built by the same
resolver, so the two can never silently diverge.
*/
type ProjectedView struct {
	Property  PropertyView   `json:"property"`
	Assets    []AssetView    `json:"assets"`
	Documents []DocumentView `json:"documents"`

	// Owner-only extras. PrivacySettings is the editable settings object;
	// nil on public views.
	IsOwner         bool                    `json:"is_owner"`
	PrivacySettings *models.PrivacySettings `json:"privacy_settings,omitempty"`
	RevokedAt       *time.Time              `json:"revoked_at,omitempty"`
}

// PropertyView reduces to city/state only when the full address is not
// disclosable. The street is never partially masked, only omitted.
type PropertyView struct {
	PropertyID   uuid.UUID `json:"property_id"`
	PropertyName string    `json:"property_name"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zip_code,omitempty"`
}

// AssetView always carries a non-nil History: an infrastructure asset with
// zero disclosable events still appears, with an empty history.
type AssetView struct {
	AssetID     uuid.UUID   `json:"asset_id"`
	Name        string      `json:"name"`
	Category    string      `json:"category,omitempty"`
	AssetType   string      `json:"asset_type"`
	InstallDate *time.Time  `json:"install_date,omitempty"`
	History     []EventView `json:"history"`
}

type EventView struct {
	EventID         uuid.UUID `json:"event_id"`
	EventType       string    `json:"event_type"`
	Description     string    `json:"description,omitempty"`
	ContractorName  string    `json:"contractor_name,omitempty"`
	ContractorPhone string    `json:"contractor_phone,omitempty"`
	Amount          *float64  `json:"amount,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ProjectedAssetView is the single-asset variant served by
// GET /api/v1/public/asset/{assetId}.
type ProjectedAssetView struct {
	Asset     AssetView      `json:"asset"`
	Documents []DocumentView `json:"documents"`
	IsOwner   bool           `json:"is_owner"`
}

type DocumentView struct {
	DocumentID uuid.UUID  `json:"document_id"`
	AssetID    *uuid.UUID `json:"asset_id,omitempty"`
	Title      string     `json:"title"`
	StorageKey string     `json:"storage_key"`
	Amount     *float64   `json:"amount,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
}
