package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreatePropertyRequest struct {
	PropertyName string `json:"property_name" validate:"required"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zip_code" validate:"required"`
}

type CreateAssetRequest struct {
	Name        string     `json:"name" validate:"required"`
	Category    string     `json:"category"`
	AssetType   string     `json:"asset_type" validate:"required,oneof=INFRASTRUCTURE PERSONAL"`
	InstallDate *time.Time `json:"install_date,omitempty"`
}

// UpdateAssetRequest: nil means "leave as is". Classification changes come
// through here and are owner-only.
type UpdateAssetRequest struct {
	Name        *string    `json:"name,omitempty"`
	Category    *string    `json:"category,omitempty"`
	AssetType   *string    `json:"asset_type,omitempty" validate:"omitempty,oneof=INFRASTRUCTURE PERSONAL"`
	InstallDate *time.Time `json:"install_date,omitempty"`
}

type CreateEventRequest struct {
	EventType       string    `json:"event_type" validate:"required"`
	Description     string    `json:"description"`
	ContractorName  string    `json:"contractor_name"`
	ContractorPhone string    `json:"contractor_phone"`
	Amount          *float64  `json:"amount,omitempty"`
	OccurredAt      time.Time `json:"occurred_at" validate:"required"`
}

type CreateDocumentRequest struct {
	Title      string     `json:"title" validate:"required"`
	StorageKey string     `json:"storage_key" validate:"required"`
	AssetID    *uuid.UUID `json:"asset_id,omitempty"`
	Amount     *float64   `json:"amount,omitempty"`
}
