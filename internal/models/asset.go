package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset classification. Only INFRASTRUCTURE assets are ever eligible for
// public disclosure; PERSONAL assets stay owner-only no matter what the
// property's privacy settings say.
const (
	AssetTypeInfrastructure = "INFRASTRUCTURE"
	AssetTypePersonal       = "PERSONAL"
)

type Asset struct {
	ID          uuid.UUID  `json:"id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	AssetType   string     `json:"asset_type"`
	InstallDate *time.Time `json:"install_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Versioned
}

func (a *Asset) GetID() string { return a.ID.String() }

func (a *Asset) IsInfrastructure() bool { return a.AssetType == AssetTypeInfrastructure }

// ValidAssetType reports whether t is one of the two known classifications.
func ValidAssetType(t string) bool {
	return t == AssetTypeInfrastructure || t == AssetTypePersonal
}
