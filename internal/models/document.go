package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is metadata about a stored file (receipt, manual, warranty).
// The bytes themselves live behind the external document-storage service;
// StorageKey is the opaque reference handed to it.
type Document struct {
	ID         uuid.UUID  `json:"id"`
	PropertyID uuid.UUID  `json:"property_id"`
	AssetID    *uuid.UUID `json:"asset_id,omitempty"`
	Title      string     `json:"title"`
	StorageKey string     `json:"storage_key"`
	Amount     *float64   `json:"amount,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
}
