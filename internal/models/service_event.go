package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceEvent is one entry in an asset's service history: an install, a
// repair, an inspection. Contractor identity and cost live here and are the
// fields the privacy toggles strip from public projections.
type ServiceEvent struct {
	ID              uuid.UUID `json:"id"`
	AssetID         uuid.UUID `json:"asset_id"`
	EventType       string    `json:"event_type"`
	Description     string    `json:"description,omitempty"`
	ContractorName  string    `json:"contractor_name,omitempty"`
	ContractorPhone string    `json:"contractor_phone,omitempty"`
	Amount          *float64  `json:"amount,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// Event types.
const (
	EventTypeInstall    = "install"
	EventTypeRepair     = "repair"
	EventTypeService    = "service"
	EventTypeInspection = "inspection"
)
