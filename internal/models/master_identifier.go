package models

import (
	"time"

	"github.com/google/uuid"
)

// PrivacySettings are the four independent disclosure toggles scoping a
// property's public projection. Each flag is strictly all-or-nothing for its
// field group.
type PrivacySettings struct {
	ShowFullAddress bool `json:"show_full_address"`
	ShowContractors bool `json:"show_contractors"`
	ShowDocuments   bool `json:"show_documents"`
	ShowCosts       bool `json:"show_costs"`
}

// DefaultPrivacySettings is what a freshly generated identifier gets when the
// owner never pre-seeded anything: contractors visible, everything else hidden.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{
		ShowFullAddress: false,
		ShowContractors: true,
		ShowDocuments:   false,
		ShowCosts:       false,
	}
}

// MasterIdentifier is the public token (rendered as a QR code by clients)
// granting scoped, unauthenticated access to a property's disclosable history.
// A property has at most one active (revoked_at IS NULL) identifier at any
// instant; regeneration issues a brand-new row rather than reusing this one,
// so revocation is monotonic per token instance.
type MasterIdentifier struct {
	ID         uuid.UUID  `json:"id"`
	PropertyID uuid.UUID  `json:"property_id"`
	Token      string     `json:"token"`
	IssuedAt   time.Time  `json:"issued_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	PrivacySettings
	Versioned
}

func (m *MasterIdentifier) GetID() string { return m.ID.String() }

func (m *MasterIdentifier) IsActive() bool { return m.RevokedAt == nil }

// Settings returns just the embedded privacy toggles.
func (m *MasterIdentifier) Settings() PrivacySettings {
	return PrivacySettings{
		ShowFullAddress: m.ShowFullAddress,
		ShowContractors: m.ShowContractors,
		ShowDocuments:   m.ShowDocuments,
		ShowCosts:       m.ShowCosts,
	}
}

// PrivacySeed holds settings an owner saved before any identifier existed.
// The next generate call consumes it as the starting settings.
type PrivacySeed struct {
	PropertyID uuid.UUID `json:"property_id"`
	PrivacySettings
	UpdatedAt time.Time `json:"updated_at"`
}
