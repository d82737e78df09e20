package dtos

import (
	"time"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
)

/*
PrivacySettingsPatch is a partial update: nil pointer means "leave as is".
The response always echoes the full resulting settings so clients can
reconcile optimistic state.
*/
type PrivacySettingsPatch struct {
	ShowFullAddress *bool `json:"show_full_address,omitempty"`
	ShowContractors *bool `json:"show_contractors,omitempty"`
	ShowDocuments   *bool `json:"show_documents,omitempty"`
	ShowCosts       *bool `json:"show_costs,omitempty"`
}

// ApplyTo merges the supplied fields onto base and returns the result.
func (p *PrivacySettingsPatch) ApplyTo(base models.PrivacySettings) models.PrivacySettings {
	if p == nil {
		return base
	}
	if p.ShowFullAddress != nil {
		base.ShowFullAddress = *p.ShowFullAddress
	}
	if p.ShowContractors != nil {
		base.ShowContractors = *p.ShowContractors
	}
	if p.ShowDocuments != nil {
		base.ShowDocuments = *p.ShowDocuments
	}
	if p.ShowCosts != nil {
		base.ShowCosts = *p.ShowCosts
	}
	return base
}

/*
IdentifierMutationRequest is the body of POST /api/v1/identifier/{propertyId}.
regenerate=true forces a (re)generate; otherwise only the privacy settings
are updated.
*/
type IdentifierMutationRequest struct {
	PrivacySettings *PrivacySettingsPatch `json:"privacy_settings,omitempty"`
	Regenerate      bool                  `json:"regenerate,omitempty"`
}

/*
IdentifierStatusResponse is the owner-facing identifier state. A null
MasterIdentifier with a null RevokedAt means "never issued"; a null
MasterIdentifier with RevokedAt set means "revoked" — the public side never
sees this distinction.
*/
type IdentifierStatusResponse struct {
	MasterIdentifier *string                 `json:"master_identifier"`
	PublicVisibility *models.PrivacySettings `json:"public_visibility"`
	RevokedAt        *time.Time              `json:"revoked_at"`
	PublicURL        string                  `json:"public_url,omitempty"`
}

type ConfirmationResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
