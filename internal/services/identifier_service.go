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
IdentifierService owns the master-identifier lifecycle (generate / revoke /
resolve) and the privacy-settings store. Any mutation here changes what the
visibility resolver discloses on the very next request.
*/
type IdentifierService struct {
	propRepo repositories.PropertyRepository
	idRepo   repositories.MasterIdentifierRepository
	seedRepo repositories.PrivacySeedRepository
}

func NewIdentifierService(
	propRepo repositories.PropertyRepository,
	idRepo repositories.MasterIdentifierRepository,
	seedRepo repositories.PrivacySeedRepository,
) *IdentifierService {
	return &IdentifierService{propRepo: propRepo, idRepo: idRepo, seedRepo: seedRepo}
}

// ownedProperty loads the property and enforces owner scoping.
func (s *IdentifierService) ownedProperty(ctx context.Context, propID, ownerID uuid.UUID) (*models.Property, error) {
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

/*
Generate mints a new master identifier for the property. If one is already
active it is revoked inside the same transaction — holders of the old QR
sticker lose access irrecoverably, which is why the UI treats this as a
destructive action.

Starting settings, in precedence order: the supplied patch, then the settings
of the most recent identifier (active or revoked), then any pre-seeded
settings, then the defaults.
*/
func (s *IdentifierService) Generate(
	ctx context.Context,
	propID, ownerID uuid.UUID,
	patch *dtos.PrivacySettingsPatch,
) (*models.MasterIdentifier, error) {
	if _, err := s.ownedProperty(ctx, propID, ownerID); err != nil {
		return nil, err
	}

	base := models.DefaultPrivacySettings()
	latest, err := s.idRepo.GetLatestByPropertyID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("could not load current identifier: %w", err)
	}
	if latest != nil {
		base = latest.Settings()
	} else {
		seed, err := s.seedRepo.GetByPropertyID(ctx, propID)
		if err != nil {
			return nil, fmt.Errorf("could not load privacy seed: %w", err)
		}
		if seed != nil {
			base = seed.PrivacySettings
		}
	}

	mi := &models.MasterIdentifier{
		ID:              uuid.New(),
		PropertyID:      propID,
		Token:           utils.NewIdentifierToken(),
		PrivacySettings: patch.ApplyTo(base),
	}
	if err := s.idRepo.Issue(ctx, mi); err != nil {
		return nil, fmt.Errorf("could not issue identifier: %w", err)
	}

	utils.Logger.WithField("property_id", propID).Info("master identifier issued")
	return mi, nil
}

// Revoke stamps the active identifier as revoked. Revoking when nothing is
// active is a no-op, not an error.
func (s *IdentifierService) Revoke(ctx context.Context, propID, ownerID uuid.UUID) error {
	if _, err := s.ownedProperty(ctx, propID, ownerID); err != nil {
		return err
	}

	n, err := s.idRepo.Revoke(ctx, propID)
	if err != nil {
		return fmt.Errorf("could not revoke identifier: %w", err)
	}
	if n == 0 {
		utils.Logger.WithField("property_id", propID).Debug("revoke: nothing active, no-op")
		return nil
	}

	utils.Logger.WithField("property_id", propID).Info("master identifier revoked")
	return nil
}

/*
UpdatePrivacy merges the supplied toggles into the property's settings and
echoes the full result. Three cases:

  - active identifier → last-write-wins row update
  - revoked identifier → rejected; the owner must regenerate to modify
  - never issued → stored as the pre-seed for the next generate
*/
func (s *IdentifierService) UpdatePrivacy(
	ctx context.Context,
	propID, ownerID uuid.UUID,
	patch *dtos.PrivacySettingsPatch,
) (models.PrivacySettings, error) {
	var zero models.PrivacySettings

	if _, err := s.ownedProperty(ctx, propID, ownerID); err != nil {
		return zero, err
	}

	latest, err := s.idRepo.GetLatestByPropertyID(ctx, propID)
	if err != nil {
		return zero, fmt.Errorf("could not load current identifier: %w", err)
	}

	if latest == nil {
		// Pre-seeding: accepted and stored as the default for the next generate.
		base := models.DefaultPrivacySettings()
		seed, err := s.seedRepo.GetByPropertyID(ctx, propID)
		if err != nil {
			return zero, fmt.Errorf("could not load privacy seed: %w", err)
		}
		if seed != nil {
			base = seed.PrivacySettings
		}
		merged := patch.ApplyTo(base)
		if err := s.seedRepo.Upsert(ctx, &models.PrivacySeed{
			PropertyID:      propID,
			PrivacySettings: merged,
		}); err != nil {
			return zero, fmt.Errorf("could not store privacy seed: %w", err)
		}
		return merged, nil
	}

	if !latest.IsActive() {
		return zero, utils.ErrIdentifierRevoked
	}

	merged := patch.ApplyTo(latest.Settings())
	n, err := s.idRepo.UpdateSettings(ctx, propID, merged)
	if err != nil {
		return zero, fmt.Errorf("could not update privacy settings: %w", err)
	}
	if n == 0 {
		// Another session revoked between our read and write.
		return zero, utils.ErrIdentifierRevoked
	}
	return merged, nil
}

/*
Status is the owner-facing identifier state. This is the only place that may
distinguish "revoked" from "never issued" — the public resolution path
collapses both into the same not-found.
*/
func (s *IdentifierService) Status(ctx context.Context, propID, ownerID uuid.UUID) (*dtos.IdentifierStatusResponse, error) {
	if _, err := s.ownedProperty(ctx, propID, ownerID); err != nil {
		return nil, err
	}

	latest, err := s.idRepo.GetLatestByPropertyID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("could not load current identifier: %w", err)
	}

	resp := &dtos.IdentifierStatusResponse{}
	if latest == nil {
		// Never issued. Surface any pre-seeded settings for display.
		seed, err := s.seedRepo.GetByPropertyID(ctx, propID)
		if err != nil {
			return nil, fmt.Errorf("could not load privacy seed: %w", err)
		}
		if seed != nil {
			settings := seed.PrivacySettings
			resp.PublicVisibility = &settings
		}
		return resp, nil
	}

	settings := latest.Settings()
	resp.PublicVisibility = &settings
	resp.RevokedAt = latest.RevokedAt
	if latest.IsActive() {
		token := latest.Token
		resp.MasterIdentifier = &token
	}
	return resp, nil
}

// ResolveToken maps a public token to its property and identifier. Unknown
// tokens and revoked tokens come back as the same ErrTokenNotFound so a
// public caller cannot learn revocation timing.
func (s *IdentifierService) ResolveToken(ctx context.Context, token string) (*models.Property, *models.MasterIdentifier, error) {
	mi, err := s.idRepo.FindActiveByToken(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("could not resolve token: %w", err)
	}
	if mi == nil {
		return nil, nil, utils.ErrTokenNotFound
	}

	prop, err := s.propRepo.GetByID(ctx, mi.PropertyID)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load property for token: %w", err)
	}
	if prop == nil {
		return nil, nil, utils.ErrTokenNotFound
	}
	return prop, mi, nil
}
