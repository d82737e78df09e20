package clientsync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

// State of a property's identifier as the client currently understands it.
type State string

const (
	StateLoading  State = "LOADING"
	StateUnissued State = "UNISSUED"
	StateActive   State = "ACTIVE"
	StateRevoked  State = "REVOKED"
	StateMutating State = "MUTATING"
)

// Snapshot is the cached identifier view for one property.
type Snapshot struct {
	State     State
	Token     string
	PublicURL string
	Settings  models.PrivacySettings
	RevokedAt *time.Time
	FetchedAt time.Time
}

const (
	snapshotTTL   = 5 * time.Minute
	sweepInterval = 10 * time.Minute
)

/*
Synchronizer keeps per-property identifier snapshots in sync with the
server. Privacy toggles apply optimistically and roll back to the last
known-good snapshot on failure; generate and revoke are never optimistic —
the snapshot sits in MUTATING until the authoritative response lands.

After any successful mutation the cached identifier and dashboard keys are
deleted rather than patched; the next read re-fetches.
*/
type Synchronizer struct {
	api   IdentifierAPI
	store *gocache.Cache

	mu sync.Mutex // serializes mutations per synchronizer
}

func NewSynchronizer(api IdentifierAPI) *Synchronizer {
	return &Synchronizer{
		api:   api,
		store: gocache.New(snapshotTTL, sweepInterval),
	}
}

func identifierKey(propertyID uuid.UUID) string { return "identifier:" + propertyID.String() }
func dashboardKey(propertyID uuid.UUID) string  { return "dashboard:" + propertyID.String() }

// Snapshot returns the cached view, fetching when nothing is cached.
// Until the first fetch resolves callers see StateLoading.
func (s *Synchronizer) Snapshot(ctx context.Context, propertyID uuid.UUID) (Snapshot, error) {
	if cached, ok := s.store.Get(identifierKey(propertyID)); ok {
		return cached.(Snapshot), nil
	}
	return s.refresh(ctx, propertyID)
}

// RefreshOnFocus drops the cached snapshot and re-fetches. The app calls
// this whenever the dashboard regains focus so a revocation made on
// another device shows up.
func (s *Synchronizer) RefreshOnFocus(ctx context.Context, propertyID uuid.UUID) (Snapshot, error) {
	s.invalidate(propertyID)
	return s.refresh(ctx, propertyID)
}

/*
SetPrivacy flips privacy toggles optimistically: the cached settings change
immediately, then the server call confirms or rolls back. The rollback
target is the snapshot as it stood before the toggle, not whatever partial
state the failed call left behind.
*/
func (s *Synchronizer) SetPrivacy(ctx context.Context, propertyID uuid.UUID, patch *dtos.PrivacySettingsPatch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.Snapshot(ctx, propertyID)
	if err != nil {
		return Snapshot{}, err
	}

	optimistic := prev
	optimistic.Settings = patch.ApplyTo(prev.Settings)
	s.store.Set(identifierKey(propertyID), optimistic, gocache.DefaultExpiration)

	settings, err := s.api.UpdatePrivacy(ctx, propertyID, patch)
	if err != nil {
		s.store.Set(identifierKey(propertyID), prev, gocache.DefaultExpiration)
		utils.Logger.WithError(err).WithField("property_id", propertyID).
			Warn("privacy update failed; rolled back to last known-good")
		return prev, err
	}

	// Confirmed. Drop the snapshot so the next read reflects the server's
	// authoritative echo rather than our local merge.
	confirmed := optimistic
	confirmed.Settings = settings
	s.invalidate(propertyID)
	return confirmed, nil
}

// Generate mints a new identifier. Not optimistic: the old token must stay
// visible until the server has actually swapped it.
func (s *Synchronizer) Generate(ctx context.Context, propertyID uuid.UUID, patch *dtos.PrivacySettingsPatch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.Snapshot(ctx, propertyID)
	if err != nil {
		return Snapshot{}, err
	}

	pending := prev
	pending.State = StateMutating
	s.store.Set(identifierKey(propertyID), pending, gocache.DefaultExpiration)

	resp, err := s.api.Generate(ctx, propertyID, patch)
	if err != nil {
		s.store.Set(identifierKey(propertyID), prev, gocache.DefaultExpiration)
		return prev, err
	}

	s.invalidate(propertyID)
	return snapshotFromStatus(resp), nil
}

// Revoke disables the active identifier. Not optimistic either: the UI
// keeps showing the QR until revocation is confirmed.
func (s *Synchronizer) Revoke(ctx context.Context, propertyID uuid.UUID) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.Snapshot(ctx, propertyID)
	if err != nil {
		return Snapshot{}, err
	}

	pending := prev
	pending.State = StateMutating
	s.store.Set(identifierKey(propertyID), pending, gocache.DefaultExpiration)

	if err := s.api.Revoke(ctx, propertyID); err != nil {
		s.store.Set(identifierKey(propertyID), prev, gocache.DefaultExpiration)
		return prev, err
	}

	s.invalidate(propertyID)
	return s.refresh(ctx, propertyID)
}

func (s *Synchronizer) refresh(ctx context.Context, propertyID uuid.UUID) (Snapshot, error) {
	resp, err := s.api.FetchStatus(ctx, propertyID)
	if err != nil {
		return Snapshot{State: StateLoading}, err
	}
	snap := snapshotFromStatus(resp)
	s.store.Set(identifierKey(propertyID), snap, gocache.DefaultExpiration)
	return snap, nil
}

func (s *Synchronizer) invalidate(propertyID uuid.UUID) {
	s.store.Delete(identifierKey(propertyID))
	s.store.Delete(dashboardKey(propertyID))
}

// SetDashboard caches an arbitrary dashboard payload under the property's
// dashboard key; it is invalidated together with the identifier snapshot.
func (s *Synchronizer) SetDashboard(propertyID uuid.UUID, payload any) {
	s.store.Set(dashboardKey(propertyID), payload, gocache.DefaultExpiration)
}

func (s *Synchronizer) Dashboard(propertyID uuid.UUID) (any, bool) {
	return s.store.Get(dashboardKey(propertyID))
}

func snapshotFromStatus(resp *dtos.IdentifierStatusResponse) Snapshot {
	snap := Snapshot{
		State:     StateUnissued,
		RevokedAt: resp.RevokedAt,
		FetchedAt: time.Now(),
	}
	if resp.PublicVisibility != nil {
		snap.Settings = *resp.PublicVisibility
	} else {
		snap.Settings = models.DefaultPrivacySettings()
	}
	switch {
	case resp.MasterIdentifier != nil:
		snap.State = StateActive
		snap.Token = *resp.MasterIdentifier
		snap.PublicURL = resp.PublicURL
	case resp.RevokedAt != nil:
		snap.State = StateRevoked
	}
	return snap
}
