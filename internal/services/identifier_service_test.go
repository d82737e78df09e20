package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/testhelpers"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

type identifierFixture struct {
	svc      *IdentifierService
	propRepo *testhelpers.InMemoryPropertyRepo
	idRepo   *testhelpers.InMemoryIdentifierRepo
	seedRepo *testhelpers.InMemorySeedRepo

	ownerID uuid.UUID
	propID  uuid.UUID
}

func newIdentifierFixture(t *testing.T) *identifierFixture {
	t.Helper()
	f := &identifierFixture{
		propRepo: testhelpers.NewInMemoryPropertyRepo(),
		idRepo:   testhelpers.NewInMemoryIdentifierRepo(),
		seedRepo: testhelpers.NewInMemorySeedRepo(),
		ownerID:  uuid.New(),
		propID:   uuid.New(),
	}
	f.svc = NewIdentifierService(f.propRepo, f.idRepo, f.seedRepo)

	err := f.propRepo.Create(context.Background(), &models.Property{
		ID:           f.propID,
		OwnerID:      f.ownerID,
		PropertyName: "Maple House",
		Address:      "12 Maple St",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62704",
	})
	require.NoError(t, err)
	return f
}

func boolPtr(b bool) *bool { return &b }

func TestGenerateUsesDefaultsOnFirstIssue(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	mi, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)
	require.Len(t, mi.Token, 32)
	require.True(t, mi.IsActive())

	require.Equal(t, models.DefaultPrivacySettings(), mi.Settings())
}

func TestGenerateRejectsNonOwner(t *testing.T) {
	f := newIdentifierFixture(t)

	_, err := f.svc.Generate(context.Background(), f.propID, uuid.New(), nil)
	require.ErrorIs(t, err, utils.ErrNotOwner)

	_, err = f.svc.Generate(context.Background(), uuid.New(), f.ownerID, nil)
	require.ErrorIs(t, err, utils.ErrPropertyNotFound)
}

func TestRegenerateInvalidatesOldToken(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	first, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)

	second, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// Old token now resolves exactly like one that never existed.
	_, _, err = f.svc.ResolveToken(ctx, first.Token)
	require.ErrorIs(t, err, utils.ErrTokenNotFound)

	_, mi, err := f.svc.ResolveToken(ctx, second.Token)
	require.NoError(t, err)
	require.Equal(t, second.Token, mi.Token)
}

func TestRegenerateCarriesForwardSettings(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.propID, f.ownerID, &dtos.PrivacySettingsPatch{
		ShowFullAddress: boolPtr(true),
		ShowCosts:       boolPtr(true),
	})
	require.NoError(t, err)

	second, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)
	require.True(t, second.ShowFullAddress)
	require.True(t, second.ShowCosts)
	require.True(t, second.ShowContractors) // default untouched
}

func TestRevokeIsIdempotent(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	mi, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(ctx, f.propID, f.ownerID))
	// Second and third revoke are no-ops, not errors.
	require.NoError(t, f.svc.Revoke(ctx, f.propID, f.ownerID))
	require.NoError(t, f.svc.Revoke(ctx, f.propID, f.ownerID))

	_, _, err = f.svc.ResolveToken(ctx, mi.Token)
	require.ErrorIs(t, err, utils.ErrTokenNotFound)
}

func TestRevokeBeforeAnyIssueIsNoOp(t *testing.T) {
	f := newIdentifierFixture(t)
	require.NoError(t, f.svc.Revoke(context.Background(), f.propID, f.ownerID))
}

func TestUnknownAndRevokedTokensAreIndistinguishable(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	mi, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Revoke(ctx, f.propID, f.ownerID))

	_, _, errRevoked := f.svc.ResolveToken(ctx, mi.Token)
	_, _, errUnknown := f.svc.ResolveToken(ctx, utils.NewIdentifierToken())

	require.ErrorIs(t, errRevoked, utils.ErrTokenNotFound)
	require.ErrorIs(t, errUnknown, utils.ErrTokenNotFound)
	require.Equal(t, errRevoked.Error(), errUnknown.Error())
}

func TestUpdatePrivacyOnActiveIdentifier(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	mi, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)

	settings, err := f.svc.UpdatePrivacy(ctx, f.propID, f.ownerID, &dtos.PrivacySettingsPatch{
		ShowDocuments: boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, settings.ShowDocuments)
	require.True(t, settings.ShowContractors) // untouched fields keep their value
	require.False(t, settings.ShowFullAddress)

	// The active identifier reflects the change immediately.
	_, resolved, err := f.svc.ResolveToken(ctx, mi.Token)
	require.NoError(t, err)
	require.True(t, resolved.ShowDocuments)
}

func TestUpdatePrivacyAfterRevokeConflicts(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Revoke(ctx, f.propID, f.ownerID))

	_, err = f.svc.UpdatePrivacy(ctx, f.propID, f.ownerID, &dtos.PrivacySettingsPatch{
		ShowCosts: boolPtr(true),
	})
	require.ErrorIs(t, err, utils.ErrIdentifierRevoked)

	// Regenerating clears the conflict and edits go through again.
	_, err = f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)

	settings, err := f.svc.UpdatePrivacy(ctx, f.propID, f.ownerID, &dtos.PrivacySettingsPatch{
		ShowCosts: boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, settings.ShowCosts)
}

func TestUpdatePrivacyBeforeFirstIssueSeedsDefaults(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	// Accepted even though no identifier exists yet.
	settings, err := f.svc.UpdatePrivacy(ctx, f.propID, f.ownerID, &dtos.PrivacySettingsPatch{
		ShowFullAddress: boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, settings.ShowFullAddress)

	// A later patch merges onto the stored seed, not onto pristine defaults.
	settings, err = f.svc.UpdatePrivacy(ctx, f.propID, f.ownerID, &dtos.PrivacySettingsPatch{
		ShowDocuments: boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, settings.ShowFullAddress)
	require.True(t, settings.ShowDocuments)

	// First generate consumes the seed.
	mi, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)
	require.True(t, mi.ShowFullAddress)
	require.True(t, mi.ShowDocuments)
}

func TestStatusDistinguishesRevokedFromNeverIssued(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	status, err := f.svc.Status(ctx, f.propID, f.ownerID)
	require.NoError(t, err)
	require.Nil(t, status.MasterIdentifier)
	require.Nil(t, status.RevokedAt)

	mi, err := f.svc.Generate(ctx, f.propID, f.ownerID, nil)
	require.NoError(t, err)

	status, err = f.svc.Status(ctx, f.propID, f.ownerID)
	require.NoError(t, err)
	require.NotNil(t, status.MasterIdentifier)
	require.Equal(t, mi.Token, *status.MasterIdentifier)
	require.Nil(t, status.RevokedAt)

	require.NoError(t, f.svc.Revoke(ctx, f.propID, f.ownerID))

	status, err = f.svc.Status(ctx, f.propID, f.ownerID)
	require.NoError(t, err)
	require.Nil(t, status.MasterIdentifier)
	require.NotNil(t, status.RevokedAt)
}

func TestStatusForbiddenForNonOwner(t *testing.T) {
	f := newIdentifierFixture(t)
	_, err := f.svc.Status(context.Background(), f.propID, uuid.New())
	require.ErrorIs(t, err, utils.ErrNotOwner)
}

// Concurrent regenerations must leave exactly one active identifier.
func TestConcurrentRegenerateKeepsSingleActive(t *testing.T) {
	f := newIdentifierFixture(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Generate(ctx, f.propID, f.ownerID, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	active, err := f.idRepo.GetActiveByPropertyID(ctx, f.propID)
	require.NoError(t, err)
	require.NotNil(t, active)

	// The surviving token is the most recently issued one and still resolves.
	latest, err := f.idRepo.GetLatestByPropertyID(ctx, f.propID)
	require.NoError(t, err)
	require.Equal(t, active.Token, latest.Token)

	_, _, err = f.svc.ResolveToken(ctx, active.Token)
	require.NoError(t, err)
}

func TestResolveTokenNeverIssued(t *testing.T) {
	f := newIdentifierFixture(t)
	_, _, err := f.svc.ResolveToken(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	require.True(t, errors.Is(err, utils.ErrTokenNotFound))
}
