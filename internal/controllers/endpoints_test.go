package controllers

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/middleware"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/routes"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/services"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/testhelpers"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

type endpointHarness struct {
	router  *mux.Router
	privKey *rsa.PrivateKey

	propRepo  *testhelpers.InMemoryPropertyRepo
	assetRepo *testhelpers.InMemoryAssetRepo
	idRepo    *testhelpers.InMemoryIdentifierRepo
	seedRepo  *testhelpers.InMemorySeedRepo
	eventRepo *testhelpers.InMemoryEventRepo
	docRepo   *testhelpers.InMemoryDocumentRepo

	ownerID uuid.UUID
	propID  uuid.UUID
}

func newEndpointHarness(t *testing.T) *endpointHarness {
	t.Helper()

	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	h := &endpointHarness{
		privKey:   privKey,
		propRepo:  testhelpers.NewInMemoryPropertyRepo(),
		assetRepo: testhelpers.NewInMemoryAssetRepo(),
		idRepo:    testhelpers.NewInMemoryIdentifierRepo(),
		seedRepo:  testhelpers.NewInMemorySeedRepo(),
		eventRepo: testhelpers.NewInMemoryEventRepo(),
		docRepo:   testhelpers.NewInMemoryDocumentRepo(),
		ownerID:   uuid.New(),
		propID:    uuid.New(),
	}

	identifierService := services.NewIdentifierService(h.propRepo, h.idRepo, h.seedRepo)
	visibilityService := services.NewVisibilityService(
		identifierService, h.propRepo, h.assetRepo, h.eventRepo, h.docRepo, h.idRepo,
	)
	propertyService := services.NewPropertyService(h.propRepo, h.docRepo)
	assetService := services.NewAssetService(h.propRepo, h.assetRepo, h.eventRepo)

	identifierController := NewIdentifierController(identifierService, "https://app.example.com")
	publicController := NewPublicController(visibilityService)
	propertyController := NewPropertyController(propertyService, visibilityService)
	assetController := NewAssetController(assetService)

	router := mux.NewRouter()

	public := router.PathPrefix(routes.PublicBase).Subrouter()
	public.Use(middleware.OptionalAuthMiddleware(&privKey.PublicKey))
	public.HandleFunc(routes.PublicProperty, publicController.GetPropertyHandler).Methods("GET")
	public.HandleFunc(routes.PublicAsset, publicController.GetAssetHandler).Methods("GET")

	protected := router.PathPrefix(routes.OwnerBase).Subrouter()
	protected.Use(middleware.AuthMiddleware(&privKey.PublicKey))
	protected.HandleFunc(routes.Properties, propertyController.CreateHandler).Methods("POST")
	protected.HandleFunc(routes.Properties, propertyController.ListHandler).Methods("GET")
	protected.HandleFunc(routes.Property, propertyController.GetHandler).Methods("GET")
	protected.HandleFunc(routes.PropertyAssets, assetController.CreateHandler).Methods("POST")
	protected.HandleFunc(routes.PropertyDocuments, propertyController.CreateDocumentHandler).Methods("POST")
	protected.HandleFunc(routes.Asset, assetController.UpdateHandler).Methods("PATCH")
	protected.HandleFunc(routes.AssetEvents, assetController.CreateEventHandler).Methods("POST")
	protected.HandleFunc(routes.Identifier, identifierController.GetStatusHandler).Methods("GET")
	protected.HandleFunc(routes.Identifier, identifierController.MutateHandler).Methods("POST")
	protected.HandleFunc(routes.IdentifierRevoke, identifierController.RevokeHandler).Methods("POST")
	h.router = router

	err = h.propRepo.Create(context.Background(), &models.Property{
		ID:           h.propID,
		OwnerID:      h.ownerID,
		PropertyName: "Maple House",
		Address:      "12 Maple St",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62704",
	})
	require.NoError(t, err)
	return h
}

func (h *endpointHarness) signToken(t *testing.T, subject uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject.String(),
		"iss": middleware.TokenIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(h.privKey)
	require.NoError(t, err)
	return tok
}

func (h *endpointHarness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) dtos.IdentifierStatusResponse {
	t.Helper()
	var out dtos.IdentifierStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestIdentifierLifecycleOverHTTP(t *testing.T) {
	h := newEndpointHarness(t)
	token := h.signToken(t, h.ownerID)

	// Never issued.
	rec := h.do(t, http.MethodGet, "/api/v1/identifier/"+h.propID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeStatus(t, rec)
	require.Nil(t, status.MasterIdentifier)
	require.Nil(t, status.RevokedAt)

	// Generate.
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), token,
		dtos.IdentifierMutationRequest{Regenerate: true})
	require.Equal(t, http.StatusOK, rec.Code)
	status = decodeStatus(t, rec)
	require.NotNil(t, status.MasterIdentifier)
	require.Equal(t, "https://app.example.com/property/public/"+*status.MasterIdentifier, status.PublicURL)

	publicToken := *status.MasterIdentifier

	// Public resolution works while active.
	rec = h.do(t, http.MethodGet, "/api/v1/public/property/"+publicToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Revoke, then the same URL 404s.
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String()+"/revoke", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/public/property/"+publicToken, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Owner status still shows the revocation timestamp.
	rec = h.do(t, http.MethodGet, "/api/v1/identifier/"+h.propID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status = decodeStatus(t, rec)
	require.Nil(t, status.MasterIdentifier)
	require.NotNil(t, status.RevokedAt)
}

// A revoked token and a token that never existed must produce responses a
// public caller cannot tell apart.
func TestRevokedAndUnknownTokenResponsesMatch(t *testing.T) {
	h := newEndpointHarness(t)
	token := h.signToken(t, h.ownerID)

	rec := h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), token,
		dtos.IdentifierMutationRequest{Regenerate: true})
	require.Equal(t, http.StatusOK, rec.Code)
	revokedToken := *decodeStatus(t, rec).MasterIdentifier

	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String()+"/revoke", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	recRevoked := h.do(t, http.MethodGet, "/api/v1/public/property/"+revokedToken, "", nil)
	recUnknown := h.do(t, http.MethodGet, "/api/v1/public/property/aaaabbbbccccddddeeeeffff00001111", "", nil)

	require.Equal(t, http.StatusNotFound, recRevoked.Code)
	require.Equal(t, http.StatusNotFound, recUnknown.Code)
	require.Equal(t, recUnknown.Body.String(), recRevoked.Body.String())
}

func TestMutateIdentifierForNonOwnerIsForbidden(t *testing.T) {
	h := newEndpointHarness(t)
	stranger := h.signToken(t, uuid.New())

	rec := h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), stranger,
		dtos.IdentifierMutationRequest{Regenerate: true})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String()+"/revoke", stranger, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPrivacyEditAfterRevokeConflictsOverHTTP(t *testing.T) {
	h := newEndpointHarness(t)
	token := h.signToken(t, h.ownerID)

	rec := h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), token,
		dtos.IdentifierMutationRequest{Regenerate: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String()+"/revoke", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	show := true
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), token,
		dtos.IdentifierMutationRequest{PrivacySettings: &dtos.PrivacySettingsPatch{ShowCosts: &show}})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestOwnerEndpointsRequireAuth(t *testing.T) {
	h := newEndpointHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/identifier/"+h.propID.String(), "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/properties", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicAssetEndpoint(t *testing.T) {
	h := newEndpointHarness(t)
	ownerToken := h.signToken(t, h.ownerID)

	// Owner creates assets via the API.
	rec := h.do(t, http.MethodPost, "/api/v1/properties/"+h.propID.String()+"/assets", ownerToken,
		dtos.CreateAssetRequest{Name: "Furnace", Category: "hvac", AssetType: models.AssetTypeInfrastructure})
	require.Equal(t, http.StatusCreated, rec.Code)
	var furnace models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &furnace))

	rec = h.do(t, http.MethodPost, "/api/v1/properties/"+h.propID.String()+"/assets", ownerToken,
		dtos.CreateAssetRequest{Name: "Guitar", Category: "hobby", AssetType: models.AssetTypePersonal})
	require.Equal(t, http.StatusCreated, rec.Code)
	var guitar models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guitar))

	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), ownerToken,
		dtos.IdentifierMutationRequest{Regenerate: true})
	require.Equal(t, http.StatusOK, rec.Code)
	publicToken := *decodeStatus(t, rec).MasterIdentifier

	// Anonymous with token: infrastructure resolves.
	rec = h.do(t, http.MethodGet, "/api/v1/public/asset/"+furnace.ID.String()+"?token="+publicToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Anonymous with token: PERSONAL looks nonexistent.
	rec = h.do(t, http.MethodGet, "/api/v1/public/asset/"+guitar.ID.String()+"?token="+publicToken, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Anonymous without token: nothing resolves.
	rec = h.do(t, http.MethodGet, "/api/v1/public/asset/"+furnace.ID.String(), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Owner session without token: full view, even for PERSONAL.
	rec = h.do(t, http.MethodGet, "/api/v1/public/asset/"+guitar.ID.String(), ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view dtos.ProjectedAssetView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.True(t, view.IsOwner)
}

func TestAssetReclassificationChangesPublicView(t *testing.T) {
	h := newEndpointHarness(t)
	ownerToken := h.signToken(t, h.ownerID)

	rec := h.do(t, http.MethodPost, "/api/v1/properties/"+h.propID.String()+"/assets", ownerToken,
		dtos.CreateAssetRequest{Name: "Workbench", Category: "garage", AssetType: models.AssetTypePersonal})
	require.Equal(t, http.StatusCreated, rec.Code)
	var bench models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bench))

	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), ownerToken,
		dtos.IdentifierMutationRequest{Regenerate: true})
	require.Equal(t, http.StatusOK, rec.Code)
	publicToken := *decodeStatus(t, rec).MasterIdentifier

	rec = h.do(t, http.MethodGet, "/api/v1/public/asset/"+bench.ID.String()+"?token="+publicToken, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Reclassify to INFRASTRUCTURE; the very next public read picks it up.
	infra := models.AssetTypeInfrastructure
	rec = h.do(t, http.MethodPatch, "/api/v1/assets/"+bench.ID.String(), ownerToken,
		dtos.UpdateAssetRequest{AssetType: &infra})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/public/asset/"+bench.ID.String()+"?token="+publicToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

// Settings-only mutations answer with the same status shape as the GET, so
// clients keep a single decode path for every identifier response.
func TestPrivacyUpdateEchoesFullIdentifierStatus(t *testing.T) {
	h := newEndpointHarness(t)
	token := h.signToken(t, h.ownerID)

	// Before any identifier exists the update lands on the seed and still
	// echoes a full status: no token, no revocation, merged settings.
	show := true
	rec := h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), token,
		dtos.IdentifierMutationRequest{PrivacySettings: &dtos.PrivacySettingsPatch{ShowCosts: &show}})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Contains(t, raw, "master_identifier")
	require.Contains(t, raw, "public_visibility")
	require.Contains(t, raw, "revoked_at")

	status := decodeStatus(t, rec)
	require.Nil(t, status.MasterIdentifier)
	require.Nil(t, status.RevokedAt)
	require.NotNil(t, status.PublicVisibility)
	require.True(t, status.PublicVisibility.ShowCosts)

	// With an active identifier the echo carries the token and public URL
	// alongside the updated settings.
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), token,
		dtos.IdentifierMutationRequest{Regenerate: true})
	require.Equal(t, http.StatusOK, rec.Code)
	issued := *decodeStatus(t, rec).MasterIdentifier

	hide := false
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), token,
		dtos.IdentifierMutationRequest{PrivacySettings: &dtos.PrivacySettingsPatch{ShowCosts: &hide}})
	require.Equal(t, http.StatusOK, rec.Code)
	status = decodeStatus(t, rec)
	require.NotNil(t, status.MasterIdentifier)
	require.Equal(t, issued, *status.MasterIdentifier)
	require.NotNil(t, status.PublicVisibility)
	require.False(t, status.PublicVisibility.ShowCosts)
	require.Equal(t, "https://app.example.com/property/public/"+issued, status.PublicURL)
}

// The loser of a regenerate race surfaces as a retryable conflict, never as
// an internal error.
func TestRegenerateRaceLoserMapsToConflict(t *testing.T) {
	rec := httptest.NewRecorder()
	respondDomainError(rec, fmt.Errorf("could not issue identifier: %w", utils.ErrIdentifierConflict))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, utils.ErrCodeConflict, body.Code)
}

// Hiding costs strips amounts from the public view; re-enabling them later
// restores the stored values unchanged.
func TestCostVisibilityRoundTrip(t *testing.T) {
	h := newEndpointHarness(t)
	ownerToken := h.signToken(t, h.ownerID)

	rec := h.do(t, http.MethodPost, "/api/v1/properties/"+h.propID.String()+"/assets", ownerToken,
		dtos.CreateAssetRequest{Name: "Furnace", Category: "hvac", AssetType: models.AssetTypeInfrastructure})
	require.Equal(t, http.StatusCreated, rec.Code)
	var furnace models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &furnace))

	amount := 850.0
	rec = h.do(t, http.MethodPost, "/api/v1/assets/"+furnace.ID.String()+"/events", ownerToken,
		dtos.CreateEventRequest{EventType: "repair", Amount: &amount, OccurredAt: time.Now().Add(-24 * time.Hour)})
	require.Equal(t, http.StatusCreated, rec.Code)

	show := true
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), ownerToken,
		dtos.IdentifierMutationRequest{
			Regenerate:      true,
			PrivacySettings: &dtos.PrivacySettingsPatch{ShowCosts: &show},
		})
	require.Equal(t, http.StatusOK, rec.Code)
	publicToken := *decodeStatus(t, rec).MasterIdentifier

	publicAmount := func() *float64 {
		rec := h.do(t, http.MethodGet, "/api/v1/public/property/"+publicToken, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var view dtos.ProjectedView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.Len(t, view.Assets, 1)
		require.Len(t, view.Assets[0].History, 1)
		return view.Assets[0].History[0].Amount
	}

	got := publicAmount()
	require.NotNil(t, got)
	require.Equal(t, amount, *got)

	// Toggle costs off via a settings-only update: amounts disappear.
	hide := false
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), ownerToken,
		dtos.IdentifierMutationRequest{PrivacySettings: &dtos.PrivacySettingsPatch{ShowCosts: &hide}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, publicAmount())

	// Toggle back on: the stored amount comes back untouched.
	rec = h.do(t, http.MethodPost, "/api/v1/identifier/"+h.propID.String(), ownerToken,
		dtos.IdentifierMutationRequest{PrivacySettings: &dtos.PrivacySettingsPatch{ShowCosts: &show}})
	require.Equal(t, http.StatusOK, rec.Code)

	got = publicAmount()
	require.NotNil(t, got)
	require.Equal(t, amount, *got)
}
