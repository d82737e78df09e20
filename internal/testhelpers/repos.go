// Package testhelpers provides in-memory repository implementations for
// service and endpoint tests. They honor the same contracts as the pgx
// repositories: nil on missing rows, rows-touched counts, optimistic
// version checks.
package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

/* ------------------------------------------------------------------
   Properties
------------------------------------------------------------------ */

type InMemoryPropertyRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Property
}

func NewInMemoryPropertyRepo() *InMemoryPropertyRepo {
	return &InMemoryPropertyRepo{items: map[uuid.UUID]*models.Property{}}
}

func (r *InMemoryPropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	if cp.RowVersion == 0 {
		cp.RowVersion = 1
	}
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.items[cp.ID] = &cp
	return nil
}

func (r *InMemoryPropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *InMemoryPropertyRepo) ListByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Property
	for _, p := range r.items {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryPropertyRepo) Update(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[cp.ID] = &cp
	return nil
}

func (r *InMemoryPropertyRepo) UpdateIfVersion(_ context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[p.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *p
	cp.RowVersion = expected + 1
	r.items[cp.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *InMemoryPropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return utils.ErrPropertyNotFound
	}
	if err := mutate(p); err != nil {
		return err
	}
	tag, err := r.UpdateIfVersion(ctx, p, p.RowVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrRowVersionConflict
	}
	return nil
}

func (r *InMemoryPropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

/* ------------------------------------------------------------------
   Assets
------------------------------------------------------------------ */

type InMemoryAssetRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Asset
}

func NewInMemoryAssetRepo() *InMemoryAssetRepo {
	return &InMemoryAssetRepo{items: map[uuid.UUID]*models.Asset{}}
}

func (r *InMemoryAssetRepo) Create(_ context.Context, a *models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	if cp.RowVersion == 0 {
		cp.RowVersion = 1
	}
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.items[cp.ID] = &cp
	return nil
}

func (r *InMemoryAssetRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *InMemoryAssetRepo) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Asset
	for _, a := range r.items {
		if a.PropertyID == propID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryAssetRepo) Update(_ context.Context, a *models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.items[cp.ID] = &cp
	return nil
}

func (r *InMemoryAssetRepo) UpdateIfVersion(_ context.Context, a *models.Asset, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[a.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *a
	cp.RowVersion = expected + 1
	r.items[cp.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *InMemoryAssetRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Asset) error) error {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return utils.ErrAssetNotFound
	}
	if err := mutate(a); err != nil {
		return err
	}
	tag, err := r.UpdateIfVersion(ctx, a, a.RowVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrRowVersionConflict
	}
	return nil
}

func (r *InMemoryAssetRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

/* ------------------------------------------------------------------
   Master identifiers
------------------------------------------------------------------ */

type InMemoryIdentifierRepo struct {
	mu    sync.Mutex
	items []*models.MasterIdentifier // insertion order == issue order
}

func NewInMemoryIdentifierRepo() *InMemoryIdentifierRepo {
	return &InMemoryIdentifierRepo{}
}

func (r *InMemoryIdentifierRepo) Issue(_ context.Context, mi *models.MasterIdentifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, existing := range r.items {
		if existing.PropertyID == mi.PropertyID && existing.RevokedAt == nil {
			ts := now
			existing.RevokedAt = &ts
		}
	}
	cp := *mi
	cp.IssuedAt = now
	if cp.RowVersion == 0 {
		cp.RowVersion = 1
	}
	r.items = append(r.items, &cp)
	mi.IssuedAt = cp.IssuedAt
	return nil
}

func (r *InMemoryIdentifierRepo) GetActiveByPropertyID(_ context.Context, propID uuid.UUID) (*models.MasterIdentifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.items) - 1; i >= 0; i-- {
		mi := r.items[i]
		if mi.PropertyID == propID && mi.RevokedAt == nil {
			cp := *mi
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InMemoryIdentifierRepo) GetLatestByPropertyID(_ context.Context, propID uuid.UUID) (*models.MasterIdentifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].PropertyID == propID {
			cp := *r.items[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InMemoryIdentifierRepo) FindActiveByToken(_ context.Context, token string) (*models.MasterIdentifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mi := range r.items {
		if mi.Token == token && mi.RevokedAt == nil {
			cp := *mi
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InMemoryIdentifierRepo) Revoke(_ context.Context, propID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for _, mi := range r.items {
		if mi.PropertyID == propID && mi.RevokedAt == nil {
			ts := now
			mi.RevokedAt = &ts
			n++
		}
	}
	return n, nil
}

func (r *InMemoryIdentifierRepo) UpdateSettings(_ context.Context, propID uuid.UUID, s models.PrivacySettings) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, mi := range r.items {
		if mi.PropertyID == propID && mi.RevokedAt == nil {
			mi.PrivacySettings = s
			mi.RowVersion++
			n++
		}
	}
	return n, nil
}

/* ------------------------------------------------------------------
   Privacy seeds
------------------------------------------------------------------ */

type InMemorySeedRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.PrivacySeed
}

func NewInMemorySeedRepo() *InMemorySeedRepo {
	return &InMemorySeedRepo{items: map[uuid.UUID]*models.PrivacySeed{}}
}

func (r *InMemorySeedRepo) Upsert(_ context.Context, seed *models.PrivacySeed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *seed
	cp.UpdatedAt = time.Now()
	r.items[cp.PropertyID] = &cp
	return nil
}

func (r *InMemorySeedRepo) GetByPropertyID(_ context.Context, propID uuid.UUID) (*models.PrivacySeed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[propID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

/* ------------------------------------------------------------------
   Service events
------------------------------------------------------------------ */

type InMemoryEventRepo struct {
	mu    sync.Mutex
	items []*models.ServiceEvent
}

func NewInMemoryEventRepo() *InMemoryEventRepo {
	return &InMemoryEventRepo{}
}

func (r *InMemoryEventRepo) Create(_ context.Context, e *models.ServiceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	cp.CreatedAt = time.Now()
	r.items = append(r.items, &cp)
	return nil
}

func (r *InMemoryEventRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ServiceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InMemoryEventRepo) ListByAssetID(_ context.Context, assetID uuid.UUID) ([]*models.ServiceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ServiceEvent
	for _, e := range r.items {
		if e.AssetID == assetID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryEventRepo) ListByAssetIDs(_ context.Context, assetIDs []uuid.UUID) ([]*models.ServiceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(assetIDs))
	for _, id := range assetIDs {
		wanted[id] = true
	}
	var out []*models.ServiceEvent
	for _, e := range r.items {
		if wanted[e.AssetID] {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

/* ------------------------------------------------------------------
   Documents
------------------------------------------------------------------ */

type InMemoryDocumentRepo struct {
	mu    sync.Mutex
	items []*models.Document
}

func NewInMemoryDocumentRepo() *InMemoryDocumentRepo {
	return &InMemoryDocumentRepo{}
}

func (r *InMemoryDocumentRepo) Create(_ context.Context, d *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	cp.UploadedAt = time.Now()
	r.items = append(r.items, &cp)
	return nil
}

func (r *InMemoryDocumentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InMemoryDocumentRepo) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Document
	for _, d := range r.items {
		if d.PropertyID == propID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryDocumentRepo) ListByAssetID(_ context.Context, assetID uuid.UUID) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Document
	for _, d := range r.items {
		if d.AssetID != nil && *d.AssetID == assetID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryDocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.items {
		if d.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}
