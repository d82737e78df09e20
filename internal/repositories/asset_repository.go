package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
)

/* ───────────── public interface ───────────── */

type AssetRepository interface {
	Create(ctx context.Context, a *models.Asset) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Asset, error)

	Update(ctx context.Context, a *models.Asset) error
	UpdateIfVersion(ctx context.Context, a *models.Asset, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Asset) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type assetRepo struct {
	*BaseVersionedRepo[*models.Asset]
	db DB
}

func NewAssetRepository(db DB) AssetRepository {
	r := &assetRepo{db: db}
	selectStmt := baseSelectAsset() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanAsset)
	return r
}

/* ---------- create ---------- */

func (r *assetRepo) Create(ctx context.Context, a *models.Asset) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO assets (
			id, property_id, name, category, asset_type, install_date,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW(), 1)
	`, a.ID, a.PropertyID, a.Name, a.Category, a.AssetType, a.InstallDate)
	return err
}

/* ---------- reads ---------- */

func (r *assetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *assetRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Asset, error) {
	rows, err := r.db.Query(ctx, baseSelectAsset()+" WHERE property_id=$1 ORDER BY created_at", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAssets(rows)
}

/* ---------- update / delete ---------- */

func (r *assetRepo) Update(ctx context.Context, a *models.Asset) error {
	_, err := r.update(ctx, a, false, 0)
	return err
}

func (r *assetRepo) UpdateIfVersion(ctx context.Context, a *models.Asset, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, a, true, expected)
}

func (r *assetRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Asset) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *assetRepo) update(ctx context.Context, a *models.Asset, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE assets
		SET name=$1, category=$2, asset_type=$3, install_date=$4, updated_at=NOW()
	`
	args := []any{a.Name, a.Category, a.AssetType, a.InstallDate}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$5 AND row_version=$6`
		args = append(args, a.ID, expected)
	} else {
		sql += ` WHERE id=$5`
		args = append(args, a.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *assetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id=$1`, id)
	return err
}

/* ---------- internals ---------- */

func baseSelectAsset() string {
	return `
		SELECT id, property_id, name, category, asset_type, install_date,
		created_at, updated_at, row_version
		FROM assets`
}

func (r *assetRepo) scanAsset(row pgx.Row) (*models.Asset, error) {
	var a models.Asset
	if err := row.Scan(
		&a.ID, &a.PropertyID, &a.Name, &a.Category, &a.AssetType,
		&a.InstallDate, &a.CreatedAt, &a.UpdatedAt, &a.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *assetRepo) scanAssets(rows pgx.Rows) ([]*models.Asset, error) {
	var out []*models.Asset
	for rows.Next() {
		a, err := r.scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
