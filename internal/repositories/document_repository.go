package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
)

/* ───────────── public interface ───────────── */

type DocumentRepository interface {
	Create(ctx context.Context, d *models.Document) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Document, error)
	ListByAssetID(ctx context.Context, assetID uuid.UUID) ([]*models.Document, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type documentRepo struct {
	db DB
}

func NewDocumentRepository(db DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, d *models.Document) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO documents (
			id, property_id, asset_id, title, storage_key, amount, uploaded_at
		) VALUES ($1,$2,$3,$4,$5,$6, NOW())
	`, d.ID, d.PropertyID, d.AssetID, d.Title, d.StorageKey, d.Amount)
	return err
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	row := r.db.QueryRow(ctx, baseSelectDocument()+" WHERE id=$1", id)
	return scanDocument(row)
}

func (r *documentRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Document, error) {
	rows, err := r.db.Query(ctx, baseSelectDocument()+" WHERE property_id=$1 ORDER BY uploaded_at DESC", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *documentRepo) ListByAssetID(ctx context.Context, assetID uuid.UUID) ([]*models.Document, error) {
	rows, err := r.db.Query(ctx, baseSelectDocument()+" WHERE asset_id=$1 ORDER BY uploaded_at DESC", assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	return err
}

/* ---------- internals ---------- */

func baseSelectDocument() string {
	return `
		SELECT id, property_id, asset_id, title, storage_key, amount, uploaded_at
		FROM documents`
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var d models.Document
	if err := row.Scan(
		&d.ID, &d.PropertyID, &d.AssetID, &d.Title, &d.StorageKey, &d.Amount, &d.UploadedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func scanDocuments(rows pgx.Rows) ([]*models.Document, error) {
	var out []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
