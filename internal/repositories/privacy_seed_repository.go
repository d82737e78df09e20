package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
)

/* ───────────── public interface ───────────── */

// PrivacySeedRepository persists privacy settings accepted before a property
// has ever generated an identifier. One row per property, last write wins.
type PrivacySeedRepository interface {
	Upsert(ctx context.Context, seed *models.PrivacySeed) error
	GetByPropertyID(ctx context.Context, propID uuid.UUID) (*models.PrivacySeed, error)
}

/* ───────────── implementation ───────────── */

type privacySeedRepo struct {
	db DB
}

func NewPrivacySeedRepository(db DB) PrivacySeedRepository {
	return &privacySeedRepo{db: db}
}

func (r *privacySeedRepo) Upsert(ctx context.Context, seed *models.PrivacySeed) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO privacy_seeds (
			property_id, show_full_address, show_contractors, show_documents, show_costs, updated_at
		) VALUES ($1,$2,$3,$4,$5, NOW())
		ON CONFLICT (property_id) DO UPDATE SET
			show_full_address=EXCLUDED.show_full_address,
			show_contractors=EXCLUDED.show_contractors,
			show_documents=EXCLUDED.show_documents,
			show_costs=EXCLUDED.show_costs,
			updated_at=NOW()
	`,
		seed.PropertyID,
		seed.ShowFullAddress, seed.ShowContractors, seed.ShowDocuments, seed.ShowCosts,
	)
	return err
}

func (r *privacySeedRepo) GetByPropertyID(ctx context.Context, propID uuid.UUID) (*models.PrivacySeed, error) {
	row := r.db.QueryRow(ctx, `
		SELECT property_id, show_full_address, show_contractors, show_documents, show_costs, updated_at
		FROM privacy_seeds WHERE property_id=$1
	`, propID)

	var s models.PrivacySeed
	if err := row.Scan(
		&s.PropertyID,
		&s.ShowFullAddress, &s.ShowContractors, &s.ShowDocuments, &s.ShowCosts,
		&s.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
