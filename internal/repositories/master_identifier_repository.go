package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/utils"
)

/* ───────────── public interface ───────────── */

type MasterIdentifierRepository interface {
	// Issue revokes the property's active identifier (if any) and inserts the
	// new one in a single transaction, so there is never a window with two
	// active tokens for one property.
	Issue(ctx context.Context, mi *models.MasterIdentifier) error

	GetActiveByPropertyID(ctx context.Context, propID uuid.UUID) (*models.MasterIdentifier, error)
	// GetLatestByPropertyID also returns revoked identifiers, newest first.
	// Owner status needs this to tell "revoked" apart from "never issued".
	GetLatestByPropertyID(ctx context.Context, propID uuid.UUID) (*models.MasterIdentifier, error)
	FindActiveByToken(ctx context.Context, token string) (*models.MasterIdentifier, error)

	// Revoke stamps revoked_at on the active identifier. Returns the number of
	// rows touched; 0 means there was nothing active (idempotent no-op).
	Revoke(ctx context.Context, propID uuid.UUID) (int64, error)

	// UpdateSettings overwrites the privacy toggles on the active identifier
	// (last-write-wins). Returns rows touched; 0 means no active identifier.
	UpdateSettings(ctx context.Context, propID uuid.UUID, s models.PrivacySettings) (int64, error)
}

/* ───────────── implementation ───────────── */

type masterIdentifierRepo struct {
	db DB
}

func NewMasterIdentifierRepository(db DB) MasterIdentifierRepository {
	return &masterIdentifierRepo{db: db}
}

func (r *masterIdentifierRepo) Issue(ctx context.Context, mi *models.MasterIdentifier) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Monotonic revocation of whatever was active. A revoked row is terminal;
	// nothing ever clears revoked_at.
	_, err = tx.Exec(ctx, `
		UPDATE master_identifiers
		SET revoked_at=NOW(), updated_at=NOW(), row_version=row_version+1
		WHERE property_id=$1 AND revoked_at IS NULL
	`, mi.PropertyID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO master_identifiers (
			id, property_id, token, issued_at, revoked_at,
			show_full_address, show_contractors, show_documents, show_costs,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,NOW(),NULL,$4,$5,$6,$7, NOW(), NOW(), 1)
	`,
		mi.ID, mi.PropertyID, mi.Token,
		mi.ShowFullAddress, mi.ShowContractors, mi.ShowDocuments, mi.ShowCosts,
	)
	if err != nil {
		// Two regenerates can race: the loser's revoke UPDATE sees zero rows
		// (the winner already committed a fresh active row) and its INSERT then
		// hits idx_master_identifiers_one_active.
		if isUniqueViolation(err) {
			return utils.ErrIdentifierConflict
		}
		return err
	}

	return tx.Commit(ctx)
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

/* ---------- reads ---------- */

func (r *masterIdentifierRepo) GetActiveByPropertyID(ctx context.Context, propID uuid.UUID) (*models.MasterIdentifier, error) {
	row := r.db.QueryRow(ctx, baseSelectIdentifier()+" WHERE property_id=$1 AND revoked_at IS NULL", propID)
	return scanIdentifier(row)
}

func (r *masterIdentifierRepo) GetLatestByPropertyID(ctx context.Context, propID uuid.UUID) (*models.MasterIdentifier, error) {
	row := r.db.QueryRow(ctx, baseSelectIdentifier()+" WHERE property_id=$1 ORDER BY issued_at DESC LIMIT 1", propID)
	return scanIdentifier(row)
}

func (r *masterIdentifierRepo) FindActiveByToken(ctx context.Context, token string) (*models.MasterIdentifier, error) {
	// Revoked tokens fall out of this WHERE clause on purpose: a revoked token
	// resolves exactly like one that never existed.
	row := r.db.QueryRow(ctx, baseSelectIdentifier()+" WHERE token=$1 AND revoked_at IS NULL LIMIT 1", token)
	return scanIdentifier(row)
}

/* ---------- mutations ---------- */

func (r *masterIdentifierRepo) Revoke(ctx context.Context, propID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE master_identifiers
		SET revoked_at=NOW(), updated_at=NOW(), row_version=row_version+1
		WHERE property_id=$1 AND revoked_at IS NULL
	`, propID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *masterIdentifierRepo) UpdateSettings(ctx context.Context, propID uuid.UUID, s models.PrivacySettings) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE master_identifiers
		SET show_full_address=$1, show_contractors=$2, show_documents=$3, show_costs=$4,
		    updated_at=NOW(), row_version=row_version+1
		WHERE property_id=$5 AND revoked_at IS NULL
	`, s.ShowFullAddress, s.ShowContractors, s.ShowDocuments, s.ShowCosts, propID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

/* ---------- internals ---------- */

func baseSelectIdentifier() string {
	return `
		SELECT id, property_id, token, issued_at, revoked_at,
		show_full_address, show_contractors, show_documents, show_costs,
		row_version
		FROM master_identifiers`
}

func scanIdentifier(row pgx.Row) (*models.MasterIdentifier, error) {
	var m models.MasterIdentifier
	if err := row.Scan(
		&m.ID, &m.PropertyID, &m.Token, &m.IssuedAt, &m.RevokedAt,
		&m.ShowFullAddress, &m.ShowContractors, &m.ShowDocuments, &m.ShowCosts,
		&m.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
