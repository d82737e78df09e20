package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
)

/* ───────────── public interface ───────────── */

type ServiceEventRepository interface {
	Create(ctx context.Context, e *models.ServiceEvent) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceEvent, error)
	ListByAssetID(ctx context.Context, assetID uuid.UUID) ([]*models.ServiceEvent, error)
	ListByAssetIDs(ctx context.Context, assetIDs []uuid.UUID) ([]*models.ServiceEvent, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type serviceEventRepo struct {
	db DB
}

func NewServiceEventRepository(db DB) ServiceEventRepository {
	return &serviceEventRepo{db: db}
}

func (r *serviceEventRepo) Create(ctx context.Context, e *models.ServiceEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO service_events (
			id, asset_id, event_type, description,
			contractor_name, contractor_phone, amount, occurred_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW())
	`,
		e.ID, e.AssetID, e.EventType, e.Description,
		e.ContractorName, e.ContractorPhone, e.Amount, e.OccurredAt,
	)
	return err
}

func (r *serviceEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceEvent, error) {
	row := r.db.QueryRow(ctx, baseSelectEvent()+" WHERE id=$1", id)
	return scanEvent(row)
}

func (r *serviceEventRepo) ListByAssetID(ctx context.Context, assetID uuid.UUID) ([]*models.ServiceEvent, error) {
	rows, err := r.db.Query(ctx, baseSelectEvent()+" WHERE asset_id=$1 ORDER BY occurred_at DESC", assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *serviceEventRepo) ListByAssetIDs(ctx context.Context, assetIDs []uuid.UUID) ([]*models.ServiceEvent, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, baseSelectEvent()+" WHERE asset_id = ANY($1) ORDER BY occurred_at DESC", assetIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *serviceEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM service_events WHERE id=$1`, id)
	return err
}

/* ---------- internals ---------- */

func baseSelectEvent() string {
	return `
		SELECT id, asset_id, event_type, description,
		contractor_name, contractor_phone, amount, occurred_at, created_at
		FROM service_events`
}

func scanEvent(row pgx.Row) (*models.ServiceEvent, error) {
	var e models.ServiceEvent
	if err := row.Scan(
		&e.ID, &e.AssetID, &e.EventType, &e.Description,
		&e.ContractorName, &e.ContractorPhone, &e.Amount, &e.OccurredAt, &e.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func scanEvents(rows pgx.Rows) ([]*models.ServiceEvent, error) {
	var out []*models.ServiceEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
