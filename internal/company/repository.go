package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zonemart/zonemart/internal/db"
	"github.com/zonemart/zonemart/internal/zone"
)

var ErrCompanyNotFound = errors.New("company not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Company, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const companyColumns = `id, name_en, name_ar, zones, commission_rate, is_active, created_at, updated_at`

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	var zones []string
	err := row.Scan(
		&c.ID,
		&c.NameEn,
		&c.NameAr,
		&zones,
		&c.CommissionRate,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Zones = zone.FromStrings(zones)
	return &c, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	c, err := scanCompany(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("repository: failed to select company %s: %w", id, err)
	}
	return c, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query companies by ids: %w", err)
	}
	defer rows.Close()

	companies := make(map[uuid.UUID]Company, len(ids))
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan company: %w", err)
		}
		companies[c.ID] = *c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating companies: %w", err)
	}
	return companies, nil
}
