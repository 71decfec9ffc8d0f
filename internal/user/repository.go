package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zonemart/zonemart/internal/db"
	"github.com/zonemart/zonemart/internal/zone"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetAddress returns the address only when it belongs to userID, so
	// address ownership is enforced at the query level.
	GetAddress(ctx context.Context, id, userID uuid.UUID) (*Address, error)
	// GetZones returns the distinct zones of the user's addresses.
	GetZones(ctx context.Context, userID uuid.UUID) ([]zone.Zone, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user %s: %w", id, err)
	}
	return &u, nil
}

func (r *postgresRepository) GetAddress(ctx context.Context, id, userID uuid.UUID) (*Address, error) {
	query := `
		SELECT id, user_id, street, area, building, floor, apartment, zone,
			latitude, longitude, phone, is_default, created_at, updated_at
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`

	var a Address
	var z string
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.Street,
		&a.Area,
		&a.Building,
		&a.Floor,
		&a.Apartment,
		&z,
		&a.Latitude,
		&a.Longitude,
		&a.Phone,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("repository: failed to select address %s for user %s: %w", id, userID, err)
	}
	a.Zone = zone.Zone(z)
	return &a, nil
}

func (r *postgresRepository) GetZones(ctx context.Context, userID uuid.UUID) ([]zone.Zone, error) {
	query := `SELECT DISTINCT zone FROM addresses WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query zones for user %s: %w", userID, err)
	}
	defer rows.Close()

	zones := make([]zone.Zone, 0)
	for rows.Next() {
		var z string
		if err := rows.Scan(&z); err != nil {
			return nil, fmt.Errorf("repository: failed to scan zone for user %s: %w", userID, err)
		}
		zones = append(zones, zone.Zone(z))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating zones for user %s: %w", userID, err)
	}
	return zones, nil
}
