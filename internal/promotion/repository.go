package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zonemart/zonemart/internal/db"
	"github.com/zonemart/zonemart/internal/zone"
)

type Repository interface {
	// FindActive returns promotions whose window covers now and whose zone
	// scope is empty or intersects zones.
	FindActive(ctx context.Context, zones []zone.Zone, now time.Time) ([]Promotion, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

func (r *postgresRepository) FindActive(ctx context.Context, zones []zone.Zone, now time.Time) ([]Promotion, error) {
	query := `
		SELECT id, name_en, name_ar, discount_type, discount_value,
			min_purchase_amount, max_discount_amount, buy_qty, get_qty,
			bundle_product_ids, start_date, end_date, zones, product_ids,
			category_ids, is_active, created_at, updated_at
		FROM promotions
		WHERE is_active
			AND start_date <= $1
			AND end_date >= $1
			AND (cardinality(zones) = 0 OR zones && $2)
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, now, zone.ToStrings(zones))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query active promotions: %w", err)
	}
	defer rows.Close()

	promotions := make([]Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan promotion: %w", err)
		}
		promotions = append(promotions, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating promotions: %w", err)
	}
	return promotions, nil
}

func scanPromotion(row pgx.Row) (*Promotion, error) {
	var p Promotion
	var zones []string
	err := row.Scan(
		&p.ID,
		&p.NameEn,
		&p.NameAr,
		&p.DiscountType,
		&p.DiscountValue,
		&p.MinPurchaseAmount,
		&p.MaxDiscountAmount,
		&p.BuyQty,
		&p.GetQty,
		&p.BundleProductIDs,
		&p.StartDate,
		&p.EndDate,
		&zones,
		&p.ProductIDs,
		&p.CategoryIDs,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Zones = zone.FromStrings(zones)
	return &p, nil
}
