package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zonemart/zonemart/internal/db"
	"github.com/zonemart/zonemart/internal/zone"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateSKU      = errors.New("product with this SKU already exists")
	ErrDuplicateSlug     = errors.New("category with this slug already exists")
)

type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	CreateCategory(ctx context.Context, c *Category) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// Transaction-scoped mutations. q is the handle supplied by
	// db.TxRunner so stock writes land in the caller's transaction.
	GetProductForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*Product, error)
	UpdateStock(ctx context.Context, q db.Querier, id uuid.UUID, newStock int) error
	DecrementStock(ctx context.Context, q db.Querier, id uuid.UUID, qty int) (before, after int, err error)
	IncrementStock(ctx context.Context, q db.Querier, id uuid.UUID, qty int) (before, after int, err error)
	AppendStockHistory(ctx context.Context, q db.Querier, h *StockHistory) error
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

func (r *postgresRepository) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate product ID: %w", err)
		}
		p.ID = id
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO products (id, sku, name_en, name_ar, description_en, description_ar,
			price, stock, min_order_qty, unit, zones, company_id, category_id,
			is_active, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.SKU, p.NameEn, p.NameAr, p.DescriptionEn, p.DescriptionAr,
		p.Price, p.Stock, p.MinOrderQty, p.Unit, zone.ToStrings(p.Zones),
		p.CompanyID, p.CategoryID, p.IsActive, p.IsFeatured, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("repository: failed to insert product: %w", err)
	}
	return nil
}

func (r *postgresRepository) CreateCategory(ctx context.Context, c *Category) error {
	if c.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate category ID: %w", err)
		}
		c.ID = id
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO categories (id, name_en, name_ar, slug, parent_id, is_active, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.NameEn, c.NameAr, c.Slug, c.ParentID, c.IsActive, c.DisplayOrder, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("repository: failed to insert category: %w", err)
	}
	return nil
}

const productColumns = `id, sku, name_en, name_ar, description_en, description_ar,
	price, stock, min_order_qty, unit, zones, company_id, category_id,
	is_active, is_featured, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var zones []string
	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.NameEn,
		&p.NameAr,
		&p.DescriptionEn,
		&p.DescriptionAr,
		&p.Price,
		&p.Stock,
		&p.MinOrderQty,
		&p.Unit,
		&zones,
		&p.CompanyID,
		&p.CategoryID,
		&p.IsActive,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Zones = zone.FromStrings(zones)
	return &p, nil
}

func (r *postgresRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products by ids: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *postgresRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if filter.OnlyActive {
		query += ` AND is_active`
	}
	if filter.Zone != "" {
		args = append(args, string(filter.Zone))
		query += fmt.Sprintf(` AND $%d = ANY(zones)`, len(args))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(` AND company_id = $%d`, len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}
	return products, nil
}

func (r *postgresRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := `
		SELECT id, name_en, name_ar, slug, parent_id, is_active, display_order, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	var c Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.NameEn,
		&c.NameAr,
		&c.Slug,
		&c.ParentID,
		&c.IsActive,
		&c.DisplayOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("repository: failed to select category %s: %w", id, err)
	}
	return &c, nil
}

func (r *postgresRepository) GetProductForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	p, err := scanProduct(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to lock product %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) UpdateStock(ctx context.Context, q db.Querier, id uuid.UUID, newStock int) error {
	query := `UPDATE products SET stock = $2, updated_at = $3 WHERE id = $1`

	cmdTag, err := q.Exec(ctx, query, id, newStock, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("repository: failed to update stock for product %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock subtracts qty from the product's stock only if the result
// stays non-negative. The conditional update is the second, authoritative
// stock check: the cart validator's earlier read is advisory and a
// concurrent checkout may have taken the remaining units since.
func (r *postgresRepository) DecrementStock(ctx context.Context, q db.Querier, id uuid.UUID, qty int) (before, after int, err error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`

	err = q.QueryRow(ctx, query, id, qty, time.Now().UTC()).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the product vanished or stock ran out; look once more
			// to report the right error.
			var current int
			probeErr := q.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&current)
			if errors.Is(probeErr, pgx.ErrNoRows) {
				return 0, 0, ErrProductNotFound
			}
			if probeErr != nil {
				return 0, 0, fmt.Errorf("repository: failed to probe stock for product %s: %w", id, probeErr)
			}
			return 0, 0, fmt.Errorf("%w: product %s has %d, requested %d", ErrInsufficientStock, id, current, qty)
		}
		return 0, 0, fmt.Errorf("repository: failed to decrement stock for product %s: %w", id, err)
	}
	return after + qty, after, nil
}

func (r *postgresRepository) IncrementStock(ctx context.Context, q db.Querier, id uuid.UUID, qty int) (before, after int, err error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE id = $1
		RETURNING stock
	`

	err = q.QueryRow(ctx, query, id, qty, time.Now().UTC()).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrProductNotFound
		}
		return 0, 0, fmt.Errorf("repository: failed to increment stock for product %s: %w", id, err)
	}
	return after - qty, after, nil
}

func (r *postgresRepository) AppendStockHistory(ctx context.Context, q db.Querier, h *StockHistory) error {
	if h.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate stock history ID: %w", err)
		}
		h.ID = id
	}
	h.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO stock_history (id, product_id, stock_before, stock_after, reason, reference_id, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query, h.ID, h.ProductID, h.Before, h.After, h.Reason, h.ReferenceID, h.ActorID, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert stock history for product %s: %w", h.ProductID, err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, used to surface duplicate SKU/slug writes as conflicts.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
