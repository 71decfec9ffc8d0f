package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zonemart/zonemart/internal/db"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type Service interface {
	CreateProduct(ctx context.Context, p *Product) error
	CreateCategory(ctx context.Context, c *Category) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	UpdateStock(ctx context.Context, productID uuid.UUID, qty int, op StockOperation, actorID *uuid.UUID) (*Product, error)
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) CreateProduct(ctx context.Context, p *Product) error {
	if p.SKU == "" {
		return fmt.Errorf("service: product SKU is required")
	}
	if p.NameEn == "" && p.NameAr == "" {
		return fmt.Errorf("service: product name is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("service: product price cannot be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("service: product stock cannot be negative")
	}
	if p.MinOrderQty < 1 {
		p.MinOrderQty = 1
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}

	log.Info().Stringer("product_id", p.ID).Str("sku", p.SKU).Msg("service: product created")
	return nil
}

func (s *service) CreateCategory(ctx context.Context, c *Category) error {
	c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
	if !slugPattern.MatchString(c.Slug) {
		return fmt.Errorf("service: category slug must be lowercase letters, digits and hyphens")
	}
	if c.NameEn == "" && c.NameAr == "" {
		return fmt.Errorf("service: category name is required")
	}

	return s.repo.CreateCategory(ctx, c)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

// UpdateStock applies a direct stock mutation. The product row is locked
// for the duration of the transaction so the before/after pair written to
// stock history is exact even under concurrent checkouts.
func (s *service) UpdateStock(ctx context.Context, productID uuid.UUID, qty int, op StockOperation, actorID *uuid.UUID) (*Product, error) {
	var updated *Product
	err := s.tx.WithinTransaction(ctx, func(q db.Querier) error {
		// Existence is checked before the quantity so an unknown product
		// always reports ErrProductNotFound, whatever else is wrong with
		// the request.
		product, err := s.repo.GetProductForUpdate(ctx, q, productID)
		if err != nil {
			return err
		}

		if qty < 0 {
			return fmt.Errorf("service: stock quantity cannot be negative")
		}

		before := product.Stock
		var after int
		var reason string

		switch op {
		case StockAdd:
			after = before + qty
			reason = ReasonManualAdd
		case StockSubtract:
			after = before - qty
			reason = ReasonManualSubtract
			if after < 0 {
				return fmt.Errorf("%w: product %s has %d, requested %d", ErrInsufficientStock, productID, before, qty)
			}
		case StockSet:
			after = qty
			reason = ReasonManualSet
		default:
			return fmt.Errorf("service: unknown stock operation %q", op)
		}

		if err := s.repo.UpdateStock(ctx, q, productID, after); err != nil {
			return err
		}

		if err := s.repo.AppendStockHistory(ctx, q, &StockHistory{
			ProductID: productID,
			Before:    before,
			After:     after,
			Reason:    reason,
			ActorID:   actorID,
		}); err != nil {
			return err
		}

		product.Stock = after
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Stringer("product_id", productID).
		Str("operation", string(op)).
		Int("stock", updated.Stock).
		Msg("service: product stock updated")
	return updated, nil
}
