package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/catalog"
	"github.com/zonemart/zonemart/internal/company"
	"github.com/zonemart/zonemart/internal/db"
	"github.com/zonemart/zonemart/internal/user"
)

var (
	ErrInvalidAddress          = errors.New("address does not belong to user")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrNoOrderableItems        = errors.New("cart contains no orderable items")
)

// PromotionMatcher applies the best active promotion per line item.
type PromotionMatcher interface {
	Apply(ctx context.Context, items []cart.ValidatedItem, userID uuid.UUID) ([]cart.ValidatedItem, error)
}

// StockWriter is the slice of the catalog repository the orchestrator
// mutates stock through inside its transactions.
type StockWriter interface {
	DecrementStock(ctx context.Context, q db.Querier, id uuid.UUID, qty int) (before, after int, err error)
	IncrementStock(ctx context.Context, q db.Querier, id uuid.UUID, qty int) (before, after int, err error)
	AppendStockHistory(ctx context.Context, q db.Querier, h *catalog.StockHistory) error
}

type Service interface {
	ValidateCart(ctx context.Context, items []cart.Item) (*cart.ValidationResult, error)
	Checkout(ctx context.Context, input CheckoutInput) ([]Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistory, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus, comment string, actorID *uuid.UUID) error
	Cancel(ctx context.Context, orderID uuid.UUID, comment string, actorID *uuid.UUID) error
}

type service struct {
	orders    Repository
	users     user.Repository
	companies company.Repository
	stock     StockWriter
	validator *cart.Validator
	matcher   PromotionMatcher
	fees      cart.FeePolicy
	tx        db.TxRunner
	now       func() time.Time
}

func NewService(
	orders Repository,
	users user.Repository,
	companies company.Repository,
	stock StockWriter,
	validator *cart.Validator,
	matcher PromotionMatcher,
	fees cart.FeePolicy,
	tx db.TxRunner,
) Service {
	return &service{
		orders:    orders,
		users:     users,
		companies: companies,
		stock:     stock,
		validator: validator,
		matcher:   matcher,
		fees:      fees,
		tx:        tx,
		now:       time.Now,
	}
}

func (s *service) ValidateCart(ctx context.Context, items []cart.Item) (*cart.ValidationResult, error) {
	return s.validator.Validate(ctx, items)
}

// Checkout turns a cart into one PENDING order per vendor. The pipeline is
// three phases: load-and-check (user, address, validation, promotions),
// pure computation of order drafts, then all writes in one transaction.
// A stock shortfall discovered at write time aborts every order of the
// checkout.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) ([]Order, error) {
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		log.Error().Err(err).Stringer("user_id", input.UserID).Msg("service: failed to load user for checkout")
		return nil, fmt.Errorf("service: failed to load user: %w", err)
	}

	address, err := s.users.GetAddress(ctx, input.AddressID, input.UserID)
	if err != nil {
		if errors.Is(err, user.ErrAddressNotFound) {
			return nil, ErrInvalidAddress
		}
		log.Error().Err(err).Stringer("address_id", input.AddressID).Msg("service: failed to load address for checkout")
		return nil, fmt.Errorf("service: failed to load address: %w", err)
	}

	result, err := s.validator.Validate(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &cart.ValidationError{Errors: result.Errors}
	}

	items, err := s.matcher.Apply(ctx, result.Items, input.UserID)
	if err != nil {
		return nil, err
	}

	companyIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, item := range items {
		if item.Product.CompanyID != nil && !seen[*item.Product.CompanyID] {
			seen[*item.Product.CompanyID] = true
			companyIDs = append(companyIDs, *item.Product.CompanyID)
		}
	}
	companies, err := s.companies.GetByIDs(ctx, companyIDs)
	if err != nil {
		return nil, err
	}

	groups := cart.GroupByVendor(items, address.Zone, companies, s.fees)
	if len(groups) == 0 {
		return nil, ErrNoOrderableItems
	}

	drafts, err := s.buildDrafts(groups, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(q db.Querier) error {
		for i := range drafts {
			draft := &drafts[i]

			if err := s.orders.CreateOrderWithItems(ctx, q, draft); err != nil {
				return err
			}

			if err := s.orders.AppendStatusHistory(ctx, q, &StatusHistory{
				OrderID:  draft.ID,
				ToStatus: StatusPending,
				Comment:  "Order created",
				ActorID:  &input.UserID,
			}); err != nil {
				return err
			}

			for _, item := range draft.Items {
				before, after, err := s.stock.DecrementStock(ctx, q, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if err := s.stock.AppendStockHistory(ctx, q, &catalog.StockHistory{
					ProductID:   item.ProductID,
					Before:      before,
					After:       after,
					Reason:      catalog.ReasonOrderCreated,
					ReferenceID: &draft.ID,
					ActorID:     &input.UserID,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Stringer("user_id", input.UserID).Msg("service: checkout transaction aborted")
		return nil, err
	}

	log.Info().
		Stringer("user_id", input.UserID).
		Int("orders", len(drafts)).
		Msg("service: checkout completed")
	return drafts, nil
}

// buildDrafts is the pure phase: it maps vendor groups onto order rows
// without touching the database.
func (s *service) buildDrafts(groups []cart.VendorGroup, input CheckoutInput) ([]Order, error) {
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "CASH"
	}

	drafts := make([]Order, 0, len(groups))
	for _, group := range groups {
		number, err := NewOrderNumber(s.now())
		if err != nil {
			return nil, err
		}

		items := make([]OrderItem, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, OrderItem{
				ProductID:   item.Product.ID,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Discount:    item.Discount(),
				Total:       item.Total(),
				PromotionID: item.AppliedPromotionID,
			})
		}

		drafts = append(drafts, Order{
			OrderNumber:   number,
			UserID:        input.UserID,
			AddressID:     input.AddressID,
			CompanyID:     group.CompanyID,
			Status:        StatusPending,
			Subtotal:      group.Subtotal,
			Discount:      group.Discount,
			DeliveryFee:   group.DeliveryFee,
			Total:         group.Total,
			PaymentMethod: paymentMethod,
			PaymentStatus: PaymentPending,
			Notes:         input.Notes,
			Items:         items,
		})
	}
	return drafts, nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order")
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}
	return o, nil
}

func (s *service) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := s.orders.GetByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch user orders")
		return nil, fmt.Errorf("service: failed to fetch user orders: %w", err)
	}
	return orders, nil
}

func (s *service) GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistory, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.GetStatusHistory(ctx, orderID)
}

// UpdateStatus moves an order along the lifecycle. A move to CANCELLED is
// delegated to Cancel so the stock reversal always happens with it.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus, comment string, actorID *uuid.UUID) error {
	if newStatus == StatusCancelled {
		return s.Cancel(ctx, orderID, comment, actorID)
	}

	err := s.tx.WithinTransaction(ctx, func(q db.Querier) error {
		current, err := s.orders.GetByIDForUpdate(ctx, q, orderID)
		if err != nil {
			return err
		}

		if !CanTransition(current.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, newStatus)
		}

		if err := s.orders.UpdateStatus(ctx, q, orderID, newStatus); err != nil {
			return err
		}

		from := current.Status
		return s.orders.AppendStatusHistory(ctx, q, &StatusHistory{
			OrderID:    orderID,
			FromStatus: &from,
			ToStatus:   newStatus,
			Comment:    comment,
			ActorID:    actorID,
		})
	})
	if err != nil {
		return err
	}

	log.Info().
		Stringer("order_id", orderID).
		Stringer("new_status", newStatus).
		Msg("service: order status updated")
	return nil
}

// Cancel cancels the order and restores the stock its items had taken.
// The restoration runs in its own transaction, independent of the original
// checkout.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, comment string, actorID *uuid.UUID) error {
	if comment == "" {
		comment = "Order cancelled"
	}

	err := s.tx.WithinTransaction(ctx, func(q db.Querier) error {
		current, err := s.orders.GetByIDForUpdate(ctx, q, orderID)
		if err != nil {
			return err
		}

		if !CanTransition(current.Status, StatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, StatusCancelled)
		}

		if err := s.orders.UpdateStatus(ctx, q, orderID, StatusCancelled); err != nil {
			return err
		}

		from := current.Status
		if err := s.orders.AppendStatusHistory(ctx, q, &StatusHistory{
			OrderID:    orderID,
			FromStatus: &from,
			ToStatus:   StatusCancelled,
			Comment:    comment,
			ActorID:    actorID,
		}); err != nil {
			return err
		}

		for _, item := range current.Items {
			before, after, err := s.stock.IncrementStock(ctx, q, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if err := s.stock.AppendStockHistory(ctx, q, &catalog.StockHistory{
				ProductID:   item.ProductID,
				Before:      before,
				After:       after,
				Reason:      catalog.ReasonOrderCancelled,
				ReferenceID: &orderID,
				ActorID:     actorID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Stringer("order_id", orderID).Msg("service: order cancelled, stock restored")
	return nil
}
