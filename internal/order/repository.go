package order

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
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistory, error)

	// Transaction-scoped operations issued through the caller's handle.
	CreateOrderWithItems(ctx context.Context, q db.Querier, o *Order) error
	GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, q db.Querier, orderID uuid.UUID, newStatus OrderStatus) error
	AppendStatusHistory(ctx context.Context, q db.Querier, h *StatusHistory) error
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const orderColumns = `id, order_number, user_id, address_id, company_id, status,
	subtotal, discount, delivery_fee, total, payment_method, payment_status,
	notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.AddressID,
		&o.CompanyID,
		&o.Status,
		&o.Subtotal,
		&o.Discount,
		&o.DeliveryFee,
		&o.Total,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) CreateOrderWithItems(ctx context.Context, q db.Querier, o *Order) error {
	if o.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order ID: %w", err)
		}
		o.ID = id
	}

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	queryOrder := `
		INSERT INTO orders (id, order_number, user_id, address_id, company_id, status,
			subtotal, discount, delivery_fee, total, payment_method, payment_status,
			notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := q.Exec(ctx, queryOrder,
		o.ID, o.OrderNumber, o.UserID, o.AddressID, o.CompanyID, string(o.Status),
		o.Subtotal, o.Discount, o.DeliveryFee, o.Total, o.PaymentMethod,
		string(o.PaymentStatus), o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price,
			discount, total, promotion_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i := range o.Items {
		item := &o.Items[i]

		itemID, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order item ID: %w", err)
		}
		item.ID = itemID
		item.OrderID = o.ID
		item.CreatedAt = now

		_, err = q.Exec(ctx, queryItem,
			item.ID, item.OrderID, item.ProductID, item.Quantity,
			item.UnitPrice, item.Discount, item.Total, item.PromotionID, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", o.ID, err)
		}
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order %s: %w", id, err)
	}

	items, err := r.loadItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to lock order %s: %w", id, err)
	}

	items, err := r.loadItems(ctx, q, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, q db.Querier, orderID uuid.UUID) ([]OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, discount, total, promotion_id, created_at
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order %s: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Discount,
			&item.Total,
			&item.PromotionID,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for order %s: %w", orderID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for order %s: %w", orderID, err)
	}
	return items, nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for user %s: %w", userID, err)
		}
		o.Items = make([]OrderItem, 0)
		ordersMap[o.ID] = o
		orderIDs = append(orderIDs, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for user %s: %w", userID, err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, unit_price, discount, total, promotion_id, created_at
		FROM order_items
		WHERE order_id = ANY($1)
	`
	itemRows, err := r.db.Query(ctx, itemsQuery, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for user %s: %w", userID, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item OrderItem
		err := itemRows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Discount,
			&item.Total,
			&item.PromotionID,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for user %s: %w", userID, err)
		}
		if o, ok := ordersMap[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for user %s: %w", userID, err)
	}

	orders := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		if o, ok := ordersMap[id]; ok {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, q db.Querier, orderID uuid.UUID, newStatus OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	cmdTag, err := q.Exec(ctx, query, orderID, string(newStatus), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("repository: failed to update status for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) AppendStatusHistory(ctx context.Context, q db.Querier, h *StatusHistory) error {
	if h.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate status history ID: %w", err)
		}
		h.ID = id
	}
	h.CreatedAt = time.Now().UTC()

	var from *string
	if h.FromStatus != nil {
		s := string(*h.FromStatus)
		from = &s
	}

	query := `
		INSERT INTO order_status_history (id, order_id, from_status, to_status, comment, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query, h.ID, h.OrderID, from, string(h.ToStatus), h.Comment, h.ActorID, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert status history for order %s: %w", h.OrderID, err)
	}
	return nil
}

func (r *postgresRepository) GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistory, error) {
	query := `
		SELECT id, order_id, from_status, to_status, comment, actor_id, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query status history for order %s: %w", orderID, err)
	}
	defer rows.Close()

	history := make([]StatusHistory, 0)
	for rows.Next() {
		var h StatusHistory
		var from *string
		err := rows.Scan(&h.ID, &h.OrderID, &from, &h.ToStatus, &h.Comment, &h.ActorID, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan status history for order %s: %w", orderID, err)
		}
		if from != nil {
			status := OrderStatus(*from)
			h.FromStatus = &status
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating status history for order %s: %w", orderID, err)
	}
	return history, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
