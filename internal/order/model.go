package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/cart"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

func (os OrderStatus) String() string {
	return string(os)
}

// allowedTransitions is the order lifecycle. DELIVERED and CANCELLED are
// terminal; CANCELLED is reachable from every non-terminal state.
var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusShipped:   true,
		StatusCancelled: true,
	},
	StatusShipped: {
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to OrderStatus) bool {
	return allowedTransitions[from][to]
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Order is one vendor's slice of a checkout. A cart spanning N vendors
// produces N orders, all created in the same transaction.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uuid.UUID       `json:"user_id"`
	AddressID     uuid.UUID       `json:"address_id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Status        OrderStatus     `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Notes         string          `json:"notes,omitempty"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem snapshots a product line at order time. Immutable once created.
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	PromotionID *uuid.UUID      `json:"promotion_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StatusHistory is one append-only entry of the order's audit trail.
// FromStatus is nil for the creation entry.
type StatusHistory struct {
	ID         uuid.UUID    `json:"id"`
	OrderID    uuid.UUID    `json:"order_id"`
	FromStatus *OrderStatus `json:"from_status,omitempty"`
	ToStatus   OrderStatus  `json:"to_status"`
	Comment    string       `json:"comment,omitempty"`
	ActorID    *uuid.UUID   `json:"actor_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// CheckoutInput is the fully-typed request the orchestrator accepts.
type CheckoutInput struct {
	UserID        uuid.UUID
	AddressID     uuid.UUID
	Items         []cart.Item
	PaymentMethod string
	Notes         string
}
