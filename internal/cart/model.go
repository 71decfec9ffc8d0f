// Package cart implements the pure stages of the checkout pipeline:
// validating requested line items against the catalog, partitioning them
// into per-vendor groups and pricing each group's delivery.
package cart

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/catalog"
)

// Item is a raw requested line item. UnitPrice and DiscountPerUnit are
// optional overrides; when nil the catalog price and a zero discount apply.
type Item struct {
	ProductID       uuid.UUID        `json:"product_id"`
	Quantity        int              `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPerUnit *decimal.Decimal `json:"discount_per_unit,omitempty"`
}

// ValidatedItem is a line item that passed validation, enriched with its
// product and effective pricing. The promotion matcher may later rewrite
// DiscountPerUnit and set AppliedPromotionID.
type ValidatedItem struct {
	Product            catalog.Product  `json:"product"`
	Quantity           int              `json:"quantity"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	DiscountPerUnit    decimal.Decimal  `json:"discount_per_unit"`
	AppliedPromotionID *uuid.UUID       `json:"applied_promotion_id,omitempty"`
}

// Subtotal is unit price times quantity, before discounts.
func (i ValidatedItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Discount is the per-unit discount scaled by quantity.
func (i ValidatedItem) Discount() decimal.Decimal {
	return i.DiscountPerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total is the line total after discounts.
func (i ValidatedItem) Total() decimal.Decimal {
	return i.Subtotal().Sub(i.Discount())
}

// ValidationResult aggregates every per-item problem so the caller can
// report all of them in one response instead of failing on the first.
type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Errors []string        `json:"errors"`
	Items  []ValidatedItem `json:"items,omitempty"`
}

// ValidationError carries an invalid ValidationResult across the service
// boundary when checkout cannot proceed.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cart validation failed: %s", strings.Join(e.Errors, "; "))
}

// VendorGroup is the slice of a cart owned by one vendor. One order is
// created per group at checkout.
type VendorGroup struct {
	CompanyID   uuid.UUID       `json:"company_id"`
	CompanyName string          `json:"company_name"`
	Items       []ValidatedItem `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}
