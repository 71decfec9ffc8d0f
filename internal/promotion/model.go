package promotion

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/zone"
)

type DiscountType string

const (
	Percentage DiscountType = "percentage"
	Fixed      DiscountType = "fixed"
	BuyXGetY   DiscountType = "buy_x_get_y"
	Bundle     DiscountType = "bundle"
)

// Promotion is a time-windowed discount scoped by zone and optional
// product/category allow-lists. Empty Zones means all zones; empty
// allow-lists mean the promotion applies to everything.
type Promotion struct {
	ID                uuid.UUID        `json:"id"`
	NameEn            string           `json:"name_en"`
	NameAr            string           `json:"name_ar"`
	DiscountType      DiscountType     `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount,omitempty"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	BuyQty            *int             `json:"buy_qty,omitempty"`
	GetQty            *int             `json:"get_qty,omitempty"`
	BundleProductIDs  []uuid.UUID      `json:"bundle_product_ids,omitempty"`
	StartDate         time.Time        `json:"start_date"`
	EndDate           time.Time        `json:"end_date"`
	Zones             []zone.Zone      `json:"zones"`
	ProductIDs        []uuid.UUID      `json:"product_ids"`
	CategoryIDs       []uuid.UUID      `json:"category_ids"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// AppliesToProduct checks the promotion's product allow-list.
func (p *Promotion) AppliesToProduct(productID uuid.UUID) bool {
	if len(p.ProductIDs) == 0 {
		return true
	}
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// AppliesToCategory checks the promotion's category allow-list. A nil
// categoryID only passes when the allow-list is empty.
func (p *Promotion) AppliesToCategory(categoryID *uuid.UUID) bool {
	if len(p.CategoryIDs) == 0 {
		return true
	}
	if categoryID == nil {
		return false
	}
	for _, id := range p.CategoryIDs {
		if id == *categoryID {
			return true
		}
	}
	return false
}
