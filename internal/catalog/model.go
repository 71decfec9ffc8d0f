package catalog

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/zone"
)

// Product is a vendor-supplied catalog entry. Stock never goes below zero:
// every mutation path checks the resulting quantity before writing.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	NameEn        string          `json:"name_en"`
	NameAr        string          `json:"name_ar"`
	DescriptionEn string          `json:"description_en,omitempty"`
	DescriptionAr string          `json:"description_ar,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	MinOrderQty   int             `json:"min_order_qty"`
	Unit          string          `json:"unit"`
	Zones         []zone.Zone     `json:"zones"`
	CompanyID     *uuid.UUID      `json:"company_id,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	IsActive      bool            `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DisplayName returns the English name, falling back to the Arabic one.
func (p *Product) DisplayName() string {
	if p.NameEn != "" {
		return p.NameEn
	}
	return p.NameAr
}

type Category struct {
	ID           uuid.UUID  `json:"id"`
	NameEn       string     `json:"name_en"`
	NameAr       string     `json:"name_ar"`
	Slug         string     `json:"slug"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	DisplayOrder int        `json:"display_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StockOperation selects how a direct stock update changes the quantity.
type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
)

// Stock history reasons.
const (
	ReasonManualAdd      = "MANUAL_ADD"
	ReasonManualSubtract = "MANUAL_SUBTRACT"
	ReasonManualSet      = "MANUAL_SET"
	ReasonOrderCreated   = "ORDER_CREATED"
	ReasonOrderCancelled = "ORDER_CANCELLED"
)

// StockHistory is an append-only record of a single stock mutation.
// ReferenceID points back at the order that caused it, when there is one.
type StockHistory struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	Before      int        `json:"before"`
	After       int        `json:"after"`
	Reason      string     `json:"reason"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProductFilter narrows ListProducts results. Zero values mean "no filter".
type ProductFilter struct {
	Zone       zone.Zone
	CompanyID  *uuid.UUID
	CategoryID *uuid.UUID
	OnlyActive bool
}
