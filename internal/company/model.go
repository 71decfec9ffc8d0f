package company

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/zone"
)

// Company is a vendor selling through the platform. CommissionRate is a
// percentage in [0,100].
type Company struct {
	ID             uuid.UUID       `json:"id"`
	NameEn         string          `json:"name_en"`
	NameAr         string          `json:"name_ar"`
	Zones          []zone.Zone     `json:"zones"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DisplayName returns the English name, falling back to the Arabic one.
func (c *Company) DisplayName() string {
	if c.NameEn != "" {
		return c.NameEn
	}
	return c.NameAr
}
