package cart

import (
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/zone"
)

// FeePolicy prices delivery for a vendor group. Pricing is a two-tier
// table: a reduced fee when the vendor serves the customer's zone, the
// cross-zone fee otherwise or when either side's zone is unknown.
type FeePolicy struct {
	SameZone  decimal.Decimal
	CrossZone decimal.Decimal
}

// DefaultFeePolicy returns the platform's standard two tiers.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		SameZone:  decimal.NewFromInt(2500),
		CrossZone: decimal.NewFromInt(5000),
	}
}

// Fee returns the delivery fee for a vendor serving vendorZones delivering
// to customerZone.
func (f FeePolicy) Fee(customerZone zone.Zone, vendorZones []zone.Zone) decimal.Decimal {
	if customerZone == "" || len(vendorZones) == 0 {
		return f.CrossZone
	}
	if zone.Contains(vendorZones, customerZone) {
		return f.SameZone
	}
	return f.CrossZone
}
