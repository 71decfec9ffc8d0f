package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/zone"
)

func TestFeePolicy_Fee(t *testing.T) {
	policy := cart.DefaultFeePolicy()

	tests := []struct {
		name         string
		customerZone zone.Zone
		vendorZones  []zone.Zone
		want         decimal.Decimal
	}{
		{
			name:         "same_zone",
			customerZone: zone.North,
			vendorZones:  []zone.Zone{zone.North, zone.Central},
			want:         decimal.NewFromInt(2500),
		},
		{
			name:         "cross_zone",
			customerZone: zone.South,
			vendorZones:  []zone.Zone{zone.North},
			want:         decimal.NewFromInt(5000),
		},
		{
			name:         "unknown_customer_zone",
			customerZone: "",
			vendorZones:  []zone.Zone{zone.North},
			want:         decimal.NewFromInt(5000),
		},
		{
			name:         "vendor_without_zones",
			customerZone: zone.North,
			vendorZones:  nil,
			want:         decimal.NewFromInt(5000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Fee(tt.customerZone, tt.vendorZones)
			assert.True(t, got.Equal(tt.want), "fee = %s, want %s", got, tt.want)
		})
	}
}
