package cart_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/catalog"
	"github.com/zonemart/zonemart/internal/company"
	"github.com/zonemart/zonemart/internal/zone"
)

func testFeePolicy() cart.FeePolicy {
	return cart.FeePolicy{
		SameZone:  decimal.NewFromInt(2500),
		CrossZone: decimal.NewFromInt(5000),
	}
}

func vendorItem(companyID *uuid.UUID, price int64, qty int, discountPerUnit int64) cart.ValidatedItem {
	return cart.ValidatedItem{
		Product: catalog.Product{
			ID:        uuid.Must(uuid.NewV4()),
			CompanyID: companyID,
		},
		Quantity:        qty,
		UnitPrice:       decimal.NewFromInt(price),
		DiscountPerUnit: decimal.NewFromInt(discountPerUnit),
	}
}

func TestGroupByVendor_TwoVendorsSameZone(t *testing.T) {
	vendorA := company.Company{ID: uuid.Must(uuid.NewV4()), NameEn: "Delta Foods", Zones: []zone.Zone{zone.North}}
	vendorB := company.Company{ID: uuid.Must(uuid.NewV4()), NameEn: "Nile Supplies", Zones: []zone.Zone{zone.North, zone.Central}}
	companies := map[uuid.UUID]company.Company{vendorA.ID: vendorA, vendorB.ID: vendorB}

	items := []cart.ValidatedItem{
		vendorItem(&vendorA.ID, 100, 2, 0),
		vendorItem(&vendorB.ID, 50, 4, 0),
	}

	groups := cart.GroupByVendor(items, zone.North, companies, testFeePolicy())

	require.Len(t, groups, 2)
	assert.Equal(t, vendorA.ID, groups[0].CompanyID)
	assert.Equal(t, "Delta Foods", groups[0].CompanyName)
	assert.Equal(t, vendorB.ID, groups[1].CompanyID)
	for _, g := range groups {
		assert.True(t, g.DeliveryFee.Equal(decimal.NewFromInt(2500)), "delivery fee = %s", g.DeliveryFee)
	}
}

func TestGroupByVendor_Aggregates(t *testing.T) {
	vendor := company.Company{ID: uuid.Must(uuid.NewV4()), NameEn: "Delta Foods", Zones: []zone.Zone{zone.North}}
	companies := map[uuid.UUID]company.Company{vendor.ID: vendor}

	// 2 x 100 with 10 off per unit, plus 4 x 50.
	items := []cart.ValidatedItem{
		vendorItem(&vendor.ID, 100, 2, 10),
		vendorItem(&vendor.ID, 50, 4, 0),
	}

	groups := cart.GroupByVendor(items, zone.North, companies, testFeePolicy())

	require.Len(t, groups, 1)
	g := groups[0]
	assert.True(t, g.Subtotal.Equal(decimal.NewFromInt(400)), "subtotal = %s", g.Subtotal)
	assert.True(t, g.Discount.Equal(decimal.NewFromInt(20)), "discount = %s", g.Discount)
	assert.True(t, g.DeliveryFee.Equal(decimal.NewFromInt(2500)))
	// 400 - 20 + 2500
	assert.True(t, g.Total.Equal(decimal.NewFromInt(2880)), "total = %s", g.Total)
	assert.Len(t, g.Items, 2)
}

func TestGroupByVendor_CrossZoneFee(t *testing.T) {
	vendor := company.Company{ID: uuid.Must(uuid.NewV4()), NameEn: "Delta Foods", Zones: []zone.Zone{zone.South}}
	companies := map[uuid.UUID]company.Company{vendor.ID: vendor}

	groups := cart.GroupByVendor(
		[]cart.ValidatedItem{vendorItem(&vendor.ID, 100, 1, 0)},
		zone.North, companies, testFeePolicy(),
	)

	require.Len(t, groups, 1)
	assert.True(t, groups[0].DeliveryFee.Equal(decimal.NewFromInt(5000)))
}

func TestGroupByVendor_DropsItemsWithoutCompany(t *testing.T) {
	vendor := company.Company{ID: uuid.Must(uuid.NewV4()), NameEn: "Delta Foods"}
	companies := map[uuid.UUID]company.Company{vendor.ID: vendor}
	unknownCompanyID := uuid.Must(uuid.NewV4())

	items := []cart.ValidatedItem{
		vendorItem(nil, 100, 1, 0),               // no owning company
		vendorItem(&unknownCompanyID, 100, 1, 0), // company not resolvable
		vendorItem(&vendor.ID, 100, 1, 0),
	}

	groups := cart.GroupByVendor(items, zone.North, companies, testFeePolicy())

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Items, 1)
}

func TestGroupByVendor_FirstEncounterOrder(t *testing.T) {
	vendorA := company.Company{ID: uuid.Must(uuid.NewV4()), NameEn: "A"}
	vendorB := company.Company{ID: uuid.Must(uuid.NewV4()), NameEn: "B"}
	companies := map[uuid.UUID]company.Company{vendorA.ID: vendorA, vendorB.ID: vendorB}

	items := []cart.ValidatedItem{
		vendorItem(&vendorB.ID, 10, 1, 0),
		vendorItem(&vendorA.ID, 10, 1, 0),
		vendorItem(&vendorB.ID, 10, 1, 0),
	}

	groups := cart.GroupByVendor(items, "", companies, testFeePolicy())

	require.Len(t, groups, 2)
	assert.Equal(t, vendorB.ID, groups[0].CompanyID)
	assert.Equal(t, vendorA.ID, groups[1].CompanyID)
	assert.Len(t, groups[0].Items, 2)
}
