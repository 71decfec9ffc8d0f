package promotion_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/catalog"
	"github.com/zonemart/zonemart/internal/promotion"
	"github.com/zonemart/zonemart/internal/zone"
)

type mockPromoRepository struct {
	findActiveFunc func(ctx context.Context, zones []zone.Zone, now time.Time) ([]promotion.Promotion, error)
}

func (m *mockPromoRepository) FindActive(ctx context.Context, zones []zone.Zone, now time.Time) ([]promotion.Promotion, error) {
	return m.findActiveFunc(ctx, zones, now)
}

type mockZoneReader struct {
	zones []zone.Zone
}

func (m *mockZoneReader) GetZones(ctx context.Context, userID uuid.UUID) ([]zone.Zone, error) {
	return m.zones, nil
}

func matcherWith(promos []promotion.Promotion) *promotion.Matcher {
	repo := &mockPromoRepository{
		findActiveFunc: func(ctx context.Context, zones []zone.Zone, now time.Time) ([]promotion.Promotion, error) {
			return promos, nil
		},
	}
	return promotion.NewMatcher(repo, &mockZoneReader{zones: []zone.Zone{zone.North}})
}

func lineItem(price int64, qty int) cart.ValidatedItem {
	return cart.ValidatedItem{
		Product: catalog.Product{
			ID:     uuid.Must(uuid.NewV4()),
			NameEn: "Olive Oil 5L",
		},
		Quantity:        qty,
		UnitPrice:       decimal.NewFromInt(price),
		DiscountPerUnit: decimal.Zero,
	}
}

func percentPromo(value int64) promotion.Promotion {
	return promotion.Promotion{
		ID:            uuid.Must(uuid.NewV4()),
		NameEn:        "Percent off",
		DiscountType:  promotion.Percentage,
		DiscountValue: decimal.NewFromInt(value),
		IsActive:      true,
	}
}

func fixedPromo(value int64) promotion.Promotion {
	return promotion.Promotion{
		ID:            uuid.Must(uuid.NewV4()),
		NameEn:        "Flat off",
		DiscountType:  promotion.Fixed,
		DiscountValue: decimal.NewFromInt(value),
		IsActive:      true,
	}
}

func TestMatcher_Apply_PercentageDiscount(t *testing.T) {
	m := matcherWith([]promotion.Promotion{percentPromo(10)})

	// Subtotal 1000, 10% => 100 off the line, 20 per unit.
	items, err := m.Apply(context.Background(), []cart.ValidatedItem{lineItem(200, 5)}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	require.NotNil(t, item.AppliedPromotionID)
	assert.True(t, item.Discount().Equal(decimal.NewFromInt(100)), "line discount = %s", item.Discount())
	assert.True(t, item.DiscountPerUnit.Equal(decimal.NewFromInt(20)), "per unit = %s", item.DiscountPerUnit)
}

func TestMatcher_Apply_PercentageCappedAtMax(t *testing.T) {
	promo := percentPromo(10)
	cap := decimal.NewFromInt(50)
	promo.MaxDiscountAmount = &cap
	m := matcherWith([]promotion.Promotion{promo})

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{lineItem(200, 5)}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	assert.True(t, items[0].Discount().Equal(decimal.NewFromInt(50)), "line discount = %s", items[0].Discount())
}

func TestMatcher_Apply_FixedIsFlatPerLine(t *testing.T) {
	// A fixed discount is a flat amount off the line, not scaled by
	// quantity: 75 off whether the line has 1 unit or 5.
	m := matcherWith([]promotion.Promotion{fixedPromo(75)})

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{lineItem(200, 5)}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	item := items[0]
	require.NotNil(t, item.AppliedPromotionID)
	assert.True(t, item.Discount().Equal(decimal.NewFromInt(75)), "line discount = %s", item.Discount())
	assert.True(t, item.DiscountPerUnit.Equal(decimal.NewFromInt(15)), "per unit = %s", item.DiscountPerUnit)
}

func TestMatcher_Apply_PerUnitDiscountRounded(t *testing.T) {
	// 100 flat over 3 units does not divide evenly; the per-unit value is
	// fixed at 4 decimal places so the line discount is stable.
	m := matcherWith([]promotion.Promotion{fixedPromo(100)})

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{lineItem(200, 3)}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	item := items[0]
	require.NotNil(t, item.AppliedPromotionID)
	assert.True(t, item.DiscountPerUnit.Equal(decimal.RequireFromString("33.3333")),
		"per unit = %s", item.DiscountPerUnit)
	assert.True(t, item.Discount().Equal(decimal.RequireFromString("99.9999")),
		"line discount = %s", item.Discount())
}

func TestMatcher_Apply_BestDiscountWins(t *testing.T) {
	tenPercent := percentPromo(10) // 100 on a 1000 line
	flatFifty := fixedPromo(50)
	m := matcherWith([]promotion.Promotion{flatFifty, tenPercent})

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{lineItem(200, 5)}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	item := items[0]
	require.NotNil(t, item.AppliedPromotionID)
	assert.Equal(t, tenPercent.ID, *item.AppliedPromotionID)
	assert.True(t, item.Discount().Equal(decimal.NewFromInt(100)))
}

func TestMatcher_Apply_ExistingDiscountIsFloor(t *testing.T) {
	m := matcherWith([]promotion.Promotion{fixedPromo(50)})

	// Line already carries 30 per unit x 5 = 150 off; the 50 flat
	// promotion must not replace it.
	item := lineItem(200, 5)
	item.DiscountPerUnit = decimal.NewFromInt(30)

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{item}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	assert.Nil(t, items[0].AppliedPromotionID)
	assert.True(t, items[0].DiscountPerUnit.Equal(decimal.NewFromInt(30)))
}

func TestMatcher_Apply_ProductAllowList(t *testing.T) {
	item := lineItem(200, 5)
	other := uuid.Must(uuid.NewV4())

	promoForOther := percentPromo(10)
	promoForOther.ProductIDs = []uuid.UUID{other}

	promoForItem := percentPromo(5)
	promoForItem.ProductIDs = []uuid.UUID{item.Product.ID}

	m := matcherWith([]promotion.Promotion{promoForOther, promoForItem})

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{item}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	require.NotNil(t, items[0].AppliedPromotionID)
	assert.Equal(t, promoForItem.ID, *items[0].AppliedPromotionID)
	assert.True(t, items[0].Discount().Equal(decimal.NewFromInt(50)))
}

func TestMatcher_Apply_CategoryAllowList(t *testing.T) {
	categoryID := uuid.Must(uuid.NewV4())

	item := lineItem(200, 5)
	item.Product.CategoryID = &categoryID

	uncategorized := lineItem(200, 5)

	promo := percentPromo(10)
	promo.CategoryIDs = []uuid.UUID{categoryID}
	m := matcherWith([]promotion.Promotion{promo})

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{item, uncategorized}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	assert.NotNil(t, items[0].AppliedPromotionID)
	assert.Nil(t, items[1].AppliedPromotionID, "item without category must not match a category-scoped promotion")
}

func TestMatcher_Apply_MinPurchaseAmount(t *testing.T) {
	promo := percentPromo(10)
	min := decimal.NewFromInt(2000)
	promo.MinPurchaseAmount = &min
	m := matcherWith([]promotion.Promotion{promo})

	items, err := m.Apply(context.Background(), []cart.ValidatedItem{
		lineItem(200, 5),  // subtotal 1000, below min
		lineItem(500, 10), // subtotal 5000, qualifies
	}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	assert.Nil(t, items[0].AppliedPromotionID)
	assert.NotNil(t, items[1].AppliedPromotionID)
}

func TestMatcher_Apply_NoPromotions(t *testing.T) {
	m := matcherWith(nil)

	original := lineItem(200, 5)
	items, err := m.Apply(context.Background(), []cart.ValidatedItem{original}, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	assert.Nil(t, items[0].AppliedPromotionID)
	assert.True(t, items[0].DiscountPerUnit.Equal(decimal.Zero))
}

func TestMatcher_Apply_DoesNotMutateInput(t *testing.T) {
	m := matcherWith([]promotion.Promotion{percentPromo(10)})

	input := []cart.ValidatedItem{lineItem(200, 5)}
	_, err := m.Apply(context.Background(), input, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	assert.True(t, input[0].DiscountPerUnit.Equal(decimal.Zero))
	assert.Nil(t, input[0].AppliedPromotionID)
}
