package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/zone"
)

// UserZoneReader supplies the zone set promotions are filtered by.
type UserZoneReader interface {
	GetZones(ctx context.Context, userID uuid.UUID) ([]zone.Zone, error)
}

// Matcher selects the best applicable promotion per cart line item.
type Matcher struct {
	promos Repository
	users  UserZoneReader
	now    func() time.Time
}

func NewMatcher(promos Repository, users UserZoneReader) *Matcher {
	return &Matcher{promos: promos, users: users, now: time.Now}
}

// Apply rewrites each item's discount to the per-unit value of its best
// applicable promotion and records which promotion won. An item keeps its
// existing discount when no promotion beats it. The input slice is not
// modified.
func (m *Matcher) Apply(ctx context.Context, items []cart.ValidatedItem, userID uuid.UUID) ([]cart.ValidatedItem, error) {
	zones, err := m.users.GetZones(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("matcher: failed to load user zones: %w", err)
	}

	promotions, err := m.promos.FindActive(ctx, zones, m.now())
	if err != nil {
		return nil, fmt.Errorf("matcher: failed to load active promotions: %w", err)
	}

	out := make([]cart.ValidatedItem, len(items))
	copy(out, items)

	if len(promotions) == 0 {
		return out, nil
	}

	for i := range out {
		item := &out[i]

		// The item's current line discount is the floor a promotion has
		// to beat to be adopted.
		best := item.Discount()
		var winner *Promotion

		for j := range promotions {
			promo := &promotions[j]
			candidate, ok := lineDiscount(promo, item)
			if !ok {
				continue
			}
			if candidate.GreaterThan(best) {
				best = candidate
				winner = promo
			}
		}

		if winner != nil {
			// The per-unit value is rounded to a fixed scale so the line
			// discount recomputed from it does not depend on the package
			// division precision.
			qty := decimal.NewFromInt(int64(item.Quantity))
			item.DiscountPerUnit = best.Div(qty).Round(4)
			item.AppliedPromotionID = &winner.ID

			log.Debug().
				Stringer("product_id", item.Product.ID).
				Stringer("promotion_id", winner.ID).
				Str("discount", best.String()).
				Msg("matcher: promotion applied to line item")
		}
	}

	return out, nil
}

// lineDiscount computes the hypothetical discount promo would give item,
// or ok=false when the promotion does not apply. Percentage discounts are
// taken from the quantity-scaled line total and capped; fixed discounts are
// a flat amount off the line, applied once regardless of quantity.
// Buy-x-get-y and bundle promotions are not matched per line item here;
// they only surface through explicitly priced cart overrides.
func lineDiscount(promo *Promotion, item *cart.ValidatedItem) (decimal.Decimal, bool) {
	if !promo.AppliesToProduct(item.Product.ID) {
		return decimal.Zero, false
	}
	if !promo.AppliesToCategory(item.Product.CategoryID) {
		return decimal.Zero, false
	}
	if promo.MinPurchaseAmount != nil && item.Subtotal().LessThan(*promo.MinPurchaseAmount) {
		return decimal.Zero, false
	}

	switch promo.DiscountType {
	case Percentage:
		discount := item.Total().Mul(promo.DiscountValue).Div(decimal.NewFromInt(100))
		if promo.MaxDiscountAmount != nil && discount.GreaterThan(*promo.MaxDiscountAmount) {
			discount = *promo.MaxDiscountAmount
		}
		return discount, true
	case Fixed:
		return promo.DiscountValue, true
	default:
		return decimal.Zero, false
	}
}
