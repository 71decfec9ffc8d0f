package cart

import (
	"github.com/gofrs/uuid"

	"github.com/zonemart/zonemart/internal/company"
	"github.com/zonemart/zonemart/internal/zone"
)

// GroupByVendor partitions validated items into one group per owning
// company, in the order companies are first encountered. Items whose
// product has no resolvable company are not orderable and are dropped.
// The delivery fee is fixed once at group creation; totals are finalized
// after every item is placed.
func GroupByVendor(items []ValidatedItem, customerZone zone.Zone, companies map[uuid.UUID]company.Company, fees FeePolicy) []VendorGroup {
	groups := make([]VendorGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, item := range items {
		if item.Product.CompanyID == nil {
			continue
		}
		vendor, ok := companies[*item.Product.CompanyID]
		if !ok {
			continue
		}

		i, ok := index[vendor.ID]
		if !ok {
			groups = append(groups, VendorGroup{
				CompanyID:   vendor.ID,
				CompanyName: vendor.DisplayName(),
				Items:       make([]ValidatedItem, 0, 1),
				DeliveryFee: fees.Fee(customerZone, vendor.Zones),
			})
			i = len(groups) - 1
			index[vendor.ID] = i
		}

		group := &groups[i]
		group.Items = append(group.Items, item)
		group.Subtotal = group.Subtotal.Add(item.Subtotal())
		group.Discount = group.Discount.Add(item.Discount())
	}

	for i := range groups {
		g := &groups[i]
		g.Total = g.Subtotal.Sub(g.Discount).Add(g.DeliveryFee)
	}

	return groups
}
