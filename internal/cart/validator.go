package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/catalog"
)

// ProductReader is the catalog access the validator needs.
type ProductReader interface {
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error)
}

type Validator struct {
	products ProductReader
}

func NewValidator(products ProductReader) *Validator {
	return &Validator{products: products}
}

var errZeroQuantity = errors.New("cart item quantity must be greater than zero")

// Validate checks every requested item against current catalog state and
// returns one aggregate result. It never fails fast on a single line item;
// the stock check here is advisory and is repeated inside the checkout
// transaction.
func (v *Validator) Validate(ctx context.Context, items []Item) (*ValidationResult, error) {
	result := &ValidationResult{
		Errors: make([]string, 0),
		Items:  make([]ValidatedItem, 0, len(items)),
	}

	if len(items) == 0 {
		result.Errors = append(result.Errors, "cart is empty")
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", errZeroQuantity, item.ProductID)
		}
		ids = append(ids, item.ProductID)
	}

	products, err := v.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("validator: failed to load products: %w", err)
	}

	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Product %s not found", item.ProductID))
			continue
		}
		if !product.IsActive {
			result.Errors = append(result.Errors, fmt.Sprintf("Product %s is not available", product.DisplayName()))
			continue
		}
		if product.Stock < item.Quantity {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Insufficient stock for %s. Available: %d, Requested: %d",
				product.DisplayName(), product.Stock, item.Quantity))
			continue
		}
		if item.Quantity < product.MinOrderQty {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Minimum order quantity for %s is %d",
				product.DisplayName(), product.MinOrderQty))
			continue
		}

		unitPrice := product.Price
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		discount := decimal.Zero
		if item.DiscountPerUnit != nil {
			discount = *item.DiscountPerUnit
		}

		result.Items = append(result.Items, ValidatedItem{
			Product:         product,
			Quantity:        item.Quantity,
			UnitPrice:       unitPrice,
			DiscountPerUnit: discount,
		})
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}
