package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonemart/zonemart/internal/catalog"
	"github.com/zonemart/zonemart/internal/db"
)

// fakeTxRunner executes the function directly; transaction semantics are
// covered by the Postgres layer, not these tests.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTransaction(ctx context.Context, fn func(q db.Querier) error) error {
	return fn(nil)
}

type mockRepository struct {
	catalog.Repository

	getForUpdateFunc func(ctx context.Context, q db.Querier, id uuid.UUID) (*catalog.Product, error)
	updateStockFunc  func(ctx context.Context, q db.Querier, id uuid.UUID, newStock int) error
	history          []catalog.StockHistory
}

func (m *mockRepository) GetProductForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*catalog.Product, error) {
	return m.getForUpdateFunc(ctx, q, id)
}

func (m *mockRepository) UpdateStock(ctx context.Context, q db.Querier, id uuid.UUID, newStock int) error {
	return m.updateStockFunc(ctx, q, id, newStock)
}

func (m *mockRepository) AppendStockHistory(ctx context.Context, q db.Querier, h *catalog.StockHistory) error {
	m.history = append(m.history, *h)
	return nil
}

func TestService_UpdateStock(t *testing.T) {
	productID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name         string
		currentStock int
		qty          int
		op           catalog.StockOperation
		wantStock    int
		wantReason   string
		wantErrIs    error
	}{
		{
			name:         "add",
			currentStock: 50,
			qty:          25,
			op:           catalog.StockAdd,
			wantStock:    75,
			wantReason:   catalog.ReasonManualAdd,
		},
		{
			name:         "subtract",
			currentStock: 50,
			qty:          20,
			op:           catalog.StockSubtract,
			wantStock:    30,
			wantReason:   catalog.ReasonManualSubtract,
		},
		{
			name:         "subtract_below_zero_rejected",
			currentStock: 50,
			qty:          100,
			op:           catalog.StockSubtract,
			wantErrIs:    catalog.ErrInsufficientStock,
		},
		{
			name:         "set",
			currentStock: 50,
			qty:          0,
			op:           catalog.StockSet,
			wantStock:    0,
			wantReason:   catalog.ReasonManualSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var written *int
			repo := &mockRepository{
				getForUpdateFunc: func(ctx context.Context, q db.Querier, id uuid.UUID) (*catalog.Product, error) {
					return &catalog.Product{
						ID:    productID,
						Price: decimal.NewFromInt(100),
						Stock: tt.currentStock,
					}, nil
				},
				updateStockFunc: func(ctx context.Context, q db.Querier, id uuid.UUID, newStock int) error {
					written = &newStock
					return nil
				},
			}
			svc := catalog.NewService(repo, fakeTxRunner{})

			product, err := svc.UpdateStock(context.Background(), productID, tt.qty, tt.op, nil)

			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErrIs))
				assert.Nil(t, written, "stock must not be written on rejection")
				assert.Empty(t, repo.history)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, written)
			assert.Equal(t, tt.wantStock, *written)
			assert.Equal(t, tt.wantStock, product.Stock)

			require.Len(t, repo.history, 1)
			assert.Equal(t, tt.currentStock, repo.history[0].Before)
			assert.Equal(t, tt.wantStock, repo.history[0].After)
			assert.Equal(t, tt.wantReason, repo.history[0].Reason)
		})
	}
}

func TestService_UpdateStock_ProductNotFound(t *testing.T) {
	repo := &mockRepository{
		getForUpdateFunc: func(ctx context.Context, q db.Querier, id uuid.UUID) (*catalog.Product, error) {
			return nil, catalog.ErrProductNotFound
		},
	}
	svc := catalog.NewService(repo, fakeTxRunner{})

	_, err := svc.UpdateStock(context.Background(), uuid.Must(uuid.NewV4()), 10, catalog.StockAdd, nil)
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestService_UpdateStock_NegativeQuantityRejected(t *testing.T) {
	var written bool
	repo := &mockRepository{
		getForUpdateFunc: func(ctx context.Context, q db.Querier, id uuid.UUID) (*catalog.Product, error) {
			return &catalog.Product{ID: id, Stock: 50}, nil
		},
		updateStockFunc: func(ctx context.Context, q db.Querier, id uuid.UUID, newStock int) error {
			written = true
			return nil
		},
	}
	svc := catalog.NewService(repo, fakeTxRunner{})

	_, err := svc.UpdateStock(context.Background(), uuid.Must(uuid.NewV4()), -5, catalog.StockAdd, nil)
	assert.Error(t, err)
	assert.False(t, written)
	assert.Empty(t, repo.history)
}

func TestService_UpdateStock_NotFoundBeatsNegativeQuantity(t *testing.T) {
	repo := &mockRepository{
		getForUpdateFunc: func(ctx context.Context, q db.Querier, id uuid.UUID) (*catalog.Product, error) {
			return nil, catalog.ErrProductNotFound
		},
	}
	svc := catalog.NewService(repo, fakeTxRunner{})

	_, err := svc.UpdateStock(context.Background(), uuid.Must(uuid.NewV4()), -5, catalog.StockAdd, nil)
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound),
		"unknown product must report not-found even when the quantity is also bad")
}

func TestService_CreateCategory_SlugValidation(t *testing.T) {
	repo := &mockRepository{}
	svc := catalog.NewService(repo, fakeTxRunner{})

	for _, slug := range []string{"Dairy Products", "dairy_products", "-dairy", ""} {
		err := svc.CreateCategory(context.Background(), &catalog.Category{NameEn: "Dairy", Slug: slug})
		assert.Error(t, err, "slug %q must be rejected", slug)
	}
}
