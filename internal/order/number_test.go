package order_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonemart/zonemart/internal/order"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 30, 5, 0, time.UTC)

	number, err := order.NewOrderNumber(now)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-20250601143005-[0-9a-f]{8}$`), number)
}

func TestNewOrderNumber_Distinct(t *testing.T) {
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number, err := order.NewOrderNumber(now)
		require.NoError(t, err)
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
}
