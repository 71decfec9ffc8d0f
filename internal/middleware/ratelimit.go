package middleware

import (
	"fmt"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
)

// RateLimit builds a chi-compatible middleware from a formatted rate such
// as "60-M". The store decides whether limits are shared across instances
// (Redis) or per-process (memory).
func RateLimit(formatted string, store limiter.Store) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	instance := limiter.New(store, rate)
	mw := stdlib.NewMiddleware(instance)
	return mw.Handler, nil
}
