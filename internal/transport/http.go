package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ulule/limiter/v3"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/catalog"
	"github.com/zonemart/zonemart/internal/company"
	"github.com/zonemart/zonemart/internal/config"
	"github.com/zonemart/zonemart/internal/db"
	"github.com/zonemart/zonemart/internal/handler"
	"github.com/zonemart/zonemart/internal/middleware"
	"github.com/zonemart/zonemart/internal/order"
	"github.com/zonemart/zonemart/internal/promotion"
	"github.com/zonemart/zonemart/internal/user"
)

// NewRouter wires repositories, services and handlers onto a chi router.
// Mutating routes sit behind the rate limiter.
func NewRouter(pg *db.Postgres, cfg *config.Config, limiterStore limiter.Store) (*chi.Mux, error) {
	catalogRepo := catalog.NewRepository(pg.Pool)
	companyRepo := company.NewRepository(pg.Pool)
	userRepo := user.NewRepository(pg.Pool)
	promoRepo := promotion.NewRepository(pg.Pool)
	orderRepo := order.NewRepository(pg.Pool)

	validator := cart.NewValidator(catalogRepo)
	matcher := promotion.NewMatcher(promoRepo, userRepo)
	fees := cart.FeePolicy{SameZone: cfg.Fees.SameZone, CrossZone: cfg.Fees.CrossZone}

	catalogSvc := catalog.NewService(catalogRepo, pg)
	orderSvc := order.NewService(orderRepo, userRepo, companyRepo, catalogRepo, validator, matcher, fees, pg)

	cartHandler := handler.NewCartHandler(orderSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	productHandler := handler.NewProductHandler(catalogSvc)

	rateLimit, err := middleware.RateLimit(cfg.App.RateLimit, limiterStore)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		cartHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r)
	})

	return r, nil
}
