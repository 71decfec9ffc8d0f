package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/order"
)

// CartHandler exposes cart validation and checkout.
type CartHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewCartHandler(svc order.Service) *CartHandler {
	return &CartHandler{svc: svc, validate: newValidate()}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/cart/validate", h.handleValidate)
	r.Post("/cart/checkout", h.handleCheckout)
}

type cartItemRequest struct {
	ProductID       uuid.UUID        `json:"product_id" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPerUnit *decimal.Decimal `json:"discount_per_unit,omitempty"`
}

// An empty items slice is deliberately allowed through: the cart validator
// reports "cart is empty" as part of its aggregate result.
type validateCartRequest struct {
	Items []cartItemRequest `json:"items" validate:"dive"`
}

type checkoutRequest struct {
	UserID        uuid.UUID         `json:"user_id" validate:"required"`
	AddressID     uuid.UUID         `json:"address_id" validate:"required"`
	Items         []cartItemRequest `json:"items" validate:"dive"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Notes         string            `json:"notes,omitempty"`
}

func toCartItems(reqs []cartItemRequest) []cart.Item {
	items := make([]cart.Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, cart.Item{
			ProductID:       r.ProductID,
			Quantity:        r.Quantity,
			UnitPrice:       r.UnitPrice,
			DiscountPerUnit: r.DiscountPerUnit,
		})
	}
	return items
}

func (h *CartHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithRequestError(w, err)
		return
	}

	result, err := h.svc.ValidateCart(r.Context(), toCartItems(req.Items))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *CartHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithRequestError(w, err)
		return
	}

	orders, err := h.svc.Checkout(r.Context(), order.CheckoutInput{
		UserID:        req.UserID,
		AddressID:     req.AddressID,
		Items:         toCartItems(req.Items),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]any{"orders": orders})
}
