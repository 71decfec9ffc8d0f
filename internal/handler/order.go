package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"

	"github.com/zonemart/zonemart/internal/order"
)

// OrderHandler exposes order reads and lifecycle transitions.
type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc, validate: newValidate()}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders/{id}", h.handleGetOrder)
	r.Get("/orders/{id}/history", h.handleGetHistory)
	r.Patch("/orders/{id}/status", h.handleUpdateStatus)
	r.Post("/orders/{id}/cancel", h.handleCancel)
	r.Get("/users/{id}/orders", h.handleGetUserOrders)
}

func parseIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.svc.GetOrderByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	history, err := h.svc.GetStatusHistory(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (h *OrderHandler) handleGetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	orders, err := h.svc.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type updateStatusRequest struct {
	Status  order.OrderStatus `json:"status" validate:"required"`
	Comment string            `json:"comment,omitempty"`
	ActorID *uuid.UUID        `json:"actor_id,omitempty"`
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithRequestError(w, err)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status, req.Comment, req.ActorID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

type cancelRequest struct {
	Comment string     `json:"comment,omitempty"`
	ActorID *uuid.UUID `json:"actor_id,omitempty"`
}

func (h *OrderHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req cancelRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.svc.Cancel(r.Context(), id, req.Comment, req.ActorID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": string(order.StatusCancelled)})
}
