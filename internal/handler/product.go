package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/zonemart/zonemart/internal/catalog"
	"github.com/zonemart/zonemart/internal/zone"
)

// ProductHandler exposes catalog reads, admin creation and direct stock
// updates.
type ProductHandler struct {
	svc      catalog.Service
	validate *validator.Validate
}

func NewProductHandler(svc catalog.Service) *ProductHandler {
	return &ProductHandler{svc: svc, validate: newValidate()}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{id}", h.handleGetProduct)
	r.Post("/products", h.handleCreateProduct)
	r.Patch("/products/{id}/stock", h.handleUpdateStock)
	r.Post("/categories", h.handleCreateCategory)
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ProductFilter{OnlyActive: r.URL.Query().Get("include_inactive") != "true"}

	if z := r.URL.Query().Get("zone"); z != "" {
		candidate := zone.Zone(z)
		if !candidate.Valid() {
			respondWithError(w, http.StatusBadRequest, "unknown zone")
			return
		}
		filter.Zone = candidate
	}
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		id, err := uuid.FromString(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid company_id")
			return
		}
		filter.CompanyID = &id
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.FromString(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		filter.CategoryID = &id
	}

	products, err := h.svc.ListProducts(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *ProductHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	SKU           string          `json:"sku" validate:"required"`
	NameEn        string          `json:"name_en"`
	NameAr        string          `json:"name_ar"`
	DescriptionEn string          `json:"description_en"`
	DescriptionAr string          `json:"description_ar"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock" validate:"gte=0"`
	MinOrderQty   int             `json:"min_order_qty" validate:"gte=0"`
	Unit          string          `json:"unit"`
	Zones         []zone.Zone     `json:"zones" validate:"dive,zone"`
	CompanyID     *uuid.UUID      `json:"company_id"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	IsActive      bool            `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithRequestError(w, err)
		return
	}

	product := catalog.Product{
		SKU:           req.SKU,
		NameEn:        req.NameEn,
		NameAr:        req.NameAr,
		DescriptionEn: req.DescriptionEn,
		DescriptionAr: req.DescriptionAr,
		Price:         req.Price,
		Stock:         req.Stock,
		MinOrderQty:   req.MinOrderQty,
		Unit:          req.Unit,
		Zones:         req.Zones,
		CompanyID:     req.CompanyID,
		CategoryID:    req.CategoryID,
		IsActive:      req.IsActive,
		IsFeatured:    req.IsFeatured,
	}
	if err := h.svc.CreateProduct(r.Context(), &product); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, product)
}

type createCategoryRequest struct {
	NameEn       string     `json:"name_en"`
	NameAr       string     `json:"name_ar"`
	Slug         string     `json:"slug" validate:"required"`
	ParentID     *uuid.UUID `json:"parent_id"`
	IsActive     bool       `json:"is_active"`
	DisplayOrder int        `json:"display_order"`
}

func (h *ProductHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithRequestError(w, err)
		return
	}

	category := catalog.Category{
		NameEn:       req.NameEn,
		NameAr:       req.NameAr,
		Slug:         req.Slug,
		ParentID:     req.ParentID,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.svc.CreateCategory(r.Context(), &category); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, category)
}

type updateStockRequest struct {
	Quantity  int                    `json:"quantity" validate:"gte=0"`
	Operation catalog.StockOperation `json:"operation" validate:"required,oneof=add subtract set"`
	ActorID   *uuid.UUID             `json:"actor_id,omitempty"`
}

func (h *ProductHandler) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithRequestError(w, err)
		return
	}

	product, err := h.svc.UpdateStock(r.Context(), id, req.Quantity, req.Operation, req.ActorID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}
