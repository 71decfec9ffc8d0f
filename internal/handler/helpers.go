package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/zonemart/zonemart/internal/cart"
	"github.com/zonemart/zonemart/internal/catalog"
	"github.com/zonemart/zonemart/internal/company"
	"github.com/zonemart/zonemart/internal/order"
	"github.com/zonemart/zonemart/internal/user"
	"github.com/zonemart/zonemart/internal/zone"
)

// newValidate builds the request validator shared by the handlers, with the
// custom "zone" rule for delivery zone fields.
func newValidate() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("zone", func(fl validator.FieldLevel) bool {
		return zone.Zone(fl.Field().String()).Valid()
	})
	return validate
}

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func formatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		var message string
		switch fieldErr.Tag() {
		case "required":
			message = "is required"
		case "gt":
			message = fmt.Sprintf("must be greater than %s", fieldErr.Param())
		case "gte":
			message = fmt.Sprintf("must be %s or greater", fieldErr.Param())
		case "min":
			message = fmt.Sprintf("must have at least %s items", fieldErr.Param())
		case "oneof":
			message = fmt.Sprintf("must be one of: %s", fieldErr.Param())
		case "zone":
			message = "is not a known zone"
		default:
			message = fmt.Sprintf("failed on the %q rule", fieldErr.Tag())
		}
		details[fieldErr.Namespace()] = message
	}
	return details
}

// respondWithRequestError writes the error from validate.Struct as a 400
// with per-field details.
func respondWithRequestError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: formatValidationErrors(validationErrors),
		})
		return
	}
	log.Error().Err(err).Msg("handler: unexpected error type during request validation")
	respondWithError(w, http.StatusInternalServerError, "internal validation error")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("handler: failed to write JSON response")
	}
}

// respondWithServiceError maps domain errors onto HTTP status codes so the
// core stays transport-agnostic. Cart validation failures carry their full
// error list into the body.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr *cart.ValidationError
	if errors.As(err, &validationErr) {
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "cart validation failed",
			"errors": validationErr.Errors,
		})
		return
	}
	respondWithError(w, mapErrorToStatusCode(err), err.Error())
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, company.ErrCompanyNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrAddressNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, catalog.ErrDuplicateSKU),
		errors.Is(err, catalog.ErrDuplicateSlug),
		errors.Is(err, order.ErrDuplicateOrderNumber),
		errors.Is(err, order.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrNoOrderableItems):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
