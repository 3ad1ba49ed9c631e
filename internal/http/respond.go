package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fjod/sandwich_shop/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// handleServiceError is the only place where error kinds become status codes.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		missing     *domain.MissingItemsError
		unavailable *domain.UnavailableItemsError
		ruleErr     *domain.PromotionRuleError
		validation  *domain.ValidationError
		transition  *domain.IllegalTransitionError
	)

	switch {
	case errors.As(err, &missing):
		respondErrorDetails(w, http.StatusBadRequest, "menu_items_not_found", err.Error(),
			map[string]any{"missing_ids": missing.IDs})
	case errors.As(err, &unavailable):
		respondErrorDetails(w, http.StatusBadRequest, "menu_items_unavailable", err.Error(),
			map[string]any{"unavailable_ids": unavailable.IDs})
	case errors.As(err, &ruleErr):
		var details any
		if ruleErr.Rule == domain.RuleThresholdNotMet {
			details = map[string]string{"min_order_amount": ruleErr.Minimum.StringFixed(2)}
		}
		respondErrorDetails(w, http.StatusBadRequest, string(ruleErr.Rule), err.Error(), details)
	case errors.Is(err, domain.ErrValidation):
		var details any
		if errors.As(err, &validation) {
			details = map[string]string{"field": validation.Field}
		}
		respondErrorDetails(w, http.StatusBadRequest, "validation_error", err.Error(), details)
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", "you do not have permission to access this resource")
	case errors.As(err, &transition):
		respondErrorDetails(w, http.StatusConflict, "illegal_transition", err.Error(),
			map[string]string{"from": transition.From, "to": transition.To})
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrBusinessRule):
		respondError(w, http.StatusBadRequest, "business_rule_violation", err.Error())
	case errors.Is(err, domain.ErrIntegrity):
		log.ErrorContext(r.Context(), "integrity error", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "integrity_error", "order could not be stored consistently, please retry")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		log.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
