package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// respondError translates service errors to HTTP status codes. Anything
// unmapped is a 500 with a generic message so internals do not leak.
func respondError(w http.ResponseWriter, err error) {
	var notCompleted *domain.PaymentNotCompletedError
	var insufficient *domain.InsufficientBalanceError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrOwnerNotOnboarded),
		errors.Is(err, domain.ErrOwnerAccountInactive),
		errors.Is(err, domain.ErrPayoutsDisabled):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.As(err, &notCompleted):
		respondJSON(w, http.StatusPaymentRequired, errorResponse{Error: err.Error()})
	case errors.As(err, &insufficient),
		errors.Is(err, domain.ErrInvalidAmount):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrWebhookAuthentication):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "signature verification failed"})
	default:
		logger.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

type listMeta struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Total    int32 `json:"total"`
}

func pagination(r *http.Request) (int32, int32) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
