package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/service"
)

// AdminHandler serves the platform-side ledger endpoints.
type AdminHandler struct {
	ledgerSvc service.LedgerService
}

func NewAdminHandler(ledgerSvc service.LedgerService) *AdminHandler {
	return &AdminHandler{ledgerSvc: ledgerSvc}
}

func (h *AdminHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerSvc.PlatformBalance(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

type platformWithdrawRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *AdminHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req platformWithdrawRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	withdrawal, err := h.ledgerSvc.PlatformWithdraw(r.Context(), userIDFrom(r), req.Amount, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, withdrawal)
}
