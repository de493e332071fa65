package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

// OwnerHandler serves balance, withdrawal and onboarding endpoints for car
// owners.
type OwnerHandler struct {
	ledgerSvc service.LedgerService
	ownerSvc  service.OwnerService
}

func NewOwnerHandler(ledgerSvc service.LedgerService, ownerSvc service.OwnerService) *OwnerHandler {
	return &OwnerHandler{ledgerSvc: ledgerSvc, ownerSvc: ownerSvc}
}

func (h *OwnerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledgerSvc.GetBalance(r.Context(), userIDFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

type withdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *OwnerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	withdrawal, err := h.ledgerSvc.Withdraw(r.Context(), userIDFrom(r), req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, withdrawal)
}

func (h *OwnerHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	withdrawals, total, err := h.ledgerSvc.ListWithdrawals(r.Context(), userIDFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	if withdrawals == nil {
		withdrawals = []domain.Withdrawal{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"withdrawals": withdrawals,
		"meta":        listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *OwnerHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := h.ownerSvc.CreateConnectedAccount(r.Context(), userIDFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"account_id": accountID})
}

func (h *OwnerHandler) AccountLink(w http.ResponseWriter, r *http.Request) {
	url, err := h.ownerSvc.OnboardingLink(r.Context(), userIDFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *OwnerHandler) RefreshAccount(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ownerSvc.RefreshAccountStatus(r.Context(), userIDFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
