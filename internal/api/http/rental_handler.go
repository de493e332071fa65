package http

import (
	"context"
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(r, "id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), userIDFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	var (
		rentals []domain.Rental
		total   int32
		err     error
	)
	if r.URL.Query().Get("as") == "owner" {
		rentals, total, err = h.rentalSvc.ListByOwner(r.Context(), userIDFrom(r), page, pageSize)
	} else {
		rentals, total, err = h.rentalSvc.ListByCustomer(r.Context(), userIDFrom(r), page, pageSize)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"rentals": rentals,
		"meta":    listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.Approve)
}

func (h *RentalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.Reject)
}

func (h *RentalHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.Activate)
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.Complete)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(r, "id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	if err := h.rentalSvc.Cancel(r.Context(), userIDFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

func (h *RentalHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)) {
	id, ok := pathInt32(r, "id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	rental, err := fn(r.Context(), userIDFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}
