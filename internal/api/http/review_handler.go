package http

import (
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type ReviewHandler struct {
	reviewSvc service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

type createReviewRequest struct {
	RentalID int32  `json:"rental_id"`
	Rating   int32  `json:"rating"`
	Comment  string `json:"comment"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	review, err := h.reviewSvc.CreateReview(r.Context(), userIDFrom(r), req.RentalID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListByCar(w http.ResponseWriter, r *http.Request) {
	carID, ok := pathInt32(r, "id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	page, pageSize := pagination(r)
	reviews, total, err := h.reviewSvc.ListByCar(r.Context(), carID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"meta":    listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}
