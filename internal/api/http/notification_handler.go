package http

import (
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), userIDFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": notes,
		"meta":          listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(r, "id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid notification id"})
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), userIDFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"read": true})
}
