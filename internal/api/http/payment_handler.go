package http

import (
	"io"
	"net/http"

	"driveshare-backend/internal/service"
)

// PaymentHandler serves the intent, confirmation and webhook endpoints.
type PaymentHandler struct {
	paymentSvc service.PaymentService
	webhookSvc service.WebhookService
}

func NewPaymentHandler(paymentSvc service.PaymentService, webhookSvc service.WebhookService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, webhookSvc: webhookSvc}
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req service.CreateIntentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.paymentSvc.CreateIntent(r.Context(), userIDFrom(r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

type confirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PaymentIntentID == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "payment_intent_id is required"})
		return
	}
	rental, err := h.paymentSvc.ConfirmPayment(r.Context(), req.PaymentIntentID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

// HandleWebhook reads the raw body for signature verification; decoding
// before verification would break the signature. A 200 tells the processor
// the event is handled (or safely ignored) and stops redelivery; anything
// transient returns 500 so the event comes back.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable payload"})
		return
	}

	if err := h.webhookSvc.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
