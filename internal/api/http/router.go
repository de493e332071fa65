package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Payments      *PaymentHandler
	Owners        *OwnerHandler
	Admin         *AdminHandler
	Cars          *CarHandler
	Rentals       *RentalHandler
	Reviews       *ReviewHandler
	Notifications *NotificationHandler
	Auth          *AuthMiddleware
}

// NewRouter wires all routes under /api/v1. The webhook endpoint is the
// only unauthenticated one besides public car browsing; it authenticates
// through the payload signature instead.
func NewRouter(h Handlers) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	// Signature-verified, not token-authenticated.
	api.HandleFunc("/payments/webhook", h.Payments.HandleWebhook).Methods("POST")

	// Public catalog browsing.
	api.HandleFunc("/cars", h.Cars.List).Methods("GET")
	api.HandleFunc("/cars/{id:[0-9]+}", h.Cars.Get).Methods("GET")
	api.HandleFunc("/cars/{id:[0-9]+}/reviews", h.Reviews.ListByCar).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(h.Auth.Authenticate)

	authed.HandleFunc("/payments/intent", h.Payments.CreateIntent).Methods("POST")
	authed.HandleFunc("/payments/confirm", h.Payments.ConfirmPayment).Methods("POST")

	authed.HandleFunc("/owners/balance", Require("owner", h.Owners.GetBalance)).Methods("GET")
	authed.HandleFunc("/owners/withdraw", Require("owner", h.Owners.Withdraw)).Methods("POST")
	authed.HandleFunc("/owners/withdrawals", Require("owner", h.Owners.ListWithdrawals)).Methods("GET")
	authed.HandleFunc("/owners/account", Require("owner", h.Owners.CreateAccount)).Methods("POST")
	authed.HandleFunc("/owners/account/link", Require("owner", h.Owners.AccountLink)).Methods("POST")
	authed.HandleFunc("/owners/account/refresh", Require("owner", h.Owners.RefreshAccount)).Methods("POST")

	authed.HandleFunc("/admin/balance", Require("admin", h.Admin.GetBalance)).Methods("GET")
	authed.HandleFunc("/admin/withdraw", Require("admin", h.Admin.Withdraw)).Methods("POST")

	authed.HandleFunc("/cars", Require("owner", h.Cars.Create)).Methods("POST")
	authed.HandleFunc("/cars/mine", Require("owner", h.Cars.ListMine)).Methods("GET")

	authed.HandleFunc("/rentals", h.Rentals.ListMine).Methods("GET")
	authed.HandleFunc("/rentals/{id:[0-9]+}", h.Rentals.Get).Methods("GET")
	authed.HandleFunc("/rentals/{id:[0-9]+}/approve", Require("owner", h.Rentals.Approve)).Methods("POST")
	authed.HandleFunc("/rentals/{id:[0-9]+}/reject", Require("owner", h.Rentals.Reject)).Methods("POST")
	authed.HandleFunc("/rentals/{id:[0-9]+}/activate", Require("owner", h.Rentals.Activate)).Methods("POST")
	authed.HandleFunc("/rentals/{id:[0-9]+}/complete", Require("owner", h.Rentals.Complete)).Methods("POST")
	authed.HandleFunc("/rentals/{id:[0-9]+}/cancel", h.Rentals.Cancel).Methods("POST")

	authed.HandleFunc("/reviews", h.Reviews.Create).Methods("POST")

	authed.HandleFunc("/notifications", h.Notifications.List).Methods("GET")
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notifications.MarkAsRead).Methods("POST")

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	return router
}
