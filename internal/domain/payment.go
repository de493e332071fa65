package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// Payment is the ledger entry mirroring one rental's settlement. It is
// created together with the rental and only its status fields change
// afterwards.
type Payment struct {
	ID                    int32             `json:"id"`
	RentalID              int32             `json:"rental_id"`
	OwnerID               int32             `json:"owner_id"`
	CustomerID            int32             `json:"customer_id"`
	StripePaymentIntentID string            `json:"stripe_payment_intent_id"`
	StripeAccountID       string            `json:"stripe_account_id"`
	TotalAmount           decimal.Decimal   `json:"total_amount"`
	PlatformFee           decimal.Decimal   `json:"platform_fee"`
	OwnerAmount           decimal.Decimal   `json:"owner_amount"`
	PaymentStatus         PaymentStatus     `json:"payment_status"`
	PayoutStatus          PayoutState       `json:"payout_status"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	CreatedOn             time.Time         `json:"created_on"`
	UpdatedOn             time.Time         `json:"updated_on"`
}
