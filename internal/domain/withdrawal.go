package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalType string

const (
	WithdrawalTypeOwner    WithdrawalType = "owner"
	WithdrawalTypePlatform WithdrawalType = "platform"
)

type WithdrawalStatus string

const (
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

// Withdrawal records one payout request. Owner withdrawals reference a
// Stripe transfer and complete synchronously; platform withdrawals reference
// a Stripe payout and settle through payout.paid / payout.failed webhooks.
type Withdrawal struct {
	ID              int32            `json:"id"`
	UserID          int32            `json:"user_id"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	Type            WithdrawalType   `json:"type"`
	Status          WithdrawalStatus `json:"status"`
	StripeReference string           `json:"stripe_reference"`
	Description     string           `json:"description"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
	FailureReason   string           `json:"failure_reason,omitempty"`
	CreatedOn       time.Time        `json:"created_on"`
	UpdatedOn       time.Time        `json:"updated_on"`
}
