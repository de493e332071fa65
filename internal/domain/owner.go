package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerProfile holds per-owner payout onboarding state and the persisted
// balance snapshot. The ledger service is the only writer of the balance
// fields; everything else appends payment or withdrawal rows.
type OwnerProfile struct {
	UserID                   int32           `json:"user_id"`
	StripeAccountID          string          `json:"stripe_account_id"`
	StripeChargesEnabled     bool            `json:"stripe_charges_enabled"`
	StripePayoutsEnabled     bool            `json:"stripe_payouts_enabled"`
	StripeDetailsSubmitted   bool            `json:"stripe_details_submitted"`
	StripeOnboardingComplete bool            `json:"stripe_onboarding_complete"`
	TotalEarnings            decimal.Decimal `json:"total_earnings"`
	AvailableBalance         decimal.Decimal `json:"available_balance"`
	PendingBalance           decimal.Decimal `json:"pending_balance"`
	TotalWithdrawn           decimal.Decimal `json:"total_withdrawn"`
	CreatedOn                time.Time       `json:"created_on"`
	UpdatedOn                time.Time       `json:"updated_on"`
}

// Onboarded reports whether the owner has a connected payout account.
func (p *OwnerProfile) Onboarded() bool {
	return p != nil && p.StripeAccountID != ""
}

// BalanceSnapshot is the recomputed view of an owner's ledger, derived from
// payment and withdrawal rows.
type BalanceSnapshot struct {
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	TotalWithdrawn   decimal.Decimal `json:"total_withdrawn"`
}
