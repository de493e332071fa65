package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrOwnerNotOnboarded     = errors.New("owner has no connected payout account")
	ErrOwnerAccountInactive  = errors.New("owner payout account cannot accept charges yet")
	ErrPayoutsDisabled       = errors.New("payouts are not enabled for this account")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrWebhookAuthentication = errors.New("webhook signature verification failed")
	ErrInvalidTransition     = errors.New("invalid status transition")
)

// PaymentNotCompletedError reports the processor-side status of an intent
// that was expected to be succeeded.
type PaymentNotCompletedError struct {
	Status string
}

func (e *PaymentNotCompletedError) Error() string {
	return fmt.Sprintf("payment not completed, status is %q", e.Status)
}

// InsufficientBalanceError carries the current balance so callers can show
// the shortfall.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %s, available %s",
		e.Requested.StringFixed(2), e.Available.StringFixed(2))
}
