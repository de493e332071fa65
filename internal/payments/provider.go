package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Provider is the payment-processor boundary. The rest of the codebase only
// sees this interface; the Stripe implementation lives in stripe.go.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error)
	CreateConnectedAccount(ctx context.Context, email string) (string, error)
	CreateAccountOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	RetrieveAccount(ctx context.Context, accountID string) (*AccountStatus, error)
	CreateTransfer(ctx context.Context, params TransferParams) (string, error)
	CreatePayout(ctx context.Context, params PayoutParams) (string, error)
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}

type CreateIntentParams struct {
	AmountMinor          int64
	Currency             string
	ApplicationFeeMinor  int64
	DestinationAccountID string
	Metadata             map[string]string
}

// Intent mirrors the processor's payment authorization.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Metadata     map[string]string
}

const IntentStatusSucceeded = "succeeded"

type AccountStatus struct {
	ID               string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
}

type TransferParams struct {
	AmountMinor          int64
	Currency             string
	DestinationAccountID string
	Description          string
	Metadata             map[string]string
}

type PayoutParams struct {
	AmountMinor int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Event is a verified webhook delivery. Object holds the raw data.object
// payload; the typed accessors below decode the views the reconciliation
// handler needs.
type Event struct {
	ID     string
	Type   string
	Object json.RawMessage
}

type IntentObject struct {
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	AmountMinor      int64             `json:"amount"`
	Metadata         map[string]string `json:"metadata"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

type AccountObject struct {
	ID               string `json:"id"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

type PayoutObject struct {
	ID             string `json:"id"`
	FailureMessage string `json:"failure_message"`
}

type CheckoutSessionObject struct {
	ID              string            `json:"id"`
	PaymentIntentID string            `json:"payment_intent"`
	PaymentStatus   string            `json:"payment_status"`
	Metadata        map[string]string `json:"metadata"`
}

func (e *Event) PaymentIntent() (*IntentObject, error) {
	var obj IntentObject
	if err := json.Unmarshal(e.Object, &obj); err != nil {
		return nil, fmt.Errorf("decoding payment intent from event %s: %w", e.ID, err)
	}
	return &obj, nil
}

func (e *Event) Account() (*AccountObject, error) {
	var obj AccountObject
	if err := json.Unmarshal(e.Object, &obj); err != nil {
		return nil, fmt.Errorf("decoding account from event %s: %w", e.ID, err)
	}
	return &obj, nil
}

func (e *Event) Payout() (*PayoutObject, error) {
	var obj PayoutObject
	if err := json.Unmarshal(e.Object, &obj); err != nil {
		return nil, fmt.Errorf("decoding payout from event %s: %w", e.ID, err)
	}
	return &obj, nil
}

func (e *Event) CheckoutSession() (*CheckoutSessionObject, error) {
	var obj CheckoutSessionObject
	if err := json.Unmarshal(e.Object, &obj); err != nil {
		return nil, fmt.Errorf("decoding checkout session from event %s: %w", e.ID, err)
	}
	return &obj, nil
}

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a 2-decimal amount to the processor's integer minor
// units (cents for USD).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts processor minor units back to a decimal amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}
