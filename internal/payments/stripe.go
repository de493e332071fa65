package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
)

// StripeProvider implements Provider against the Stripe Connect API.
// Constructed once at startup and read-only afterwards.
type StripeProvider struct {
	client        *stripe.Client
	signingSecret string
	skipVerify    bool
}

type StripeConfig struct {
	APIKey        string
	SigningSecret string
	// InsecureSkipWebhookVerify bypasses webhook signature checks. Test
	// seam only: construction fails unless the API key is a test key.
	InsecureSkipWebhookVerify bool
}

func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("stripe api key is required")
	}
	if cfg.InsecureSkipWebhookVerify && !strings.HasPrefix(cfg.APIKey, "sk_test_") {
		return nil, fmt.Errorf("insecure_skip_webhook_verify is only allowed with a test api key")
	}
	if !cfg.InsecureSkipWebhookVerify && cfg.SigningSecret == "" {
		return nil, fmt.Errorf("stripe webhook signing secret is required")
	}
	return &StripeProvider{
		client:        stripe.NewClient(cfg.APIKey),
		signingSecret: cfg.SigningSecret,
		skipVerify:    cfg.InsecureSkipWebhookVerify,
	}, nil
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	create := &stripe.PaymentIntentCreateParams{
		Amount:               stripe.Int64(params.AmountMinor),
		Currency:             stripe.String(params.Currency),
		ApplicationFeeAmount: stripe.Int64(params.ApplicationFeeMinor),
		TransferData: &stripe.PaymentIntentCreateTransferDataParams{
			Destination: stripe.String(params.DestinationAccountID),
		},
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: params.Metadata,
	}
	create.SetIdempotencyKey(uuid.NewString())

	pi, err := p.client.V1PaymentIntents.Create(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	logger.Debug("created payment intent", "payment_intent_id", pi.ID, "amount", pi.Amount)
	return intentFromStripe(pi), nil
}

func (p *StripeProvider) RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := p.client.V1PaymentIntents.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving payment intent %s: %w", id, err)
	}
	return intentFromStripe(pi), nil
}

func (p *StripeProvider) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	create := &stripe.AccountCreateParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCreateCapabilitiesParams{
			CardPayments: &stripe.AccountCreateCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCreateCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	create.SetIdempotencyKey(uuid.NewString())

	acct, err := p.client.V1Accounts.Create(ctx, create)
	if err != nil {
		return "", fmt.Errorf("creating connected account: %w", err)
	}
	return acct.ID, nil
}

func (p *StripeProvider) CreateAccountOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	link, err := p.client.V1AccountLinks.Create(ctx, &stripe.AccountLinkCreateParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		return "", fmt.Errorf("creating onboarding link for %s: %w", accountID, err)
	}
	return link.URL, nil
}

func (p *StripeProvider) RetrieveAccount(ctx context.Context, accountID string) (*AccountStatus, error) {
	acct, err := p.client.V1Accounts.GetByID(ctx, accountID, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving account %s: %w", accountID, err)
	}
	return &AccountStatus{
		ID:               acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}, nil
}

func (p *StripeProvider) CreateTransfer(ctx context.Context, params TransferParams) (string, error) {
	create := &stripe.TransferCreateParams{
		Amount:      stripe.Int64(params.AmountMinor),
		Currency:    stripe.String(params.Currency),
		Destination: stripe.String(params.DestinationAccountID),
		Description: stripe.String(params.Description),
		Metadata:    params.Metadata,
	}
	create.SetIdempotencyKey(uuid.NewString())

	tr, err := p.client.V1Transfers.Create(ctx, create)
	if err != nil {
		return "", fmt.Errorf("creating transfer: %w", err)
	}
	logger.Debug("created transfer", "transfer_id", tr.ID, "destination", params.DestinationAccountID)
	return tr.ID, nil
}

func (p *StripeProvider) CreatePayout(ctx context.Context, params PayoutParams) (string, error) {
	create := &stripe.PayoutCreateParams{
		Amount:      stripe.Int64(params.AmountMinor),
		Currency:    stripe.String(params.Currency),
		Description: stripe.String(params.Description),
		Metadata:    params.Metadata,
	}
	create.SetIdempotencyKey(uuid.NewString())

	po, err := p.client.V1Payouts.Create(ctx, create)
	if err != nil {
		return "", fmt.Errorf("creating payout: %w", err)
	}
	return po.ID, nil
}

func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	if p.skipVerify {
		var ev stripe.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWebhookAuthentication, err)
		}
		return &Event{ID: ev.ID, Type: string(ev.Type), Object: ev.Data.Raw}, nil
	}

	ev, err := webhook.ConstructEvent(payload, signature, p.signingSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWebhookAuthentication, err)
	}
	return &Event{ID: ev.ID, Type: string(ev.Type), Object: ev.Data.Raw}, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Metadata:     pi.Metadata,
	}
}
