package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository"
)

type webhookService struct {
	db         TxBeginner
	provider   payments.Provider
	paymentSvc PaymentService
	rentalRepo repository.RentalRepository
	payRepo    repository.PaymentRepository
	ownerRepo  repository.OwnerProfileRepository
	wdRepo     repository.WithdrawalRepository
}

func NewWebhookService(
	db TxBeginner,
	provider payments.Provider,
	paymentSvc PaymentService,
	rentalRepo repository.RentalRepository,
	payRepo repository.PaymentRepository,
	ownerRepo repository.OwnerProfileRepository,
	wdRepo repository.WithdrawalRepository,
) WebhookService {
	return &webhookService{
		db:         db,
		provider:   provider,
		paymentSvc: paymentSvc,
		rentalRepo: rentalRepo,
		payRepo:    payRepo,
		ownerRepo:  ownerRepo,
		wdRepo:     wdRepo,
	}
}

// HandleEvent verifies and dispatches one webhook delivery. Events arrive
// at least once and in no particular order, so every branch applies
// absolute state and treats a missing target row as already-handled or
// not-yet-relevant, never as a failure. A returned error means the
// processor should redeliver.
func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.handlePaymentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.handlePaymentFailed(ctx, event)
	case "account.updated":
		return s.handleAccountUpdated(ctx, event)
	case "payout.paid":
		return s.handlePayoutPaid(ctx, event)
	case "payout.failed":
		return s.handlePayoutFailed(ctx, event)
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	default:
		logger.Debug("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return nil
	}
}

// handlePaymentSucceeded confirms status on the rows the confirmation
// endpoint created. It never creates rows itself; if the confirmation has
// not run yet, there is nothing to update and the endpoint will settle the
// booking when it does run.
func (s *webhookService) handlePaymentSucceeded(ctx context.Context, event *payments.Event) error {
	obj, err := event.PaymentIntent()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.payRepo.SetStatusByIntentTx(ctx, tx, obj.ID, domain.PaymentStatusSucceeded, ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("payment_intent.succeeded before confirmation, nothing to update",
				"payment_intent_id", obj.ID)
			return nil
		}
		return err
	}
	if err := s.rentalRepo.SetPaymentStatusTx(ctx, tx, obj.ID, domain.PaymentStatePaid); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return tx.Commit()
}

func (s *webhookService) handlePaymentFailed(ctx context.Context, event *payments.Event) error {
	obj, err := event.PaymentIntent()
	if err != nil {
		return err
	}
	reason := "payment failed"
	if obj.LastPaymentError != nil && obj.LastPaymentError.Message != "" {
		reason = obj.LastPaymentError.Message
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.payRepo.SetStatusByIntentTx(ctx, tx, obj.ID, domain.PaymentStatusFailed, reason); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.rentalRepo.SetPaymentStatusTx(ctx, tx, obj.ID, domain.PaymentStateFailed); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	logger.Warn("payment failed", "payment_intent_id", obj.ID, "reason", reason)
	return tx.Commit()
}

func (s *webhookService) handleAccountUpdated(ctx context.Context, event *payments.Event) error {
	obj, err := event.Account()
	if err != nil {
		return err
	}
	onboarded := obj.DetailsSubmitted && obj.ChargesEnabled
	err = s.ownerRepo.UpdateAccountFlags(ctx, obj.ID,
		obj.ChargesEnabled, obj.PayoutsEnabled, obj.DetailsSubmitted, onboarded)
	if errors.Is(err, domain.ErrNotFound) {
		// Account not linked to any owner yet.
		logger.Debug("account.updated for unknown account", "account_id", obj.ID)
		return nil
	}
	return err
}

func (s *webhookService) handlePayoutPaid(ctx context.Context, event *payments.Event) error {
	obj, err := event.Payout()
	if err != nil {
		return err
	}
	now := time.Now()
	err = s.wdRepo.SetStatusByReference(ctx, obj.ID, domain.WithdrawalStatusCompleted, "", &now)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("payout.paid for unknown withdrawal", "payout_id", obj.ID)
		return nil
	}
	return err
}

func (s *webhookService) handlePayoutFailed(ctx context.Context, event *payments.Event) error {
	obj, err := event.Payout()
	if err != nil {
		return err
	}
	reason := obj.FailureMessage
	if reason == "" {
		reason = "payout failed"
	}
	err = s.wdRepo.SetStatusByReference(ctx, obj.ID, domain.WithdrawalStatusFailed, reason, nil)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("payout.failed for unknown withdrawal", "payout_id", obj.ID)
		return nil
	}
	logger.Warn("payout failed", "payout_id", obj.ID, "reason", reason)
	return err
}

// handleCheckoutCompleted is the legacy checkout path. The session carries
// the payment intent reference, so settlement runs through the same
// idempotent confirmation flow as the client-driven endpoint.
func (s *webhookService) handleCheckoutCompleted(ctx context.Context, event *payments.Event) error {
	obj, err := event.CheckoutSession()
	if err != nil {
		return err
	}
	if obj.PaymentStatus != "paid" {
		logger.Debug("checkout session not paid, skipping", "session_id", obj.ID, "payment_status", obj.PaymentStatus)
		return nil
	}
	if obj.PaymentIntentID == "" {
		return fmt.Errorf("checkout session %s has no payment intent", obj.ID)
	}
	_, err = s.paymentSvc.ConfirmPayment(ctx, obj.PaymentIntentID)
	return err
}
