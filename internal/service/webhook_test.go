package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/payments"
)

type webhookFixture struct {
	svc      WebhookService
	sqlMock  sqlmock.Sqlmock
	provider *MockProvider
	paySvc   *MockPaymentService
	rentals  *MockRentalRepo
	payRepo  *MockPaymentRepo
	owners   *MockOwnerRepo
	wdRepo   *MockWithdrawalRepo
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &webhookFixture{
		sqlMock:  sqlMock,
		provider: &MockProvider{},
		paySvc:   &MockPaymentService{},
		rentals:  &MockRentalRepo{},
		payRepo:  &MockPaymentRepo{},
		owners:   &MockOwnerRepo{},
		wdRepo:   &MockWithdrawalRepo{},
	}
	f.svc = NewWebhookService(&txDB{db: db}, f.provider, f.paySvc,
		f.rentals, f.payRepo, f.owners, f.wdRepo)
	return f
}

// deliver wires a verified event through the fixture. The payload and
// signature are opaque to the service once verification passed.
func (f *webhookFixture) deliver(eventType string, object any) (payload []byte, signature string) {
	payload = []byte(`{"id":"evt_1"}`)
	signature = "t=1,v1=valid"
	raw, _ := json.Marshal(object)
	f.provider.On("VerifyWebhook", payload, signature).
		Return(&payments.Event{ID: "evt_1", Type: eventType, Object: raw}, nil)
	return payload, signature
}

func TestWebhookService_HandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("BadSignatureRejected", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{}`)
		sigErr := fmt.Errorf("%w: signature mismatch", domain.ErrWebhookAuthentication)
		f.provider.On("VerifyWebhook", payload, "t=1,v1=forged").Return(nil, sigErr)

		err := f.svc.HandleEvent(ctx, payload, "t=1,v1=forged")
		assert.ErrorIs(t, err, domain.ErrWebhookAuthentication)
	})

	t.Run("UnknownEventTypeIgnored", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("customer.created", map[string]string{"id": "cus_1"})

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
	})

	t.Run("PaymentSucceededUpdatesRows", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("payment_intent.succeeded", payments.IntentObject{ID: "pi_1", Status: "succeeded"})

		f.sqlMock.ExpectBegin()
		f.payRepo.On("SetStatusByIntentTx", ctx, mock.Anything, "pi_1", domain.PaymentStatusSucceeded, "").Return(nil)
		f.rentals.On("SetPaymentStatusTx", ctx, mock.Anything, "pi_1", domain.PaymentStatePaid).Return(nil)
		f.sqlMock.ExpectCommit()

		err := f.svc.HandleEvent(ctx, payload, sig)
		require.NoError(t, err)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("PaymentSucceededBeforeConfirmationIsNoop", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("payment_intent.succeeded", payments.IntentObject{ID: "pi_unseen"})

		f.sqlMock.ExpectBegin()
		f.payRepo.On("SetStatusByIntentTx", ctx, mock.Anything, "pi_unseen", domain.PaymentStatusSucceeded, "").
			Return(domain.ErrNotFound)
		f.sqlMock.ExpectRollback()

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
		f.rentals.AssertNotCalled(t, "SetPaymentStatusTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PaymentFailedRecordsReason", func(t *testing.T) {
		f := newWebhookFixture(t)
		obj := payments.IntentObject{ID: "pi_2"}
		obj.LastPaymentError = &struct {
			Message string `json:"message"`
		}{Message: "card declined"}
		payload, sig := f.deliver("payment_intent.payment_failed", obj)

		f.sqlMock.ExpectBegin()
		f.payRepo.On("SetStatusByIntentTx", ctx, mock.Anything, "pi_2", domain.PaymentStatusFailed, "card declined").Return(nil)
		f.rentals.On("SetPaymentStatusTx", ctx, mock.Anything, "pi_2", domain.PaymentStateFailed).Return(nil)
		f.sqlMock.ExpectCommit()

		err := f.svc.HandleEvent(ctx, payload, sig)
		require.NoError(t, err)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("PaymentFailedDefaultReason", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("payment_intent.payment_failed", payments.IntentObject{ID: "pi_3"})

		f.sqlMock.ExpectBegin()
		f.payRepo.On("SetStatusByIntentTx", ctx, mock.Anything, "pi_3", domain.PaymentStatusFailed, "payment failed").Return(nil)
		f.rentals.On("SetPaymentStatusTx", ctx, mock.Anything, "pi_3", domain.PaymentStateFailed).Return(nil)
		f.sqlMock.ExpectCommit()

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
	})

	t.Run("AccountUpdatedSetsFlags", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("account.updated", payments.AccountObject{
			ID: "acct_123", ChargesEnabled: true, PayoutsEnabled: true, DetailsSubmitted: true,
		})
		f.owners.On("UpdateAccountFlags", ctx, "acct_123", true, true, true, true).Return(nil)

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
		f.owners.AssertExpectations(t)
	})

	t.Run("AccountUpdatedNotOnboardedWithoutCharges", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("account.updated", payments.AccountObject{
			ID: "acct_123", ChargesEnabled: false, PayoutsEnabled: false, DetailsSubmitted: true,
		})
		f.owners.On("UpdateAccountFlags", ctx, "acct_123", false, false, true, false).Return(nil)

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
	})

	t.Run("AccountUpdatedUnknownAccountIgnored", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("account.updated", payments.AccountObject{ID: "acct_stranger"})
		f.owners.On("UpdateAccountFlags", ctx, "acct_stranger", false, false, false, false).
			Return(domain.ErrNotFound)

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
	})

	t.Run("PayoutPaidCompletesWithdrawal", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("payout.paid", payments.PayoutObject{ID: "po_1"})
		f.wdRepo.On("SetStatusByReference", ctx, "po_1", domain.WithdrawalStatusCompleted, "", mock.Anything).Return(nil)

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
		f.wdRepo.AssertExpectations(t)
	})

	t.Run("PayoutFailedRecordsReason", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("payout.failed", payments.PayoutObject{ID: "po_2", FailureMessage: "account closed"})
		f.wdRepo.On("SetStatusByReference", ctx, "po_2", domain.WithdrawalStatusFailed, "account closed", (*time.Time)(nil)).Return(nil)

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
	})

	t.Run("PayoutPaidUnknownReferenceIgnored", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("payout.paid", payments.PayoutObject{ID: "po_stranger"})
		f.wdRepo.On("SetStatusByReference", ctx, "po_stranger", domain.WithdrawalStatusCompleted, "", mock.Anything).
			Return(domain.ErrNotFound)

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
	})

	t.Run("CheckoutCompletedConfirmsPayment", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("checkout.session.completed", payments.CheckoutSessionObject{
			ID: "cs_1", PaymentIntentID: "pi_9", PaymentStatus: "paid",
		})
		f.paySvc.On("ConfirmPayment", ctx, "pi_9").Return(&domain.Rental{ID: 5}, nil)

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
		f.paySvc.AssertExpectations(t)
	})

	t.Run("CheckoutCompletedUnpaidSkipped", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("checkout.session.completed", payments.CheckoutSessionObject{
			ID: "cs_2", PaymentIntentID: "pi_9", PaymentStatus: "unpaid",
		})

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.NoError(t, err)
		f.paySvc.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
	})

	t.Run("CheckoutCompletedWithoutIntentErrors", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload, sig := f.deliver("checkout.session.completed", payments.CheckoutSessionObject{
			ID: "cs_3", PaymentStatus: "paid",
		})

		err := f.svc.HandleEvent(ctx, payload, sig)
		assert.Error(t, err)
	})
}
