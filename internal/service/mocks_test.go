package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/payments"
)

// txDB adapts a sqlmock database to TxBeginner so services open real
// *sql.Tx handles while the repositories underneath are testify mocks.
type txDB struct {
	db *sql.DB
}

func (t *txDB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return t.db.BeginTx(ctx, nil)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) List(ctx context.Context, onlyAvailable bool, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, onlyAvailable, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockCarRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Car, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, carID int32, available bool) error {
	args := m.Called(ctx, tx, carID, available)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, rental *domain.Rental) error {
	args := m.Called(ctx, tx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Rental, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, id int32, status domain.RentalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockRentalRepo) SetPaymentStatusTx(ctx context.Context, tx *sql.Tx, paymentIntentID string, status domain.PaymentState) error {
	args := m.Called(ctx, tx, paymentIntentID, status)
	return args.Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByCustomer(ctx context.Context, customerID, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, customerID, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListByOwner(ctx context.Context, ownerID, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) SetStatusByIntentTx(ctx context.Context, tx *sql.Tx, paymentIntentID string, status domain.PaymentStatus, failureReason string) error {
	args := m.Called(ctx, tx, paymentIntentID, status, failureReason)
	return args.Error(0)
}
func (m *MockPaymentRepo) SumsByOwner(ctx context.Context, ownerID int32) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}
func (m *MockPaymentRepo) SumPlatformFees(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockOwnerRepo
type MockOwnerRepo struct {
	mock.Mock
}

func (m *MockOwnerRepo) Create(ctx context.Context, profile *domain.OwnerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockOwnerRepo) GetByUserID(ctx context.Context, userID int32) (*domain.OwnerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerProfile), args.Error(1)
}
func (m *MockOwnerRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.OwnerProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerProfile), args.Error(1)
}
func (m *MockOwnerRepo) UpdateAccountFlags(ctx context.Context, accountID string, charges, payouts, details, onboarded bool) error {
	args := m.Called(ctx, accountID, charges, payouts, details, onboarded)
	return args.Error(0)
}
func (m *MockOwnerRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, userID int32) (*domain.OwnerProfile, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerProfile), args.Error(1)
}
func (m *MockOwnerRepo) CreditTx(ctx context.Context, tx *sql.Tx, userID int32, amount decimal.Decimal) error {
	args := m.Called(ctx, tx, userID, amount)
	return args.Error(0)
}
func (m *MockOwnerRepo) DebitForWithdrawalTx(ctx context.Context, tx *sql.Tx, userID int32, amount decimal.Decimal) error {
	args := m.Called(ctx, tx, userID, amount)
	return args.Error(0)
}
func (m *MockOwnerRepo) SaveSnapshot(ctx context.Context, userID int32, snap domain.BalanceSnapshot) error {
	args := m.Called(ctx, userID, snap)
	return args.Error(0)
}
func (m *MockOwnerRepo) ListUserIDs(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockOwnerRepo) ListIncompleteAccounts(ctx context.Context) ([]domain.OwnerProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OwnerProfile), args.Error(1)
}

// MockWithdrawalRepo
type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) CreateTx(ctx context.Context, tx *sql.Tx, withdrawal *domain.Withdrawal) error {
	args := m.Called(ctx, tx, withdrawal)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) GetByStripeReference(ctx context.Context, ref string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *MockWithdrawalRepo) SetStatusByReference(ctx context.Context, ref string, status domain.WithdrawalStatus, failureReason string, processedAt *time.Time) error {
	args := m.Called(ctx, ref, status, failureReason, processedAt)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) ListByUser(ctx context.Context, userID, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Withdrawal), args.Get(1).(int32), args.Error(2)
}
func (m *MockWithdrawalRepo) SumCompletedOwnerByUser(ctx context.Context, userID int32) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockWithdrawalRepo) SumPlatform(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepo) GetByRentalID(ctx context.Context, rentalID int32) (*domain.Review, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) ListByCar(ctx context.Context, carID, page, pageSize int32) ([]domain.Review, int32, error) {
	args := m.Called(ctx, carID, page, pageSize)
	return args.Get(0).([]domain.Review), args.Get(1).(int32), args.Error(2)
}

// MockProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreatePaymentIntent(ctx context.Context, params payments.CreateIntentParams) (*payments.Intent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Intent), args.Error(1)
}
func (m *MockProvider) RetrievePaymentIntent(ctx context.Context, id string) (*payments.Intent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Intent), args.Error(1)
}
func (m *MockProvider) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
func (m *MockProvider) CreateAccountOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	args := m.Called(ctx, accountID, refreshURL, returnURL)
	return args.String(0), args.Error(1)
}
func (m *MockProvider) RetrieveAccount(ctx context.Context, accountID string) (*payments.AccountStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.AccountStatus), args.Error(1)
}
func (m *MockProvider) CreateTransfer(ctx context.Context, params payments.TransferParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}
func (m *MockProvider) CreatePayout(ctx context.Context, params payments.PayoutParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}
func (m *MockProvider) VerifyWebhook(payload []byte, signature string) (*payments.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Event), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingNotification(ctx context.Context, ownerEmail, ownerName, carTitle string, rental *domain.Rental) error {
	args := m.Called(ctx, ownerEmail, ownerName, carTitle, rental)
	return args.Error(0)
}
func (m *MockEmailService) SendReviewNotification(ctx context.Context, ownerEmail, ownerName, carTitle string, rating int32) error {
	args := m.Called(ctx, ownerEmail, ownerName, carTitle, rating)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalReceipt(ctx context.Context, email, name string, withdrawal *domain.Withdrawal) error {
	args := m.Called(ctx, email, name, withdrawal)
	return args.Error(0)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateIntent(ctx context.Context, customerID int32, req CreateIntentRequest) (*IntentResult, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IntentResult), args.Error(1)
}
func (m *MockPaymentService) ConfirmPayment(ctx context.Context, paymentIntentID string) (*domain.Rental, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
