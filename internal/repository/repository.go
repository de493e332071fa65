package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
)

// Methods with a Tx suffix participate in a caller-owned transaction; the
// service layer opens it and commits or rolls back the whole unit.

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	List(ctx context.Context, onlyAvailable bool, page, pageSize int32) ([]domain.Car, int32, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Car, error)
	SetAvailabilityTx(ctx context.Context, tx *sql.Tx, carID int32, available bool) error
}

type RentalRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Rental, error)
	UpdateStatus(ctx context.Context, id int32, status domain.RentalStatus) error
	SetPaymentStatusTx(ctx context.Context, tx *sql.Tx, paymentIntentID string, status domain.PaymentState) error
	Delete(ctx context.Context, id int32) error
	ListByCustomer(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Rental, int32, error)
}

type PaymentRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Payment, error)
	SetStatusByIntentTx(ctx context.Context, tx *sql.Tx, paymentIntentID string, status domain.PaymentStatus, failureReason string) error
	// SumsByOwner returns (succeeded, pending) owner amounts.
	SumsByOwner(ctx context.Context, ownerID int32) (decimal.Decimal, decimal.Decimal, error)
	SumPlatformFees(ctx context.Context) (decimal.Decimal, error)
}

type OwnerProfileRepository interface {
	Create(ctx context.Context, profile *domain.OwnerProfile) error
	GetByUserID(ctx context.Context, userID int32) (*domain.OwnerProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.OwnerProfile, error)
	UpdateAccountFlags(ctx context.Context, accountID string, charges, payouts, details, onboarded bool) error
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, userID int32) (*domain.OwnerProfile, error)
	CreditTx(ctx context.Context, tx *sql.Tx, userID int32, amount decimal.Decimal) error
	DebitForWithdrawalTx(ctx context.Context, tx *sql.Tx, userID int32, amount decimal.Decimal) error
	SaveSnapshot(ctx context.Context, userID int32, snap domain.BalanceSnapshot) error
	ListUserIDs(ctx context.Context) ([]int32, error)
	ListIncompleteAccounts(ctx context.Context) ([]domain.OwnerProfile, error)
}

type WithdrawalRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, withdrawal *domain.Withdrawal) error
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error
	GetByStripeReference(ctx context.Context, ref string) (*domain.Withdrawal, error)
	SetStatusByReference(ctx context.Context, ref string, status domain.WithdrawalStatus, failureReason string, processedAt *time.Time) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Withdrawal, int32, error)
	SumCompletedOwnerByUser(ctx context.Context, userID int32) (decimal.Decimal, error)
	// SumPlatform covers processing and completed platform withdrawals.
	SumPlatform(ctx context.Context) (decimal.Decimal, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByRentalID(ctx context.Context, rentalID int32) (*domain.Review, error)
	ListByCar(ctx context.Context, carID int32, page, pageSize int32) ([]domain.Review, int32, error)
}
