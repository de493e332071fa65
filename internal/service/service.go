package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
)

// TxBeginner opens database transactions for services whose operations span
// multiple rows. *postgres.Store satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// CreateIntentRequest carries the booking parameters a customer submits
// before paying.
type CreateIntentRequest struct {
	CarID                int32           `json:"car_id"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              time.Time       `json:"end_date"`
	TotalDays            int32           `json:"total_days"`
	TotalPrice           decimal.Decimal `json:"total_price"`
	PickupLocation       string          `json:"pickup_location"`
	DropoffLocation      string          `json:"dropoff_location"`
	HasInsurance         bool            `json:"has_insurance"`
	InsuranceCost        decimal.Decimal `json:"insurance_cost"`
	HasGPS               bool            `json:"has_gps"`
	GPSCost              decimal.Decimal `json:"gps_cost"`
	HasChildSeat         bool            `json:"has_child_seat"`
	ChildSeatCost        decimal.Decimal `json:"child_seat_cost"`
	HasAdditionalDriver  bool            `json:"has_additional_driver"`
	AdditionalDriverCost decimal.Decimal `json:"additional_driver_cost"`
}

// IntentResult is what the client needs to complete the payment, plus the
// commission split for display.
type IntentResult struct {
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PlatformFee     decimal.Decimal `json:"platform_fee"`
	OwnerPayout     decimal.Decimal `json:"owner_payout"`
}

type PaymentService interface {
	CreateIntent(ctx context.Context, customerID int32, req CreateIntentRequest) (*IntentResult, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) (*domain.Rental, error)
}

type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

// PlatformBalance is the admin view of accumulated commission.
type PlatformBalance struct {
	TotalFees decimal.Decimal `json:"total_fees"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	Available decimal.Decimal `json:"available"`
}

type LedgerService interface {
	GetBalance(ctx context.Context, ownerID int32) (*domain.BalanceSnapshot, error)
	Withdraw(ctx context.Context, ownerID int32, amount decimal.Decimal) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, userID, page, pageSize int32) ([]domain.Withdrawal, int32, error)
	PlatformBalance(ctx context.Context) (*PlatformBalance, error)
	PlatformWithdraw(ctx context.Context, adminID int32, amount decimal.Decimal, description string) (*domain.Withdrawal, error)
}

type OwnerService interface {
	CreateConnectedAccount(ctx context.Context, userID int32) (string, error)
	OnboardingLink(ctx context.Context, userID int32) (string, error)
	RefreshAccountStatus(ctx context.Context, userID int32) (*domain.OwnerProfile, error)
}

type CarService interface {
	CreateCar(ctx context.Context, car *domain.Car) error
	GetCar(ctx context.Context, id int32) (*domain.Car, error)
	ListCars(ctx context.Context, onlyAvailable bool, page, pageSize int32) ([]domain.Car, int32, error)
	ListMyCars(ctx context.Context, ownerID int32) ([]domain.Car, error)
}

type RentalService interface {
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	ListByCustomer(ctx context.Context, customerID, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByOwner(ctx context.Context, ownerID, page, pageSize int32) ([]domain.Rental, int32, error)
	Approve(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)
	Reject(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)
	Activate(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)
	Complete(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)
	Cancel(ctx context.Context, customerID, rentalID int32) error
}

type ReviewService interface {
	CreateReview(ctx context.Context, customerID, rentalID, rating int32, comment string) (*domain.Review, error)
	ListByCar(ctx context.Context, carID, page, pageSize int32) ([]domain.Review, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingNotification(ctx context.Context, ownerEmail, ownerName, carTitle string, rental *domain.Rental) error
	SendReviewNotification(ctx context.Context, ownerEmail, ownerName, carTitle string, rating int32) error
	SendWithdrawalReceipt(ctx context.Context, email, name string, withdrawal *domain.Withdrawal) error
}
