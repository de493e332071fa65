package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/commission"
	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository"
	"driveshare-backend/internal/repository/postgres"
)

const metadataDateLayout = "2006-01-02"

type paymentService struct {
	db         TxBeginner
	carRepo    repository.CarRepository
	userRepo   repository.UserRepository
	rentalRepo repository.RentalRepository
	payRepo    repository.PaymentRepository
	ownerRepo  repository.OwnerProfileRepository
	noteRepo   repository.NotificationRepository
	provider   payments.Provider
	calc       commission.Calculator
	currency   string
	emailSvc   EmailService
}

func NewPaymentService(
	db TxBeginner,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	rentalRepo repository.RentalRepository,
	payRepo repository.PaymentRepository,
	ownerRepo repository.OwnerProfileRepository,
	noteRepo repository.NotificationRepository,
	provider payments.Provider,
	calc commission.Calculator,
	currency string,
	emailSvc EmailService,
) PaymentService {
	return &paymentService{
		db:         db,
		carRepo:    carRepo,
		userRepo:   userRepo,
		rentalRepo: rentalRepo,
		payRepo:    payRepo,
		ownerRepo:  ownerRepo,
		noteRepo:   noteRepo,
		provider:   provider,
		calc:       calc,
		currency:   currency,
		emailSvc:   emailSvc,
	}
}

// CreateIntent validates the booking and asks the processor for a payment
// authorization carrying the commission split. Nothing is written locally;
// the booking exists only in the processor's metadata until confirmed.
func (s *paymentService) CreateIntent(ctx context.Context, customerID int32, req CreateIntentRequest) (*IntentResult, error) {
	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	profile, err := s.ownerRepo.GetByUserID(ctx, car.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOwnerNotOnboarded
		}
		return nil, err
	}
	if !profile.Onboarded() {
		return nil, domain.ErrOwnerNotOnboarded
	}
	if !profile.StripeChargesEnabled {
		return nil, domain.ErrOwnerAccountInactive
	}

	breakdown, err := s.calc.Calculate(req.TotalPrice)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, payments.CreateIntentParams{
		AmountMinor:          payments.MinorUnits(breakdown.Total),
		Currency:             s.currency,
		ApplicationFeeMinor:  payments.MinorUnits(breakdown.PlatformFee),
		DestinationAccountID: profile.StripeAccountID,
		Metadata:             bookingMetadata(customerID, car.OwnerID, req, breakdown),
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	logger.Info("payment intent created",
		"payment_intent_id", intent.ID, "car_id", req.CarID, "customer_id", customerID,
		"total", breakdown.Total, "platform_fee", breakdown.PlatformFee)

	return &IntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		TotalAmount:     breakdown.Total,
		PlatformFee:     breakdown.PlatformFee,
		OwnerPayout:     breakdown.OwnerPayout,
	}, nil
}

// ConfirmPayment materializes the booking after the client reports a
// successful payment. The rental, payment, car availability and owner
// credit land in one transaction; a second call with the same intent id
// returns the rental created by the first.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentIntentID string) (*domain.Rental, error) {
	intent, err := s.provider.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("retrieving payment intent %s: %w", paymentIntentID, err)
	}
	if intent.Status != payments.IntentStatusSucceeded {
		return nil, &domain.PaymentNotCompletedError{Status: intent.Status}
	}

	existing, err := s.rentalRepo.GetByPaymentIntentID(ctx, paymentIntentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return s.settle(ctx, paymentIntentID, intent.Metadata)
}

// settle runs the shared creation path for both the confirmation endpoint
// and the legacy checkout webhook. Callers have already checked the intent
// succeeded and that no rental exists for this reference.
func (s *paymentService) settle(ctx context.Context, paymentIntentID string, metadata map[string]string) (*domain.Rental, error) {
	booking, err := bookingFromMetadata(metadata)
	if err != nil {
		return nil, fmt.Errorf("payment intent %s has unusable metadata: %w", paymentIntentID, err)
	}

	// Money has moved by now, so a missing car is fatal, not a validation
	// failure the client can fix.
	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, fmt.Errorf("settling payment %s: car %d: %w", paymentIntentID, booking.CarID, err)
	}

	profile, err := s.ownerRepo.GetByUserID(ctx, car.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("settling payment %s: owner profile %d: %w", paymentIntentID, car.OwnerID, err)
	}

	rental := booking.toRental(paymentIntentID)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.rentalRepo.CreateTx(ctx, tx, rental); err != nil {
		if postgres.IsUniqueViolation(err) {
			// Lost the race against a concurrent confirmation or the
			// webhook's legacy path. The winner's rental is the answer.
			tx.Rollback()
			return s.rentalRepo.GetByPaymentIntentID(ctx, paymentIntentID)
		}
		return nil, err
	}

	payment := &domain.Payment{
		RentalID:              rental.ID,
		OwnerID:               rental.OwnerID,
		CustomerID:            rental.CustomerID,
		StripePaymentIntentID: paymentIntentID,
		StripeAccountID:       profile.StripeAccountID,
		TotalAmount:           rental.TotalAmount,
		PlatformFee:           rental.PlatformFee,
		OwnerAmount:           rental.OwnerPayout,
		PaymentStatus:         domain.PaymentStatusSucceeded,
		PayoutStatus:          domain.PayoutStatePending,
		Metadata:              metadata,
	}
	if err := s.payRepo.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := s.carRepo.SetAvailabilityTx(ctx, tx, car.ID, false); err != nil {
		return nil, err
	}

	if err := s.ownerRepo.CreditTx(ctx, tx, rental.OwnerID, rental.OwnerPayout); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.Info("payment settled",
		"payment_intent_id", paymentIntentID, "rental_id", rental.ID,
		"owner_id", rental.OwnerID, "owner_payout", rental.OwnerPayout)

	s.notifyOwnerNewBooking(ctx, rental, car.Title)

	return rental, nil
}

// notifyOwnerNewBooking is best-effort; the money has already been
// committed and a notification failure must not surface.
func (s *paymentService) notifyOwnerNewBooking(ctx context.Context, rental *domain.Rental, carTitle string) {
	note := &domain.Notification{
		UserID:  rental.OwnerID,
		Title:   "New Booking",
		Message: fmt.Sprintf("Your car %s was booked from %s to %s", carTitle, rental.StartDate.Format(metadataDateLayout), rental.EndDate.Format(metadataDateLayout)),
		Attributes: map[string]string{
			"type":      "NEW_BOOKING",
			"rental_id": strconv.FormatInt(int64(rental.ID), 10),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to create booking notification", "rental_id", rental.ID, "error", err)
	}

	owner, err := s.userRepo.GetByID(ctx, rental.OwnerID)
	if err != nil {
		logger.Error("failed to load owner for booking email", "owner_id", rental.OwnerID, "error", err)
		return
	}
	if err := s.emailSvc.SendBookingNotification(ctx, owner.Email, owner.Name, carTitle, rental); err != nil {
		logger.Error("failed to send booking email", "owner_id", rental.OwnerID, "error", err)
	}
}

// booking is the metadata round-trip: everything the asynchronous
// settlement paths need, attached to the intent at creation time.
type booking struct {
	CarID                int32
	CustomerID           int32
	OwnerID              int32
	StartDate            time.Time
	EndDate              time.Time
	TotalDays            int32
	TotalAmount          decimal.Decimal
	PlatformFee          decimal.Decimal
	OwnerPayout          decimal.Decimal
	PickupLocation       string
	DropoffLocation      string
	HasInsurance         bool
	InsuranceCost        decimal.Decimal
	HasGPS               bool
	GPSCost              decimal.Decimal
	HasChildSeat         bool
	ChildSeatCost        decimal.Decimal
	HasAdditionalDriver  bool
	AdditionalDriverCost decimal.Decimal
}

func (b *booking) toRental(paymentIntentID string) *domain.Rental {
	return &domain.Rental{
		CustomerID:           b.CustomerID,
		CarID:                b.CarID,
		OwnerID:              b.OwnerID,
		StartDate:            b.StartDate,
		EndDate:              b.EndDate,
		TotalDays:            b.TotalDays,
		TotalAmount:          b.TotalAmount,
		Status:               domain.RentalStatusPendingApproval,
		PaymentStatus:        domain.PaymentStatePaid,
		PaymentIntentID:      paymentIntentID,
		PlatformFee:          b.PlatformFee,
		OwnerPayout:          b.OwnerPayout,
		PayoutStatus:         domain.PayoutStatePending,
		PickupLocation:       b.PickupLocation,
		DropoffLocation:      b.DropoffLocation,
		HasInsurance:         b.HasInsurance,
		InsuranceCost:        b.InsuranceCost,
		HasGPS:               b.HasGPS,
		GPSCost:              b.GPSCost,
		HasChildSeat:         b.HasChildSeat,
		ChildSeatCost:        b.ChildSeatCost,
		HasAdditionalDriver:  b.HasAdditionalDriver,
		AdditionalDriverCost: b.AdditionalDriverCost,
	}
}

func bookingMetadata(customerID, ownerID int32, req CreateIntentRequest, bd commission.Breakdown) map[string]string {
	return map[string]string{
		"car_id":                 strconv.FormatInt(int64(req.CarID), 10),
		"customer_id":            strconv.FormatInt(int64(customerID), 10),
		"owner_id":               strconv.FormatInt(int64(ownerID), 10),
		"start_date":             req.StartDate.Format(metadataDateLayout),
		"end_date":               req.EndDate.Format(metadataDateLayout),
		"total_days":             strconv.FormatInt(int64(req.TotalDays), 10),
		"total_amount":           bd.Total.StringFixed(2),
		"platform_fee":           bd.PlatformFee.StringFixed(2),
		"owner_payout":           bd.OwnerPayout.StringFixed(2),
		"pickup_location":        req.PickupLocation,
		"dropoff_location":       req.DropoffLocation,
		"has_insurance":          strconv.FormatBool(req.HasInsurance),
		"insurance_cost":         req.InsuranceCost.StringFixed(2),
		"has_gps":                strconv.FormatBool(req.HasGPS),
		"gps_cost":               req.GPSCost.StringFixed(2),
		"has_child_seat":         strconv.FormatBool(req.HasChildSeat),
		"child_seat_cost":        req.ChildSeatCost.StringFixed(2),
		"has_additional_driver":  strconv.FormatBool(req.HasAdditionalDriver),
		"additional_driver_cost": req.AdditionalDriverCost.StringFixed(2),
	}
}

func bookingFromMetadata(md map[string]string) (*booking, error) {
	b := &booking{}
	var err error
	if b.CarID, err = metaInt32(md, "car_id"); err != nil {
		return nil, err
	}
	if b.CustomerID, err = metaInt32(md, "customer_id"); err != nil {
		return nil, err
	}
	if b.OwnerID, err = metaInt32(md, "owner_id"); err != nil {
		return nil, err
	}
	if b.TotalDays, err = metaInt32(md, "total_days"); err != nil {
		return nil, err
	}
	if b.StartDate, err = metaDate(md, "start_date"); err != nil {
		return nil, err
	}
	if b.EndDate, err = metaDate(md, "end_date"); err != nil {
		return nil, err
	}
	if b.TotalAmount, err = metaDecimal(md, "total_amount"); err != nil {
		return nil, err
	}
	if b.PlatformFee, err = metaDecimal(md, "platform_fee"); err != nil {
		return nil, err
	}
	if b.OwnerPayout, err = metaDecimal(md, "owner_payout"); err != nil {
		return nil, err
	}
	b.PickupLocation = md["pickup_location"]
	b.DropoffLocation = md["dropoff_location"]
	b.HasInsurance = md["has_insurance"] == "true"
	b.HasGPS = md["has_gps"] == "true"
	b.HasChildSeat = md["has_child_seat"] == "true"
	b.HasAdditionalDriver = md["has_additional_driver"] == "true"
	b.InsuranceCost = metaDecimalOrZero(md, "insurance_cost")
	b.GPSCost = metaDecimalOrZero(md, "gps_cost")
	b.ChildSeatCost = metaDecimalOrZero(md, "child_seat_cost")
	b.AdditionalDriverCost = metaDecimalOrZero(md, "additional_driver_cost")
	return b, nil
}

func metaInt32(md map[string]string, key string) (int32, error) {
	v, ok := md[key]
	if !ok {
		return 0, fmt.Errorf("missing metadata key %q", key)
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("metadata key %q: %w", key, err)
	}
	return int32(n), nil
}

func metaDate(md map[string]string, key string) (time.Time, error) {
	v, ok := md[key]
	if !ok {
		return time.Time{}, fmt.Errorf("missing metadata key %q", key)
	}
	t, err := time.Parse(metadataDateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("metadata key %q: %w", key, err)
	}
	return t, nil
}

func metaDecimal(md map[string]string, key string) (decimal.Decimal, error) {
	v, ok := md[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing metadata key %q", key)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("metadata key %q: %w", key, err)
	}
	return d, nil
}

func metaDecimalOrZero(md map[string]string, key string) decimal.Decimal {
	d, err := decimal.NewFromString(md[key])
	if err != nil {
		return decimal.Zero
	}
	return d
}
