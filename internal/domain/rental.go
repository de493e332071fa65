package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPendingApproval RentalStatus = "pending_approval"
	RentalStatusApproved        RentalStatus = "approved"
	RentalStatusActive          RentalStatus = "active"
	RentalStatusCompleted       RentalStatus = "completed"
	RentalStatusCancelled       RentalStatus = "cancelled"
	RentalStatusRejected        RentalStatus = "rejected"
)

type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStatePaid    PaymentState = "paid"
	PaymentStateFailed  PaymentState = "failed"
)

type PayoutState string

const (
	PayoutStatePending PayoutState = "pending"
	PayoutStatePaid    PayoutState = "paid"
)

type Rental struct {
	ID              int32           `json:"id"`
	CustomerID      int32           `json:"customer_id"`
	CarID           int32           `json:"car_id"`
	OwnerID         int32           `json:"owner_id"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	TotalDays       int32           `json:"total_days"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          RentalStatus    `json:"status"`
	PaymentStatus   PaymentState    `json:"payment_status"`
	PaymentIntentID string          `json:"payment_intent_id"`
	PlatformFee     decimal.Decimal `json:"platform_fee"`
	OwnerPayout     decimal.Decimal `json:"owner_payout"`
	PayoutStatus    PayoutState     `json:"payout_status"`
	PickupLocation  string          `json:"pickup_location"`
	DropoffLocation string          `json:"dropoff_location"`
	// Add-on snapshot fields. Costs are captured at booking time and are
	// already included in TotalAmount.
	HasInsurance         bool            `json:"has_insurance"`
	InsuranceCost        decimal.Decimal `json:"insurance_cost"`
	HasGPS               bool            `json:"has_gps"`
	GPSCost              decimal.Decimal `json:"gps_cost"`
	HasChildSeat         bool            `json:"has_child_seat"`
	ChildSeatCost        decimal.Decimal `json:"child_seat_cost"`
	HasAdditionalDriver  bool            `json:"has_additional_driver"`
	AdditionalDriverCost decimal.Decimal `json:"additional_driver_cost"`
	CreatedOn            time.Time       `json:"created_on"`
	UpdatedOn            time.Time       `json:"updated_on"`
}
