package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, customer_id, car_id, owner_id, start_date, end_date, total_days, total_amount,
	status, payment_status, payment_intent_id, platform_fee, owner_payout, payout_status,
	pickup_location, dropoff_location,
	has_insurance, insurance_cost, has_gps, gps_cost,
	has_child_seat, child_seat_cost, has_additional_driver, additional_driver_cost,
	created_on, updated_on`

func (r *rentalRepository) CreateTx(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
	query := `INSERT INTO rentals (customer_id, car_id, owner_id, start_date, end_date, total_days, total_amount,
	          status, payment_status, payment_intent_id, platform_fee, owner_payout, payout_status,
	          pickup_location, dropoff_location,
	          has_insurance, insurance_cost, has_gps, gps_cost,
	          has_child_seat, child_seat_cost, has_additional_driver, additional_driver_cost,
	          created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25) RETURNING id`
	now := time.Now()
	return tx.QueryRowContext(ctx, query,
		rt.CustomerID, rt.CarID, rt.OwnerID, rt.StartDate, rt.EndDate, rt.TotalDays, rt.TotalAmount,
		rt.Status, rt.PaymentStatus, rt.PaymentIntentID, rt.PlatformFee, rt.OwnerPayout, rt.PayoutStatus,
		rt.PickupLocation, rt.DropoffLocation,
		rt.HasInsurance, rt.InsuranceCost, rt.HasGPS, rt.GPSCost,
		rt.HasChildSeat, rt.ChildSeatCost, rt.HasAdditionalDriver, rt.AdditionalDriverCost,
		now, now).Scan(&rt.ID)
}

func (r *rentalRepository) scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.CustomerID, &rt.CarID, &rt.OwnerID, &rt.StartDate, &rt.EndDate, &rt.TotalDays, &rt.TotalAmount,
		&rt.Status, &rt.PaymentStatus, &rt.PaymentIntentID, &rt.PlatformFee, &rt.OwnerPayout, &rt.PayoutStatus,
		&rt.PickupLocation, &rt.DropoffLocation,
		&rt.HasInsurance, &rt.InsuranceCost, &rt.HasGPS, &rt.GPSCost,
		&rt.HasChildSeat, &rt.ChildSeatCost, &rt.HasAdditionalDriver, &rt.AdditionalDriverCost,
		&rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	return r.scanRental(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE payment_intent_id = $1`
	return r.scanRental(r.db.QueryRowContext(ctx, query, paymentIntentID))
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, id int32, status domain.RentalStatus) error {
	query := `UPDATE rentals SET status=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) SetPaymentStatusTx(ctx context.Context, tx *sql.Tx, paymentIntentID string, status domain.PaymentState) error {
	query := `UPDATE rentals SET payment_status=$1, updated_on=$2 WHERE payment_intent_id=$3`
	_, err := tx.ExecContext(ctx, query, status, time.Now(), paymentIntentID)
	return err
}

func (r *rentalRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) list(ctx context.Context, column string, userID, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM rentals WHERE ` + column + ` = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE ` + column + ` = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := r.scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "customer_id", customerID, page, pageSize)
}

func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "owner_id", ownerID, page, pageSize)
}
