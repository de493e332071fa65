package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driveshare-backend/internal/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// beginTx opens a transaction against the mock. Callers must have queued
// ExpectBegin first.
func beginTx(t *testing.T, db *sql.DB) *sql.Tx {
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx
}

var rentalRowColumns = []string{
	"id", "customer_id", "car_id", "owner_id", "start_date", "end_date", "total_days", "total_amount",
	"status", "payment_status", "payment_intent_id", "platform_fee", "owner_payout", "payout_status",
	"pickup_location", "dropoff_location",
	"has_insurance", "insurance_cost", "has_gps", "gps_cost",
	"has_child_seat", "child_seat_cost", "has_additional_driver", "additional_driver_cost",
	"created_on", "updated_on",
}

func rentalRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(rentalRowColumns).AddRow(
		11, 42, 7, 3, now, now.Add(96*time.Hour), 4, "100.00",
		"pending_approval", "paid", "pi_1", "10.00", "90.00", "pending",
		"airport", "downtown",
		false, "0.00", true, "10.00",
		false, "0.00", false, "0.00",
		now, now,
	)
}

func TestRentalRepository_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("AssignsID", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		tx := beginTx(t, db)

		rental := &domain.Rental{CustomerID: 42, CarID: 7, OwnerID: 3, PaymentIntentID: "pi_1"}
		err := repo.CreateTx(ctx, tx, rental)
		require.NoError(t, err)
		assert.Equal(t, int32(11), rental.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateIntentSurfacesUniqueViolation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "rentals_payment_intent_id_key"})
		tx := beginTx(t, db)

		err := repo.CreateTx(ctx, tx, &domain.Rental{PaymentIntentID: "pi_1"})
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
	})
}

func TestRentalRepository_GetByPaymentIntentID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectQuery("FROM rentals WHERE payment_intent_id").
			WithArgs("pi_1").
			WillReturnRows(rentalRow())

		rental, err := repo.GetByPaymentIntentID(ctx, "pi_1")
		require.NoError(t, err)
		assert.Equal(t, int32(11), rental.ID)
		assert.Equal(t, "pi_1", rental.PaymentIntentID)
		assert.True(t, rental.TotalAmount.Equal(rental.PlatformFee.Add(rental.OwnerPayout)))
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectQuery("FROM rentals WHERE payment_intent_id").
			WithArgs("pi_unknown").
			WillReturnRows(sqlmock.NewRows(rentalRowColumns))

		_, err := repo.GetByPaymentIntentID(ctx, "pi_unknown")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectExec("UPDATE rentals SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 11, domain.RentalStatusApproved))
	})

	t.Run("UnknownRental", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectExec("UPDATE rentals SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateStatus(ctx, 999, domain.RentalStatusApproved), domain.ErrNotFound)
	})
}

func TestRentalRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM rentals WHERE owner_id`).
		WithArgs(int32(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM rentals WHERE owner_id").
		WithArgs(int32(3), int32(20), int32(0)).
		WillReturnRows(rentalRow())

	rentals, total, err := repo.ListByOwner(ctx, 3, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	require.Len(t, rentals, 1)
	assert.Equal(t, int32(11), rentals[0].ID)
}
