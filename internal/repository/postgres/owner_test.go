package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driveshare-backend/internal/domain"
)

var ownerRowColumns = []string{
	"user_id", "stripe_account_id", "stripe_charges_enabled", "stripe_payouts_enabled",
	"stripe_details_submitted", "stripe_onboarding_complete",
	"total_earnings", "available_balance", "pending_balance", "total_withdrawn",
	"created_on", "updated_on",
}

func ownerRow(available string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(ownerRowColumns).AddRow(
		3, "acct_123", true, true, true, true,
		"250.00", available, "40.00", "100.00",
		now, now,
	)
}

func TestOwnerProfileRepository_GetForUpdateTx(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewOwnerProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM owner_profiles WHERE user_id = (.+) FOR UPDATE").
		WithArgs(int32(3)).
		WillReturnRows(ownerRow("150.00"))
	tx := beginTx(t, db)

	profile, err := repo.GetForUpdateTx(ctx, tx, 3)
	require.NoError(t, err)
	assert.Equal(t, "acct_123", profile.StripeAccountID)
	assert.True(t, profile.AvailableBalance.Equal(decimal.RequireFromString("150.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerProfileRepository_DebitForWithdrawalTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Debited", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOwnerProfileRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE owner_profiles SET available_balance = available_balance - (.+) AND available_balance >=").
			WillReturnResult(sqlmock.NewResult(0, 1))
		tx := beginTx(t, db)

		err := repo.DebitForWithdrawalTx(ctx, tx, 3, decimal.RequireFromString("40.00"))
		assert.NoError(t, err)
	})

	t.Run("GuardRejectsOverdraft", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOwnerProfileRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE owner_profiles SET available_balance = available_balance -").
			WillReturnResult(sqlmock.NewResult(0, 0))
		tx := beginTx(t, db)

		err := repo.DebitForWithdrawalTx(ctx, tx, 3, decimal.RequireFromString("500.00"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestOwnerProfileRepository_CreditTx(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewOwnerProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE owner_profiles SET total_earnings = total_earnings \\+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	tx := beginTx(t, db)

	err := repo.CreditTx(ctx, tx, 3, decimal.RequireFromString("90.00"))
	assert.NoError(t, err)
}

func TestOwnerProfileRepository_UpdateAccountFlags(t *testing.T) {
	ctx := context.Background()

	t.Run("Updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOwnerProfileRepository(db)

		mock.ExpectExec("UPDATE owner_profiles SET stripe_charges_enabled").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateAccountFlags(ctx, "acct_123", true, true, true, true)
		assert.NoError(t, err)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOwnerProfileRepository(db)

		mock.ExpectExec("UPDATE owner_profiles SET stripe_charges_enabled").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateAccountFlags(ctx, "acct_stranger", true, true, true, true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestOwnerProfileRepository_GetByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOwnerProfileRepository(db)

		mock.ExpectQuery("FROM owner_profiles WHERE user_id").
			WithArgs(int32(3)).
			WillReturnRows(ownerRow("150.00"))

		profile, err := repo.GetByUserID(ctx, 3)
		require.NoError(t, err)
		assert.True(t, profile.Onboarded())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOwnerProfileRepository(db)

		mock.ExpectQuery("FROM owner_profiles WHERE user_id").
			WithArgs(int32(9)).
			WillReturnRows(sqlmock.NewRows(ownerRowColumns))

		_, err := repo.GetByUserID(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
