package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type ownerProfileRepository struct {
	db *sql.DB
}

func NewOwnerProfileRepository(db *sql.DB) repository.OwnerProfileRepository {
	return &ownerProfileRepository{db: db}
}

const ownerColumns = `user_id, stripe_account_id, stripe_charges_enabled, stripe_payouts_enabled,
	stripe_details_submitted, stripe_onboarding_complete,
	total_earnings, available_balance, pending_balance, total_withdrawn, created_on, updated_on`

func (r *ownerProfileRepository) Create(ctx context.Context, p *domain.OwnerProfile) error {
	query := `INSERT INTO owner_profiles (user_id, stripe_account_id, stripe_charges_enabled, stripe_payouts_enabled,
	          stripe_details_submitted, stripe_onboarding_complete,
	          total_earnings, available_balance, pending_balance, total_withdrawn, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.StripeAccountID, p.StripeChargesEnabled, p.StripePayoutsEnabled,
		p.StripeDetailsSubmitted, p.StripeOnboardingComplete,
		p.TotalEarnings, p.AvailableBalance, p.PendingBalance, p.TotalWithdrawn, now, now)
	return err
}

func scanOwnerProfile(row interface{ Scan(...any) error }) (*domain.OwnerProfile, error) {
	p := &domain.OwnerProfile{}
	err := row.Scan(&p.UserID, &p.StripeAccountID, &p.StripeChargesEnabled, &p.StripePayoutsEnabled,
		&p.StripeDetailsSubmitted, &p.StripeOnboardingComplete,
		&p.TotalEarnings, &p.AvailableBalance, &p.PendingBalance, &p.TotalWithdrawn,
		&p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ownerProfileRepository) GetByUserID(ctx context.Context, userID int32) (*domain.OwnerProfile, error) {
	query := `SELECT ` + ownerColumns + ` FROM owner_profiles WHERE user_id = $1`
	return scanOwnerProfile(r.db.QueryRowContext(ctx, query, userID))
}

func (r *ownerProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.OwnerProfile, error) {
	query := `SELECT ` + ownerColumns + ` FROM owner_profiles WHERE stripe_account_id = $1`
	return scanOwnerProfile(r.db.QueryRowContext(ctx, query, accountID))
}

func (r *ownerProfileRepository) UpdateAccountFlags(ctx context.Context, accountID string, charges, payouts, details, onboarded bool) error {
	query := `UPDATE owner_profiles SET stripe_charges_enabled=$1, stripe_payouts_enabled=$2,
	          stripe_details_submitted=$3, stripe_onboarding_complete=$4, updated_on=$5
	          WHERE stripe_account_id=$6`
	res, err := r.db.ExecContext(ctx, query, charges, payouts, details, onboarded, time.Now(), accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetForUpdateTx locks the owner's profile row for the duration of the
// transaction. Withdrawal balance checks must read through this lock.
func (r *ownerProfileRepository) GetForUpdateTx(ctx context.Context, tx *sql.Tx, userID int32) (*domain.OwnerProfile, error) {
	query := `SELECT ` + ownerColumns + ` FROM owner_profiles WHERE user_id = $1 FOR UPDATE`
	return scanOwnerProfile(tx.QueryRowContext(ctx, query, userID))
}

func (r *ownerProfileRepository) CreditTx(ctx context.Context, tx *sql.Tx, userID int32, amount decimal.Decimal) error {
	query := `UPDATE owner_profiles SET total_earnings = total_earnings + $1,
	          available_balance = available_balance + $1, updated_on = $2
	          WHERE user_id = $3`
	res, err := tx.ExecContext(ctx, query, amount, time.Now(), userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ownerProfileRepository) DebitForWithdrawalTx(ctx context.Context, tx *sql.Tx, userID int32, amount decimal.Decimal) error {
	query := `UPDATE owner_profiles SET available_balance = available_balance - $1,
	          total_withdrawn = total_withdrawn + $1, updated_on = $2
	          WHERE user_id = $3 AND available_balance >= $1`
	res, err := tx.ExecContext(ctx, query, amount, time.Now(), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Conditional guard failed: balance moved under us or row missing.
		return domain.ErrNotFound
	}
	return nil
}

func (r *ownerProfileRepository) SaveSnapshot(ctx context.Context, userID int32, snap domain.BalanceSnapshot) error {
	query := `UPDATE owner_profiles SET total_earnings=$1, available_balance=$2,
	          pending_balance=$3, total_withdrawn=$4, updated_on=$5
	          WHERE user_id=$6`
	res, err := r.db.ExecContext(ctx, query,
		snap.TotalEarnings, snap.AvailableBalance, snap.PendingBalance, snap.TotalWithdrawn,
		time.Now(), userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ownerProfileRepository) ListUserIDs(ctx context.Context) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM owner_profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ownerProfileRepository) ListIncompleteAccounts(ctx context.Context) ([]domain.OwnerProfile, error) {
	query := `SELECT ` + ownerColumns + ` FROM owner_profiles
	          WHERE stripe_account_id <> '' AND NOT stripe_onboarding_complete`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.OwnerProfile
	for rows.Next() {
		p, err := scanOwnerProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
