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

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, amount, currency, type, status, stripe_reference,
	description, processed_at, failure_reason, created_on, updated_on`

const withdrawalInsert = `INSERT INTO withdrawals (user_id, amount, currency, type, status, stripe_reference,
	description, processed_at, failure_reason, created_on, updated_on)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

func (r *withdrawalRepository) CreateTx(ctx context.Context, tx *sql.Tx, w *domain.Withdrawal) error {
	now := time.Now()
	return tx.QueryRowContext(ctx, withdrawalInsert,
		w.UserID, w.Amount, w.Currency, w.Type, w.Status, w.StripeReference,
		w.Description, w.ProcessedAt, w.FailureReason, now, now).Scan(&w.ID)
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	now := time.Now()
	return r.db.QueryRowContext(ctx, withdrawalInsert,
		w.UserID, w.Amount, w.Currency, w.Type, w.Status, w.StripeReference,
		w.Description, w.ProcessedAt, w.FailureReason, now, now).Scan(&w.ID)
}

func scanWithdrawal(row interface{ Scan(...any) error }) (*domain.Withdrawal, error) {
	w := &domain.Withdrawal{}
	var failureReason sql.NullString
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.Currency, &w.Type, &w.Status, &w.StripeReference,
		&w.Description, &w.ProcessedAt, &failureReason, &w.CreatedOn, &w.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	w.FailureReason = failureReason.String
	return w, nil
}

func (r *withdrawalRepository) GetByStripeReference(ctx context.Context, ref string) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE stripe_reference = $1`
	return scanWithdrawal(r.db.QueryRowContext(ctx, query, ref))
}

func (r *withdrawalRepository) SetStatusByReference(ctx context.Context, ref string, status domain.WithdrawalStatus, failureReason string, processedAt *time.Time) error {
	query := `UPDATE withdrawals SET status=$1, failure_reason=NULLIF($2, ''), processed_at=COALESCE($3, processed_at), updated_on=$4
	          WHERE stripe_reference=$5`
	res, err := r.db.ExecContext(ctx, query, status, failureReason, processedAt, time.Now(), ref)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM withdrawals WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, 0, err
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, count, rows.Err()
}

func (r *withdrawalRepository) SumCompletedOwnerByUser(ctx context.Context, userID int32) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM withdrawals
	          WHERE user_id = $1 AND type = 'owner' AND status = 'completed'`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *withdrawalRepository) SumPlatform(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM withdrawals
	          WHERE type = 'platform' AND status IN ('processing', 'completed')`
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
