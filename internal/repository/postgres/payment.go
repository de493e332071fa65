package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateTx(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO payments (rental_id, owner_id, customer_id, stripe_payment_intent_id, stripe_account_id,
	          total_amount, platform_fee, owner_amount, payment_status, payout_status, metadata, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	return tx.QueryRowContext(ctx, query,
		p.RentalID, p.OwnerID, p.CustomerID, p.StripePaymentIntentID, p.StripeAccountID,
		p.TotalAmount, p.PlatformFee, p.OwnerAmount, p.PaymentStatus, p.PayoutStatus, meta,
		now, now).Scan(&p.ID)
}

func (r *paymentRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Payment, error) {
	p := &domain.Payment{}
	var meta []byte
	query := `SELECT id, rental_id, owner_id, customer_id, stripe_payment_intent_id, stripe_account_id,
	          total_amount, platform_fee, owner_amount, payment_status, payout_status, metadata, created_on, updated_on
	          FROM payments WHERE stripe_payment_intent_id = $1`
	err := r.db.QueryRowContext(ctx, query, paymentIntentID).Scan(
		&p.ID, &p.RentalID, &p.OwnerID, &p.CustomerID, &p.StripePaymentIntentID, &p.StripeAccountID,
		&p.TotalAmount, &p.PlatformFee, &p.OwnerAmount, &p.PaymentStatus, &p.PayoutStatus, &meta,
		&p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &p.Metadata); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (r *paymentRepository) SetStatusByIntentTx(ctx context.Context, tx *sql.Tx, paymentIntentID string, status domain.PaymentStatus, failureReason string) error {
	// Absolute-state update; applying the same event twice is a no-op.
	query := `UPDATE payments SET payment_status=$1,
	          metadata = CASE WHEN $2 <> '' THEN jsonb_set(COALESCE(metadata, '{}'::jsonb), '{failure_reason}', to_jsonb($2::text)) ELSE metadata END,
	          updated_on=$3
	          WHERE stripe_payment_intent_id=$4`
	res, err := tx.ExecContext(ctx, query, status, failureReason, time.Now(), paymentIntentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) SumsByOwner(ctx context.Context, ownerID int32) (decimal.Decimal, decimal.Decimal, error) {
	var succeeded, pending decimal.Decimal
	query := `SELECT
	          COALESCE(SUM(owner_amount) FILTER (WHERE payment_status = 'succeeded'), 0),
	          COALESCE(SUM(owner_amount) FILTER (WHERE payment_status IN ('pending', 'processing')), 0)
	          FROM payments WHERE owner_id = $1`
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&succeeded, &pending)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return succeeded, pending, nil
}

func (r *paymentRepository) SumPlatformFees(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(platform_fee), 0) FROM payments WHERE payment_status = 'succeeded'`
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
