package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"driveshare-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CarRepository
	repository.RentalRepository
	repository.PaymentRepository
	repository.OwnerProfileRepository
	repository.WithdrawalRepository
	repository.NotificationRepository
	repository.ReviewRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		CarRepository:          NewCarRepository(db),
		RentalRepository:       NewRentalRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		OwnerProfileRepository: NewOwnerProfileRepository(db),
		WithdrawalRepository:   NewWithdrawalRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ReviewRepository:       NewReviewRepository(db),
	}
}

func (s *Store) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// The settlement paths use this as the idempotency backstop when two
// writers race past the lookup.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
