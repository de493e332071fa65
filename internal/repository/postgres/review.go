package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, rental_id, car_id, customer_id, owner_id, rating, comment, created_on`

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (rental_id, car_id, customer_id, owner_id, rating, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		review.RentalID, review.CarID, review.CustomerID, review.OwnerID,
		review.Rating, review.Comment, time.Now()).Scan(&review.ID)
}

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	rev := &domain.Review{}
	err := row.Scan(&rev.ID, &rev.RentalID, &rev.CarID, &rev.CustomerID, &rev.OwnerID,
		&rev.Rating, &rev.Comment, &rev.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rev, nil
}

func (r *reviewRepository) GetByRentalID(ctx context.Context, rentalID int32) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE rental_id = $1`
	return scanReview(r.db.QueryRowContext(ctx, query, rentalID))
}

func (r *reviewRepository) ListByCar(ctx context.Context, carID int32, page, pageSize int32) ([]domain.Review, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM reviews WHERE car_id = $1`, carID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE car_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, carID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, *rev)
	}
	return reviews, count, rows.Err()
}
