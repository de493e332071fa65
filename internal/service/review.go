package service

import (
	"context"
	"errors"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	rentalRepo repository.RentalRepository
	carRepo    repository.CarRepository
	userRepo   repository.UserRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		rentalRepo: rentalRepo,
		carRepo:    carRepo,
		userRepo:   userRepo,
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
	}
}

// CreateReview allows one review per completed rental by its customer.
func (s *reviewService) CreateReview(ctx context.Context, customerID, rentalID, rating int32, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	if rental.Status != domain.RentalStatusCompleted {
		return nil, fmt.Errorf("%w: rental is %s, reviews require a completed rental", domain.ErrInvalidTransition, rental.Status)
	}

	if _, err := s.reviewRepo.GetByRentalID(ctx, rentalID); err == nil {
		return nil, fmt.Errorf("%w: rental %d already reviewed", domain.ErrInvalidTransition, rentalID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	review := &domain.Review{
		RentalID:   rentalID,
		CarID:      rental.CarID,
		CustomerID: customerID,
		OwnerID:    rental.OwnerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.notifyOwnerNewReview(ctx, review)

	return review, nil
}

func (s *reviewService) ListByCar(ctx context.Context, carID, page, pageSize int32) ([]domain.Review, int32, error) {
	return s.reviewRepo.ListByCar(ctx, carID, page, pageSize)
}

func (s *reviewService) notifyOwnerNewReview(ctx context.Context, review *domain.Review) {
	carTitle := fmt.Sprintf("car %d", review.CarID)
	if car, err := s.carRepo.GetByID(ctx, review.CarID); err == nil {
		carTitle = car.Title
	}

	note := &domain.Notification{
		UserID:  review.OwnerID,
		Title:   "New Review",
		Message: fmt.Sprintf("%s received a %d-star review", carTitle, review.Rating),
		Attributes: map[string]string{
			"type":      "NEW_REVIEW",
			"review_id": fmt.Sprintf("%d", review.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to create review notification", "review_id", review.ID, "error", err)
	}

	owner, err := s.userRepo.GetByID(ctx, review.OwnerID)
	if err != nil {
		logger.Error("failed to load owner for review email", "owner_id", review.OwnerID, "error", err)
		return
	}
	if err := s.emailSvc.SendReviewNotification(ctx, owner.Email, owner.Name, carTitle, review.Rating); err != nil {
		logger.Error("failed to send review email", "owner_id", review.OwnerID, "error", err)
	}
}
