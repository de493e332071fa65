package service

import (
	"context"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
)

type rentalService struct {
	rentalRepo repository.RentalRepository
	carRepo    repository.CarRepository
	noteRepo   repository.NotificationRepository
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	noteRepo repository.NotificationRepository,
) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		carRepo:    carRepo,
		noteRepo:   noteRepo,
	}
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.CustomerID != userID && rental.OwnerID != userID {
		return nil, domain.ErrNotFound
	}
	return rental, nil
}

func (s *rentalService) ListByCustomer(ctx context.Context, customerID, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByCustomer(ctx, customerID, page, pageSize)
}

func (s *rentalService) ListByOwner(ctx context.Context, ownerID, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func (s *rentalService) Approve(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, ownerID, rentalID, domain.RentalStatusPendingApproval, domain.RentalStatusApproved)
}

func (s *rentalService) Reject(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, ownerID, rentalID, domain.RentalStatusPendingApproval, domain.RentalStatusRejected)
}

func (s *rentalService) Activate(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, ownerID, rentalID, domain.RentalStatusApproved, domain.RentalStatusActive)
}

// Complete ends the rental and puts the car back on the market.
func (s *rentalService) Complete(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	rental, err := s.transition(ctx, ownerID, rentalID, domain.RentalStatusActive, domain.RentalStatusCompleted)
	if err != nil {
		return nil, err
	}
	if car, carErr := s.carRepo.GetByID(ctx, rental.CarID); carErr == nil {
		car.Available = true
		if updateErr := s.carRepo.Update(ctx, car); updateErr != nil {
			logger.Error("failed to relist car after rental completion",
				"car_id", car.ID, "rental_id", rentalID, "error", updateErr)
		}
	}
	s.notifyCustomer(ctx, rental, "Rental Completed",
		fmt.Sprintf("Your rental #%d is complete. You can now leave a review.", rental.ID))
	return rental, nil
}

// Cancel is the customer-side escape hatch. An unpaid pending booking is
// removed outright; a paid one keeps its row so the settlement trail
// survives, only the status changes.
func (s *rentalService) Cancel(ctx context.Context, customerID, rentalID int32) error {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if rental.CustomerID != customerID {
		return domain.ErrNotFound
	}
	if rental.Status != domain.RentalStatusPendingApproval {
		return fmt.Errorf("%w: cannot cancel rental in status %s", domain.ErrInvalidTransition, rental.Status)
	}

	if rental.PaymentStatus != domain.PaymentStatePaid {
		return s.rentalRepo.Delete(ctx, rentalID)
	}
	if err := s.rentalRepo.UpdateStatus(ctx, rentalID, domain.RentalStatusCancelled); err != nil {
		return err
	}
	logger.Info("paid rental cancelled", "rental_id", rentalID, "customer_id", customerID)
	return nil
}

func (s *rentalService) transition(ctx context.Context, ownerID, rentalID int32, from, to domain.RentalStatus) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	if rental.Status != from {
		return nil, fmt.Errorf("%w: rental is %s, expected %s", domain.ErrInvalidTransition, rental.Status, from)
	}
	if err := s.rentalRepo.UpdateStatus(ctx, rentalID, to); err != nil {
		return nil, err
	}
	rental.Status = to
	return rental, nil
}

func (s *rentalService) notifyCustomer(ctx context.Context, rental *domain.Rental, title, message string) {
	note := &domain.Notification{
		UserID:  rental.CustomerID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"rental_id": fmt.Sprintf("%d", rental.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to create rental notification", "rental_id", rental.ID, "error", err)
	}
}
