package service

import (
	"context"

	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type carService struct {
	carRepo repository.CarRepository
}

func NewCarService(carRepo repository.CarRepository) CarService {
	return &carService{carRepo: carRepo}
}

func (s *carService) CreateCar(ctx context.Context, car *domain.Car) error {
	if car.DailyRate.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	car.Available = true
	return s.carRepo.Create(ctx, car)
}

func (s *carService) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

func (s *carService) ListCars(ctx context.Context, onlyAvailable bool, page, pageSize int32) ([]domain.Car, int32, error) {
	return s.carRepo.List(ctx, onlyAvailable, page, pageSize)
}

func (s *carService) ListMyCars(ctx context.Context, ownerID int32) ([]domain.Car, error) {
	return s.carRepo.ListByOwner(ctx, ownerID)
}
