package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, owner_id, title, make, model, year, daily_rate, location, available,
	description, created_on, updated_on`

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	now := time.Now()
	query := `INSERT INTO cars (owner_id, title, make, model, year, daily_rate, location, available,
	          description, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		car.OwnerID, car.Title, car.Make, car.Model, car.Year, car.DailyRate, car.Location,
		car.Available, car.Description, now, now).Scan(&car.ID)
}

func scanCar(row interface{ Scan(...any) error }) (*domain.Car, error) {
	car := &domain.Car{}
	err := row.Scan(&car.ID, &car.OwnerID, &car.Title, &car.Make, &car.Model, &car.Year,
		&car.DailyRate, &car.Location, &car.Available, &car.Description, &car.CreatedOn, &car.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return car, nil
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	return scanCar(r.db.QueryRowContext(ctx, query, id))
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `UPDATE cars SET title=$1, make=$2, model=$3, year=$4, daily_rate=$5, location=$6,
	          available=$7, description=$8, updated_on=$9 WHERE id=$10`
	res, err := r.db.ExecContext(ctx, query,
		car.Title, car.Make, car.Model, car.Year, car.DailyRate, car.Location,
		car.Available, car.Description, time.Now(), car.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *carRepository) List(ctx context.Context, onlyAvailable bool, page, pageSize int32) ([]domain.Car, int32, error) {
	offset := (page - 1) * pageSize
	where := ""
	if onlyAvailable {
		where = " WHERE available"
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars`+where).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + carColumns + ` FROM cars` + where + ` ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *car)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE owner_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *car)
	}
	return cars, rows.Err()
}

func (r *carRepository) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, carID int32, available bool) error {
	res, err := tx.ExecContext(ctx, `UPDATE cars SET available=$1, updated_on=$2 WHERE id=$3`,
		available, time.Now(), carID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
