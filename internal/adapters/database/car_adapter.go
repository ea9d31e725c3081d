package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

var carColumns = []any{
	"id", "user_id", "licence_plate", "is_deleted", "created_at", "updated_at",
}

// CarAdapter implements the CarRepository interface
type CarAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCarAdapter creates a new car adapter
func NewCarAdapter(client *postgres.Client) repositories.CarRepository {
	return &CarAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new car
func (a *CarAdapter) Create(ctx context.Context, car *entities.Car) error {
	record := goqu.Record{
		"id":            car.ID,
		"user_id":       car.UserID,
		"licence_plate": car.LicencePlate,
		"is_deleted":    car.IsDeleted,
		"created_at":    car.CreatedAt,
		"updated_at":    car.UpdatedAt,
	}

	query, args, err := a.db.Insert("cars").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create car", err)
	}

	return nil
}

// GetByID retrieves a car by ID, excluding soft-deleted cars
func (a *CarAdapter) GetByID(ctx context.Context, id string) (*entities.Car, error) {
	return a.getOne(ctx, goqu.Ex{"id": id, "is_deleted": false},
		fmt.Sprintf("car with id %s not found", id))
}

// GetByPlate retrieves a car by licence plate. Soft-deleted cars are
// included so plate uniqueness covers them too.
func (a *CarAdapter) GetByPlate(ctx context.Context, plate string) (*entities.Car, error) {
	return a.getOne(ctx, goqu.Ex{"licence_plate": plate},
		fmt.Sprintf("car with plate %s not found", plate))
}

func (a *CarAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Car, error) {
	query, args, err := a.db.Select(carColumns...).
		From("cars").
		Where(where).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	car := &entities.Car{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&car.ID,
		&car.UserID,
		&car.LicencePlate,
		&car.IsDeleted,
		&car.CreatedAt,
		&car.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get car", err)
	}

	return car, nil
}

// ListByUser retrieves a user's cars, excluding soft-deleted ones
func (a *CarAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Car, error) {
	query, args, err := a.db.Select(carColumns...).
		From("cars").
		Where(goqu.Ex{"user_id": userID, "is_deleted": false}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list cars", err)
	}
	defer rows.Close()

	var cars []*entities.Car
	for rows.Next() {
		car := &entities.Car{}
		err := rows.Scan(
			&car.ID,
			&car.UserID,
			&car.LicencePlate,
			&car.IsDeleted,
			&car.CreatedAt,
			&car.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan car", err)
		}
		cars = append(cars, car)
	}

	return cars, nil
}

// Update persists plate changes to an existing car
func (a *CarAdapter) Update(ctx context.Context, car *entities.Car) error {
	car.UpdatedAt = time.Now()

	query, args, err := a.db.Update("cars").
		Set(goqu.Record{
			"licence_plate": car.LicencePlate,
			"updated_at":    car.UpdatedAt,
		}).
		Where(goqu.Ex{"id": car.ID, "is_deleted": false}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.execExpectingRow(ctx, query, args, "failed to update car",
		fmt.Sprintf("car with id %s not found", car.ID))
}

// SoftDelete flags a car as deleted without removing the row
func (a *CarAdapter) SoftDelete(ctx context.Context, id string) error {
	query, args, err := a.db.Update("cars").
		Set(goqu.Record{
			"is_deleted": true,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id, "is_deleted": false}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	return a.execExpectingRow(ctx, query, args, "failed to delete car",
		fmt.Sprintf("car with id %s not found", id))
}

// HardDelete removes the row, ignoring the soft-delete flag
func (a *CarAdapter) HardDelete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("cars").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	return a.execExpectingRow(ctx, query, args, "failed to delete car",
		fmt.Sprintf("car with id %s not found", id))
}

func (a *CarAdapter) execExpectingRow(ctx context.Context, query string, args []any, errMsg, notFoundMsg string) error {
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError(errMsg, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}

	return nil
}
