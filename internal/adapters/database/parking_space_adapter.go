package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

var parkingSpaceColumns = []any{
	"id", "parking_id", "space_number", "is_available", "created_at", "updated_at",
}

// ParkingSpaceAdapter implements the ParkingSpaceRepository interface
type ParkingSpaceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewParkingSpaceAdapter creates a new parking space adapter
func NewParkingSpaceAdapter(client *postgres.Client) repositories.ParkingSpaceRepository {
	return &ParkingSpaceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new parking space
func (a *ParkingSpaceAdapter) Create(ctx context.Context, space *entities.ParkingSpace) error {
	record := goqu.Record{
		"id":           space.ID,
		"parking_id":   space.ParkingID,
		"space_number": space.SpaceNumber,
		"is_available": space.IsAvailable,
		"created_at":   space.CreatedAt,
		"updated_at":   space.UpdatedAt,
	}

	query, args, err := a.db.Insert("parking_spaces").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create parking space", err)
	}

	return nil
}

// GetByID retrieves a parking space by ID
func (a *ParkingSpaceAdapter) GetByID(ctx context.Context, id string) (*entities.ParkingSpace, error) {
	query, args, err := a.db.Select(parkingSpaceColumns...).
		From("parking_spaces").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	space := &entities.ParkingSpace{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&space.ID,
		&space.ParkingID,
		&space.SpaceNumber,
		&space.IsAvailable,
		&space.CreatedAt,
		&space.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("parking space with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get parking space", err)
	}

	return space, nil
}

// List retrieves all parking spaces
func (a *ParkingSpaceAdapter) List(ctx context.Context) ([]*entities.ParkingSpace, error) {
	return a.list(ctx, nil)
}

// ListByParking retrieves the spaces belonging to a parking facility
func (a *ParkingSpaceAdapter) ListByParking(ctx context.Context, parkingID string) ([]*entities.ParkingSpace, error) {
	return a.list(ctx, goqu.Ex{"parking_id": parkingID})
}

func (a *ParkingSpaceAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.ParkingSpace, error) {
	ds := a.db.Select(parkingSpaceColumns...).From("parking_spaces")
	if where != nil {
		ds = ds.Where(where)
	}
	ds = ds.Order(goqu.I("space_number").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list parking spaces", err)
	}
	defer rows.Close()

	var spaces []*entities.ParkingSpace
	for rows.Next() {
		space := &entities.ParkingSpace{}
		err := rows.Scan(
			&space.ID,
			&space.ParkingID,
			&space.SpaceNumber,
			&space.IsAvailable,
			&space.CreatedAt,
			&space.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan parking space", err)
		}
		spaces = append(spaces, space)
	}

	return spaces, nil
}

// Delete removes a parking space
func (a *ParkingSpaceAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("parking_spaces").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete parking space", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("parking space with id %s not found", id))
	}

	return nil
}
