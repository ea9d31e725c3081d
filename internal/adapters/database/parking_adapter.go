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

var parkingColumns = []any{
	"id", "name", "area", "contact_info", "operating_hours", "created_at", "updated_at",
}

// ParkingAdapter implements the ParkingRepository interface
type ParkingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewParkingAdapter creates a new parking adapter
func NewParkingAdapter(client *postgres.Client) repositories.ParkingRepository {
	return &ParkingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new parking facility
func (a *ParkingAdapter) Create(ctx context.Context, parking *entities.Parking) error {
	record := goqu.Record{
		"id":              parking.ID,
		"name":            parking.Name,
		"area":            parking.Area,
		"contact_info":    parking.ContactInfo,
		"operating_hours": parking.OperatingHours,
		"created_at":      parking.CreatedAt,
		"updated_at":      parking.UpdatedAt,
	}

	query, args, err := a.db.Insert("parkings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create parking", err)
	}

	return nil
}

// GetByID retrieves a parking facility by ID
func (a *ParkingAdapter) GetByID(ctx context.Context, id string) (*entities.Parking, error) {
	query, args, err := a.db.Select(parkingColumns...).
		From("parkings").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	parking := &entities.Parking{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&parking.ID,
		&parking.Name,
		&parking.Area,
		&parking.ContactInfo,
		&parking.OperatingHours,
		&parking.CreatedAt,
		&parking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("parking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get parking", err)
	}

	return parking, nil
}

// List retrieves all parking facilities
func (a *ParkingAdapter) List(ctx context.Context) ([]*entities.Parking, error) {
	return a.list(ctx, nil)
}

// ListByArea retrieves parking facilities within an area
func (a *ParkingAdapter) ListByArea(ctx context.Context, area string) ([]*entities.Parking, error) {
	return a.list(ctx, goqu.Ex{"area": area})
}

func (a *ParkingAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Parking, error) {
	ds := a.db.Select(parkingColumns...).From("parkings")
	if where != nil {
		ds = ds.Where(where)
	}
	ds = ds.Order(goqu.I("name").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list parkings", err)
	}
	defer rows.Close()

	var parkings []*entities.Parking
	for rows.Next() {
		parking := &entities.Parking{}
		err := rows.Scan(
			&parking.ID,
			&parking.Name,
			&parking.Area,
			&parking.ContactInfo,
			&parking.OperatingHours,
			&parking.CreatedAt,
			&parking.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan parking", err)
		}
		parkings = append(parkings, parking)
	}

	return parkings, nil
}

// Delete removes a parking facility
func (a *ParkingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("parkings").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete parking", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("parking with id %s not found", id))
	}

	return nil
}
