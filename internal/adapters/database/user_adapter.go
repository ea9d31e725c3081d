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

var userColumns = []any{
	"id", "email", "first_name", "last_name", "password_hash", "role", "created_at",
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user account
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":            user.ID,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
		"created_at":    user.CreatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id},
		fmt.Sprintf("user with id %s not found", id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"email": email},
		fmt.Sprintf("user with email %s not found", email))
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(where).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// List retrieves all user accounts
func (a *UserAdapter) List(ctx context.Context) ([]*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Order(goqu.I("created_at").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user := &entities.User{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// Delete removes a user account
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("users").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}

	return nil
}
