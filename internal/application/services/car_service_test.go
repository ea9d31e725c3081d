package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlots/parking-reservation/internal/application/services"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) Create(ctx context.Context, car *entities.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) GetByID(ctx context.Context, id string) (*entities.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Car), args.Error(1)
}

func (m *MockCarRepository) GetByPlate(ctx context.Context, plate string) (*entities.Car, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Car), args.Error(1)
}

func (m *MockCarRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Car, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Car), args.Error(1)
}

func (m *MockCarRepository) Update(ctx context.Context, car *entities.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCarRepository) HardDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCarService_Create(t *testing.T) {
	t.Run("registers a car for the acting user", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		repo.On("GetByPlate", mock.Anything, "AB-123-CD").
			Return(nil, apperrors.NewNotFoundError("car not found"))
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Car) bool {
			return c.ID != "" && c.LicencePlate == "AB-123-CD"
		})).Return(nil)

		car := &entities.Car{UserID: "user-1", LicencePlate: "AB-123-CD"}
		err := service.Create(context.Background(), "user-1", car)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects assignment to another user", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		car := &entities.Car{UserID: "user-2", LicencePlate: "AB-123-CD"}
		err := service.Create(context.Background(), "user-1", car)

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("conflicts on a duplicate plate even when soft-deleted", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		repo.On("GetByPlate", mock.Anything, "AB-123-CD").
			Return(&entities.Car{ID: "car-9", IsDeleted: true}, nil)

		car := &entities.Car{UserID: "user-1", LicencePlate: "AB-123-CD"}
		err := service.Create(context.Background(), "user-1", car)

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	})
}

func TestCarService_GetByID(t *testing.T) {
	t.Run("hides another user's car as not found", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		repo.On("GetByID", mock.Anything, "car-1").
			Return(&entities.Car{ID: "car-1", UserID: "user-2"}, nil)

		car, err := service.GetByID(context.Background(), "user-1", "car-1")

		require.Error(t, err)
		assert.Nil(t, car)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCarService_Update(t *testing.T) {
	t.Run("conflicts when the new plate is taken", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		repo.On("GetByID", mock.Anything, "car-1").
			Return(&entities.Car{ID: "car-1", UserID: "user-1", LicencePlate: "OLD-1"}, nil)
		repo.On("GetByPlate", mock.Anything, "NEW-1").
			Return(&entities.Car{ID: "car-2"}, nil)

		err := service.Update(context.Background(), "user-1", &entities.Car{ID: "car-1", LicencePlate: "NEW-1"})

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("keeping the same plate skips the uniqueness check", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		existing := &entities.Car{ID: "car-1", UserID: "user-1", LicencePlate: "OLD-1"}
		repo.On("GetByID", mock.Anything, "car-1").Return(existing, nil)
		repo.On("Update", mock.Anything, existing).Return(nil)

		err := service.Update(context.Background(), "user-1", &entities.Car{ID: "car-1", LicencePlate: "OLD-1"})

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByPlate")
	})
}

func TestCarService_DeletePermanent(t *testing.T) {
	repo := new(MockCarRepository)
	audit := new(MockAuditLogRepository)
	service := services.NewCarService(repo, audit)

	repo.On("GetByID", mock.Anything, "car-1").
		Return(&entities.Car{ID: "car-1", UserID: "user-1"}, nil)
	repo.On("HardDelete", mock.Anything, "car-1").Return(nil)
	audit.On("Append", mock.Anything, mock.MatchedBy(func(e *entities.AuditLog) bool {
		return e.Action == entities.AuditActionCarDelete &&
			e.Entity == "Car" &&
			e.UserID == "admin-1"
	})).Return(nil)

	err := service.DeletePermanent(context.Background(), "admin-1", "car-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestCarService_CountByUser(t *testing.T) {
	repo := new(MockCarRepository)
	audit := new(MockAuditLogRepository)
	service := services.NewCarService(repo, audit)

	repo.On("ListByUser", mock.Anything, "user-1").
		Return([]*entities.Car{{ID: "car-1"}, {ID: "car-2"}}, nil)

	count, err := service.CountByUser(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	repo.AssertExpectations(t)
}

func TestCarService_DeleteAllByUser(t *testing.T) {
	t.Run("soft-deletes every registered car", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		repo.On("ListByUser", mock.Anything, "user-1").
			Return([]*entities.Car{{ID: "car-1"}, {ID: "car-2"}}, nil)
		repo.On("SoftDelete", mock.Anything, "car-1").Return(nil)
		repo.On("SoftDelete", mock.Anything, "car-2").Return(nil)

		err := service.DeleteAllByUser(context.Background(), "user-1")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("stops on the first failed delete", func(t *testing.T) {
		repo := new(MockCarRepository)
		audit := new(MockAuditLogRepository)
		service := services.NewCarService(repo, audit)

		repo.On("ListByUser", mock.Anything, "user-1").
			Return([]*entities.Car{{ID: "car-1"}, {ID: "car-2"}}, nil)
		repo.On("SoftDelete", mock.Anything, "car-1").
			Return(apperrors.NewInternalError("database error", nil))

		err := service.DeleteAllByUser(context.Background(), "user-1")

		assert.Error(t, err)
		repo.AssertNotCalled(t, "SoftDelete", mock.Anything, "car-2")
	})
}
