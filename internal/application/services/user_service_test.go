package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openlots/parking-reservation/internal/application/services"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/pkg/config"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
}

func TestUserService_Register(t *testing.T) {
	t.Run("registers a new customer with a hashed password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := services.NewUserService(repo, testAuthConfig())

		repo.On("GetByEmail", mock.Anything, "ada@example.com").
			Return(nil, apperrors.NewNotFoundError("user not found"))
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Email == "ada@example.com" &&
				u.Role == entities.RoleCustomer &&
				u.PasswordHash != "hunter2secret" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2secret")) == nil
		})).Return(nil)

		user, err := service.Register(context.Background(), " Ada@Example.com ", "Ada", "Lovelace", "hunter2secret")

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		repo.AssertExpectations(t)
	})

	t.Run("conflicts on a duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := services.NewUserService(repo, testAuthConfig())

		repo.On("GetByEmail", mock.Anything, "ada@example.com").
			Return(&entities.User{ID: "user-1"}, nil)

		_, err := service.Register(context.Background(), "ada@example.com", "Ada", "Lovelace", "hunter2secret")

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects a short password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := services.NewUserService(repo, testAuthConfig())

		_, err := service.Register(context.Background(), "ada@example.com", "Ada", "Lovelace", "short")

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         entities.RoleCustomer,
	}

	t.Run("issues a token carrying sub and role", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := services.NewUserService(repo, testAuthConfig())

		repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)

		token, got, err := service.Login(context.Background(), "ada@example.com", "hunter2secret")

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, "user-1", claims["sub"])
		assert.Equal(t, "customer", claims["role"])
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := services.NewUserService(repo, testAuthConfig())

		repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)

		_, _, err := service.Login(context.Background(), "ada@example.com", "wrong")

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
	})

	t.Run("rejects an unknown email the same way", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := services.NewUserService(repo, testAuthConfig())

		repo.On("GetByEmail", mock.Anything, "nobody@example.com").
			Return(nil, apperrors.NewNotFoundError("user not found"))

		_, _, err := service.Login(context.Background(), "nobody@example.com", "hunter2secret")

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
	})
}
