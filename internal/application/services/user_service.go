package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/pkg/config"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

const minPasswordLength = 8

// UserService handles account registration and login
type UserService struct {
	repo      repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository, cfg *config.AuthConfig) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
	}
}

// Register creates a new customer account with a bcrypt-hashed
// password. Registering an email twice is a conflict.
func (s *UserService) Register(ctx context.Context, email, firstName, lastName, password string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("email is already registered")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
		Role:         entities.RoleCustomer,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks credentials and issues a signed token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

func (s *UserService) issueToken(user *entities.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

// GetByID retrieves a user account by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user account by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// GetAll retrieves all user accounts
func (s *UserService) GetAll(ctx context.Context) ([]*entities.User, error) {
	return s.repo.List(ctx)
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
