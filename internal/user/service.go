package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/roomiesplit/roomiesplit/internal/auth"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles account registration and login
type Service struct {
	store Store
	jwt   *auth.JWTManager
}

// NewService creates a new user service
func NewService(store Store, jwt *auth.JWTManager) *Service {
	return &Service{store: store, jwt: jwt}
}

// Register creates a new account with a hashed password and returns the
// user together with a bearer token.
func (s *Service) Register(ctx context.Context, req *SignupRequest) (*User, string, error) {
	existing, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(u.ID.Hex(), u.Email)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Login verifies the credentials and returns the user together with a
// bearer token. Unknown emails surface as ErrUserNotFound; a wrong
// password as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	u, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(u.ID.Hex(), u.Email)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}
