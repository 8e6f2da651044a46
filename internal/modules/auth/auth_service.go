package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logitrack/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user repository the auth module needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ServiceInterface defines the contract for the auth service.
type ServiceInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// Service implements registration, login, and session issuance.
type Service struct {
	users      UserStore
	signKey    []byte
	sessionTTL time.Duration
}

// NewService creates a new auth service.
func NewService(users UserStore, signKey []byte, sessionTTL time.Duration) *Service {
	return &Service{users: users, signKey: signKey, sessionTTL: sessionTTL}
}

// Register creates an account and returns it with a signed session token.
// Admin accounts cannot be self-registered; the request validator only
// admits customer and driver roles.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("service.Register: hash: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	u := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        req.Phone,
	}
	if req.Address != nil {
		addr := req.Address.ToAddress()
		u.Address = &addr
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			return nil, "", models.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("service.Register: %w", err)
	}

	token, err := s.issueToken(created)
	if err != nil {
		return nil, "", fmt.Errorf("service.Register: token: %w", err)
	}
	return created, token, nil
}

// Login verifies credentials and returns the user with a fresh session token.
// Lookup failures and password mismatches are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", models.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", models.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", models.ErrAccountInactive
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", fmt.Errorf("service.Login: token: %w", err)
	}
	return u, token, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.Me: %w", err)
	}
	return u, nil
}

// issueToken signs an HS256 session token carrying the user's id and role.
func (s *Service) issueToken(u *models.User) (string, error) {
	now := time.Now()
	claims := models.SessionClaims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
}
