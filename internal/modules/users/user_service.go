package users

import (
	"context"
	"fmt"

	"logitrack/internal/models"
)

// ServiceInterface defines the contract for the user service.
type ServiceInterface interface {
	GetProfile(ctx context.Context, targetID, callerID, callerRole string) (*models.User, error)
	UpdateProfile(ctx context.Context, targetID, callerID, callerRole string, req models.UpdateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error)
	Deactivate(ctx context.Context, targetID string) error
	Activate(ctx context.Context, targetID string) error
}

// Service implements the user profile logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new user service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// GetProfile returns a user's profile. Admins may read anyone; everyone else
// only themselves.
func (s *Service) GetProfile(ctx context.Context, targetID, callerID, callerRole string) (*models.User, error) {
	if callerRole != models.RoleAdmin && targetID != callerID {
		return nil, models.ErrForbidden
	}
	u, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("service.GetProfile: %w", err)
	}
	return u, nil
}

// UpdateProfile applies a partial profile update. The role field is only
// honored when the caller is an admin.
func (s *Service) UpdateProfile(ctx context.Context, targetID, callerID, callerRole string, req models.UpdateUserRequest) (*models.User, error) {
	if callerRole != models.RoleAdmin && targetID != callerID {
		return nil, models.ErrForbidden
	}

	u, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateProfile: %w", err)
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Address != nil {
		addr := req.Address.ToAddress()
		u.Address = &addr
	}
	if req.Role != nil {
		if callerRole != models.RoleAdmin {
			return nil, models.ErrForbidden
		}
		u.Role = *req.Role
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateProfile: %w", err)
	}
	return updated, nil
}

// ListUsers lists all accounts (admin only, enforced at the route).
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, page, limit)
}

// Deactivate marks an account inactive. Deliveries referencing the user are
// untouched; inactive drivers simply stop being assignable.
func (s *Service) Deactivate(ctx context.Context, targetID string) error {
	return s.repo.SetActive(ctx, targetID, false)
}

// Activate re-enables a deactivated account.
func (s *Service) Activate(ctx context.Context, targetID string) error {
	return s.repo.SetActive(ctx, targetID, true)
}
