package delivery

import (
	"context"
	"errors"
	"fmt"

	"logitrack/internal/models"

	"go.uber.org/zap"
)

// UserStore is the slice of the user repository the delivery module needs to
// validate drivers and look up customers for notifications.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// TrackingCache caches public tracking projections. A nil-returning Get is a
// miss. Implementations must be safe for concurrent use.
type TrackingCache interface {
	GetTracking(ctx context.Context, trackingNumber string) (*models.TrackingInfo, error)
	SetTracking(ctx context.Context, info *models.TrackingInfo) error
	InvalidateTracking(ctx context.Context, trackingNumber string) error
}

// Notifier sends a notice to the customer once their package is delivered.
type Notifier interface {
	DeliveredNotice(ctx context.Context, toEmail, customerName, trackingNumber string) error
}

// ServiceInterface defines the contract for the delivery service.
type ServiceInterface interface {
	CreateDelivery(ctx context.Context, customerID string, req models.CreateDeliveryRequest) (*models.Delivery, error)
	ListDeliveries(ctx context.Context, callerID, callerRole string, page, limit int) ([]*models.Delivery, int, error)
	GetDelivery(ctx context.Context, deliveryID, callerID, callerRole string) (*models.Delivery, error)
	AssignDriver(ctx context.Context, deliveryID, driverID string) (*models.Delivery, error)
	UpdateStatus(ctx context.Context, deliveryID, callerID, callerRole string, req models.UpdateStatusRequest) (*models.Delivery, error)
	Track(ctx context.Context, trackingNumber string) (*models.TrackingInfo, error)
}

// Service implements the delivery lifecycle logic. Cache and notifier are
// optional; the lifecycle works without them.
type Service struct {
	repo     RepositoryInterface
	users    UserStore
	cache    TrackingCache
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new delivery service.
func NewService(repo RepositoryInterface, users UserStore, cache TrackingCache, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, users: users, cache: cache, notifier: notifier, logger: logger}
}

// CreateDelivery records a new shipment request for the calling customer.
// Status starts at Pending with no driver; the tracking number is generated
// server-side and regenerated once if it collides.
func (s *Service) CreateDelivery(ctx context.Context, customerID string, req models.CreateDeliveryRequest) (*models.Delivery, error) {
	d := &models.Delivery{
		TrackingNumber:        newTrackingNumber(),
		CustomerID:            customerID,
		PickupAddress:         req.PickupAddress.ToAddress(),
		DeliveryAddress:       req.DeliveryAddress.ToAddress(),
		PackageDescription:    req.PackageDescription,
		WeightKg:              req.WeightKg,
		LengthCm:              req.LengthCm,
		WidthCm:               req.WidthCm,
		HeightCm:              req.HeightCm,
		DeclaredValue:         req.DeclaredValue,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
	}

	created, err := s.repo.Create(ctx, d)
	if errors.Is(err, models.ErrConflict) {
		d.TrackingNumber = newTrackingNumber()
		created, err = s.repo.Create(ctx, d)
	}
	if err != nil {
		return nil, fmt.Errorf("service.CreateDelivery: %w", err)
	}
	return created, nil
}

// ListDeliveries returns the role-filtered list: admins see everything,
// customers their own requests, drivers their assignments.
func (s *Service) ListDeliveries(ctx context.Context, callerID, callerRole string, page, limit int) ([]*models.Delivery, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	switch callerRole {
	case models.RoleAdmin:
		return s.repo.ListAll(ctx, page, limit)
	case models.RoleCustomer:
		return s.repo.ListByCustomer(ctx, callerID, page, limit)
	case models.RoleDriver:
		return s.repo.ListByDriver(ctx, callerID, page, limit)
	default:
		return nil, 0, models.ErrForbidden
	}
}

// GetDelivery returns one delivery after an ownership check. Non-owners get
// ErrNotFound rather than ErrForbidden so record existence is never confirmed
// across tenants.
func (s *Service) GetDelivery(ctx context.Context, deliveryID, callerID, callerRole string) (*models.Delivery, error) {
	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("service.GetDelivery: %w", err)
	}
	if !canView(d, callerID, callerRole) {
		return nil, models.ErrNotFound
	}
	return d, nil
}

func canView(d *models.Delivery, callerID, callerRole string) bool {
	switch callerRole {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return d.CustomerID == callerID
	case models.RoleDriver:
		return d.DriverID != nil && *d.DriverID == callerID
	}
	return false
}

// AssignDriver binds an active driver to a pending delivery and advances it
// to InTransit. Preconditions are checked in order: the driver must exist,
// hold the driver role, and be active; the delivery must exist and still be
// Pending.
func (s *Service) AssignDriver(ctx context.Context, deliveryID, driverID string) (*models.Delivery, error) {
	driver, err := s.users.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidDriver
		}
		return nil, fmt.Errorf("service.AssignDriver: %w", err)
	}
	if driver.Role != models.RoleDriver || !driver.IsActive {
		return nil, models.ErrInvalidDriver
	}

	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignDriver: %w", err)
	}
	if d.Status != models.StatusPending {
		return nil, models.ErrDeliveryNotAssignable
	}

	assigned, err := s.repo.Assign(ctx, deliveryID, driverID)
	if err != nil {
		// The conditional write lost a race with another assignment.
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrDeliveryNotAssignable
		}
		return nil, fmt.Errorf("service.AssignDriver: %w", err)
	}

	s.invalidateTracking(ctx, assigned.TrackingNumber)
	return assigned, nil
}

// UpdateStatus advances a delivery's status. Admins may update any delivery,
// drivers only the one currently assigned to them, customers never. The
// transition must not move backwards; the write itself re-checks the guard
// atomically at the storage layer.
func (s *Service) UpdateStatus(ctx context.Context, deliveryID, callerID, callerRole string, req models.UpdateStatusRequest) (*models.Delivery, error) {
	d, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateStatus: %w", err)
	}

	switch callerRole {
	case models.RoleAdmin:
	case models.RoleDriver:
		if d.DriverID == nil || *d.DriverID != callerID {
			return nil, models.ErrForbidden
		}
	default:
		return nil, models.ErrForbidden
	}

	if err := CheckTransition(d.Status, req.Status); err != nil {
		return nil, err
	}

	var notes *string
	if req.DeliveryNotes != "" {
		notes = &req.DeliveryNotes
	}
	updated, err := s.repo.UpdateStatus(ctx, deliveryID, req.Status, notes)
	if err != nil {
		// The conditional write lost a race with a further-advanced update.
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrBackwardTransition
		}
		return nil, fmt.Errorf("service.UpdateStatus: %w", err)
	}

	s.invalidateTracking(ctx, updated.TrackingNumber)

	if d.Status != models.StatusDelivered && updated.Status == models.StatusDelivered {
		s.notifyDelivered(ctx, updated)
	}
	return updated, nil
}

// Track returns the public tracking projection, read through the cache when
// one is configured. Cache failures degrade to a direct lookup.
func (s *Service) Track(ctx context.Context, trackingNumber string) (*models.TrackingInfo, error) {
	if s.cache != nil {
		info, err := s.cache.GetTracking(ctx, trackingNumber)
		if err != nil {
			s.logger.Warn("tracking cache read failed", zap.Error(err))
		} else if info != nil {
			return info, nil
		}
	}

	info, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("service.Track: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetTracking(ctx, info); err != nil {
			s.logger.Warn("tracking cache write failed", zap.Error(err))
		}
	}
	return info, nil
}

func (s *Service) invalidateTracking(ctx context.Context, trackingNumber string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTracking(ctx, trackingNumber); err != nil {
		s.logger.Warn("tracking cache invalidation failed",
			zap.String("trackingNumber", trackingNumber), zap.Error(err))
	}
}

// notifyDelivered emails the customer about the completed delivery. Failures
// are logged and never surfaced; the status change has already been made.
func (s *Service) notifyDelivered(ctx context.Context, d *models.Delivery) {
	if s.notifier == nil {
		return
	}
	customer, err := s.users.FindByID(ctx, d.CustomerID)
	if err != nil {
		s.logger.Warn("delivered notice: customer lookup failed",
			zap.String("deliveryID", d.ID), zap.Error(err))
		return
	}
	if err := s.notifier.DeliveredNotice(ctx, customer.Email, customer.Name, d.TrackingNumber); err != nil {
		s.logger.Warn("delivered notice failed",
			zap.String("trackingNumber", d.TrackingNumber), zap.Error(err))
	}
}
