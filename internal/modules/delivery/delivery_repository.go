package delivery

import (
	"context"
	"errors"
	"fmt"

	"logitrack/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool used by this repository. It is also
// satisfied by pgxmock in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RepositoryInterface defines the contract for the delivery repository.
type RepositoryInterface interface {
	Create(ctx context.Context, d *models.Delivery) (*models.Delivery, error)
	FindByID(ctx context.Context, id string) (*models.Delivery, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.TrackingInfo, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Delivery, int, error)
	ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]*models.Delivery, int, error)
	ListByDriver(ctx context.Context, driverID string, page, limit int) ([]*models.Delivery, int, error)
	Assign(ctx context.Context, deliveryID, driverID string) (*models.Delivery, error)
	UpdateStatus(ctx context.Context, deliveryID, newStatus string, notes *string) (*models.Delivery, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db PgxPool
}

// NewRepository creates a new delivery repository.
func NewRepository(db PgxPool) RepositoryInterface {
	return &Repository{db: db}
}

const deliveryColumns = `id, tracking_number, customer_id, driver_id,
	pickup_street, pickup_city, pickup_state, pickup_zip, pickup_country,
	delivery_street, delivery_city, delivery_state, delivery_zip, delivery_country,
	package_description, weight_kg, length_cm, width_cm, height_cm, declared_value,
	status, estimated_delivery_date, actual_delivery_date, delivery_notes, created_at, updated_at`

func scanDelivery(row pgx.Row) (*models.Delivery, error) {
	var d models.Delivery
	err := row.Scan(
		&d.ID, &d.TrackingNumber, &d.CustomerID, &d.DriverID,
		&d.PickupAddress.Street, &d.PickupAddress.City, &d.PickupAddress.State, &d.PickupAddress.Zip, &d.PickupAddress.Country,
		&d.DeliveryAddress.Street, &d.DeliveryAddress.City, &d.DeliveryAddress.State, &d.DeliveryAddress.Zip, &d.DeliveryAddress.Country,
		&d.PackageDescription, &d.WeightKg, &d.LengthCm, &d.WidthCm, &d.HeightCm, &d.DeclaredValue,
		&d.Status, &d.EstimatedDeliveryDate, &d.ActualDeliveryDate, &d.DeliveryNotes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan delivery: %w", err)
	}
	return &d, nil
}

// Create inserts a new delivery. The status is forced to Pending and the
// driver reference left null regardless of the input. A unique violation on
// the tracking number surfaces as ErrConflict so the caller can regenerate.
func (r *Repository) Create(ctx context.Context, d *models.Delivery) (*models.Delivery, error) {
	query := `
		INSERT INTO deliveries (
			tracking_number, customer_id,
			pickup_street, pickup_city, pickup_state, pickup_zip, pickup_country,
			delivery_street, delivery_city, delivery_state, delivery_zip, delivery_country,
			package_description, weight_kg, length_cm, width_cm, height_cm, declared_value,
			estimated_delivery_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + deliveryColumns

	row := r.db.QueryRow(ctx, query,
		d.TrackingNumber, d.CustomerID,
		d.PickupAddress.Street, d.PickupAddress.City, d.PickupAddress.State, d.PickupAddress.Zip, d.PickupAddress.Country,
		d.DeliveryAddress.Street, d.DeliveryAddress.City, d.DeliveryAddress.State, d.DeliveryAddress.Zip, d.DeliveryAddress.Country,
		d.PackageDescription, d.WeightKg, d.LengthCm, d.WidthCm, d.HeightCm, d.DeclaredValue,
		d.EstimatedDeliveryDate,
	)
	created, err := scanDelivery(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateDelivery: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single delivery by its internal id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	d, err := scanDelivery(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindDeliveryByID: %w", err)
	}
	return d, nil
}

// FindByTrackingNumber returns the public projection for a tracking number,
// including the customer's name but no other party details.
func (r *Repository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.TrackingInfo, error) {
	query := `
		SELECT d.tracking_number, d.status,
			d.pickup_street, d.pickup_city, d.pickup_state, d.pickup_zip, d.pickup_country,
			d.delivery_street, d.delivery_city, d.delivery_state, d.delivery_zip, d.delivery_country,
			d.package_description, d.weight_kg, u.name,
			d.created_at, d.estimated_delivery_date, d.actual_delivery_date, d.delivery_notes
		FROM deliveries d
		JOIN users u ON u.id = d.customer_id
		WHERE d.tracking_number = $1`

	var info models.TrackingInfo
	err := r.db.QueryRow(ctx, query, trackingNumber).Scan(
		&info.TrackingNumber, &info.Status,
		&info.PickupAddress.Street, &info.PickupAddress.City, &info.PickupAddress.State, &info.PickupAddress.Zip, &info.PickupAddress.Country,
		&info.DeliveryAddress.Street, &info.DeliveryAddress.City, &info.DeliveryAddress.State, &info.DeliveryAddress.Zip, &info.DeliveryAddress.Country,
		&info.PackageDescription, &info.WeightKg, &info.CustomerName,
		&info.CreatedAt, &info.EstimatedDeliveryDate, &info.ActualDeliveryDate, &info.DeliveryNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByTrackingNumber: %w", err)
	}
	return &info, nil
}

func (r *Repository) list(ctx context.Context, where string, args []any, page, limit int) ([]*models.Delivery, int, error) {
	offset := (page - 1) * limit
	query := fmt.Sprintf(`SELECT %s FROM deliveries %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		deliveryColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListDeliveries.Query: %w", err)
	}
	defer rows.Close()

	var deliveries []*models.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListDeliveries.scan: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM deliveries " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListDeliveries.Count: %w", err)
	}
	return deliveries, total, nil
}

// ListAll retrieves every delivery with pagination (admin view).
func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.Delivery, int, error) {
	return r.list(ctx, "", nil, page, limit)
}

// ListByCustomer retrieves deliveries created by the given customer.
func (r *Repository) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]*models.Delivery, int, error) {
	return r.list(ctx, "WHERE customer_id = $1", []any{customerID}, page, limit)
}

// ListByDriver retrieves deliveries assigned to the given driver.
func (r *Repository) ListByDriver(ctx context.Context, driverID string, page, limit int) ([]*models.Delivery, int, error) {
	return r.list(ctx, "WHERE driver_id = $1", []any{driverID}, page, limit)
}

// Assign binds a driver to a pending delivery and advances it to InTransit in
// a single conditional write. No row matches when the delivery is missing or
// no longer pending; the service disambiguates.
func (r *Repository) Assign(ctx context.Context, deliveryID, driverID string) (*models.Delivery, error) {
	query := `
		UPDATE deliveries
		SET driver_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING ` + deliveryColumns

	d, err := scanDelivery(r.db.QueryRow(ctx, query, driverID, models.StatusInTransit, deliveryID, models.StatusPending))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.AssignDriver: %w", err)
	}
	return d, nil
}

// UpdateStatus advances a delivery's status with an atomic conditional write:
// the row is only updated when its stored status ordinal has not moved past
// the requested one, so two racing updates cannot drive the status backwards.
// actual_delivery_date is stamped at most once, on the first transition into
// Delivered. No row matches when the delivery is missing or the transition
// would be backwards; the service disambiguates.
func (r *Repository) UpdateStatus(ctx context.Context, deliveryID, newStatus string, notes *string) (*models.Delivery, error) {
	query := `
		UPDATE deliveries
		SET status = $1,
			delivery_notes = COALESCE($2, delivery_notes),
			actual_delivery_date = CASE
				WHEN $1 = 'Delivered' AND actual_delivery_date IS NULL THEN NOW()
				ELSE actual_delivery_date
			END,
			updated_at = NOW()
		WHERE id = $3
			AND (CASE status WHEN 'Pending' THEN 0 WHEN 'InTransit' THEN 1 ELSE 2 END) <= $4
		RETURNING ` + deliveryColumns

	d, err := scanDelivery(r.db.QueryRow(ctx, query, newStatus, notes, deliveryID, statusOrdinal[newStatus]))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	return d, nil
}
