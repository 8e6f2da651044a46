package users

import (
	"context"
	"database/sql"
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

// RepositoryInterface defines the contract for the user repository.
type RepositoryInterface interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page, limit int) ([]*models.User, int, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db PgxPool
}

// NewRepository creates a new user repository.
func NewRepository(db PgxPool) RepositoryInterface {
	return &Repository{db: db}
}

const userColumns = `id, name, email, password_hash, role, phone, street, city, state, zip, country, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var street, city, state, zip, country sql.NullString
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Phone,
		&street, &city, &state, &zip, &country,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if street.Valid {
		u.Address = &models.Address{
			Street:  street.String,
			City:    city.String,
			State:   state.String,
			Zip:     zip.String,
			Country: country.String,
		}
	}
	return &u, nil
}

func addressFields(a *models.Address) (street, city, state, zip, country *string) {
	if a == nil {
		return nil, nil, nil, nil, nil
	}
	return &a.Street, &a.City, &a.State, &a.Zip, &a.Country
}

// Create inserts a new user and returns the stored record.
func (r *Repository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, phone, street, city, state, zip, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	street, city, state, zip, country := addressFields(u.Address)
	row := r.db.QueryRow(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, street, city, state, zip, country)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrEmailTaken
		}
		return nil, fmt.Errorf("repository.CreateUser: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single user by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindUserByID: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a single user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindUserByEmail: %w", err)
	}
	return u, nil
}

// List retrieves users with pagination, newest first.
func (r *Repository) List(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListUsers.Query: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListUsers.scan: %w", err)
		}
		users = append(users, u)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListUsers.Count: %w", err)
	}
	return users, total, nil
}

// Update persists the mutable profile fields of a user.
func (r *Repository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1, phone = $2, role = $3, street = $4, city = $5, state = $6, zip = $7, country = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + userColumns

	street, city, state, zip, country := addressFields(u.Address)
	updated, err := scanUser(r.db.QueryRow(ctx, query, u.Name, u.Phone, u.Role, street, city, state, zip, country, u.ID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateUser: %w", err)
	}
	return updated, nil
}

// SetActive flips the active flag on a user account.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("repository.SetActive: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
