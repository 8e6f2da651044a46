package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"logitrack/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, models.ErrEmailTaken
	}
	f.nextID++
	cp := *u
	cp.ID = fmt.Sprintf("user-%d", f.nextID)
	cp.IsActive = true
	cp.CreatedAt = time.Now()
	f.byEmail[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

const testSecret = "test-secret"

func newTestService(store *fakeUserStore) *Service {
	return NewService(store, []byte(testSecret), time.Hour)
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store)

	user, token, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role, "role defaults to customer")
	assert.NotEmpty(t, token)

	// The stored credential is a bcrypt hash, never the raw password.
	stored := store.byEmail["alice@example.com"]
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))

	// The session token carries the subject and role.
	claims := &models.SessionClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, models.RoleCustomer, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUserStore())
	ctx := context.Background()

	req := models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "correct horse"}
	_, _, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.RegisterRequest{
		Name: "Dave", Email: "dave@example.com", Password: "hunter22", Role: models.RoleDriver,
	})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, models.LoginRequest{Email: "dave@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, user.Role)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, models.LoginRequest{Email: "dave@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// Unknown emails are indistinguishable from bad passwords.
	_, _, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.RegisterRequest{
		Name: "Ivy", Email: "ivy@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	store.byEmail["ivy@example.com"].IsActive = false

	_, _, err = svc.Login(ctx, models.LoginRequest{Email: "ivy@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrAccountInactive)
}
