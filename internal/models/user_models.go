package models

import "time"

// Role constants for the fixed per-account roles.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleDriver   = "driver"
)

// User represents an account in the system. The password hash never leaves
// the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest is the payload for account creation. Admin accounts are
// provisioned out of band, so only customer and driver are accepted here.
type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Role     string          `json:"role,omitempty" validate:"omitempty,oneof=customer driver"`
	Phone    string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  *AddressRequest `json:"address,omitempty"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest represents a partial profile update. Role changes are
// stripped unless the caller is an admin.
type UpdateUserRequest struct {
	Name    *string         `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone   *string         `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address *AddressRequest `json:"address,omitempty"`
	Role    *string         `json:"role,omitempty" validate:"omitempty,oneof=admin customer driver"`
}
