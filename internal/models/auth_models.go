package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT payload carried in the session cookie.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthResponse is returned by register and login alongside the session cookie.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
