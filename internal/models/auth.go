package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Username  string `json:"username" validate:"required,max=64"`
	Password  string `json:"password" validate:"required,max=256"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the session token and the logged-in admin.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      AdminUser `json:"user"`
}

// SetupRequest creates the first admin account.
type SetupRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=64"`
	Password  string  `json:"password" validate:"required,min=8,max=256"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// SetupResult reports what bootstrap created.
type SetupResult struct {
	User            AdminUser `json:"user"`
	RanksSeeded     int       `json:"ranksSeeded"`
	PositionsSeeded int       `json:"specialPositionsSeeded"`
}

// Session is the server-side record behind a session token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// SessionClaims is the signed token payload. The session id is the only authority; the
// user id is informational.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	jwt.RegisteredClaims
}
