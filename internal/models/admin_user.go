package models

import "time"

// AdminUser is an administrator allowed to manage personnel.
type AdminUser struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    *string    `db:"first_name" json:"firstName,omitempty"`
	LastName     *string    `db:"last_name" json:"lastName,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Actor identifies the authenticated admin behind a request.
type Actor struct {
	UserID    int64
	Username  string
	SessionID string
}
