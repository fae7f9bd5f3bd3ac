package models

import (
	"strings"
	"time"

	"github.com/yasinhessnawi1/storefront/internal/constants"
)

// User represents an account that can sign in to the storefront API.
// Several users may share an email address.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username" validate:"required,min=3,max=150"`
	Email        string     `json:"email" db:"email" validate:"omitempty,email,max=254"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Salt         string     `json:"-" db:"salt"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NewUser creates an active, non-staff user. Password fields are set by the caller.
func NewUser(username, email string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return constants.TableUsers
}

// HasUsablePassword reports whether the account can authenticate with a password.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != "" && !strings.HasPrefix(u.PasswordHash, constants.UnusablePasswordPrefix)
}

// Sanitize removes sensitive information from the User object when sending to clients.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	sanitized.Salt = ""
	return &sanitized
}

// TokenObtainRequest holds the credentials exchanged for a token pair.
type TokenObtainRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenRefreshRequest carries a refresh token to exchange for a new access token.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPair is returned by a successful credential exchange.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessToken is returned by a successful refresh.
type AccessToken struct {
	Access string `json:"access"`
}
