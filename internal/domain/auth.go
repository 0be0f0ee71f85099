package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated means the request carried no credential at all.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrTokenInvalid covers bad signatures, malformed tokens and expiry.
	ErrTokenInvalid = errors.New("token is invalid or expired")
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what a verified token proves about the caller.
type Identity struct {
	UserID string
	Email  string
}
