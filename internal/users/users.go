package users

import "errors"

// User is a dashboard account. The password hash never leaves the package
// boundary in API responses.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

var (
	// ErrNotFound means no user matched the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrBadCredentials means the password did not match.
	ErrBadCredentials = errors.New("invalid credentials")
)
