package domain

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
)

type Admin struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize lower-cases the email so lookups are case insensitive.
func (c *Credentials) Normalize() {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

func (c Credentials) Validate() error {
	v := &apperr.ValidationError{}
	if c.Email == "" {
		v.Add("email", "is required")
	} else if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != c.Email {
		v.Add("email", "is not a valid address")
	}
	if c.Password == "" {
		v.Add("password", "is required")
	} else if len(c.Password) > 72 {
		v.Add("password", "must be at most 72 bytes")
	}
	return v.OrNil()
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     Admin     `json:"admin"`
}

var ErrAdminNotFound = fmt.Errorf("admin %w", apperr.ErrNotFound)

type authError struct {
	msg    string
	status int
}

func (e *authError) Error() string   { return e.msg }
func (e *authError) HTTPStatus() int { return e.status }

var (
	// ErrInvalidCredentials does not say whether the email or the password
	// was wrong.
	ErrInvalidCredentials error = &authError{msg: "invalid email or password", status: http.StatusUnauthorized}
	ErrTooManyAttempts    error = &authError{msg: "too many failed login attempts, try again later", status: http.StatusTooManyRequests}
	ErrNotAuthenticated   error = &authError{msg: "authentication required", status: http.StatusUnauthorized}
)
