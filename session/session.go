// Package session models who is making a request. Shoppers are always
// anonymous; the single administrative actor authenticates with a signed
// token issued by auth-svc.
package session

import (
	"context"
	"time"
)

// Session is either Anonymous or Authenticated.
type Session interface {
	isSession()
}

type Anonymous struct{}

type Authenticated struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (Anonymous) isSession()     {}
func (Authenticated) isSession() {}

// Admin reports whether s is an authenticated administrator.
func Admin(s Session) (Authenticated, bool) {
	a, ok := s.(Authenticated)
	return a, ok
}

type contextKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext never returns nil: a request without a session is anonymous.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(contextKey{}).(Session); ok && s != nil {
		return s
	}
	return Anonymous{}
}

// Actor is the label written into audit fields such as status history.
func Actor(s Session) string {
	if a, ok := Admin(s); ok {
		if a.Email != "" {
			return a.Email
		}
		return a.AdminID
	}
	return "anonymous"
}
