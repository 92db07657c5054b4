package service

import (
	"context"
	"time"

	"github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Bootstrap(ctx context.Context, email, password string) error
}

type AdminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	UpsertAdmin(ctx context.Context, admin *domain.Admin) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type LoginAttempts interface {
	Locked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

type TokenManager interface {
	Issue(adminID, email string) (string, session.Authenticated, error)
	Parse(ctx context.Context, token string) (session.Authenticated, error)
	Revoke(ctx context.Context, auth session.Authenticated) error
}

var _ AuthServiceInterface = (*AuthService)(nil)
var _ TokenManager = (*session.Manager)(nil)
