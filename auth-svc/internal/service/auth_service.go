package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

// unknownEmailHash is compared against when no admin matches, so a miss
// costs the same bcrypt work as a wrong password.
var unknownEmailHash, _ = bcrypt.GenerateFromPassword([]byte("no such admin"), bcrypt.DefaultCost)

type AuthService struct {
	admins   AdminRepository
	attempts LoginAttempts
	tokens   TokenManager
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(admins AdminRepository, attempts LoginAttempts, tokens TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		admins:   admins,
		attempts: attempts,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	creds.Normalize()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if s.attempts != nil {
		locked, err := s.attempts.Locked(ctx, creds.Email)
		if err != nil {
			return nil, apperr.External("redis", "check login attempts", err)
		}
		if locked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	admin, err := s.admins.GetAdminByEmail(ctx, creds.Email)
	if err != nil && !errors.Is(err, domain.ErrAdminNotFound) {
		return nil, apperr.External("postgres", "get admin", err)
	}

	hash := unknownEmailHash
	if admin != nil {
		hash = []byte(admin.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil || admin == nil {
		s.recordFailure(ctx, creds.Email)
		return nil, domain.ErrInvalidCredentials
	}

	token, auth, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, creds.Email); err != nil {
			s.logger.Warn().Err(err).Str("email", creds.Email).Msg("failed login counter not reset")
		}
	}
	loginAt := s.now().UTC()
	if err := s.admins.TouchLastLogin(ctx, admin.ID, loginAt); err != nil {
		s.logger.Warn().Err(err).Str("admin_id", admin.ID).Msg("last login not recorded")
	} else {
		admin.LastLogin = &loginAt
	}

	s.logger.Info().Str("admin_id", admin.ID).Msg("admin logged in")
	return &domain.LoginResult{Token: token, ExpiresAt: auth.ExpiresAt, Admin: *admin}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	s.logger.Warn().Str("email", email).Msg("failed login")
	if s.attempts == nil {
		return
	}
	if err := s.attempts.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("failed login not counted")
	}
}

// Logout revokes token until it expires. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrNotAuthenticated
	}
	auth, err := s.tokens.Parse(ctx, token)
	if errors.Is(err, session.ErrRevokedToken) {
		return nil
	}
	if errors.Is(err, session.ErrInvalidToken) {
		return domain.ErrNotAuthenticated
	}
	if err != nil {
		return apperr.External("redis", "check revocation", err)
	}

	if err := s.tokens.Revoke(ctx, auth); err != nil {
		return apperr.External("redis", "revoke token", err)
	}
	s.logger.Info().Str("admin_id", auth.AdminID).Msg("admin logged out")
	return nil
}

// Bootstrap makes sure the configured administrator exists with the given
// password.
func (s *AuthService) Bootstrap(ctx context.Context, email, password string) error {
	creds := domain.Credentials{Email: email, Password: password}
	creds.Normalize()
	if err := creds.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &domain.Admin{Email: creds.Email, PasswordHash: string(hash)}
	if err := s.admins.UpsertAdmin(ctx, admin); err != nil {
		return apperr.External("postgres", "upsert admin", err)
	}
	s.logger.Info().Str("admin_id", admin.ID).Str("email", admin.Email).Msg("admin account ready")
	return nil
}
