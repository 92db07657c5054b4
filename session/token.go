package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Revocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Manager struct {
	secret      []byte
	ttl         time.Duration
	revocations Revocations
	now         func() time.Time
}

// NewManager returns a token manager. revocations may be nil, in which case
// logout only discards the token client side.
func NewManager(secret string, ttl time.Duration, revocations Revocations) *Manager {
	return &Manager{
		secret:      []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		now:         time.Now,
	}
}

func (m *Manager) Issue(adminID, email string) (string, Authenticated, error) {
	issuedAt := m.now()
	auth := Authenticated{
		AdminID:   adminID,
		Email:     email,
		TokenID:   uuid.NewString(),
		ExpiresAt: issuedAt.Add(m.ttl).Truncate(time.Second),
	}

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        auth.TokenID,
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(auth.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Authenticated{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, auth, nil
}

func (m *Manager) Parse(ctx context.Context, tokenString string) (Authenticated, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return Authenticated{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return Authenticated{}, ErrInvalidToken
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Authenticated{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return Authenticated{}, ErrRevokedToken
		}
	}

	return Authenticated{
		AdminID:   claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *Manager) Revoke(ctx context.Context, auth Authenticated) error {
	if m.revocations == nil {
		return nil
	}
	return m.revocations.Revoke(ctx, auth.TokenID, auth.ExpiresAt)
}
