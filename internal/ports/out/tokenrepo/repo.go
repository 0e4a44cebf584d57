package tokenrepo

import (
	"context"
	"time"

	"github.com/trippio/trippio-api/internal/domain"
)

// LoginToken is a single-use magic-link token. Only the SHA-256 hash of the
// plaintext token is stored.
type LoginToken struct {
	TokenHash string
	Email     string

	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// RefreshToken is the long-lived credential behind the refresh cookie. It is
// rotated on every successful refresh; the superseded token is revoked.
type RefreshToken struct {
	TokenHash string
	UserID    domain.UserID

	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Repository persists auth token records.
type Repository interface {
	CreateLoginToken(ctx context.Context, t LoginToken) error
	GetLoginToken(ctx context.Context, tokenHash string) (LoginToken, error)
	MarkLoginTokenUsed(ctx context.Context, tokenHash string, at time.Time) error

	CreateRefreshToken(ctx context.Context, t RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, error)
	// RevokeRefreshToken stamps RevokedAt. Revoking twice is a no-op.
	RevokeRefreshToken(ctx context.Context, tokenHash string, at time.Time) error
}
