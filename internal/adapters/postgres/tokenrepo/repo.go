package tokenrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/tokenrepo"
)

// Repo is a Postgres implementation of tokenrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) CreateLoginToken(ctx context.Context, t tokenrepo.LoginToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_tokens (token_hash, email, created_at, expires_at, used_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.TokenHash, t.Email, t.CreatedAt.UTC(), t.ExpiresAt.UTC(), utcPtr(t.UsedAt))
	return err
}

func (r *Repo) GetLoginToken(ctx context.Context, tokenHash string) (tokenrepo.LoginToken, error) {
	var (
		t      tokenrepo.LoginToken
		usedAt *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT token_hash, email, created_at, expires_at, used_at
		FROM login_tokens
		WHERE token_hash = $1
	`, tokenHash).Scan(&t.TokenHash, &t.Email, &t.CreatedAt, &t.ExpiresAt, &usedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tokenrepo.LoginToken{}, tokenrepo.ErrNotFound
		}
		return tokenrepo.LoginToken{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.UsedAt = utcPtr(usedAt)
	return t, nil
}

func (r *Repo) MarkLoginTokenUsed(ctx context.Context, tokenHash string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE login_tokens
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL
	`, tokenHash, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either unknown or already used; distinguish for the caller.
		var exists bool
		if err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM login_tokens WHERE token_hash = $1)
		`, tokenHash).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return tokenrepo.ErrNotFound
		}
	}
	return nil
}

func (r *Repo) CreateRefreshToken(ctx context.Context, t tokenrepo.RefreshToken) error {
	userUUID, err := uuid.Parse(string(t.UserID))
	if err != nil {
		return errors.New("invalid user id")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (token_hash, user_id, created_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.TokenHash, userUUID, t.CreatedAt.UTC(), t.ExpiresAt.UTC(), utcPtr(t.RevokedAt))
	return err
}

func (r *Repo) GetRefreshToken(ctx context.Context, tokenHash string) (tokenrepo.RefreshToken, error) {
	var (
		t         tokenrepo.RefreshToken
		userUUID  uuid.UUID
		revokedAt *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT token_hash, user_id, created_at, expires_at, revoked_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`, tokenHash).Scan(&t.TokenHash, &userUUID, &t.CreatedAt, &t.ExpiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tokenrepo.RefreshToken{}, tokenrepo.ErrNotFound
		}
		return tokenrepo.RefreshToken{}, err
	}
	t.UserID = domain.UserID(userUUID.String())
	t.CreatedAt = t.CreatedAt.UTC()
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.RevokedAt = utcPtr(revokedAt)
	return t, nil
}

func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, tokenHash, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token_hash = $1)
		`, tokenHash).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return tokenrepo.ErrNotFound
		}
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
