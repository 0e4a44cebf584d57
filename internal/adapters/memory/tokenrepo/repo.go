package tokenrepo

import (
	"context"
	"sync"
	"time"

	"github.com/trippio/trippio-api/internal/ports/out/tokenrepo"
)

// Repo is an in-memory implementation of tokenrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	loginByHash   map[string]tokenrepo.LoginToken
	refreshByHash map[string]tokenrepo.RefreshToken
}

func NewRepo() *Repo {
	return &Repo{
		loginByHash:   make(map[string]tokenrepo.LoginToken),
		refreshByHash: make(map[string]tokenrepo.RefreshToken),
	}
}

func (r *Repo) CreateLoginToken(ctx context.Context, t tokenrepo.LoginToken) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginByHash[t.TokenHash] = cloneLogin(t)
	return nil
}

func (r *Repo) GetLoginToken(ctx context.Context, tokenHash string) (tokenrepo.LoginToken, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.loginByHash[tokenHash]
	if !ok {
		return tokenrepo.LoginToken{}, tokenrepo.ErrNotFound
	}
	return cloneLogin(t), nil
}

func (r *Repo) MarkLoginTokenUsed(ctx context.Context, tokenHash string, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.loginByHash[tokenHash]
	if !ok {
		return tokenrepo.ErrNotFound
	}
	if t.UsedAt == nil {
		used := at
		t.UsedAt = &used
		r.loginByHash[tokenHash] = t
	}
	return nil
}

func (r *Repo) CreateRefreshToken(ctx context.Context, t tokenrepo.RefreshToken) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshByHash[t.TokenHash] = cloneRefresh(t)
	return nil
}

func (r *Repo) GetRefreshToken(ctx context.Context, tokenHash string) (tokenrepo.RefreshToken, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.refreshByHash[tokenHash]
	if !ok {
		return tokenrepo.RefreshToken{}, tokenrepo.ErrNotFound
	}
	return cloneRefresh(t), nil
}

func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.refreshByHash[tokenHash]
	if !ok {
		return tokenrepo.ErrNotFound
	}
	if t.RevokedAt == nil {
		revoked := at
		t.RevokedAt = &revoked
		r.refreshByHash[tokenHash] = t
	}
	return nil
}

func cloneLogin(t tokenrepo.LoginToken) tokenrepo.LoginToken {
	out := t
	if t.UsedAt != nil {
		v := *t.UsedAt
		out.UsedAt = &v
	}
	return out
}

func cloneRefresh(t tokenrepo.RefreshToken) tokenrepo.RefreshToken {
	out := t
	if t.RevokedAt != nil {
		v := *t.RevokedAt
		out.RevokedAt = &v
	}
	return out
}
