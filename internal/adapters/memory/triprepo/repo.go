package triprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/triprepo"
)

type collabKey struct {
	trip domain.TripID
	user domain.UserID
}

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	trips      map[domain.TripID]domain.Trip
	collabs    map[collabKey]domain.Collaborator
	links      map[domain.ShareLinkID]domain.ShareLink
	linkByHash map[string]domain.ShareLinkID
}

func NewRepo() *Repo {
	return &Repo{
		trips:      make(map[domain.TripID]domain.Trip),
		collabs:    make(map[collabKey]domain.Collaborator),
		links:      make(map[domain.ShareLinkID]domain.ShareLink),
		linkByHash: make(map[string]domain.ShareLinkID),
	}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.trips[t.ID] = t
	return nil
}

func (r *Repo) Save(ctx context.Context, t domain.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[t.ID]; !ok {
		return triprepo.ErrNotFound
	}
	r.trips[t.ID] = t
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	return t, nil
}

func (r *Repo) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Trip, 0)
	for k := range r.collabs {
		if k.user != userID {
			continue
		}
		if t, ok := r.trips[k.trip]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) AddCollaborator(ctx context.Context, c domain.Collaborator) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[c.TripID]; !ok {
		return triprepo.ErrNotFound
	}
	k := collabKey{trip: c.TripID, user: c.UserID}
	if _, ok := r.collabs[k]; ok {
		return triprepo.ErrCollaboratorExists
	}
	r.collabs[k] = c
	return nil
}

func (r *Repo) GetCollaborator(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Collaborator, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collabs[collabKey{trip: tripID, user: userID}]
	if !ok {
		return domain.Collaborator{}, triprepo.ErrCollaboratorNotFound
	}
	return c, nil
}

func (r *Repo) ListCollaborators(ctx context.Context, tripID domain.TripID) ([]domain.Collaborator, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Collaborator, 0)
	for k, c := range r.collabs {
		if k.trip == tripID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *Repo) UpdateCollaboratorRole(ctx context.Context, tripID domain.TripID, userID domain.UserID, role domain.Role) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	k := collabKey{trip: tripID, user: userID}
	c, ok := r.collabs[k]
	if !ok {
		return triprepo.ErrCollaboratorNotFound
	}
	c.Role = role
	r.collabs[k] = c
	return nil
}

func (r *Repo) RemoveCollaborator(ctx context.Context, tripID domain.TripID, userID domain.UserID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	k := collabKey{trip: tripID, user: userID}
	if _, ok := r.collabs[k]; !ok {
		return triprepo.ErrCollaboratorNotFound
	}
	delete(r.collabs, k)
	return nil
}

func (r *Repo) CreateShareLink(ctx context.Context, l domain.ShareLink) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[l.TripID]; !ok {
		return triprepo.ErrNotFound
	}
	r.links[l.ID] = cloneLink(l)
	r.linkByHash[l.TokenHash] = l.ID
	return nil
}

func (r *Repo) GetShareLink(ctx context.Context, tripID domain.TripID, id domain.ShareLinkID) (domain.ShareLink, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.links[id]
	if !ok || l.TripID != tripID {
		return domain.ShareLink{}, triprepo.ErrShareLinkNotFound
	}
	return cloneLink(l), nil
}

func (r *Repo) GetShareLinkByTokenHash(ctx context.Context, tokenHash string) (domain.ShareLink, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.linkByHash[tokenHash]
	if !ok {
		return domain.ShareLink{}, triprepo.ErrShareLinkNotFound
	}
	return cloneLink(r.links[id]), nil
}

func (r *Repo) ListShareLinks(ctx context.Context, tripID domain.TripID) ([]domain.ShareLink, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ShareLink, 0)
	for _, l := range r.links {
		if l.TripID == tripID {
			out = append(out, cloneLink(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) RevokeShareLink(ctx context.Context, tripID domain.TripID, id domain.ShareLinkID, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[id]
	if !ok || l.TripID != tripID {
		return triprepo.ErrShareLinkNotFound
	}
	if l.RevokedAt == nil {
		revoked := at
		l.RevokedAt = &revoked
		r.links[id] = l
	}
	return nil
}

func cloneLink(l domain.ShareLink) domain.ShareLink {
	out := l
	if l.ExpiresAt != nil {
		v := *l.ExpiresAt
		out.ExpiresAt = &v
	}
	if l.RevokedAt != nil {
		v := *l.RevokedAt
		out.RevokedAt = &v
	}
	return out
}
