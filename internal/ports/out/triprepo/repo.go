package triprepo

import (
	"context"
	"time"

	"github.com/trippio/trippio-api/internal/domain"
)

// Repository provides access to persisted trips, their collaborators, and
// their share links.
//
// Result ordering expectations:
//   - ListForUser returns trips ordered by StartDate ascending, then ID.
//   - ListCollaborators returns collaborators ordered by AddedAt ascending, then UserID.
//   - ListShareLinks returns links ordered by CreatedAt ascending, then ID, and
//     includes revoked links (callers decide how to present them).
type Repository interface {
	Create(ctx context.Context, t domain.Trip) error
	Save(ctx context.Context, t domain.Trip) error
	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)

	// ListForUser returns trips where the user is a collaborator (any role).
	ListForUser(ctx context.Context, userID domain.UserID) ([]domain.Trip, error)

	AddCollaborator(ctx context.Context, c domain.Collaborator) error
	GetCollaborator(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Collaborator, error)
	ListCollaborators(ctx context.Context, tripID domain.TripID) ([]domain.Collaborator, error)
	UpdateCollaboratorRole(ctx context.Context, tripID domain.TripID, userID domain.UserID, role domain.Role) error
	// RemoveCollaborator deletes the collaborator record. Removal takes effect
	// on the next authorization check; there is no grace period.
	RemoveCollaborator(ctx context.Context, tripID domain.TripID, userID domain.UserID) error

	CreateShareLink(ctx context.Context, l domain.ShareLink) error
	GetShareLink(ctx context.Context, tripID domain.TripID, id domain.ShareLinkID) (domain.ShareLink, error)
	// GetShareLinkByTokenHash resolves a link regardless of revocation or
	// expiry state; callers apply ShareLink.Usable.
	GetShareLinkByTokenHash(ctx context.Context, tokenHash string) (domain.ShareLink, error)
	ListShareLinks(ctx context.Context, tripID domain.TripID) ([]domain.ShareLink, error)
	// RevokeShareLink stamps RevokedAt. Revoking an already-revoked link is a
	// no-op, not an error.
	RevokeShareLink(ctx context.Context, tripID domain.TripID, id domain.ShareLinkID, at time.Time) error
}
