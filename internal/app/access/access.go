package access

import (
	"context"
	"errors"
	"time"

	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/triprepo"
)

// User is an authenticated user identity resolved from an access token.
type User struct {
	ID    domain.UserID
	Email string
}

// Share is a trip-scoped grant resolved from a share access token.
type Share struct {
	TripID domain.TripID
	Role   domain.Role
	LinkID domain.ShareLinkID
}

// Identity is the acting principal for a request. At most one of User/Share is
// set: the HTTP layer resolves exactly one bearer token per request, with user
// tokens taking precedence over share tokens at the client.
type Identity struct {
	User  *User
	Share *Share
}

func (id Identity) IsAnonymous() bool {
	return id.User == nil && id.Share == nil
}

// TripRole resolves the identity's effective role on a trip at the given
// instant. ok is false when the identity has no standing on the trip.
//
// For user identities the role comes from the live collaborator record, so a
// removed collaborator loses access on their very next request. For share
// identities the issuing link must still be usable: revoking a link kills
// every token minted from it.
func TripRole(ctx context.Context, repo triprepo.Repository, id Identity, tripID domain.TripID, now time.Time) (domain.Role, bool, error) {
	if id.User != nil {
		c, err := repo.GetCollaborator(ctx, tripID, id.User.ID)
		if err != nil {
			if errors.Is(err, triprepo.ErrCollaboratorNotFound) {
				return "", false, nil
			}
			return "", false, err
		}
		return c.Role, true, nil
	}
	if id.Share != nil && id.Share.TripID == tripID {
		l, err := repo.GetShareLink(ctx, tripID, id.Share.LinkID)
		if err != nil {
			if errors.Is(err, triprepo.ErrShareLinkNotFound) {
				return "", false, nil
			}
			return "", false, err
		}
		if !l.Usable(now) {
			return "", false, nil
		}
		return id.Share.Role, true, nil
	}
	return "", false, nil
}
