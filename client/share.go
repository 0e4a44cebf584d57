package client

import (
	"context"
	"net/http"
)

// ShareOutcome is the result of resolving a share link token.
type ShareOutcome struct {
	TripID string

	// Established: a viewer grant was installed in the session.
	Established bool

	// RequiresAuth: the link grants editing, and the caller must sign in
	// before it can be claimed. The current path should be captured with
	// SetPendingDestination before redirecting to login.
	RequiresAuth bool

	// Claimed: the signed-in caller was attached to the trip as an editor.
	Claimed bool
}

type shareResponse struct {
	TripID           string `json:"tripId"`
	ShareAccessToken string `json:"shareAccessToken"`
	Role             string `json:"role"`
	RequiresAuth     bool   `json:"requiresAuth"`
	Claimed          bool   `json:"claimed"`
}

// ResolveShare exchanges a share link token for access.
//
// The call races against session changes: if the session mutates (sign-in,
// sign-out, another resolution) while this request is in flight, the result
// is stale and is discarded with ErrSuperseded rather than applied over the
// newer state.
func (c *Client) ResolveShare(ctx context.Context, token string) (ShareOutcome, error) {
	gen := c.session.snapshotGeneration()

	var out shareResponse
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/share/" + token,
		out:    &out,
	})
	if err != nil {
		// A failed resolution must not leave a stale grant behind.
		c.session.ClearShareSession()
		return ShareOutcome{}, err
	}

	switch {
	case out.RequiresAuth:
		c.session.ClearShareSession()
		return ShareOutcome{TripID: out.TripID, RequiresAuth: true}, nil
	case out.Claimed:
		// Access now flows through the collaborator record, not a grant.
		c.session.ClearShareSession()
		return ShareOutcome{TripID: out.TripID, Claimed: true}, nil
	default:
		// Only viewer grants are ever installed; editor access must arrive
		// through a claim.
		if out.Role != "viewer" {
			c.session.ClearShareSession()
			return ShareOutcome{}, ErrClaimFailed
		}
		ok := c.session.applyShareIfCurrent(gen, ShareGrant{
			TripID: out.TripID,
			Role:   out.Role,
			Token:  out.ShareAccessToken,
		})
		if !ok {
			return ShareOutcome{}, ErrSuperseded
		}
		return ShareOutcome{TripID: out.TripID, Established: true}, nil
	}
}
