package client

import (
	"context"
	"net/http"
	"time"
)

// ShareLink is a share link as reported by the server. URL is only set on the
// response to the creating call; listings return metadata without the token.
type ShareLink struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt"`
}

// Collaborator is a trip member as reported by the server.
type Collaborator struct {
	UserID  string    `json:"userId"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}

type shareLinkCreateRequest struct {
	Role          string `json:"role"`
	ExpiresInDays *int   `json:"expiresInDays,omitempty"`
}

type collaboratorPatchRequest struct {
	Role string `json:"role"`
}

// CreateShareLink mints a share link for the trip. Role is "viewer" or
// "editor"; expiresInDays, when non-nil, bounds the link's lifetime.
// Owner only.
func (c *Client) CreateShareLink(ctx context.Context, tripID, role string, expiresInDays *int) (ShareLink, error) {
	var out ShareLink
	err := c.do(ctx, apiRequest{
		method:  http.MethodPost,
		path:    "/api/trips/" + tripID + "/share-links",
		body:    shareLinkCreateRequest{Role: role, ExpiresInDays: expiresInDays},
		out:     &out,
		success: http.StatusCreated,
	})
	if err != nil {
		return ShareLink{}, err
	}
	return out, nil
}

// ListShareLinks returns the trip's share links, revoked ones included.
// Owner only.
func (c *Client) ListShareLinks(ctx context.Context, tripID string) ([]ShareLink, error) {
	var out []ShareLink
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/trips/" + tripID + "/share-links",
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeShareLink revokes a share link. Revoking an already-revoked or
// unknown link succeeds: the goal state is "this link no longer works".
// Owner only.
func (c *Client) RevokeShareLink(ctx context.Context, tripID, linkID string) error {
	return c.do(ctx, apiRequest{
		method: http.MethodDelete,
		path:   "/api/trips/" + tripID + "/share-links/" + linkID,
	})
}

// ListCollaborators returns the trip's members. Owner only.
func (c *Client) ListCollaborators(ctx context.Context, tripID string) ([]Collaborator, error) {
	var out []Collaborator
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/trips/" + tripID + "/collaborators",
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCollaboratorRole changes a member's role to "viewer" or "editor".
// Owner only; the owner's own role cannot be changed.
func (c *Client) UpdateCollaboratorRole(ctx context.Context, tripID, userID, role string) (Collaborator, error) {
	var out Collaborator
	err := c.do(ctx, apiRequest{
		method: http.MethodPatch,
		path:   "/api/trips/" + tripID + "/collaborators/" + userID,
		body:   collaboratorPatchRequest{Role: role},
		out:    &out,
	})
	if err != nil {
		return Collaborator{}, err
	}
	return out, nil
}

// RemoveCollaborator removes a member from the trip. Their access ends with
// the next request they make. Owner only.
func (c *Client) RemoveCollaborator(ctx context.Context, tripID, userID string) error {
	return c.do(ctx, apiRequest{
		method: http.MethodDelete,
		path:   "/api/trips/" + tripID + "/collaborators/" + userID,
	})
}
