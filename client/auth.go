package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

type sessionResponse struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// RequestLinkResult reports a magic-link request. MagicLink is only populated
// against development servers configured to expose minted links.
type RequestLinkResult struct {
	OK        bool
	MagicLink string
}

// RequestLink asks the server to email a magic link. Validation here is
// trim-only; the address's shape is the server's call.
func (c *Client) RequestLink(ctx context.Context, email string) (RequestLinkResult, error) {
	email = strings.TrimSpace(email)

	var out struct {
		OK        bool   `json:"ok"`
		MagicLink string `json:"magicLink"`
	}
	err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/auth/request-link",
		body:   map[string]string{"email": email},
		out:    &out,
	})
	if err != nil {
		return RequestLinkResult{}, err
	}
	return RequestLinkResult{OK: out.OK, MagicLink: out.MagicLink}, nil
}

// Verify exchanges a magic-link token for a session. Failure is terminal:
// magic links are single-use, so the caller must request a fresh link rather
// than retry.
func (c *Client) Verify(ctx context.Context, token string) (User, error) {
	var out sessionResponse
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/auth/verify",
		query:  url.Values{"token": {token}},
		out:    &out,
	})
	if err != nil {
		return User{}, err
	}

	u := User{ID: out.User.ID, Email: out.User.Email}
	c.session.SetSession(u, out.AccessToken)
	return u, nil
}

// Refresh exchanges the refresh cookie for a fresh access token. Any failure
// is a hard logout of the user session; there is no degraded half-signed-in
// state. A share grant, if held, survives.
func (c *Client) Refresh(ctx context.Context) error {
	var out sessionResponse
	err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		out:    &out,
	})
	if err != nil {
		c.session.clearUserSession()
		return err
	}

	c.session.SetSession(User{ID: out.User.ID, Email: out.User.Email}, out.AccessToken)
	return nil
}

// Bootstrap runs the boot refresh. The session reports IsLoading until it
// settles. A refresh rejection just means "not signed in" and is not an
// error; transport failures are returned so the caller can retry.
func (c *Client) Bootstrap(ctx context.Context) error {
	defer c.session.setLoading(false)

	err := c.Refresh(ctx)
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return nil
}

// Logout revokes the session server-side and resets to anonymous. The local
// session is cleared even when the server call fails; a dead network must not
// keep a user signed in.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/auth/logout",
	})
	c.session.clearAll()
	return err
}

// --- pending destination ---

// pendingDestination holds the post-login destination captured when an editor
// link demands sign-in first.
type pendingDestination struct {
	mu   sync.Mutex
	path string
	set  bool
}

// SetPendingDestination records where to send the user after they complete
// sign-in. A later capture overwrites an earlier one.
func (c *Client) SetPendingDestination(path string) {
	c.pending.mu.Lock()
	defer c.pending.mu.Unlock()
	c.pending.path = path
	c.pending.set = true
}

// ConsumePendingDestination returns the captured destination and clears it.
// The second return is false when nothing was captured; consuming twice
// yields nothing the second time.
func (c *Client) ConsumePendingDestination() (string, bool) {
	c.pending.mu.Lock()
	defer c.pending.mu.Unlock()
	if !c.pending.set {
		return "", false
	}
	path := c.pending.path
	c.pending.path = ""
	c.pending.set = false
	return path, true
}
