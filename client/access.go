package client

// Access describes what the current session can do. Role is only known
// client-side for share sessions; a signed-in user's per-trip role comes from
// the server with each trip.
type Access struct {
	// Authenticated is true when a user session is present.
	Authenticated bool

	// Role is the share grant's role when the session is share-only.
	Role string

	// ReadOnly is true exactly when the session acts through a share grant
	// with no signed-in user: the UI renders without edit affordances and the
	// server enforces the same boundary.
	ReadOnly bool
}

// Access derives the access surface from the current session. Pure and
// synchronous: no network, no waiting.
func (c *Client) Access() Access {
	v := c.session.View()
	switch v.Kind {
	case SessionUser:
		return Access{Authenticated: true}
	case SessionShare:
		return Access{Role: v.Share.Role, ReadOnly: true}
	default:
		return Access{}
	}
}
