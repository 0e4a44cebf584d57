package auth

import (
	"time"

	"github.com/trippio/trippio-api/internal/domain"
)

// RequestLinkResult reports a magic-link request. MagicLink is set only when
// the service is configured to expose minted links (development/test).
type RequestLinkResult struct {
	OK        bool
	MagicLink string
}

// Session is an issued authenticated session: the user, a short-lived access
// token, and the plaintext refresh credential the HTTP layer moves into an
// HttpOnly cookie.
type Session struct {
	User             domain.User
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}
