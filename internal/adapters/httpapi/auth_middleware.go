package httpapi

import (
	"net/http"
	"strings"

	"github.com/trippio/trippio-api/internal/app/access"
	"github.com/trippio/trippio-api/internal/platform/token"
)

// NewAuthMiddleware resolves an optional Authorization: Bearer token into the
// request identity. A missing header resolves to the anonymous identity —
// per-route handlers decide whether anonymous is acceptable. A header that is
// present but invalid is rejected here: a caller who offered credentials must
// not silently fall back to anonymous.
func NewAuthMiddleware(verifier *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			grant, err := verifier.Verify(raw)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			var id access.Identity
			switch g := grant.(type) {
			case token.UserGrant:
				id.User = &access.User{ID: g.UserID, Email: g.Email}
			case token.ShareGrant:
				id.Share = &access.Share{TripID: g.TripID, Role: g.Role, LinkID: g.LinkID}
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// requireUser extracts the authenticated user identity or writes a 401.
// Share-token bearers are not users; they cannot reach user-only routes.
func requireUser(w http.ResponseWriter, r *http.Request) (access.User, bool) {
	id := IdentityFromContext(r.Context())
	if id.User == nil {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return access.User{}, false
	}
	return *id.User, true
}
