package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trippio/trippio-api/internal/domain"
)

// handleResolveShare exchanges a plaintext share token for access. Three
// outcomes: a viewer grant (share access token), an editor link that needs the
// caller to sign in first, or an editor claim attaching the signed-in caller.
func (s *Server) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	rawToken := chi.URLParam(r, "token")

	var authed *domain.UserID
	if id := IdentityFromContext(r.Context()); id.User != nil {
		authed = &id.User.ID
	}

	res, err := s.sharing.Resolve(r.Context(), rawToken, authed)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	body := map[string]any{"tripId": string(res.TripID)}
	switch {
	case res.RequiresAuth:
		body["requiresAuth"] = true
	case res.Claimed:
		body["claimed"] = true
	default:
		body["shareAccessToken"] = res.ShareAccessToken
		body["role"] = string(res.Role)
	}
	writeData(w, http.StatusOK, body)
}
