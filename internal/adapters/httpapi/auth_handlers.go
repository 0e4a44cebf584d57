package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/trippio/trippio-api/internal/app/auth"
)

// RefreshCookieName is the HttpOnly cookie carrying the refresh credential.
// Scoped to the auth routes so it is never sent with ordinary API calls.
const RefreshCookieName = "trippio_refresh"

const refreshCookiePath = "/api/auth"

func (s *Server) handleRequestLink(w http.ResponseWriter, r *http.Request) {
	var req requestLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	res, err := s.auth.RequestLink(r.Context(), string(req.Email))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	body := map[string]any{"ok": res.OK}
	if res.MagicLink != "" {
		body["magicLink"] = res.MagicLink
	}
	writeData(w, http.StatusOK, body)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	session, err := s.auth.Verify(r.Context(), token)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	s.setRefreshCookie(w, session)
	writeData(w, http.StatusOK, sessionDTO{
		AccessToken: session.AccessToken,
		User:        toUserDTO(session.User),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := ""
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		raw = c.Value
	}

	session, err := s.auth.Refresh(r.Context(), raw)
	if err != nil {
		// A failed refresh ends the session; make sure the dead credential
		// is not offered again.
		s.clearRefreshCookie(w)
		writeAppError(w, r, err)
		return
	}

	s.setRefreshCookie(w, session)
	writeData(w, http.StatusOK, sessionDTO{
		AccessToken: session.AccessToken,
		User:        toUserDTO(session.User),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	raw := ""
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		raw = c.Value
	}

	if err := s.auth.Logout(r.Context(), raw); err != nil {
		writeAppError(w, r, err)
		return
	}

	s.clearRefreshCookie(w)
	writeData(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, session auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    session.RefreshToken,
		Path:     refreshCookiePath,
		Expires:  session.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
