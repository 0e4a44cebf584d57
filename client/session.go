package client

import "sync"

// User is the signed-in account as reported by the server.
type User struct {
	ID    string
	Email string
}

// ShareGrant is an accepted viewer share: the trip it opens, the role it
// carries, and the bearer token that proves it.
type ShareGrant struct {
	TripID string
	Role   string
	Token  string
}

// SessionKind tags the session state a reader observes.
type SessionKind int

const (
	SessionAnonymous SessionKind = iota
	SessionUser
	SessionShare
)

// SessionView is a read-only snapshot of the session. Kind reflects what the
// session acts as: a user session wins over a share session when both exist,
// mirroring token precedence on requests.
type SessionView struct {
	Kind  SessionKind
	User  *User
	Share *ShareGrant
}

// SessionStore holds the client's authentication state.
//
// A user session and a share session can coexist: accepting a viewer link
// while signed in keeps the user session, and the share grant is retained so
// dropping the user session falls back to share access rather than anonymous.
// Setting a user session, however, discards any share grant: signing in is an
// upgrade, not an overlay.
type SessionStore struct {
	mu sync.Mutex

	user        *User
	accessToken string
	share       *ShareGrant

	loading bool

	// generation increments on every mutation. In-flight share resolutions
	// compare it before applying their result.
	generation uint64
}

func newSessionStore() *SessionStore {
	return &SessionStore{loading: true}
}

// View returns a snapshot of the current session.
func (s *SessionStore) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{Kind: SessionAnonymous}
	if s.user != nil {
		u := *s.user
		v.User = &u
		v.Kind = SessionUser
	}
	if s.share != nil {
		g := *s.share
		v.Share = &g
		if v.Kind == SessionAnonymous {
			v.Kind = SessionShare
		}
	}
	return v
}

// IsLoading reports whether the boot refresh is still in flight. Callers
// should defer auth-dependent decisions until it settles.
func (s *SessionStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetSession installs a signed-in user session and discards any share grant.
func (s *SessionStore) SetSession(u User, accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.accessToken = accessToken
	s.share = nil
	s.generation++
}

// SetShareSession installs a share grant. An existing user session is kept;
// the grant only takes effect on requests when no user token is present.
func (s *SessionStore) SetShareSession(g ShareGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.share = &g
	s.generation++
}

// ClearShareSession drops the share grant, if any.
func (s *SessionStore) ClearShareSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.share == nil {
		return
	}
	s.share = nil
	s.generation++
}

// clearUserSession drops the signed-in session. A share grant survives.
func (s *SessionStore) clearUserSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.accessToken = ""
	s.generation++
}

// clearAll resets to anonymous.
func (s *SessionStore) clearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.accessToken = ""
	s.share = nil
	s.generation++
}

func (s *SessionStore) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// bearerToken picks the token for the next request: user strictly over share.
func (s *SessionStore) bearerToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken != "" {
		return s.accessToken
	}
	if s.share != nil {
		return s.share.Token
	}
	return ""
}

// snapshotGeneration returns the current mutation counter.
func (s *SessionStore) snapshotGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// applyShareIfCurrent installs the grant only if no mutation happened since
// gen was snapshotted. Returns false when the result is stale.
func (s *SessionStore) applyShareIfCurrent(gen uint64, g ShareGrant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.share = &g
	s.generation++
	return true
}
