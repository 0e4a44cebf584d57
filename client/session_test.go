package client

import "testing"

// The four session shapes: anonymous, user-only, share-only, and both. A user
// token always wins over a share token, and read-only means exactly
// "share grant with no signed-in user".

func seedSession(user, share bool) *SessionStore {
	s := newSessionStore()
	if user {
		s.SetSession(User{ID: "u-1", Email: "u@example.com"}, "user-token")
	}
	if share {
		s.SetShareSession(ShareGrant{TripID: "t-1", Role: "viewer", Token: "share-token"})
	}
	return s
}

func TestTokenSelection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		user, share bool
		want        string
	}{
		{"anonymous", false, false, ""},
		{"user only", true, false, "user-token"},
		{"share only", false, true, "share-token"},
		{"user and share", true, true, "user-token"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := seedSession(tc.user, tc.share)
			if got := s.bearerToken(); got != tc.want {
				t.Fatalf("bearerToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAccessMatrix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		user, share bool
		want        Access
	}{
		{"anonymous", false, false, Access{}},
		{"user only", true, false, Access{Authenticated: true}},
		{"share only", false, true, Access{Role: "viewer", ReadOnly: true}},
		{"user and share", true, true, Access{Authenticated: true}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := &Client{session: seedSession(tc.user, tc.share)}
			if got := c.Access(); got != tc.want {
				t.Fatalf("Access() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
