package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/trippio/trippio-api/client"
	"github.com/trippio/trippio-api/internal/adapters/httpapi"
	memclock "github.com/trippio/trippio-api/internal/adapters/memory/clock"
	memitineraryrepo "github.com/trippio/trippio-api/internal/adapters/memory/itineraryrepo"
	memtokenrepo "github.com/trippio/trippio-api/internal/adapters/memory/tokenrepo"
	memtriprepo "github.com/trippio/trippio-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/trippio/trippio-api/internal/adapters/memory/userrepo"
	"github.com/trippio/trippio-api/internal/app/access"
	"github.com/trippio/trippio-api/internal/app/auth"
	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/app/sharing"
	"github.com/trippio/trippio-api/internal/app/trips"
	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/platform/token"
)

// Wall-clock anchored: the refresh cookie's Expires must be in the real
// future or the client's cookie jar drops it.
var testStart = time.Now().UTC().Truncate(time.Second)

type noopMailer struct{}

func (noopMailer) SendMagicLink(context.Context, string, string) error { return nil }

// backend is a real server instance the client under test talks to.
type backend struct {
	ts      *httptest.Server
	trips   *trips.Service
	sharing *sharing.Service
	clk     *memclock.ManualClock
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	clk := memclock.NewManualClock(testStart)
	signer := token.NewService([]byte("test-secret"), "trippio-api", clk)

	users := memuserrepo.NewRepo()
	tokens := memtokenrepo.NewRepo()
	tripRepo := memtriprepo.NewRepo()
	content := memitineraryrepo.NewRepo()

	authSvc := auth.NewService(users, tokens, noopMailer{}, signer, clk, auth.Config{
		MagicLinkTTL:    15 * time.Minute,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
		AppBaseURL:      "https://app.example.com",
		ExposeMagicLink: true,
	})
	sharingSvc := sharing.NewService(tripRepo, users, signer, clk, sharing.Config{
		ShareTokenTTL: 720 * time.Hour,
		AppBaseURL:    "https://app.example.com",
	})
	tripsSvc := trips.NewService(tripRepo, clk)
	contentSvc := itinerary.NewService(tripRepo, content, clk)

	srv := httpapi.NewServer(authSvc, sharingSvc, tripsSvc, contentSvc, httpapi.ServerOptions{})
	ts := httptest.NewServer(httpapi.NewRouter(srv, signer))
	t.Cleanup(ts.Close)

	return &backend{ts: ts, trips: tripsSvc, sharing: sharingSvc, clk: clk}
}

func (b *backend) newClient(t *testing.T, opts client.Options) *client.Client {
	t.Helper()
	c, err := client.New(b.ts.URL, opts)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return c
}

// seedTrip creates a trip owned by a synthetic user and returns it.
func (b *backend) seedTrip(t *testing.T) domain.Trip {
	t.Helper()
	trip, err := b.trips.Create(context.Background(), access.User{ID: "owner-1", Email: "owner@example.com"}, trips.CreateInput{
		Name:      "Japan 2025",
		StartDate: testStart,
		EndDate:   testStart.AddDate(0, 0, 10),
	})
	if err != nil {
		t.Fatalf("seed trip: %v", err)
	}
	return trip
}

// seedShareLink creates a link on the trip and returns its raw token and id.
func (b *backend) seedShareLink(t *testing.T, tripID domain.TripID, role domain.Role) (string, domain.ShareLinkID) {
	t.Helper()
	created, err := b.sharing.CreateShareLink(context.Background(), "owner-1", tripID, role, nil)
	if err != nil {
		t.Fatalf("seed share link: %v", err)
	}
	raw := created.URL[strings.LastIndex(created.URL, "/")+1:]
	return raw, created.Link.ID
}

// signIn walks the magic-link flow for the given client.
func signIn(t *testing.T, c *client.Client, email string) client.User {
	t.Helper()
	res, err := c.RequestLink(context.Background(), email)
	if err != nil {
		t.Fatalf("RequestLink: %v", err)
	}
	i := strings.Index(res.MagicLink, "token=")
	if i < 0 {
		t.Fatalf("no token in %q", res.MagicLink)
	}
	u, err := c.Verify(context.Background(), res.MagicLink[i+len("token="):])
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	return u
}

func TestSignInFlow(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	c := b.newClient(t, client.Options{})

	u := signIn(t, c, "traveler@example.com")
	if u.Email != "traveler@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}

	v := c.Session().View()
	if v.Kind != client.SessionUser || v.User == nil || v.User.ID != u.ID {
		t.Fatalf("unexpected view %+v", v)
	}
	a := c.Access()
	if !a.Authenticated || a.ReadOnly {
		t.Fatalf("unexpected access %+v", a)
	}

	list, err := c.ListTrips(context.Background())
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no trips, got %d", len(list))
	}
}

func TestBootstrapAnonymous(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	c := b.newClient(t, client.Options{})

	if !c.Session().IsLoading() {
		t.Fatal("session should start loading")
	}
	// No refresh cookie exists; the rejection is not an error.
	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if c.Session().IsLoading() {
		t.Fatal("still loading after bootstrap")
	}
	if a := c.Access(); a.Authenticated || a.ReadOnly {
		t.Fatalf("unexpected access %+v", a)
	}
}

func TestBootstrapTransportError(t *testing.T) {
	t.Parallel()
	c, err := client.New("http://127.0.0.1:1", client.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	err = c.Bootstrap(context.Background())
	var te *client.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if c.Session().IsLoading() {
		t.Fatal("still loading after failed bootstrap")
	}
}

func TestRefreshViaCookieJar(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	c := b.newClient(t, client.Options{})

	signIn(t, c, "traveler@example.com")
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !c.Access().Authenticated {
		t.Fatal("lost session after refresh")
	}
	// The rotated cookie keeps working.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
}

func TestRefreshFailureIsHardLogoutButShareSurvives(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	raw, _ := b.seedShareLink(t, trip.ID, domain.RoleViewer)

	// No cookie jar: refresh will reach the server without a credential.
	c := b.newClient(t, client.Options{HTTPClient: &http.Client{Timeout: 5 * time.Second}})
	signIn(t, c, "traveler@example.com")

	out, err := c.ResolveShare(context.Background(), raw)
	if err != nil || !out.Established {
		t.Fatalf("ResolveShare: %+v %v", out, err)
	}
	// User token takes precedence while signed in.
	if _, err := c.ListTrips(context.Background()); err != nil {
		t.Fatalf("ListTrips while signed in: %v", err)
	}

	err = c.Refresh(context.Background())
	var ae *client.AuthenticationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}

	// The user session is gone; the share grant still reads the trip.
	a := c.Access()
	if a.Authenticated || !a.ReadOnly || a.Role != "viewer" {
		t.Fatalf("unexpected access %+v", a)
	}
	got, err := c.GetTrip(context.Background(), string(trip.ID))
	if err != nil {
		t.Fatalf("GetTrip via share: %v", err)
	}
	if got.ID != string(trip.ID) {
		t.Fatalf("unexpected trip %+v", got)
	}
}

func TestResolveShareViewer(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	raw, _ := b.seedShareLink(t, trip.ID, domain.RoleViewer)
	c := b.newClient(t, client.Options{})

	out, err := c.ResolveShare(context.Background(), raw)
	if err != nil {
		t.Fatalf("ResolveShare: %v", err)
	}
	if !out.Established || out.TripID != string(trip.ID) {
		t.Fatalf("unexpected outcome %+v", out)
	}

	a := c.Access()
	if a.Authenticated || !a.ReadOnly || a.Role != "viewer" {
		t.Fatalf("unexpected access %+v", a)
	}

	// The grant reads the shared trip but is not a user session.
	if _, err := c.GetTrip(context.Background(), string(trip.ID)); err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	_, err = c.ListTrips(context.Background())
	var ae *client.AuthenticationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthenticationError from ListTrips, got %v", err)
	}
}

func TestResolveShareEditorRequiresAuthAndClaim(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	raw, _ := b.seedShareLink(t, trip.ID, domain.RoleEditor)
	c := b.newClient(t, client.Options{})

	out, err := c.ResolveShare(context.Background(), raw)
	if err != nil {
		t.Fatalf("ResolveShare: %v", err)
	}
	if !out.RequiresAuth {
		t.Fatalf("unexpected outcome %+v", out)
	}

	// Capture where to return after sign-in; consuming is one-shot.
	c.SetPendingDestination("/share/" + raw)
	signIn(t, c, "friend@example.com")
	dest, ok := c.ConsumePendingDestination()
	if !ok || dest != "/share/"+raw {
		t.Fatalf("pending destination %q %v", dest, ok)
	}
	if _, ok := c.ConsumePendingDestination(); ok {
		t.Fatal("pending destination consumed twice")
	}

	out, err = c.ResolveShare(context.Background(), raw)
	if err != nil {
		t.Fatalf("second ResolveShare: %v", err)
	}
	if !out.Claimed {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if _, err := c.GetTrip(context.Background(), string(trip.ID)); err != nil {
		t.Fatalf("GetTrip after claim: %v", err)
	}
}

// hookTransport lets a test mutate state after a request is sent but before
// its result is applied.
type hookTransport struct {
	base http.RoundTripper
	pre  func(*http.Request)
}

func (h *hookTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if h.pre != nil {
		h.pre(r)
	}
	return h.base.RoundTrip(r)
}

func TestResolveShareSuperseded(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	raw, _ := b.seedShareLink(t, trip.ID, domain.RoleViewer)

	ht := &hookTransport{base: http.DefaultTransport}
	c := b.newClient(t, client.Options{HTTPClient: &http.Client{Transport: ht, Timeout: 5 * time.Second}})

	// Mutate the session while the resolution is in flight.
	ht.pre = func(r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/share/") {
			c.Session().SetShareSession(client.ShareGrant{TripID: "other", Role: "viewer", Token: "t"})
		}
	}

	_, err := c.ResolveShare(context.Background(), raw)
	if !errors.Is(err, client.ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	// The stale grant was not applied over the newer one.
	if v := c.Session().View(); v.Share == nil || v.Share.TripID != "other" {
		t.Fatalf("unexpected share state %+v", v.Share)
	}
}

func TestRevokedShareLink(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	raw, linkID := b.seedShareLink(t, trip.ID, domain.RoleViewer)
	c := b.newClient(t, client.Options{})

	err := b.sharing.RevokeShareLink(context.Background(), "owner-1", trip.ID, linkID)
	if err != nil {
		t.Fatalf("RevokeShareLink: %v", err)
	}

	_, err = c.ResolveShare(context.Background(), raw)
	if !client.IsShareLinkInvalid(err) {
		t.Fatalf("expected share-link-invalid classification, got %v", err)
	}
}

func TestRevokedShareLinkClearsStaleGrant(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	raw, linkID := b.seedShareLink(t, trip.ID, domain.RoleViewer)
	c := b.newClient(t, client.Options{})

	if out, err := c.ResolveShare(context.Background(), raw); err != nil || !out.Established {
		t.Fatalf("ResolveShare: %+v %v", out, err)
	}

	err := b.sharing.RevokeShareLink(context.Background(), "owner-1", trip.ID, linkID)
	if err != nil {
		t.Fatalf("RevokeShareLink: %v", err)
	}

	// Re-resolving the dead link fails and must drop the grant it had
	// installed earlier, not leave it behind.
	_, err = c.ResolveShare(context.Background(), raw)
	if !client.IsShareLinkInvalid(err) {
		t.Fatalf("expected share-link-invalid classification, got %v", err)
	}
	if v := c.Session().View(); v.Share != nil {
		t.Fatalf("stale grant survived failed resolution: %+v", v.Share)
	}
	if a := c.Access(); a.Authenticated || a.ReadOnly {
		t.Fatalf("unexpected access %+v", a)
	}
}

func TestResolveEditorLinkClearsPriorGrant(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	viewerRaw, _ := b.seedShareLink(t, trip.ID, domain.RoleViewer)
	editorRaw, _ := b.seedShareLink(t, trip.ID, domain.RoleEditor)
	c := b.newClient(t, client.Options{})

	if out, err := c.ResolveShare(context.Background(), viewerRaw); err != nil || !out.Established {
		t.Fatalf("ResolveShare viewer: %+v %v", out, err)
	}

	// The editor link redirects to sign-in; the old viewer grant must not
	// linger underneath the new flow.
	out, err := c.ResolveShare(context.Background(), editorRaw)
	if err != nil || !out.RequiresAuth {
		t.Fatalf("ResolveShare editor: %+v %v", out, err)
	}
	if v := c.Session().View(); v.Share != nil {
		t.Fatalf("viewer grant survived editor resolution: %+v", v.Share)
	}
}

func TestResolveShareRejectsUnexpectedRole(t *testing.T) {
	t.Parallel()

	// A server must never hand out an editor grant directly; a client talking
	// to one that does refuses to install it.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"tripId":"t-1","shareAccessToken":"x","role":"editor"},"error":null}`))
	}))
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, client.Options{})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	_, err = c.ResolveShare(context.Background(), "whatever")
	if !errors.Is(err, client.ErrClaimFailed) {
		t.Fatalf("expected ErrClaimFailed, got %v", err)
	}
	if v := c.Session().View(); v.Share != nil {
		t.Fatalf("grant installed despite rejection: %+v", v.Share)
	}
}

func TestShareLinkManagement(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	c := b.newClient(t, client.Options{})
	owner := signIn(t, c, "owner@example.com")

	trip, err := b.trips.Create(context.Background(), access.User{ID: domain.UserID(owner.ID), Email: owner.Email}, trips.CreateInput{
		Name:      "Japan 2025",
		StartDate: testStart,
		EndDate:   testStart.AddDate(0, 0, 10),
	})
	if err != nil {
		t.Fatalf("seed trip: %v", err)
	}

	link, err := c.CreateShareLink(context.Background(), string(trip.ID), "viewer", nil)
	if err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}
	if link.URL == "" || link.Role != "viewer" {
		t.Fatalf("unexpected link %+v", link)
	}

	list, err := c.ListShareLinks(context.Background(), string(trip.ID))
	if err != nil {
		t.Fatalf("ListShareLinks: %v", err)
	}
	if len(list) != 1 || list[0].ID != link.ID || list[0].RevokedAt != nil {
		t.Fatalf("unexpected listing %+v", list)
	}
	// Listings never echo the plaintext token back.
	if list[0].URL != "" {
		t.Fatalf("listing leaked link URL %q", list[0].URL)
	}

	// Revoking is idempotent: again on the same link and on an unknown id
	// both succeed.
	for _, id := range []string{link.ID, link.ID, "b1e4f3c6-0000-4000-8000-000000000000"} {
		if err := c.RevokeShareLink(context.Background(), string(trip.ID), id); err != nil {
			t.Fatalf("RevokeShareLink %s: %v", id, err)
		}
	}

	list, err = c.ListShareLinks(context.Background(), string(trip.ID))
	if err != nil {
		t.Fatalf("ListShareLinks after revoke: %v", err)
	}
	if len(list) != 1 || list[0].RevokedAt == nil {
		t.Fatalf("revocation not reflected: %+v", list)
	}

	// The dead link no longer resolves for anyone.
	raw := link.URL[strings.LastIndex(link.URL, "/")+1:]
	other := b.newClient(t, client.Options{})
	if _, err := other.ResolveShare(context.Background(), raw); !client.IsShareLinkInvalid(err) {
		t.Fatalf("expected share-link-invalid classification, got %v", err)
	}
}

func TestCollaboratorManagement(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	ownerClient := b.newClient(t, client.Options{})
	owner := signIn(t, ownerClient, "owner@example.com")

	trip, err := b.trips.Create(context.Background(), access.User{ID: domain.UserID(owner.ID), Email: owner.Email}, trips.CreateInput{
		Name:      "Japan 2025",
		StartDate: testStart,
		EndDate:   testStart.AddDate(0, 0, 10),
	})
	if err != nil {
		t.Fatalf("seed trip: %v", err)
	}

	link, err := ownerClient.CreateShareLink(context.Background(), string(trip.ID), "editor", nil)
	if err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}
	raw := link.URL[strings.LastIndex(link.URL, "/")+1:]

	friendClient := b.newClient(t, client.Options{})
	friend := signIn(t, friendClient, "friend@example.com")
	if out, err := friendClient.ResolveShare(context.Background(), raw); err != nil || !out.Claimed {
		t.Fatalf("claim editor link: %+v %v", out, err)
	}

	collabs, err := ownerClient.ListCollaborators(context.Background(), string(trip.ID))
	if err != nil {
		t.Fatalf("ListCollaborators: %v", err)
	}
	if len(collabs) != 2 {
		t.Fatalf("expected owner and friend, got %+v", collabs)
	}

	updated, err := ownerClient.UpdateCollaboratorRole(context.Background(), string(trip.ID), friend.ID, "viewer")
	if err != nil {
		t.Fatalf("UpdateCollaboratorRole: %v", err)
	}
	if updated.UserID != friend.ID || updated.Role != "viewer" {
		t.Fatalf("unexpected collaborator %+v", updated)
	}

	if err := ownerClient.RemoveCollaborator(context.Background(), string(trip.ID), friend.ID); err != nil {
		t.Fatalf("RemoveCollaborator: %v", err)
	}
	// Removal takes effect on the friend's very next request.
	_, err = friendClient.GetTrip(context.Background(), string(trip.ID))
	var fe *client.AuthorizationError
	if !errors.As(err, &fe) {
		t.Fatalf("expected AuthorizationError after removal, got %v", err)
	}
}

func TestLogoutClearsLocallyEvenWhenServerUnreachable(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	c := b.newClient(t, client.Options{})
	signIn(t, c, "traveler@example.com")

	b.ts.Close()
	err := c.Logout(context.Background())
	var te *client.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if a := c.Access(); a.Authenticated || a.ReadOnly {
		t.Fatalf("session survived logout: %+v", a)
	}
}

func TestSignInDiscardsShareGrant(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	trip := b.seedTrip(t)
	raw, _ := b.seedShareLink(t, trip.ID, domain.RoleViewer)
	c := b.newClient(t, client.Options{})

	if _, err := c.ResolveShare(context.Background(), raw); err != nil {
		t.Fatalf("ResolveShare: %v", err)
	}
	signIn(t, c, "traveler@example.com")

	v := c.Session().View()
	if v.Kind != client.SessionUser || v.Share != nil {
		t.Fatalf("share grant survived sign-in: %+v", v)
	}
}
