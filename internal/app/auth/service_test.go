package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	memclock "github.com/trippio/trippio-api/internal/adapters/memory/clock"
	memtokenrepo "github.com/trippio/trippio-api/internal/adapters/memory/tokenrepo"
	memuserrepo "github.com/trippio/trippio-api/internal/adapters/memory/userrepo"
	"github.com/trippio/trippio-api/internal/app/auth"
	"github.com/trippio/trippio-api/internal/platform/token"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type captureMailer struct {
	email string
	link  string
}

func (m *captureMailer) SendMagicLink(_ context.Context, email, link string) error {
	m.email = email
	m.link = link
	return nil
}

type fixture struct {
	svc    *auth.Service
	clk    *memclock.ManualClock
	mail   *captureMailer
	signer *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := memclock.NewManualClock(testStart)
	signer := token.NewService([]byte("test-secret"), "trippio-api", clk)
	mail := &captureMailer{}
	svc := auth.NewService(memuserrepo.NewRepo(), memtokenrepo.NewRepo(), mail, signer, clk, auth.Config{
		MagicLinkTTL:    15 * time.Minute,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
		AppBaseURL:      "https://app.example.com",
		ExposeMagicLink: true,
	})
	return &fixture{svc: svc, clk: clk, mail: mail, signer: signer}
}

// magicToken extracts the plaintext token from the minted link.
func magicToken(t *testing.T, link string) string {
	t.Helper()
	i := strings.Index(link, "token=")
	if i < 0 {
		t.Fatalf("no token in link %q", link)
	}
	return link[i+len("token="):]
}

func TestRequestLinkSendsMail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.svc.RequestLink(context.Background(), "  Traveler@Example.COM ")
	if err != nil {
		t.Fatalf("RequestLink: %v", err)
	}
	if !res.OK {
		t.Fatal("expected ok")
	}
	if f.mail.email != "traveler@example.com" {
		t.Fatalf("mail sent to %q", f.mail.email)
	}
	if !strings.HasPrefix(f.mail.link, "https://app.example.com/auth/verify?token=") {
		t.Fatalf("unexpected link %q", f.mail.link)
	}
	if res.MagicLink != f.mail.link {
		t.Fatalf("exposed link %q != mailed link %q", res.MagicLink, f.mail.link)
	}
}

func TestRequestLinkRejectsInvalidEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	for _, email := range []string{"", "   ", "not-an-email", "a b@example.com"} {
		_, err := f.svc.RequestLink(context.Background(), email)
		var appErr *auth.Error
		if !errors.As(err, &appErr) || appErr.Status != 422 {
			t.Fatalf("RequestLink(%q): expected 422, got %v", email, err)
		}
	}
}

func TestVerifyProvisionsUserOnFirstLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.svc.RequestLink(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("RequestLink: %v", err)
	}

	session, err := f.svc.Verify(context.Background(), magicToken(t, res.MagicLink))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if session.User.Email != "new@example.com" {
		t.Fatalf("unexpected user %+v", session.User)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	grant, err := f.signer.Verify(session.AccessToken)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	ug, ok := grant.(token.UserGrant)
	if !ok || ug.UserID != session.User.ID {
		t.Fatalf("unexpected grant %+v", grant)
	}
}

func TestVerifySecondLoginReusesUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res1, _ := f.svc.RequestLink(context.Background(), "repeat@example.com")
	s1, err := f.svc.Verify(context.Background(), magicToken(t, res1.MagicLink))
	if err != nil {
		t.Fatalf("first Verify: %v", err)
	}

	res2, _ := f.svc.RequestLink(context.Background(), "repeat@example.com")
	s2, err := f.svc.Verify(context.Background(), magicToken(t, res2.MagicLink))
	if err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if s1.User.ID != s2.User.ID {
		t.Fatalf("same email produced two users: %s vs %s", s1.User.ID, s2.User.ID)
	}
}

func TestVerifyTokenIsSingleUse(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, _ := f.svc.RequestLink(context.Background(), "once@example.com")
	raw := magicToken(t, res.MagicLink)

	if _, err := f.svc.Verify(context.Background(), raw); err != nil {
		t.Fatalf("first Verify: %v", err)
	}
	_, err := f.svc.Verify(context.Background(), raw)
	var appErr *auth.Error
	if !errors.As(err, &appErr) || appErr.Code != "LOGIN_TOKEN_INVALID" {
		t.Fatalf("expected LOGIN_TOKEN_INVALID, got %v", err)
	}
}

func TestVerifyTokenExpires(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, _ := f.svc.RequestLink(context.Background(), "late@example.com")
	raw := magicToken(t, res.MagicLink)

	f.clk.Advance(16 * time.Minute)
	_, err := f.svc.Verify(context.Background(), raw)
	var appErr *auth.Error
	if !errors.As(err, &appErr) || appErr.Code != "LOGIN_TOKEN_INVALID" {
		t.Fatalf("expected LOGIN_TOKEN_INVALID, got %v", err)
	}
}

func TestVerifyUnknownTokenIndistinguishable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Verify(context.Background(), "no-such-token")
	var appErr *auth.Error
	if !errors.As(err, &appErr) || appErr.Code != "LOGIN_TOKEN_INVALID" || appErr.Status != 401 {
		t.Fatalf("expected LOGIN_TOKEN_INVALID 401, got %v", err)
	}
}

func TestRefreshRotates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, _ := f.svc.RequestLink(context.Background(), "rotate@example.com")
	s1, err := f.svc.Verify(context.Background(), magicToken(t, res.MagicLink))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	s2, err := f.svc.Refresh(context.Background(), s1.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if s2.RefreshToken == s1.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The superseded credential is dead.
	_, err = f.svc.Refresh(context.Background(), s1.RefreshToken)
	var appErr *auth.Error
	if !errors.As(err, &appErr) || appErr.Code != "REFRESH_INVALID" {
		t.Fatalf("expected REFRESH_INVALID for old token, got %v", err)
	}

	// The new one works.
	if _, err := f.svc.Refresh(context.Background(), s2.RefreshToken); err != nil {
		t.Fatalf("Refresh with rotated token: %v", err)
	}
}

func TestRefreshExpires(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, _ := f.svc.RequestLink(context.Background(), "expire@example.com")
	s, err := f.svc.Verify(context.Background(), magicToken(t, res.MagicLink))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	f.clk.Advance(721 * time.Hour)
	_, err = f.svc.Refresh(context.Background(), s.RefreshToken)
	var appErr *auth.Error
	if !errors.As(err, &appErr) || appErr.Code != "REFRESH_INVALID" {
		t.Fatalf("expected REFRESH_INVALID, got %v", err)
	}
}

func TestLogoutRevokesRefresh(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, _ := f.svc.RequestLink(context.Background(), "bye@example.com")
	s, err := f.svc.Verify(context.Background(), magicToken(t, res.MagicLink))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if err := f.svc.Logout(context.Background(), s.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = f.svc.Refresh(context.Background(), s.RefreshToken)
	var appErr *auth.Error
	if !errors.As(err, &appErr) || appErr.Code != "REFRESH_INVALID" {
		t.Fatalf("expected REFRESH_INVALID after logout, got %v", err)
	}

	// Logging out twice, or with garbage, is fine.
	if err := f.svc.Logout(context.Background(), s.RefreshToken); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if err := f.svc.Logout(context.Background(), "unknown"); err != nil {
		t.Fatalf("Logout unknown: %v", err)
	}
}
