package token_test

import (
	"errors"
	"testing"
	"time"

	memclock "github.com/trippio/trippio-api/internal/adapters/memory/clock"
	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/platform/token"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(clk *memclock.ManualClock) *token.Service {
	return token.NewService([]byte("test-secret"), "trippio-api", clk)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(testStart)
	svc := newService(clk)

	raw, err := svc.MintAccessToken(domain.User{ID: "u1", Email: "a@example.com"}, 15*time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	grant, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	ug, ok := grant.(token.UserGrant)
	if !ok {
		t.Fatalf("expected UserGrant, got %T", grant)
	}
	if ug.UserID != "u1" || ug.Email != "a@example.com" {
		t.Fatalf("unexpected grant: %+v", ug)
	}
}

func TestShareTokenRoundTrip(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(testStart)
	svc := newService(clk)

	raw, err := svc.MintShareToken("trip-1", domain.RoleViewer, "link-1", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	grant, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	sg, ok := grant.(token.ShareGrant)
	if !ok {
		t.Fatalf("expected ShareGrant, got %T", grant)
	}
	if sg.TripID != "trip-1" || sg.Role != domain.RoleViewer || sg.LinkID != "link-1" {
		t.Fatalf("unexpected grant: %+v", sg)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(testStart)
	svc := newService(clk)

	raw, err := svc.MintAccessToken(domain.User{ID: "u1"}, 15*time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Past expiry plus leeway.
	clk.Advance(16 * time.Minute)
	if _, err := svc.Verify(raw); !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(testStart)
	minter := token.NewService([]byte("secret-a"), "trippio-api", clk)
	verifier := token.NewService([]byte("secret-b"), "trippio-api", clk)

	raw, err := minter.MintAccessToken(domain.User{ID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := verifier.Verify(raw); !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(testStart)
	minter := token.NewService([]byte("test-secret"), "someone-else", clk)
	verifier := newService(clk)

	raw, err := minter.MintAccessToken(domain.User{ID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := verifier.Verify(raw); !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := newService(memclock.NewManualClock(testStart))
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(raw); !errors.Is(err, token.ErrInvalid) {
			t.Fatalf("Verify(%q): expected ErrInvalid, got %v", raw, err)
		}
	}
}
