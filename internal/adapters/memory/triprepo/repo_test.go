package triprepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memtriprepo "github.com/trippio/trippio-api/internal/adapters/memory/triprepo"
	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/triprepo"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seedTrip(t *testing.T, r *memtriprepo.Repo, id domain.TripID, start time.Time) {
	t.Helper()
	err := r.Create(context.Background(), domain.Trip{
		ID: id, Name: "Trip " + string(id), StartDate: start, EndDate: start.AddDate(0, 0, 3),
		CreatedBy: "u1", CreatedAt: testStart, UpdatedAt: testStart,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestListForUserOrdersByStartDate(t *testing.T) {
	t.Parallel()
	r := memtriprepo.NewRepo()
	ctx := context.Background()

	seedTrip(t, r, "t-b", testStart.AddDate(0, 1, 0))
	seedTrip(t, r, "t-a", testStart)
	seedTrip(t, r, "t-c", testStart.AddDate(0, 1, 0))
	for _, id := range []domain.TripID{"t-a", "t-b", "t-c"} {
		err := r.AddCollaborator(ctx, domain.Collaborator{TripID: id, UserID: "u1", Role: domain.RoleOwner, AddedAt: testStart})
		if err != nil {
			t.Fatalf("AddCollaborator: %v", err)
		}
	}

	got, err := r.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	want := []domain.TripID{"t-a", "t-b", "t-c"}
	if len(got) != len(want) {
		t.Fatalf("got %d trips", len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestCreateDuplicateTrip(t *testing.T) {
	t.Parallel()
	r := memtriprepo.NewRepo()

	seedTrip(t, r, "t-1", testStart)
	err := r.Create(context.Background(), domain.Trip{ID: "t-1", Name: "again", StartDate: testStart, EndDate: testStart})
	if !errors.Is(err, triprepo.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAddCollaboratorErrors(t *testing.T) {
	t.Parallel()
	r := memtriprepo.NewRepo()
	ctx := context.Background()

	seedTrip(t, r, "t-1", testStart)
	c := domain.Collaborator{TripID: "t-1", UserID: "u1", Role: domain.RoleViewer, AddedAt: testStart}
	if err := r.AddCollaborator(ctx, c); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}
	if err := r.AddCollaborator(ctx, c); !errors.Is(err, triprepo.ErrCollaboratorExists) {
		t.Fatalf("duplicate: expected ErrCollaboratorExists, got %v", err)
	}
	c.TripID = "t-missing"
	if err := r.AddCollaborator(ctx, c); !errors.Is(err, triprepo.ErrNotFound) {
		t.Fatalf("missing trip: expected ErrNotFound, got %v", err)
	}
}

func TestRevokeShareLinkKeepsFirstTimestamp(t *testing.T) {
	t.Parallel()
	r := memtriprepo.NewRepo()
	ctx := context.Background()

	seedTrip(t, r, "t-1", testStart)
	err := r.CreateShareLink(ctx, domain.ShareLink{
		ID: "l-1", TripID: "t-1", Role: domain.RoleViewer, TokenHash: "h1", CreatedAt: testStart,
	})
	if err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}

	first := testStart.Add(time.Hour)
	if err := r.RevokeShareLink(ctx, "t-1", "l-1", first); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := r.RevokeShareLink(ctx, "t-1", "l-1", first.Add(time.Hour)); err != nil {
		t.Fatalf("second revoke: %v", err)
	}

	l, err := r.GetShareLink(ctx, "t-1", "l-1")
	if err != nil {
		t.Fatalf("GetShareLink: %v", err)
	}
	if l.RevokedAt == nil || !l.RevokedAt.Equal(first) {
		t.Fatalf("revokedAt %v, want %v", l.RevokedAt, first)
	}
}

func TestShareLinkScopedToTrip(t *testing.T) {
	t.Parallel()
	r := memtriprepo.NewRepo()
	ctx := context.Background()

	seedTrip(t, r, "t-1", testStart)
	seedTrip(t, r, "t-2", testStart)
	err := r.CreateShareLink(ctx, domain.ShareLink{
		ID: "l-1", TripID: "t-1", Role: domain.RoleViewer, TokenHash: "h1", CreatedAt: testStart,
	})
	if err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}

	if _, err := r.GetShareLink(ctx, "t-2", "l-1"); !errors.Is(err, triprepo.ErrShareLinkNotFound) {
		t.Fatalf("cross-trip get: expected ErrShareLinkNotFound, got %v", err)
	}
	if err := r.RevokeShareLink(ctx, "t-2", "l-1", testStart); !errors.Is(err, triprepo.ErrShareLinkNotFound) {
		t.Fatalf("cross-trip revoke: expected ErrShareLinkNotFound, got %v", err)
	}
}

func TestGetShareLinkReturnsCopy(t *testing.T) {
	t.Parallel()
	r := memtriprepo.NewRepo()
	ctx := context.Background()

	seedTrip(t, r, "t-1", testStart)
	exp := testStart.AddDate(0, 0, 7)
	err := r.CreateShareLink(ctx, domain.ShareLink{
		ID: "l-1", TripID: "t-1", Role: domain.RoleViewer, TokenHash: "h1",
		CreatedAt: testStart, ExpiresAt: &exp,
	})
	if err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}

	l1, _ := r.GetShareLink(ctx, "t-1", "l-1")
	*l1.ExpiresAt = testStart // mutate the returned copy

	l2, _ := r.GetShareLink(ctx, "t-1", "l-1")
	if !l2.ExpiresAt.Equal(exp) {
		t.Fatal("stored link was mutated through a returned copy")
	}
}
