package trips_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/trippio/trippio-api/internal/adapters/memory/clock"
	memtriprepo "github.com/trippio/trippio-api/internal/adapters/memory/triprepo"
	"github.com/trippio/trippio-api/internal/app/access"
	"github.com/trippio/trippio-api/internal/app/trips"
	"github.com/trippio/trippio-api/internal/domain"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var (
	alice = access.User{ID: "11111111-1111-1111-1111-111111111111", Email: "alice@example.com"}
	bob   = access.User{ID: "22222222-2222-2222-2222-222222222222", Email: "bob@example.com"}
)

func userIdentity(u access.User) access.Identity {
	return access.Identity{User: &u}
}

type fixture struct {
	svc  *trips.Service
	repo *memtriprepo.Repo
	clk  *memclock.ManualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := memclock.NewManualClock(testStart)
	repo := memtriprepo.NewRepo()
	return &fixture{svc: trips.NewService(repo, clk), repo: repo, clk: clk}
}

func (f *fixture) createTrip(t *testing.T, owner access.User) domain.Trip {
	t.Helper()
	trip, err := f.svc.Create(context.Background(), owner, trips.CreateInput{
		Name:      "Japan 2025",
		StartDate: testStart,
		EndDate:   testStart.AddDate(0, 0, 10),
		Timezone:  "Asia/Tokyo",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return trip
}

func TestCreateSetsOwnerCollaborator(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	trip := f.createTrip(t, alice)
	if trip.CreatedBy != alice.ID {
		t.Fatalf("createdBy %s", trip.CreatedBy)
	}

	c, err := f.repo.GetCollaborator(context.Background(), trip.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetCollaborator: %v", err)
	}
	if c.Role != domain.RoleOwner || c.Email != "alice@example.com" {
		t.Fatalf("unexpected collaborator %+v", c)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   trips.CreateInput
	}{
		{"empty name", trips.CreateInput{Name: "   ", StartDate: testStart, EndDate: testStart}},
		{"missing dates", trips.CreateInput{Name: "Trip"}},
		{"end before start", trips.CreateInput{Name: "Trip", StartDate: testStart, EndDate: testStart.AddDate(0, 0, -1)}},
		{"bad timezone", trips.CreateInput{Name: "Trip", StartDate: testStart, EndDate: testStart, Timezone: "Mars/Olympus"}},
	}
	for _, tc := range cases {
		_, err := f.svc.Create(ctx, alice, tc.in)
		var appErr *trips.Error
		if !errors.As(err, &appErr) || appErr.Status != 422 {
			t.Fatalf("%s: expected 422, got %v", tc.name, err)
		}
	}
}

func TestCreateTrimsName(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	trip, err := f.svc.Create(context.Background(), alice, trips.CreateInput{
		Name:      "  Road   Trip  ",
		StartDate: testStart,
		EndDate:   testStart,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if trip.Name != "Road Trip" {
		t.Fatalf("name not normalized: %q", trip.Name)
	}
}

func TestListOnlyOwnTrips(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createTrip(t, alice)
	f.createTrip(t, bob)

	list, err := f.svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestGetDistinguishesMissingFromForbidden(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	trip := f.createTrip(t, alice)

	// A stranger gets 403 on a real trip.
	_, err := f.svc.Get(ctx, userIdentity(bob), trip.ID)
	var appErr *trips.Error
	if !errors.As(err, &appErr) || appErr.Code != "TRIP_FORBIDDEN" {
		t.Fatalf("stranger: expected TRIP_FORBIDDEN, got %v", err)
	}

	// Anyone gets 404 on a trip that does not exist.
	_, err = f.svc.Get(ctx, userIdentity(bob), "ffffffff-ffff-ffff-ffff-ffffffffffff")
	if !errors.As(err, &appErr) || appErr.Code != "TRIP_NOT_FOUND" {
		t.Fatalf("missing: expected TRIP_NOT_FOUND, got %v", err)
	}
}

func TestGetReportsRole(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	trip := f.createTrip(t, alice)
	if err := f.repo.AddCollaborator(ctx, domain.Collaborator{
		TripID: trip.ID, UserID: bob.ID, Email: bob.Email,
		Role: domain.RoleViewer, AddedAt: testStart,
	}); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}

	v, err := f.svc.Get(ctx, userIdentity(alice), trip.ID)
	if err != nil || v.Role != domain.RoleOwner {
		t.Fatalf("owner view: %+v %v", v, err)
	}
	v, err = f.svc.Get(ctx, userIdentity(bob), trip.ID)
	if err != nil || v.Role != domain.RoleViewer {
		t.Fatalf("viewer view: %+v %v", v, err)
	}
}

func TestShareIdentityScopedToOneTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	shared := f.createTrip(t, alice)
	other := f.createTrip(t, bob)

	link := domain.ShareLink{
		ID: "33333333-3333-3333-3333-333333333333", TripID: shared.ID,
		Role: domain.RoleViewer, TokenHash: "h", CreatedAt: testStart,
	}
	if err := f.repo.CreateShareLink(ctx, link); err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}
	id := access.Identity{Share: &access.Share{TripID: shared.ID, Role: domain.RoleViewer, LinkID: link.ID}}

	v, err := f.svc.Get(ctx, id, shared.ID)
	if err != nil || v.Role != domain.RoleViewer {
		t.Fatalf("shared trip: %+v %v", v, err)
	}

	_, err = f.svc.Get(ctx, id, other.ID)
	var appErr *trips.Error
	if !errors.As(err, &appErr) || appErr.Code != "TRIP_FORBIDDEN" {
		t.Fatalf("other trip: expected TRIP_FORBIDDEN, got %v", err)
	}
}

func TestShareIdentityDiesWithLink(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	trip := f.createTrip(t, alice)
	link := domain.ShareLink{
		ID: "44444444-4444-4444-4444-444444444444", TripID: trip.ID,
		Role: domain.RoleViewer, TokenHash: "h", CreatedAt: testStart,
	}
	if err := f.repo.CreateShareLink(ctx, link); err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}
	id := access.Identity{Share: &access.Share{TripID: trip.ID, Role: domain.RoleViewer, LinkID: link.ID}}

	if _, err := f.svc.Get(ctx, id, trip.ID); err != nil {
		t.Fatalf("before revoke: %v", err)
	}
	if err := f.repo.RevokeShareLink(ctx, trip.ID, link.ID, f.clk.Now()); err != nil {
		t.Fatalf("RevokeShareLink: %v", err)
	}
	_, err := f.svc.Get(ctx, id, trip.ID)
	var appErr *trips.Error
	if !errors.As(err, &appErr) || appErr.Code != "TRIP_FORBIDDEN" {
		t.Fatalf("after revoke: expected TRIP_FORBIDDEN, got %v", err)
	}
}

func TestUpdatePatchSemantics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	trip := f.createTrip(t, alice)
	f.clk.Advance(time.Hour)

	name := "Japan, revised"
	got, err := f.svc.Update(ctx, userIdentity(alice), trip.ID, trips.UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Japan, revised" {
		t.Fatalf("name %q", got.Name)
	}
	if !got.StartDate.Equal(trip.StartDate) || !got.EndDate.Equal(trip.EndDate) || got.Timezone != trip.Timezone {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.UpdatedAt.After(trip.UpdatedAt) {
		t.Fatal("updatedAt not bumped")
	}
}

func TestUpdateRejectsInvertedDates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	trip := f.createTrip(t, alice)

	// Moving the end before the existing start must fail even though only one
	// field is patched.
	end := testStart.AddDate(0, 0, -2)
	_, err := f.svc.Update(context.Background(), userIdentity(alice), trip.ID, trips.UpdateInput{EndDate: &end})
	var appErr *trips.Error
	if !errors.As(err, &appErr) || appErr.Status != 422 {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestUpdateViewerReadOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	trip := f.createTrip(t, alice)
	if err := f.repo.AddCollaborator(ctx, domain.Collaborator{
		TripID: trip.ID, UserID: bob.ID, Email: bob.Email,
		Role: domain.RoleViewer, AddedAt: testStart,
	}); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}

	name := "nope"
	_, err := f.svc.Update(ctx, userIdentity(bob), trip.ID, trips.UpdateInput{Name: &name})
	var appErr *trips.Error
	if !errors.As(err, &appErr) || appErr.Code != "READ_ONLY" {
		t.Fatalf("expected READ_ONLY, got %v", err)
	}
}
