package itineraryrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memitineraryrepo "github.com/trippio/trippio-api/internal/adapters/memory/itineraryrepo"
	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/itineraryrepo"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const tripID = domain.TripID("t-1")

func TestListDaysOrderedByDate(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()
	ctx := context.Background()

	for _, d := range []domain.Day{
		{ID: "d-b", TripID: tripID, Date: testStart.AddDate(0, 0, 2)},
		{ID: "d-a", TripID: tripID, Date: testStart},
		{ID: "d-c", TripID: tripID, Date: testStart.AddDate(0, 0, 2)},
		{ID: "d-x", TripID: "other", Date: testStart},
	} {
		if err := r.CreateDay(ctx, d); err != nil {
			t.Fatalf("CreateDay: %v", err)
		}
	}

	got, err := r.ListDays(ctx, tripID)
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	want := []domain.DayID{"d-a", "d-b", "d-c"}
	if len(got) != len(want) {
		t.Fatalf("got %d days", len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestListEventsOrderedByOrder(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()
	ctx := context.Background()

	for _, e := range []domain.Event{
		{ID: "e-2", TripID: tripID, DayID: "d-1", Order: 2},
		{ID: "e-1", TripID: tripID, DayID: "d-1", Order: 1},
		{ID: "e-3", TripID: tripID, DayID: "d-2", Order: 1},
	} {
		if err := r.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	got, err := r.ListEvents(ctx, "d-1")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e-1" || got[1].ID != "e-2" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestGetEventReturnsCopy(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()
	ctx := context.Background()

	notes := "original"
	err := r.CreateEvent(ctx, domain.Event{
		ID: "e-1", TripID: tripID, DayID: "d-1", Notes: &notes, Links: []string{"a"},
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	e1, _ := r.GetEvent(ctx, "e-1")
	*e1.Notes = "mutated"
	e1.Links[0] = "mutated"

	e2, _ := r.GetEvent(ctx, "e-1")
	if *e2.Notes != "original" || e2.Links[0] != "a" {
		t.Fatal("stored event was mutated through a returned copy")
	}
}

func TestSaveEventUnknown(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()

	err := r.SaveEvent(context.Background(), domain.Event{ID: "missing", TripID: tripID})
	if !errors.Is(err, itineraryrepo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEventMissingIsNoop(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()

	if err := r.DeleteEvent(context.Background(), "missing"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
}

func TestProposalVotesIsolatedFromCallers(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()
	ctx := context.Background()

	err := r.CreateProposal(ctx, domain.Proposal{
		ID: "pr-1", TripID: tripID, Title: "Onsen day",
		Status: domain.ProposalStatusOpen,
		Votes:  []domain.ProposalVote{{UserID: "u-1", Value: domain.VoteYes}},
	})
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	p1, _ := r.GetProposal(ctx, "pr-1")
	p1.Votes[0].Value = domain.VoteNo

	p2, _ := r.GetProposal(ctx, "pr-1")
	if p2.Votes[0].Value != domain.VoteYes {
		t.Fatal("stored proposal was mutated through a returned copy")
	}
}

func TestSaveProposalUnknown(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()

	err := r.SaveProposal(context.Background(), domain.Proposal{ID: "missing", TripID: tripID})
	if !errors.Is(err, itineraryrepo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPlacesOrderedByCreation(t *testing.T) {
	t.Parallel()
	r := memitineraryrepo.NewRepo()
	ctx := context.Background()

	for i, p := range []domain.Place{
		{ID: "p-late", TripID: tripID, Name: "Late"},
		{ID: "p-early", TripID: tripID, Name: "Early"},
	} {
		p.CreatedAt = testStart.Add(time.Duration(1-i) * time.Hour)
		if err := r.CreatePlace(ctx, p); err != nil {
			t.Fatalf("CreatePlace: %v", err)
		}
	}

	got, err := r.ListPlaces(ctx, tripID)
	if err != nil {
		t.Fatalf("ListPlaces: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p-early" || got[1].ID != "p-late" {
		t.Fatalf("unexpected order %+v", got)
	}
}
