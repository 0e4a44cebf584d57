package itinerary_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/trippio/trippio-api/internal/app/access"
	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/domain"
)

func requireAppErr(t *testing.T, err error, status int, code string) {
	t.Helper()
	var appErr *itinerary.Error
	if !errors.As(err, &appErr) || appErr.Status != status || appErr.Code != code {
		t.Fatalf("expected %d %s, got %v", status, code, err)
	}
}

func (f *fixture) createProposal(t *testing.T, in itinerary.CreateProposalInput) domain.Proposal {
	t.Helper()
	p, err := f.svc.CreateProposal(context.Background(), ownerIdentity, tripID, in)
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	return p
}

func TestCreateProposalDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	p := f.createProposal(t, itinerary.CreateProposalInput{Title: "  Kaiseki   dinner "})
	if p.Title != "Kaiseki dinner" {
		t.Fatalf("title %q", p.Title)
	}
	if p.Category != domain.ProposalCategoryOther || p.Status != domain.ProposalStatusOpen {
		t.Fatalf("unexpected defaults %+v", p)
	}
	if p.ProposedBy != ownerID || len(p.Votes) != 0 {
		t.Fatalf("unexpected attribution %+v", p)
	}
}

func TestCreateProposalValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateProposal(ctx, ownerIdentity, tripID, itinerary.CreateProposalInput{Title: "   "})
	requireAppErr(t, err, 422, "VALIDATION_ERROR")

	_, err = f.svc.CreateProposal(ctx, ownerIdentity, tripID, itinerary.CreateProposalInput{
		Title: strings.Repeat("x", 121),
	})
	requireAppErr(t, err, 422, "VALIDATION_ERROR")

	_, err = f.svc.CreateProposal(ctx, ownerIdentity, tripID, itinerary.CreateProposalInput{
		Title: "Onsen", Category: "luxury",
	})
	requireAppErr(t, err, 422, "VALIDATION_ERROR")

	long := strings.Repeat("y", 801)
	_, err = f.svc.CreateProposal(ctx, ownerIdentity, tripID, itinerary.CreateProposalInput{
		Title: "Onsen", Description: &long,
	})
	requireAppErr(t, err, 422, "VALIDATION_ERROR")

	// A suggested day must belong to this trip.
	dayID := domain.DayID("cccccccc-cccc-cccc-cccc-cccccccccccc")
	_, err = f.svc.CreateProposal(ctx, ownerIdentity, tripID, itinerary.CreateProposalInput{
		Title: "Onsen", SuggestedDayID: &dayID,
	})
	requireAppErr(t, err, 404, "DAY_NOT_FOUND")
}

func TestVoteReplacesPriorVote(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProposal(t, itinerary.CreateProposalInput{Title: "Onsen day"})

	if _, err := f.svc.VoteProposal(ctx, ownerIdentity, tripID, p.ID, domain.VoteNo); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	voted, err := f.svc.VoteProposal(ctx, ownerIdentity, tripID, p.ID, domain.VoteYes)
	if err != nil {
		t.Fatalf("second vote: %v", err)
	}
	if len(voted.Votes) != 1 || voted.Votes[0].UserID != ownerID || voted.Votes[0].Value != domain.VoteYes {
		t.Fatalf("unexpected votes %+v", voted.Votes)
	}

	_, err = f.svc.VoteProposal(ctx, ownerIdentity, tripID, p.ID, "maybe")
	requireAppErr(t, err, 422, "VALIDATION_ERROR")

	_, err = f.svc.VoteProposal(ctx, ownerIdentity, tripID, "dddddddd-dddd-dddd-dddd-dddddddddddd", domain.VoteYes)
	requireAppErr(t, err, 404, "PROPOSAL_NOT_FOUND")
}

func TestSettleProposal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProposal(t, itinerary.CreateProposalInput{Title: "Onsen day"})

	approved, err := f.svc.ApproveProposal(ctx, ownerIdentity, tripID, p.ID)
	if err != nil || approved.Status != domain.ProposalStatusApproved {
		t.Fatalf("approve: %+v %v", approved, err)
	}

	// Approving again is a no-op; flipping to rejected is not allowed.
	if _, err := f.svc.ApproveProposal(ctx, ownerIdentity, tripID, p.ID); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	_, err = f.svc.RejectProposal(ctx, ownerIdentity, tripID, p.ID)
	requireAppErr(t, err, 422, "PROPOSAL_NOT_OPEN")

	// Settled proposals take no more votes.
	_, err = f.svc.VoteProposal(ctx, ownerIdentity, tripID, p.ID, domain.VoteYes)
	requireAppErr(t, err, 422, "PROPOSAL_NOT_OPEN")
}

func TestConvertProposal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	day := f.createDay(t)
	desc := "splurge night"
	p := f.createProposal(t, itinerary.CreateProposalInput{
		Title:       "Kaiseki dinner",
		Category:    domain.ProposalCategoryFood,
		Description: &desc,
		Links:       []string{"https://example.com/restaurant"},
	})

	_, err := f.svc.ConvertProposal(ctx, ownerIdentity, tripID, p.ID, itinerary.ConvertProposalInput{DayID: day.ID})
	requireAppErr(t, err, 422, "PROPOSAL_NOT_APPROVED")

	if _, err := f.svc.ApproveProposal(ctx, ownerIdentity, tripID, p.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// An existing event pushes the converted one to the back.
	if _, err := f.svc.CreateEvent(ctx, ownerIdentity, tripID, day.ID, itinerary.CreateEventInput{Title: "Arrival"}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	e, err := f.svc.ConvertProposal(ctx, ownerIdentity, tripID, p.ID, itinerary.ConvertProposalInput{
		DayID:     day.ID,
		StartTime: strPtr("19:00"),
	})
	if err != nil {
		t.Fatalf("ConvertProposal: %v", err)
	}
	if e.Title != "Kaiseki dinner" || e.Type != domain.EventTypeFood || e.Status != domain.EventStatusPlanned {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.StartTime == nil || *e.StartTime != "19:00" || e.Order != 2 {
		t.Fatalf("unexpected schedule %+v", e)
	}
	if e.Notes == nil || *e.Notes != desc {
		t.Fatalf("description not carried over: %+v", e.Notes)
	}
	if len(e.Links) != 1 || e.Links[0] != "https://example.com/restaurant" {
		t.Fatalf("links not carried over: %+v", e.Links)
	}

	// The proposal stays approved and remains convertible.
	got, err := f.svc.ListProposals(ctx, ownerIdentity, tripID, itinerary.ProposalFilter{})
	if err != nil || len(got) != 1 || got[0].Status != domain.ProposalStatusApproved {
		t.Fatalf("unexpected proposals %+v %v", got, err)
	}

	_, err = f.svc.ConvertProposal(ctx, ownerIdentity, tripID, p.ID, itinerary.ConvertProposalInput{
		DayID: "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee",
	})
	requireAppErr(t, err, 404, "DAY_NOT_FOUND")
}

func TestListProposalsFilters(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	food := f.createProposal(t, itinerary.CreateProposalInput{Title: "Ramen crawl", Category: domain.ProposalCategoryFood})
	stay := f.createProposal(t, itinerary.CreateProposalInput{Title: "Ryokan night", Category: domain.ProposalCategoryStay})
	if _, err := f.svc.ApproveProposal(ctx, ownerIdentity, tripID, stay.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	open, err := f.svc.ListProposals(ctx, ownerIdentity, tripID, itinerary.ProposalFilter{Status: domain.ProposalStatusOpen})
	if err != nil || len(open) != 1 || open[0].ID != food.ID {
		t.Fatalf("status filter: %+v %v", open, err)
	}

	stays, err := f.svc.ListProposals(ctx, ownerIdentity, tripID, itinerary.ProposalFilter{Category: domain.ProposalCategoryStay})
	if err != nil || len(stays) != 1 || stays[0].ID != stay.ID {
		t.Fatalf("category filter: %+v %v", stays, err)
	}

	_, err = f.svc.ListProposals(ctx, ownerIdentity, tripID, itinerary.ProposalFilter{Status: "pending"})
	requireAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestProposalShareAccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProposal(t, itinerary.CreateProposalInput{Title: "Onsen day"})

	viewer := f.shareIdentity(t, domain.RoleViewer)
	if _, err := f.svc.ListProposals(ctx, viewer, tripID, itinerary.ProposalFilter{}); err != nil {
		t.Fatalf("viewer list: %v", err)
	}
	_, err := f.svc.VoteProposal(ctx, viewer, tripID, p.ID, domain.VoteYes)
	requireAppErr(t, err, 403, "READ_ONLY")
	_, err = f.svc.CreateProposal(ctx, viewer, tripID, itinerary.CreateProposalInput{Title: "Nope"})
	requireAppErr(t, err, 403, "READ_ONLY")

	// A share grant carries no user identity, so even an editor-role grant
	// cannot cast an attributable vote.
	editor := access.Identity{Share: &access.Share{TripID: tripID, Role: domain.RoleEditor, LinkID: linkID}}
	_, err = f.svc.VoteProposal(ctx, editor, tripID, p.ID, domain.VoteYes)
	requireAppErr(t, err, 401, "UNAUTHORIZED")
}
