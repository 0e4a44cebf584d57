package itinerary

import (
	"context"
	"errors"

	"github.com/trippio/trippio-api/internal/app/access"
	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/itineraryrepo"
)

const (
	maxProposalTitleLen       = 120
	maxProposalDescriptionLen = 800
)

// ListProposals returns the trip's proposals, optionally narrowed by status
// and category.
func (s *Service) ListProposals(ctx context.Context, id access.Identity, tripID domain.TripID, filter ProposalFilter) ([]domain.Proposal, error) {
	if err := s.requireRole(ctx, id, tripID, false); err != nil {
		return nil, err
	}
	if filter.Status != "" && !validProposalStatus(filter.Status) {
		return nil, validationErr("status", "unknown proposal status")
	}
	if filter.Category != "" && !validProposalCategory(filter.Category) {
		return nil, validationErr("category", "unknown proposal category")
	}

	all, err := s.content.ListProposals(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) CreateProposal(ctx context.Context, id access.Identity, tripID domain.TripID, in CreateProposalInput) (domain.Proposal, error) {
	caller, err := s.requireMember(ctx, id, tripID)
	if err != nil {
		return domain.Proposal{}, err
	}

	title := domain.NormalizeTitle(in.Title)
	if title == "" {
		return domain.Proposal{}, validationErr("title", "must be non-empty")
	}
	if len(title) > maxProposalTitleLen {
		return domain.Proposal{}, validationErr("title", "too long")
	}
	category := in.Category
	if category == "" {
		category = domain.ProposalCategoryOther
	}
	if !validProposalCategory(category) {
		return domain.Proposal{}, validationErr("category", "unknown proposal category")
	}
	if in.Description != nil && len(*in.Description) > maxProposalDescriptionLen {
		return domain.Proposal{}, validationErr("description", "too long")
	}
	if in.SuggestedDayID != nil {
		d, err := s.content.GetDay(ctx, *in.SuggestedDayID)
		if err != nil || d.TripID != tripID {
			if err == nil || errors.Is(err, itineraryrepo.ErrNotFound) {
				return domain.Proposal{}, errNotFound("DAY_NOT_FOUND", "day not found")
			}
			return domain.Proposal{}, err
		}
	}

	now := s.clk.Now()
	p := domain.Proposal{
		ID:             domain.ProposalID(s.newID()),
		TripID:         tripID,
		Title:          title,
		Category:       category,
		Description:    in.Description,
		Links:          in.Links,
		SuggestedDayID: in.SuggestedDayID,
		Status:         domain.ProposalStatusOpen,
		ProposedBy:     caller,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.content.CreateProposal(ctx, p); err != nil {
		return domain.Proposal{}, err
	}
	return p, nil
}

// VoteProposal records the caller's vote. A second vote by the same user
// replaces the first. Only open proposals accept votes.
func (s *Service) VoteProposal(ctx context.Context, id access.Identity, tripID domain.TripID, proposalID domain.ProposalID, value domain.VoteValue) (domain.Proposal, error) {
	caller, err := s.requireMember(ctx, id, tripID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if value != domain.VoteYes && value != domain.VoteNo {
		return domain.Proposal{}, validationErr("value", `must be "yes" or "no"`)
	}
	p, err := s.getProposal(ctx, tripID, proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if p.Status != domain.ProposalStatusOpen {
		return domain.Proposal{}, errProposalNotOpen()
	}

	p.SetVote(caller, value)
	p.UpdatedAt = s.clk.Now()
	if err := s.content.SaveProposal(ctx, p); err != nil {
		return domain.Proposal{}, err
	}
	return p, nil
}

// ApproveProposal moves an open proposal to approved. Approving an
// already-approved proposal is a no-op.
func (s *Service) ApproveProposal(ctx context.Context, id access.Identity, tripID domain.TripID, proposalID domain.ProposalID) (domain.Proposal, error) {
	return s.settleProposal(ctx, id, tripID, proposalID, domain.ProposalStatusApproved)
}

// RejectProposal moves an open proposal to rejected. Rejecting an
// already-rejected proposal is a no-op.
func (s *Service) RejectProposal(ctx context.Context, id access.Identity, tripID domain.TripID, proposalID domain.ProposalID) (domain.Proposal, error) {
	return s.settleProposal(ctx, id, tripID, proposalID, domain.ProposalStatusRejected)
}

func (s *Service) settleProposal(ctx context.Context, id access.Identity, tripID domain.TripID, proposalID domain.ProposalID, to domain.ProposalStatus) (domain.Proposal, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Proposal{}, err
	}
	p, err := s.getProposal(ctx, tripID, proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if p.Status == to {
		return p, nil
	}
	if p.Status != domain.ProposalStatusOpen {
		return domain.Proposal{}, errProposalNotOpen()
	}

	p.Status = to
	p.UpdatedAt = s.clk.Now()
	if err := s.content.SaveProposal(ctx, p); err != nil {
		return domain.Proposal{}, err
	}
	return p, nil
}

// ConvertProposal schedules an approved proposal as an event on the given day
// and returns the created event. The proposal itself stays approved.
func (s *Service) ConvertProposal(ctx context.Context, id access.Identity, tripID domain.TripID, proposalID domain.ProposalID, in ConvertProposalInput) (domain.Event, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Event{}, err
	}
	p, err := s.getProposal(ctx, tripID, proposalID)
	if err != nil {
		return domain.Event{}, err
	}
	if p.Status != domain.ProposalStatusApproved {
		return domain.Event{}, &Error{
			Status:  422,
			Code:    "PROPOSAL_NOT_APPROVED",
			Message: "only approved proposals can be scheduled",
		}
	}
	d, err := s.content.GetDay(ctx, in.DayID)
	if err != nil || d.TripID != tripID {
		if err == nil || errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Event{}, errNotFound("DAY_NOT_FOUND", "day not found")
		}
		return domain.Event{}, err
	}
	if err := validateClockTime(in.StartTime); err != nil {
		return domain.Event{}, validationErr("startTime", err.Error())
	}
	if err := validateClockTime(in.EndTime); err != nil {
		return domain.Event{}, validationErr("endTime", err.Error())
	}

	existing, err := s.content.ListEvents(ctx, in.DayID)
	if err != nil {
		return domain.Event{}, err
	}

	now := s.clk.Now()
	e := domain.Event{
		ID:        domain.EventID(s.newID()),
		TripID:    tripID,
		DayID:     in.DayID,
		Title:     p.Title,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      eventTypeForCategory(p.Category),
		Links:     append([]string(nil), p.Links...),
		Order:     len(existing) + 1,
		Status:    domain.EventStatusPlanned,
		Notes:     p.Description,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.content.CreateEvent(ctx, e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

// requireMember is requireRole(needEdit) plus a user identity: proposals and
// votes are attributed to a user, which a share token cannot provide.
func (s *Service) requireMember(ctx context.Context, id access.Identity, tripID domain.TripID) (domain.UserID, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return "", err
	}
	if id.User == nil {
		return "", &Error{Status: 401, Code: "UNAUTHORIZED", Message: "authentication required"}
	}
	return id.User.ID, nil
}

func (s *Service) getProposal(ctx context.Context, tripID domain.TripID, proposalID domain.ProposalID) (domain.Proposal, error) {
	p, err := s.content.GetProposal(ctx, proposalID)
	if err != nil || p.TripID != tripID {
		if err == nil || errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Proposal{}, errNotFound("PROPOSAL_NOT_FOUND", "proposal not found")
		}
		return domain.Proposal{}, err
	}
	return p, nil
}

func errProposalNotOpen() *Error {
	return &Error{
		Status:  422,
		Code:    "PROPOSAL_NOT_OPEN",
		Message: "proposal is no longer open",
	}
}

func validProposalStatus(st domain.ProposalStatus) bool {
	switch st {
	case domain.ProposalStatusOpen, domain.ProposalStatusApproved, domain.ProposalStatusRejected:
		return true
	}
	return false
}

func validProposalCategory(c domain.ProposalCategory) bool {
	switch c {
	case domain.ProposalCategoryFood, domain.ProposalCategoryActivity, domain.ProposalCategoryStay,
		domain.ProposalCategoryTransport, domain.ProposalCategoryOther:
		return true
	}
	return false
}

func eventTypeForCategory(c domain.ProposalCategory) domain.EventType {
	switch c {
	case domain.ProposalCategoryFood:
		return domain.EventTypeFood
	case domain.ProposalCategoryStay:
		return domain.EventTypeHotel
	case domain.ProposalCategoryTransport:
		return domain.EventTypeTransport
	case domain.ProposalCategoryActivity:
		return domain.EventTypeSight
	default:
		return domain.EventTypeFree
	}
}
