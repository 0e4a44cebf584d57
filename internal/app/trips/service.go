package trips

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trippio/trippio-api/internal/app/access"
	"github.com/trippio/trippio-api/internal/domain"
	clockport "github.com/trippio/trippio-api/internal/ports/out/clock"
	"github.com/trippio/trippio-api/internal/ports/out/triprepo"
)

type Service struct {
	trips triprepo.Repository
	clk   clockport.Clock

	newTripID func() domain.TripID
}

func NewService(trips triprepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		trips: trips,
		clk:   clk,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// Create makes a new trip with the caller as owner.
func (s *Service) Create(ctx context.Context, caller access.User, in CreateInput) (domain.Trip, error) {
	name := domain.NormalizeTitle(in.Name)
	if name == "" {
		return domain.Trip{}, validationErr("name", "must be non-empty")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.Trip{}, validationErr("dates", "startDate and endDate are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.Trip{}, validationErr("endDate", "must not be before startDate")
	}
	if in.Timezone != "" {
		if _, err := time.LoadLocation(in.Timezone); err != nil {
			return domain.Trip{}, validationErr("timezone", "must be a valid IANA zone name")
		}
	}

	now := s.clk.Now()
	t := domain.Trip{
		ID:        s.newTripID(),
		Name:      name,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Timezone:  in.Timezone,
		CreatedBy: caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return domain.Trip{}, err
	}
	err := s.trips.AddCollaborator(ctx, domain.Collaborator{
		TripID:  t.ID,
		UserID:  caller.ID,
		Email:   caller.Email,
		Role:    domain.RoleOwner,
		AddedAt: now,
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

// List returns the trips the user collaborates on, ordered by start date.
func (s *Service) List(ctx context.Context, caller domain.UserID) ([]domain.Trip, error) {
	return s.trips.ListForUser(ctx, caller)
}

// Get returns a trip together with the caller's role on it. A caller without
// standing gets 403, not the trip; an unknown trip gets 404.
func (s *Service) Get(ctx context.Context, id access.Identity, tripID domain.TripID) (TripView, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return TripView{}, errTripNotFound()
		}
		return TripView{}, err
	}
	role, ok, err := access.TripRole(ctx, s.trips, id, tripID, s.clk.Now())
	if err != nil {
		return TripView{}, err
	}
	if !ok {
		return TripView{}, errTripForbidden()
	}
	return TripView{Trip: t, Role: role}, nil
}

// Update applies a partial update. Editor or owner only.
func (s *Service) Update(ctx context.Context, id access.Identity, tripID domain.TripID, in UpdateInput) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, errTripNotFound()
		}
		return domain.Trip{}, err
	}
	role, ok, err := access.TripRole(ctx, s.trips, id, tripID, s.clk.Now())
	if err != nil {
		return domain.Trip{}, err
	}
	if !ok {
		return domain.Trip{}, errTripForbidden()
	}
	if !role.CanEdit() {
		return domain.Trip{}, errReadOnly()
	}

	if in.Name != nil {
		name := domain.NormalizeTitle(*in.Name)
		if name == "" {
			return domain.Trip{}, validationErr("name", "must be non-empty")
		}
		t.Name = name
	}
	if in.StartDate != nil {
		t.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		t.EndDate = *in.EndDate
	}
	if t.EndDate.Before(t.StartDate) {
		return domain.Trip{}, validationErr("endDate", "must not be before startDate")
	}
	if in.Timezone != nil {
		if *in.Timezone != "" {
			if _, err := time.LoadLocation(*in.Timezone); err != nil {
				return domain.Trip{}, validationErr("timezone", "must be a valid IANA zone name")
			}
		}
		t.Timezone = *in.Timezone
	}

	t.UpdatedAt = s.clk.Now()
	if err := s.trips.Save(ctx, t); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

func validationErr(field, msg string) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid " + field,
		Details: map[string]any{field: msg},
	}
}

func errTripNotFound() *Error {
	return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
}

func errTripForbidden() *Error {
	return &Error{
		Status:  403,
		Code:    "TRIP_FORBIDDEN",
		Message: "You do not have access to this trip.",
	}
}

func errReadOnly() *Error {
	return &Error{
		Status:  403,
		Code:    "READ_ONLY",
		Message: "Your access to this trip is read-only.",
	}
}
