package itineraryrepo

import (
	"context"

	"github.com/trippio/trippio-api/internal/domain"
)

// Repository provides access to persisted trip content: days, events, places,
// bookings, and suggestions.
//
// Result ordering expectations:
// - ListDays returns days ordered by Date ascending, then ID.
// - ListEvents returns events ordered by Order ascending, then ID.
// - Other list methods return records ordered by CreatedAt ascending, then ID.
type Repository interface {
	CreateDay(ctx context.Context, d domain.Day) error
	GetDay(ctx context.Context, id domain.DayID) (domain.Day, error)
	ListDays(ctx context.Context, tripID domain.TripID) ([]domain.Day, error)

	CreateEvent(ctx context.Context, e domain.Event) error
	GetEvent(ctx context.Context, id domain.EventID) (domain.Event, error)
	ListEvents(ctx context.Context, dayID domain.DayID) ([]domain.Event, error)
	SaveEvent(ctx context.Context, e domain.Event) error
	// DeleteEvent removes the event. Deleting a missing event is not an error.
	DeleteEvent(ctx context.Context, id domain.EventID) error

	CreatePlace(ctx context.Context, p domain.Place) error
	GetPlace(ctx context.Context, id domain.PlaceID) (domain.Place, error)
	ListPlaces(ctx context.Context, tripID domain.TripID) ([]domain.Place, error)
	SavePlace(ctx context.Context, p domain.Place) error

	CreateBooking(ctx context.Context, b domain.Booking) error
	GetBooking(ctx context.Context, id domain.BookingID) (domain.Booking, error)
	ListBookings(ctx context.Context, tripID domain.TripID) ([]domain.Booking, error)
	SaveBooking(ctx context.Context, b domain.Booking) error
	DeleteBooking(ctx context.Context, id domain.BookingID) error

	CreateSuggestion(ctx context.Context, s domain.Suggestion) error
	ListSuggestions(ctx context.Context, tripID domain.TripID) ([]domain.Suggestion, error)

	CreateProposal(ctx context.Context, p domain.Proposal) error
	GetProposal(ctx context.Context, id domain.ProposalID) (domain.Proposal, error)
	ListProposals(ctx context.Context, tripID domain.TripID) ([]domain.Proposal, error)
	SaveProposal(ctx context.Context, p domain.Proposal) error
}
