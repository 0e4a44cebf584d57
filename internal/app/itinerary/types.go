package itinerary

import (
	"time"

	"github.com/trippio/trippio-api/internal/domain"
)

// Optional is a tri-state update field: absent (leave unchanged), or present
// with a value — which for pointer-typed fields may be nil, meaning clear.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// CreateDayInput carries the fields for a new itinerary day.
type CreateDayInput struct {
	Date  time.Time
	City  string
	Notes string
}

// CreateEventInput carries the fields for a new event. Zero-value fields fall
// back to defaults: title "Untitled", type "free", status "planned", order
// appended after the day's existing events.
type CreateEventInput struct {
	Title     string
	StartTime *string
	EndTime   *string
	Type      domain.EventType
	PlaceID   *domain.PlaceID
	Transit   *domain.TransitInfo
	Links     []string
	Order     *int
	Status    domain.EventStatus
	Notes     *string
}

// UpdateEventInput is a partial event update.
type UpdateEventInput struct {
	Title     Optional[string]
	StartTime Optional[*string]
	EndTime   Optional[*string]
	Type      Optional[domain.EventType]
	PlaceID   Optional[*domain.PlaceID]
	Transit   Optional[*domain.TransitInfo]
	Links     Optional[[]string]
	Order     Optional[int]
	Status    Optional[domain.EventStatus]
	Notes     Optional[*string]
}

// CreatePlaceInput carries the fields for a new place. An empty name defaults
// to "Unnamed Place".
type CreatePlaceInput struct {
	Name          string
	Address       string
	Phone         *string
	Lat           *float64
	Lng           *float64
	GoogleMapsURL *string
	Tags          []string
	Notes         *string
}

// UpdatePlaceInput is a partial place update.
type UpdatePlaceInput struct {
	Name          Optional[string]
	Address       Optional[string]
	Phone         Optional[*string]
	Lat           Optional[*float64]
	Lng           Optional[*float64]
	GoogleMapsURL Optional[*string]
	Tags          Optional[[]string]
	Notes         Optional[*string]
}

// CreateBookingInput carries the fields for a new booking.
type CreateBookingInput struct {
	Type               domain.BookingType
	Title              string
	ConfirmationNumber *string
	Date               *time.Time
	StartTime          *string
	Location           *string
	Links              []string
	Notes              *string
}

// UpdateBookingInput is a partial booking update.
type UpdateBookingInput struct {
	Type               Optional[domain.BookingType]
	Title              Optional[string]
	ConfirmationNumber Optional[*string]
	Date               Optional[*time.Time]
	StartTime          Optional[*string]
	Location           Optional[*string]
	Links              Optional[[]string]
	Notes              Optional[*string]
}

// CreateSuggestionInput carries the fields for a new suggestion.
type CreateSuggestionInput struct {
	City    string
	Title   string
	PlaceID *domain.PlaceID
	Type    *string
	Why     *string
	Links   []string
}

// CreateProposalInput carries the fields for a new proposal. An empty category
// defaults to "other". New proposals always start open.
type CreateProposalInput struct {
	Title          string
	Category       domain.ProposalCategory
	Description    *string
	Links          []string
	SuggestedDayID *domain.DayID
}

// ProposalFilter narrows a proposal listing. Empty fields match everything.
type ProposalFilter struct {
	Status   domain.ProposalStatus
	Category domain.ProposalCategory
}

// ConvertProposalInput places an approved proposal on an itinerary day.
type ConvertProposalInput struct {
	DayID     domain.DayID
	StartTime *string
	EndTime   *string
}
