package domain

// UserID is an internal identifier for an authenticated user account.
type UserID string

// TripID is an internal identifier for a trip record.
type TripID string

// DayID is an internal identifier for an itinerary day.
type DayID string

// EventID is an internal identifier for a scheduled event.
type EventID string

// PlaceID is an internal identifier for a saved place.
type PlaceID string

// BookingID is an internal identifier for a booking record.
type BookingID string

// SuggestionID is an internal identifier for a suggestion record.
type SuggestionID string

// ProposalID is an internal identifier for a proposal record.
type ProposalID string

// ShareLinkID is an internal identifier for a share link record.
type ShareLinkID string
