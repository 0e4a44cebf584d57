package domain

import "time"

// Day is one itinerary day of a trip. Days are ordered by Date; the 1-indexed
// day number is derived from sorted position, not stored.
type Day struct {
	ID     DayID
	TripID TripID

	Date  time.Time // date-only semantics at the edges
	City  string
	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventType string

const (
	EventTypeSight     EventType = "sight"
	EventTypeFood      EventType = "food"
	EventTypeTransport EventType = "transport"
	EventTypeHotel     EventType = "hotel"
	EventTypeFree      EventType = "free"
)

type EventStatus string

const (
	EventStatusPlanned EventStatus = "planned"
	EventStatusDone    EventStatus = "done"
	EventStatusSkipped EventStatus = "skipped"
)

type TransitMode string

const (
	TransitModeTrain TransitMode = "train"
	TransitModeUber  TransitMode = "uber"
	TransitModeWalk  TransitMode = "walk"
	TransitModeBus   TransitMode = "bus"
	TransitModeOther TransitMode = "other"
)

// TransitInfo is free-form routing help attached to an event.
type TransitInfo struct {
	Mode         *TransitMode
	From         *string
	To           *string
	Instructions *string // lines, stations, platform hints
	Links        []string
}

// Event is a scheduled item on an itinerary day.
type Event struct {
	ID     EventID
	TripID TripID
	DayID  DayID

	Title     string
	StartTime *string // "HH:mm"
	EndTime   *string
	Type      EventType
	PlaceID   *PlaceID
	Transit   *TransitInfo
	Links     []string
	Order     int
	Status    EventStatus
	Notes     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Place is a saved location referenced by events.
type Place struct {
	ID     PlaceID
	TripID TripID

	Name          string
	Address       string
	Phone         *string
	Lat           *float64
	Lng           *float64
	GoogleMapsURL *string
	Tags          []string
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BookingType string

const (
	BookingTypeFlight      BookingType = "flight"
	BookingTypeHotel       BookingType = "hotel"
	BookingTypeReservation BookingType = "reservation"
	BookingTypeRail        BookingType = "rail"
	BookingTypeActivity    BookingType = "activity"
	BookingTypeOther       BookingType = "other"
)

// Booking is a confirmed reservation attached to a trip.
type Booking struct {
	ID     BookingID
	TripID TripID

	Type               BookingType
	Title              string
	ConfirmationNumber *string
	Date               *time.Time // date-only semantics at the edges
	StartTime          *string    // "HH:mm"
	Location           *string
	Links              []string
	Notes              *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProposalCategory string

const (
	ProposalCategoryFood      ProposalCategory = "food"
	ProposalCategoryActivity  ProposalCategory = "activity"
	ProposalCategoryStay      ProposalCategory = "stay"
	ProposalCategoryTransport ProposalCategory = "transport"
	ProposalCategoryOther     ProposalCategory = "other"
)

type ProposalStatus string

const (
	ProposalStatusOpen     ProposalStatus = "open"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

type VoteValue string

const (
	VoteYes VoteValue = "yes"
	VoteNo  VoteValue = "no"
)

// ProposalVote records one collaborator's stance on a proposal. A user holds
// at most one vote per proposal; voting again replaces the earlier value.
type ProposalVote struct {
	UserID UserID
	Value  VoteValue
}

// Proposal is an idea the group votes on before it is scheduled. Approved
// proposals can be converted into an event on a chosen day.
type Proposal struct {
	ID     ProposalID
	TripID TripID

	Title          string
	Category       ProposalCategory
	Description    *string
	Links          []string
	SuggestedDayID *DayID

	Status     ProposalStatus
	Votes      []ProposalVote
	ProposedBy UserID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetVote records the user's vote, replacing any earlier one.
func (p *Proposal) SetVote(userID UserID, value VoteValue) {
	for i, v := range p.Votes {
		if v.UserID == userID {
			p.Votes[i].Value = value
			return
		}
	}
	p.Votes = append(p.Votes, ProposalVote{UserID: userID, Value: value})
}

// Suggestion is a proposed activity for a city, not yet scheduled.
type Suggestion struct {
	ID     SuggestionID
	TripID TripID

	City    string
	Title   string
	PlaceID *PlaceID
	Type    *string
	Why     *string
	Links   []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
