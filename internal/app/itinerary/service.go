package itinerary

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/trippio/trippio-api/internal/app/access"
	"github.com/trippio/trippio-api/internal/domain"
	clockport "github.com/trippio/trippio-api/internal/ports/out/clock"
	"github.com/trippio/trippio-api/internal/ports/out/itineraryrepo"
	"github.com/trippio/trippio-api/internal/ports/out/triprepo"
)

type Service struct {
	trips   triprepo.Repository
	content itineraryrepo.Repository
	clk     clockport.Clock

	newID func() string
}

func NewService(trips triprepo.Repository, content itineraryrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		trips:   trips,
		content: content,
		clk:     clk,
		newID:   uuid.NewString,
	}
}

// SetNewIDForTest overrides entity ID generation for deterministic tests.
func (s *Service) SetNewIDForTest(fn func() string) {
	if fn != nil {
		s.newID = fn
	}
}

// Days

func (s *Service) ListDays(ctx context.Context, id access.Identity, tripID domain.TripID) ([]domain.Day, error) {
	if err := s.requireRole(ctx, id, tripID, false); err != nil {
		return nil, err
	}
	return s.content.ListDays(ctx, tripID)
}

func (s *Service) GetDay(ctx context.Context, id access.Identity, tripID domain.TripID, dayID domain.DayID) (domain.Day, error) {
	if err := s.requireRole(ctx, id, tripID, false); err != nil {
		return domain.Day{}, err
	}
	d, err := s.content.GetDay(ctx, dayID)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Day{}, errNotFound("DAY_NOT_FOUND", "day not found")
		}
		return domain.Day{}, err
	}
	if d.TripID != tripID {
		return domain.Day{}, errNotFound("DAY_NOT_FOUND", "day not found")
	}
	return d, nil
}

func (s *Service) CreateDay(ctx context.Context, id access.Identity, tripID domain.TripID, in CreateDayInput) (domain.Day, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Day{}, err
	}
	if in.Date.IsZero() {
		return domain.Day{}, validationErr("date", "is required")
	}

	now := s.clk.Now()
	d := domain.Day{
		ID:        domain.DayID(s.newID()),
		TripID:    tripID,
		Date:      in.Date,
		City:      strings.TrimSpace(in.City),
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.content.CreateDay(ctx, d); err != nil {
		return domain.Day{}, err
	}
	return d, nil
}

// Events

func (s *Service) ListEvents(ctx context.Context, id access.Identity, tripID domain.TripID, dayID domain.DayID) ([]domain.Event, error) {
	if _, err := s.GetDay(ctx, id, tripID, dayID); err != nil {
		return nil, err
	}
	return s.content.ListEvents(ctx, dayID)
}

func (s *Service) CreateEvent(ctx context.Context, id access.Identity, tripID domain.TripID, dayID domain.DayID, in CreateEventInput) (domain.Event, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Event{}, err
	}
	d, err := s.content.GetDay(ctx, dayID)
	if err != nil || d.TripID != tripID {
		if err == nil || errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Event{}, errNotFound("DAY_NOT_FOUND", "day not found")
		}
		return domain.Event{}, err
	}

	title := domain.NormalizeTitle(in.Title)
	if title == "" {
		title = "Untitled"
	}
	typ := in.Type
	if typ == "" {
		typ = domain.EventTypeFree
	}
	if !validEventType(typ) {
		return domain.Event{}, validationErr("type", "unknown event type")
	}
	status := in.Status
	if status == "" {
		status = domain.EventStatusPlanned
	}
	if !validEventStatus(status) {
		return domain.Event{}, validationErr("status", "unknown event status")
	}
	if err := validateClockTime(in.StartTime); err != nil {
		return domain.Event{}, validationErr("startTime", err.Error())
	}
	if err := validateClockTime(in.EndTime); err != nil {
		return domain.Event{}, validationErr("endTime", err.Error())
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		existing, err := s.content.ListEvents(ctx, dayID)
		if err != nil {
			return domain.Event{}, err
		}
		order = len(existing) + 1
	}

	now := s.clk.Now()
	e := domain.Event{
		ID:        domain.EventID(s.newID()),
		TripID:    tripID,
		DayID:     dayID,
		Title:     title,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      typ,
		PlaceID:   in.PlaceID,
		Transit:   in.Transit,
		Links:     in.Links,
		Order:     order,
		Status:    status,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.content.CreateEvent(ctx, e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id access.Identity, tripID domain.TripID, eventID domain.EventID, in UpdateEventInput) (domain.Event, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Event{}, err
	}
	e, err := s.content.GetEvent(ctx, eventID)
	if err != nil || e.TripID != tripID {
		if err == nil || errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Event{}, errNotFound("EVENT_NOT_FOUND", "event not found")
		}
		return domain.Event{}, err
	}

	if in.Title.Set {
		title := domain.NormalizeTitle(in.Title.Value)
		if title == "" {
			return domain.Event{}, validationErr("title", "must be non-empty")
		}
		e.Title = title
	}
	if in.StartTime.Set {
		if err := validateClockTime(in.StartTime.Value); err != nil {
			return domain.Event{}, validationErr("startTime", err.Error())
		}
		e.StartTime = in.StartTime.Value
	}
	if in.EndTime.Set {
		if err := validateClockTime(in.EndTime.Value); err != nil {
			return domain.Event{}, validationErr("endTime", err.Error())
		}
		e.EndTime = in.EndTime.Value
	}
	if in.Type.Set {
		if !validEventType(in.Type.Value) {
			return domain.Event{}, validationErr("type", "unknown event type")
		}
		e.Type = in.Type.Value
	}
	if in.PlaceID.Set {
		e.PlaceID = in.PlaceID.Value
	}
	if in.Transit.Set {
		e.Transit = in.Transit.Value
	}
	if in.Links.Set {
		e.Links = in.Links.Value
	}
	if in.Order.Set {
		e.Order = in.Order.Value
	}
	if in.Status.Set {
		if !validEventStatus(in.Status.Value) {
			return domain.Event{}, validationErr("status", "unknown event status")
		}
		e.Status = in.Status.Value
	}
	if in.Notes.Set {
		e.Notes = in.Notes.Value
	}

	e.UpdatedAt = s.clk.Now()
	if err := s.content.SaveEvent(ctx, e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

// DeleteEvent removes an event. Deleting an already-deleted event succeeds.
func (s *Service) DeleteEvent(ctx context.Context, id access.Identity, tripID domain.TripID, eventID domain.EventID) error {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return err
	}
	e, err := s.content.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return nil
		}
		return err
	}
	if e.TripID != tripID {
		return nil
	}
	return s.content.DeleteEvent(ctx, eventID)
}

// Places

// ListPlaces returns the trip's places, optionally filtered by a
// case-insensitive substring match on name, address, or tags.
func (s *Service) ListPlaces(ctx context.Context, id access.Identity, tripID domain.TripID, query string) ([]domain.Place, error) {
	if err := s.requireRole(ctx, id, tripID, false); err != nil {
		return nil, err
	}
	places, err := s.content.ListPlaces(ctx, tripID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return places, nil
	}
	out := places[:0]
	for _, p := range places {
		if placeMatches(p, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) CreatePlace(ctx context.Context, id access.Identity, tripID domain.TripID, in CreatePlaceInput) (domain.Place, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Place{}, err
	}

	name := domain.NormalizeTitle(in.Name)
	if name == "" {
		name = "Unnamed Place"
	}
	now := s.clk.Now()
	p := domain.Place{
		ID:            domain.PlaceID(s.newID()),
		TripID:        tripID,
		Name:          name,
		Address:       strings.TrimSpace(in.Address),
		Phone:         in.Phone,
		Lat:           in.Lat,
		Lng:           in.Lng,
		GoogleMapsURL: in.GoogleMapsURL,
		Tags:          in.Tags,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.content.CreatePlace(ctx, p); err != nil {
		return domain.Place{}, err
	}
	return p, nil
}

func (s *Service) UpdatePlace(ctx context.Context, id access.Identity, tripID domain.TripID, placeID domain.PlaceID, in UpdatePlaceInput) (domain.Place, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Place{}, err
	}
	p, err := s.content.GetPlace(ctx, placeID)
	if err != nil || p.TripID != tripID {
		if err == nil || errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Place{}, errNotFound("PLACE_NOT_FOUND", "place not found")
		}
		return domain.Place{}, err
	}

	if in.Name.Set {
		name := domain.NormalizeTitle(in.Name.Value)
		if name == "" {
			return domain.Place{}, validationErr("name", "must be non-empty")
		}
		p.Name = name
	}
	if in.Address.Set {
		p.Address = strings.TrimSpace(in.Address.Value)
	}
	if in.Phone.Set {
		p.Phone = in.Phone.Value
	}
	if in.Lat.Set {
		p.Lat = in.Lat.Value
	}
	if in.Lng.Set {
		p.Lng = in.Lng.Value
	}
	if in.GoogleMapsURL.Set {
		p.GoogleMapsURL = in.GoogleMapsURL.Value
	}
	if in.Tags.Set {
		p.Tags = in.Tags.Value
	}
	if in.Notes.Set {
		p.Notes = in.Notes.Value
	}

	p.UpdatedAt = s.clk.Now()
	if err := s.content.SavePlace(ctx, p); err != nil {
		return domain.Place{}, err
	}
	return p, nil
}

// Bookings

func (s *Service) ListBookings(ctx context.Context, id access.Identity, tripID domain.TripID) ([]domain.Booking, error) {
	if err := s.requireRole(ctx, id, tripID, false); err != nil {
		return nil, err
	}
	return s.content.ListBookings(ctx, tripID)
}

func (s *Service) CreateBooking(ctx context.Context, id access.Identity, tripID domain.TripID, in CreateBookingInput) (domain.Booking, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Booking{}, err
	}

	title := domain.NormalizeTitle(in.Title)
	if title == "" {
		return domain.Booking{}, validationErr("title", "must be non-empty")
	}
	typ := in.Type
	if typ == "" {
		typ = domain.BookingTypeOther
	}
	if !validBookingType(typ) {
		return domain.Booking{}, validationErr("type", "unknown booking type")
	}
	if err := validateClockTime(in.StartTime); err != nil {
		return domain.Booking{}, validationErr("startTime", err.Error())
	}

	now := s.clk.Now()
	b := domain.Booking{
		ID:                 domain.BookingID(s.newID()),
		TripID:             tripID,
		Type:               typ,
		Title:              title,
		ConfirmationNumber: in.ConfirmationNumber,
		Date:               in.Date,
		StartTime:          in.StartTime,
		Location:           in.Location,
		Links:              in.Links,
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.content.CreateBooking(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (s *Service) UpdateBooking(ctx context.Context, id access.Identity, tripID domain.TripID, bookingID domain.BookingID, in UpdateBookingInput) (domain.Booking, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Booking{}, err
	}
	b, err := s.content.GetBooking(ctx, bookingID)
	if err != nil || b.TripID != tripID {
		if err == nil || errors.Is(err, itineraryrepo.ErrNotFound) {
			return domain.Booking{}, errNotFound("BOOKING_NOT_FOUND", "booking not found")
		}
		return domain.Booking{}, err
	}

	if in.Type.Set {
		if !validBookingType(in.Type.Value) {
			return domain.Booking{}, validationErr("type", "unknown booking type")
		}
		b.Type = in.Type.Value
	}
	if in.Title.Set {
		title := domain.NormalizeTitle(in.Title.Value)
		if title == "" {
			return domain.Booking{}, validationErr("title", "must be non-empty")
		}
		b.Title = title
	}
	if in.ConfirmationNumber.Set {
		b.ConfirmationNumber = in.ConfirmationNumber.Value
	}
	if in.Date.Set {
		b.Date = in.Date.Value
	}
	if in.StartTime.Set {
		if err := validateClockTime(in.StartTime.Value); err != nil {
			return domain.Booking{}, validationErr("startTime", err.Error())
		}
		b.StartTime = in.StartTime.Value
	}
	if in.Location.Set {
		b.Location = in.Location.Value
	}
	if in.Links.Set {
		b.Links = in.Links.Value
	}
	if in.Notes.Set {
		b.Notes = in.Notes.Value
	}

	b.UpdatedAt = s.clk.Now()
	if err := s.content.SaveBooking(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

// DeleteBooking removes a booking. Deleting a missing booking succeeds.
func (s *Service) DeleteBooking(ctx context.Context, id access.Identity, tripID domain.TripID, bookingID domain.BookingID) error {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return err
	}
	b, err := s.content.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return nil
		}
		return err
	}
	if b.TripID != tripID {
		return nil
	}
	return s.content.DeleteBooking(ctx, bookingID)
}

// Suggestions

// ListSuggestions returns the trip's suggestions, optionally filtered by city
// (case-insensitive exact match).
func (s *Service) ListSuggestions(ctx context.Context, id access.Identity, tripID domain.TripID, city string) ([]domain.Suggestion, error) {
	if err := s.requireRole(ctx, id, tripID, false); err != nil {
		return nil, err
	}
	all, err := s.content.ListSuggestions(ctx, tripID)
	if err != nil {
		return nil, err
	}
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return all, nil
	}
	out := all[:0]
	for _, sg := range all {
		if strings.ToLower(sg.City) == city {
			out = append(out, sg)
		}
	}
	return out, nil
}

func (s *Service) CreateSuggestion(ctx context.Context, id access.Identity, tripID domain.TripID, in CreateSuggestionInput) (domain.Suggestion, error) {
	if err := s.requireRole(ctx, id, tripID, true); err != nil {
		return domain.Suggestion{}, err
	}

	title := domain.NormalizeTitle(in.Title)
	if title == "" {
		return domain.Suggestion{}, validationErr("title", "must be non-empty")
	}
	city := strings.TrimSpace(in.City)
	if city == "" {
		return domain.Suggestion{}, validationErr("city", "must be non-empty")
	}

	now := s.clk.Now()
	sg := domain.Suggestion{
		ID:        domain.SuggestionID(s.newID()),
		TripID:    tripID,
		City:      city,
		Title:     title,
		PlaceID:   in.PlaceID,
		Type:      in.Type,
		Why:       in.Why,
		Links:     in.Links,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.content.CreateSuggestion(ctx, sg); err != nil {
		return domain.Suggestion{}, err
	}
	return sg, nil
}

// requireRole checks the caller's standing on the trip. Unknown trips are 404;
// no standing is 403; standing without edit rights is 403 on writes.
func (s *Service) requireRole(ctx context.Context, id access.Identity, tripID domain.TripID, needEdit bool) error {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return err
	}
	role, ok, err := access.TripRole(ctx, s.trips, id, tripID, s.clk.Now())
	if err != nil {
		return err
	}
	if !ok {
		return &Error{
			Status:  403,
			Code:    "TRIP_FORBIDDEN",
			Message: "You do not have access to this trip.",
		}
	}
	if needEdit && !role.CanEdit() {
		return &Error{
			Status:  403,
			Code:    "READ_ONLY",
			Message: "Your access to this trip is read-only.",
		}
	}
	return nil
}

func placeMatches(p domain.Place, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Address), query) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

func validEventType(t domain.EventType) bool {
	switch t {
	case domain.EventTypeSight, domain.EventTypeFood, domain.EventTypeTransport,
		domain.EventTypeHotel, domain.EventTypeFree:
		return true
	}
	return false
}

func validEventStatus(st domain.EventStatus) bool {
	switch st {
	case domain.EventStatusPlanned, domain.EventStatusDone, domain.EventStatusSkipped:
		return true
	}
	return false
}

func validBookingType(t domain.BookingType) bool {
	switch t {
	case domain.BookingTypeFlight, domain.BookingTypeHotel, domain.BookingTypeReservation,
		domain.BookingTypeRail, domain.BookingTypeActivity, domain.BookingTypeOther:
		return true
	}
	return false
}

func validateClockTime(v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if len(*v) != 5 || (*v)[2] != ':' {
		return errors.New(`must be "HH:mm"`)
	}
	hh := (*v)[:2]
	mm := (*v)[3:]
	for _, c := range hh + mm {
		if c < '0' || c > '9' {
			return errors.New(`must be "HH:mm"`)
		}
	}
	if hh > "23" || mm > "59" {
		return errors.New(`must be "HH:mm"`)
	}
	return nil
}
