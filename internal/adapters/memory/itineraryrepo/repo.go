package itineraryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/ports/out/itineraryrepo"
)

// Repo is an in-memory implementation of itineraryrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	days        map[domain.DayID]domain.Day
	events      map[domain.EventID]domain.Event
	places      map[domain.PlaceID]domain.Place
	bookings    map[domain.BookingID]domain.Booking
	suggestions map[domain.SuggestionID]domain.Suggestion
	proposals   map[domain.ProposalID]domain.Proposal
}

func NewRepo() *Repo {
	return &Repo{
		days:        make(map[domain.DayID]domain.Day),
		events:      make(map[domain.EventID]domain.Event),
		places:      make(map[domain.PlaceID]domain.Place),
		bookings:    make(map[domain.BookingID]domain.Booking),
		suggestions: make(map[domain.SuggestionID]domain.Suggestion),
		proposals:   make(map[domain.ProposalID]domain.Proposal),
	}
}

func (r *Repo) CreateDay(ctx context.Context, d domain.Day) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.days[d.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	r.days[d.ID] = d
	return nil
}

func (r *Repo) GetDay(ctx context.Context, id domain.DayID) (domain.Day, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.days[id]
	if !ok {
		return domain.Day{}, itineraryrepo.ErrNotFound
	}
	return d, nil
}

func (r *Repo) ListDays(ctx context.Context, tripID domain.TripID) ([]domain.Day, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Day, 0)
	for _, d := range r.days {
		if d.TripID == tripID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *Repo) GetEvent(ctx context.Context, id domain.EventID) (domain.Event, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return domain.Event{}, itineraryrepo.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *Repo) ListEvents(ctx context.Context, dayID domain.DayID) ([]domain.Event, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Event, 0)
	for _, e := range r.events {
		if e.DayID == dayID {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) SaveEvent(ctx context.Context, e domain.Event) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return itineraryrepo.ErrNotFound
	}
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *Repo) DeleteEvent(ctx context.Context, id domain.EventID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *Repo) CreatePlace(ctx context.Context, p domain.Place) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.places[p.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	r.places[p.ID] = clonePlace(p)
	return nil
}

func (r *Repo) GetPlace(ctx context.Context, id domain.PlaceID) (domain.Place, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.places[id]
	if !ok {
		return domain.Place{}, itineraryrepo.ErrNotFound
	}
	return clonePlace(p), nil
}

func (r *Repo) ListPlaces(ctx context.Context, tripID domain.TripID) ([]domain.Place, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Place, 0)
	for _, p := range r.places {
		if p.TripID == tripID {
			out = append(out, clonePlace(p))
		}
	}
	sortByCreated(out, func(p domain.Place) (int64, string) { return p.CreatedAt.UnixNano(), string(p.ID) })
	return out, nil
}

func (r *Repo) SavePlace(ctx context.Context, p domain.Place) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.places[p.ID]; !ok {
		return itineraryrepo.ErrNotFound
	}
	r.places[p.ID] = clonePlace(p)
	return nil
}

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	r.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *Repo) GetBooking(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.Booking{}, itineraryrepo.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *Repo) ListBookings(ctx context.Context, tripID domain.TripID) ([]domain.Booking, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range r.bookings {
		if b.TripID == tripID {
			out = append(out, cloneBooking(b))
		}
	}
	sortByCreated(out, func(b domain.Booking) (int64, string) { return b.CreatedAt.UnixNano(), string(b.ID) })
	return out, nil
}

func (r *Repo) SaveBooking(ctx context.Context, b domain.Booking) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return itineraryrepo.ErrNotFound
	}
	r.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id domain.BookingID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func (r *Repo) CreateSuggestion(ctx context.Context, s domain.Suggestion) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suggestions[s.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	r.suggestions[s.ID] = cloneSuggestion(s)
	return nil
}

func (r *Repo) ListSuggestions(ctx context.Context, tripID domain.TripID) ([]domain.Suggestion, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Suggestion, 0)
	for _, s := range r.suggestions {
		if s.TripID == tripID {
			out = append(out, cloneSuggestion(s))
		}
	}
	sortByCreated(out, func(s domain.Suggestion) (int64, string) { return s.CreatedAt.UnixNano(), string(s.ID) })
	return out, nil
}

func (r *Repo) CreateProposal(ctx context.Context, p domain.Proposal) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proposals[p.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	r.proposals[p.ID] = cloneProposal(p)
	return nil
}

func (r *Repo) GetProposal(ctx context.Context, id domain.ProposalID) (domain.Proposal, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.proposals[id]
	if !ok {
		return domain.Proposal{}, itineraryrepo.ErrNotFound
	}
	return cloneProposal(p), nil
}

func (r *Repo) ListProposals(ctx context.Context, tripID domain.TripID) ([]domain.Proposal, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Proposal, 0)
	for _, p := range r.proposals {
		if p.TripID == tripID {
			out = append(out, cloneProposal(p))
		}
	}
	sortByCreated(out, func(p domain.Proposal) (int64, string) { return p.CreatedAt.UnixNano(), string(p.ID) })
	return out, nil
}

func (r *Repo) SaveProposal(ctx context.Context, p domain.Proposal) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proposals[p.ID]; !ok {
		return itineraryrepo.ErrNotFound
	}
	r.proposals[p.ID] = cloneProposal(p)
	return nil
}

func sortByCreated[T any](items []T, key func(T) (int64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ci, idi := key(items[i])
		cj, idj := key(items[j])
		if ci != cj {
			return ci < cj
		}
		return idi < idj
	})
}

func cloneEvent(e domain.Event) domain.Event {
	out := e
	out.StartTime = cloneStringPtr(e.StartTime)
	out.EndTime = cloneStringPtr(e.EndTime)
	out.Notes = cloneStringPtr(e.Notes)
	if e.PlaceID != nil {
		v := *e.PlaceID
		out.PlaceID = &v
	}
	out.Links = append([]string(nil), e.Links...)
	if e.Transit != nil {
		t := *e.Transit
		if e.Transit.Mode != nil {
			m := *e.Transit.Mode
			t.Mode = &m
		}
		t.From = cloneStringPtr(e.Transit.From)
		t.To = cloneStringPtr(e.Transit.To)
		t.Instructions = cloneStringPtr(e.Transit.Instructions)
		t.Links = append([]string(nil), e.Transit.Links...)
		out.Transit = &t
	}
	return out
}

func clonePlace(p domain.Place) domain.Place {
	out := p
	out.Phone = cloneStringPtr(p.Phone)
	out.GoogleMapsURL = cloneStringPtr(p.GoogleMapsURL)
	out.Notes = cloneStringPtr(p.Notes)
	if p.Lat != nil {
		v := *p.Lat
		out.Lat = &v
	}
	if p.Lng != nil {
		v := *p.Lng
		out.Lng = &v
	}
	out.Tags = append([]string(nil), p.Tags...)
	return out
}

func cloneBooking(b domain.Booking) domain.Booking {
	out := b
	out.ConfirmationNumber = cloneStringPtr(b.ConfirmationNumber)
	out.StartTime = cloneStringPtr(b.StartTime)
	out.Location = cloneStringPtr(b.Location)
	out.Notes = cloneStringPtr(b.Notes)
	if b.Date != nil {
		v := *b.Date
		out.Date = &v
	}
	out.Links = append([]string(nil), b.Links...)
	return out
}

func cloneSuggestion(s domain.Suggestion) domain.Suggestion {
	out := s
	out.Type = cloneStringPtr(s.Type)
	out.Why = cloneStringPtr(s.Why)
	if s.PlaceID != nil {
		v := *s.PlaceID
		out.PlaceID = &v
	}
	out.Links = append([]string(nil), s.Links...)
	return out
}

func cloneProposal(p domain.Proposal) domain.Proposal {
	out := p
	out.Description = cloneStringPtr(p.Description)
	if p.SuggestedDayID != nil {
		v := *p.SuggestedDayID
		out.SuggestedDayID = &v
	}
	out.Links = append([]string(nil), p.Links...)
	out.Votes = append([]domain.ProposalVote(nil), p.Votes...)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
