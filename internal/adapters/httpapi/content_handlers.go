package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/domain"
)

// --- days ---

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	days, err := s.content.ListDays(r.Context(), id, tripID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]dayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, toDayDTO(d))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	dayID := domain.DayID(chi.URLParam(r, "dayID"))

	d, err := s.content.GetDay(r.Context(), id, tripID, dayID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toDayDTO(d))
}

func (s *Server) handleCreateDay(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req dayCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	d, err := s.content.CreateDay(r.Context(), id, tripID, itinerary.CreateDayInput{
		Date:  req.Date.Time,
		City:  req.City,
		Notes: req.Notes,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toDayDTO(d))
}

// --- events ---

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	dayID := domain.DayID(chi.URLParam(r, "dayID"))

	events, err := s.content.ListEvents(r.Context(), id, tripID, dayID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]eventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, toEventDTO(e))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	dayID := domain.DayID(chi.URLParam(r, "dayID"))

	var req eventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	e, err := s.content.CreateEvent(r.Context(), id, tripID, dayID, req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toEventDTO(e))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	eventID := domain.EventID(chi.URLParam(r, "eventID"))

	var req eventPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	e, err := s.content.UpdateEvent(r.Context(), id, tripID, eventID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toEventDTO(e))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	eventID := domain.EventID(chi.URLParam(r, "eventID"))

	if err := s.content.DeleteEvent(r.Context(), id, tripID, eventID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"ok": true})
}

// --- places ---

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	places, err := s.content.ListPlaces(r.Context(), id, tripID, r.URL.Query().Get("q"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]placeDTO, 0, len(places))
	for _, p := range places {
		out = append(out, toPlaceDTO(p))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req placeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	p, err := s.content.CreatePlace(r.Context(), id, tripID, req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toPlaceDTO(p))
}

func (s *Server) handleUpdatePlace(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	placeID := domain.PlaceID(chi.URLParam(r, "placeID"))

	var req placePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	p, err := s.content.UpdatePlace(r.Context(), id, tripID, placeID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toPlaceDTO(p))
}

// --- bookings ---

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	bookings, err := s.content.ListBookings(r.Context(), id, tripID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req bookingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	b, err := s.content.CreateBooking(r.Context(), id, tripID, req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toBookingDTO(b))
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	bookingID := domain.BookingID(chi.URLParam(r, "bookingID"))

	var req bookingPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	b, err := s.content.UpdateBooking(r.Context(), id, tripID, bookingID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toBookingDTO(b))
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	bookingID := domain.BookingID(chi.URLParam(r, "bookingID"))

	if err := s.content.DeleteBooking(r.Context(), id, tripID, bookingID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"ok": true})
}

// --- suggestions ---

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	suggestions, err := s.content.ListSuggestions(r.Context(), id, tripID, r.URL.Query().Get("city"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]suggestionDTO, 0, len(suggestions))
	for _, sg := range suggestions {
		out = append(out, toSuggestionDTO(sg))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateSuggestion(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req suggestionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	sg, err := s.content.CreateSuggestion(r.Context(), id, tripID, req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toSuggestionDTO(sg))
}
