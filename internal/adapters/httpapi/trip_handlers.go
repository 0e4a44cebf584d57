package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trippio/trippio-api/internal/app/trips"
	"github.com/trippio/trippio-api/internal/domain"
)

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := s.trips.List(r.Context(), user.ID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]tripDTO, 0, len(list))
	for _, t := range list {
		out = append(out, toTripDTO(t, ""))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req tripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	t, err := s.trips.Create(r.Context(), user, trips.CreateInput{
		Name:      req.Name,
		StartDate: req.StartDate.Time,
		EndDate:   req.EndDate.Time,
		Timezone:  req.Timezone,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toTripDTO(t, domain.RoleOwner))
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	view, err := s.trips.Get(r.Context(), id, tripID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toTripDTO(view.Trip, view.Role))
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req tripPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	in := trips.UpdateInput{
		Name:     req.Name,
		Timezone: req.Timezone,
	}
	if req.StartDate != nil {
		in.StartDate = &req.StartDate.Time
	}
	if req.EndDate != nil {
		in.EndDate = &req.EndDate.Time
	}

	t, err := s.trips.Update(r.Context(), id, tripID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toTripDTO(t, ""))
}

// --- share links (owner-only) ---

func (s *Server) handleCreateShareLink(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req shareLinkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	created, err := s.sharing.CreateShareLink(r.Context(), user.ID, tripID, domain.Role(req.Role), req.ExpiresInDays)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toShareLinkDTO(created.Link, created.URL))
}

func (s *Server) handleListShareLinks(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	links, err := s.sharing.ListShareLinks(r.Context(), user.ID, tripID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]shareLinkDTO, 0, len(links))
	for _, l := range links {
		out = append(out, toShareLinkDTO(l, ""))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleRevokeShareLink(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	linkID := domain.ShareLinkID(chi.URLParam(r, "linkID"))

	if err := s.sharing.RevokeShareLink(r.Context(), user.ID, tripID, linkID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"ok": true})
}

// --- collaborators (owner-only) ---

func (s *Server) handleListCollaborators(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	collabs, err := s.sharing.ListCollaborators(r.Context(), user.ID, tripID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]collaboratorDTO, 0, len(collabs))
	for _, c := range collabs {
		out = append(out, toCollaboratorDTO(c))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCollaborator(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	targetID := domain.UserID(chi.URLParam(r, "userID"))

	var req collaboratorPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	c, err := s.sharing.UpdateCollaboratorRole(r.Context(), user.ID, tripID, targetID, domain.Role(req.Role))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toCollaboratorDTO(c))
}

func (s *Server) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	targetID := domain.UserID(chi.URLParam(r, "userID"))

	if err := s.sharing.RemoveCollaborator(r.Context(), user.ID, tripID, targetID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"ok": true})
}
