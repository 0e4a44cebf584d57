package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/domain"
)

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	filter := itinerary.ProposalFilter{
		Status:   domain.ProposalStatus(r.URL.Query().Get("status")),
		Category: domain.ProposalCategory(r.URL.Query().Get("category")),
	}
	proposals, err := s.content.ListProposals(r.Context(), id, tripID, filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]proposalDTO, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, toProposalDTO(p))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req proposalCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	p, err := s.content.CreateProposal(r.Context(), id, tripID, req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toProposalDTO(p))
}

func (s *Server) handleVoteProposal(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	proposalID := domain.ProposalID(chi.URLParam(r, "proposalID"))

	var req proposalVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	p, err := s.content.VoteProposal(r.Context(), id, tripID, proposalID, domain.VoteValue(req.Value))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toProposalDTO(p))
}

func (s *Server) handleApproveProposal(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	proposalID := domain.ProposalID(chi.URLParam(r, "proposalID"))

	p, err := s.content.ApproveProposal(r.Context(), id, tripID, proposalID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toProposalDTO(p))
}

func (s *Server) handleRejectProposal(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	proposalID := domain.ProposalID(chi.URLParam(r, "proposalID"))

	p, err := s.content.RejectProposal(r.Context(), id, tripID, proposalID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toProposalDTO(p))
}

func (s *Server) handleConvertProposal(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	proposalID := domain.ProposalID(chi.URLParam(r, "proposalID"))

	var req proposalConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	e, err := s.content.ConvertProposal(r.Context(), id, tripID, proposalID, itinerary.ConvertProposalInput{
		DayID:     domain.DayID(req.DayID),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"event": toEventDTO(e)})
}
