package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trippio/trippio-api/internal/platform/token"
)

// NewRouter wires the API routes.
//
// Auth resolution is optional at the middleware level: routes that need a user
// or a trip role enforce it themselves, which lets the share-resolution route
// serve both anonymous and signed-in callers.
func NewRouter(s *Server, verifier *token.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint is deliberately out-of-contract (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(NewAuthMiddleware(verifier))

		r.Post("/auth/request-link", s.handleRequestLink)
		r.Get("/auth/verify", s.handleVerify)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/logout", s.handleLogout)

		r.Get("/share/{token}", s.handleResolveShare)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.handleListTrips)
			r.Post("/", s.handleCreateTrip)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.handleGetTrip)
				r.Patch("/", s.handleUpdateTrip)

				r.Post("/share-links", s.handleCreateShareLink)
				r.Get("/share-links", s.handleListShareLinks)
				r.Delete("/share-links/{linkID}", s.handleRevokeShareLink)

				r.Get("/collaborators", s.handleListCollaborators)
				r.Patch("/collaborators/{userID}", s.handleUpdateCollaborator)
				r.Delete("/collaborators/{userID}", s.handleRemoveCollaborator)

				r.Get("/days", s.handleListDays)
				r.Post("/days", s.handleCreateDay)
				r.Get("/days/{dayID}", s.handleGetDay)
				r.Get("/days/{dayID}/events", s.handleListEvents)
				r.Post("/days/{dayID}/events", s.handleCreateEvent)
				r.Patch("/events/{eventID}", s.handleUpdateEvent)
				r.Delete("/events/{eventID}", s.handleDeleteEvent)

				r.Get("/places", s.handleListPlaces)
				r.Post("/places", s.handleCreatePlace)
				r.Patch("/places/{placeID}", s.handleUpdatePlace)

				r.Get("/bookings", s.handleListBookings)
				r.Post("/bookings", s.handleCreateBooking)
				r.Patch("/bookings/{bookingID}", s.handleUpdateBooking)
				r.Delete("/bookings/{bookingID}", s.handleDeleteBooking)

				r.Get("/suggestions", s.handleListSuggestions)
				r.Post("/suggestions", s.handleCreateSuggestion)

				r.Get("/proposals", s.handleListProposals)
				r.Post("/proposals", s.handleCreateProposal)
				r.Post("/proposals/{proposalID}/vote", s.handleVoteProposal)
				r.Post("/proposals/{proposalID}/approve", s.handleApproveProposal)
				r.Post("/proposals/{proposalID}/reject", s.handleRejectProposal)
				r.Post("/proposals/{proposalID}/convert", s.handleConvertProposal)
			})
		})
	})

	return r
}
