package httpapi

import (
	"github.com/trippio/trippio-api/internal/app/auth"
	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/app/sharing"
	"github.com/trippio/trippio-api/internal/app/trips"
)

// Server holds the application services the HTTP handlers delegate to.
type Server struct {
	auth    *auth.Service
	sharing *sharing.Service
	trips   *trips.Service
	content *itinerary.Service

	secureCookies bool
}

type ServerOptions struct {
	// SecureCookies marks the refresh cookie Secure. Disable only for plain
	// HTTP local development.
	SecureCookies bool
}

func NewServer(authSvc *auth.Service, sharingSvc *sharing.Service, tripsSvc *trips.Service, contentSvc *itinerary.Service, opts ServerOptions) *Server {
	return &Server{
		auth:          authSvc,
		sharing:       sharingSvc,
		trips:         tripsSvc,
		content:       contentSvc,
		secureCookies: opts.SecureCookies,
	}
}
