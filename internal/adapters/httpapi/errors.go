package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/trippio/trippio-api/internal/app/auth"
	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/app/sharing"
	"github.com/trippio/trippio-api/internal/app/trips"
)

// writeAppError maps application-layer errors onto the error envelope.
// Anything without an app error shape is a 500 with a generic message; the
// underlying error is logged, never leaked.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		authErr      *auth.Error
		sharingErr   *sharing.Error
		tripsErr     *trips.Error
		itineraryErr *itinerary.Error
	)
	switch {
	case errors.As(err, &authErr):
		writeError(w, r, authErr.Status, authErr.Code, authErr.Message, authErr.Details)
	case errors.As(err, &sharingErr):
		writeError(w, r, sharingErr.Status, sharingErr.Code, sharingErr.Message, sharingErr.Details)
	case errors.As(err, &tripsErr):
		writeError(w, r, tripsErr.Status, tripsErr.Code, tripsErr.Message, tripsErr.Details)
	case errors.As(err, &itineraryErr):
		writeError(w, r, itineraryErr.Status, itineraryErr.Code, itineraryErr.Message, itineraryErr.Details)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
