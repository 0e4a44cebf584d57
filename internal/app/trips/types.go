package trips

import (
	"time"

	"github.com/trippio/trippio-api/internal/domain"
)

// CreateInput carries the fields for a new trip.
type CreateInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Timezone  string
}

// UpdateInput is a partial trip update. Nil fields are left unchanged.
type UpdateInput struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	Timezone  *string
}

// TripView pairs a trip with the caller's effective role on it.
type TripView struct {
	Trip domain.Trip
	Role domain.Role
}
