package client

import (
	"context"
	"net/http"
	"time"
)

// Trip is a trip as reported by the server. Role is the caller's effective
// role when the server includes it (single-trip reads).
type Trip struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Timezone  string    `json:"timezone"`
	CreatedBy string    `json:"createdBy"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListTrips returns the trips the signed-in user collaborates on.
func (c *Client) ListTrips(ctx context.Context) ([]Trip, error) {
	var out []Trip
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/trips",
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrip returns one trip. Works for collaborators and for share sessions
// scoped to that trip.
func (c *Client) GetTrip(ctx context.Context, tripID string) (Trip, error) {
	var out Trip
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/trips/" + tripID,
		out:    &out,
	})
	if err != nil {
		return Trip{}, err
	}
	return out, nil
}
