package httpapi

import (
	"context"

	"github.com/trippio/trippio-api/internal/app/access"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id access.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the request's resolved identity. Requests that
// carried no bearer token resolve to the anonymous identity.
func IdentityFromContext(ctx context.Context) access.Identity {
	v, _ := ctx.Value(identityKey{}).(access.Identity)
	return v
}
