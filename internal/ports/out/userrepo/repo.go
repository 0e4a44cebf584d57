package userrepo

import (
	"context"

	"github.com/trippio/trippio-api/internal/domain"
)

// Repository provides access to persisted user accounts.
//
// Email lookup is case-insensitive; callers pass emails through
// domain.NormalizeEmail before storage so the repository can compare exact
// strings.
type Repository interface {
	Create(ctx context.Context, u domain.User) error
	Update(ctx context.Context, u domain.User) error

	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}
