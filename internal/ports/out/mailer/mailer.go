package mailer

import "context"

// Mailer delivers magic-link emails. The application treats delivery as
// fire-and-forget: request-link reports success once the token is stored.
type Mailer interface {
	SendMagicLink(ctx context.Context, email string, link string) error
}
