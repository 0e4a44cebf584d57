package logmailer

import (
	"context"
	"log"
)

// Mailer writes magic links to the process log instead of sending email.
// It backs local development and the memory storage profile; production
// deployments substitute a real delivery adapter.
type Mailer struct{}

func New() Mailer { return Mailer{} }

func (Mailer) SendMagicLink(ctx context.Context, email string, link string) error {
	_ = ctx
	log.Printf("magic link for %s: %s", email, link)
	return nil
}
