package domain

import "time"

// User is the domain representation of an authenticated account.
//
// Accounts are provisioned lazily: the first verified magic link for an email
// address creates the user record.
type User struct {
	ID    UserID
	Email string

	CreatedAt time.Time
	UpdatedAt time.Time
}
