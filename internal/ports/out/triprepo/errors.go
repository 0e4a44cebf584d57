package triprepo

import "errors"

var (
	// ErrNotFound indicates the requested trip does not exist.
	ErrNotFound = errors.New("trip not found")

	// ErrAlreadyExists indicates a trip already exists with the provided ID.
	ErrAlreadyExists = errors.New("trip already exists")

	// ErrCollaboratorNotFound indicates no collaborator record exists for the
	// trip/user pair.
	ErrCollaboratorNotFound = errors.New("collaborator not found")

	// ErrCollaboratorExists indicates a collaborator record already exists for
	// the trip/user pair.
	ErrCollaboratorExists = errors.New("collaborator already exists")

	// ErrShareLinkNotFound indicates the requested share link does not exist.
	ErrShareLinkNotFound = errors.New("share link not found")
)
