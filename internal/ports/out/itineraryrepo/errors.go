package itineraryrepo

import "errors"

// ErrNotFound indicates the requested record does not exist. The repository
// covers several record kinds; call sites know which lookup failed.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a record already exists with the provided ID.
var ErrAlreadyExists = errors.New("record already exists")
