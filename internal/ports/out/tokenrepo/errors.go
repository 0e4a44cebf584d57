package tokenrepo

import "errors"

// ErrNotFound indicates the requested token record does not exist.
var ErrNotFound = errors.New("token not found")
