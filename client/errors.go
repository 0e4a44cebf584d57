package client

import (
	"errors"
	"fmt"
)

// ErrSuperseded reports that a share resolution finished after the session
// changed underneath it; its result was discarded.
var ErrSuperseded = errors.New("share resolution superseded by a newer session change")

// ErrClaimFailed reports a share resolution that answered with a grant the
// client will not install. Terminal: re-resolving the same link will not help.
var ErrClaimFailed = errors.New("could not claim editor access")

// TransportError wraps a failure to reach the server at all: DNS, dial,
// timeout, canceled context. The request may or may not have been received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthenticationError is a 401: the caller's credential is missing, invalid,
// expired, or revoked. Message carries the server's wording verbatim.
type AuthenticationError struct {
	Code    string
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication required"
}

// AuthorizationError is a 403: the caller is known but not allowed.
type AuthorizationError struct {
	Code    string
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "forbidden"
}

// NotFoundError is a 404.
type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "not found"
}

// APIError covers remaining non-2xx statuses (validation failures, conflicts,
// server errors).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// IsShareLinkInvalid reports whether err is the server's "link expired or
// revoked" classification, which callers present differently from a generic
// authentication failure.
func IsShareLinkInvalid(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae) && ae.Code == "SHARE_LINK_INVALID"
}
