package session

import "errors"

var (
	// ErrInvalidEmail is returned when sign-in is attempted with an
	// empty or whitespace-only email.
	ErrInvalidEmail = errors.New("a valid email is required to sign in")
)
