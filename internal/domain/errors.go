package domain

import "errors"

// Error classes surfaced by the scoring engine and the services around it.
// Callers classify with errors.Is; messages carry the specifics.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrNotWaiting    = errors.New("not waiting")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
)
