package service

import "errors"

// Business-rule violations are sentinel errors; the HTTP layer maps
// them to status codes. Anything else that escapes a service call is a
// storage failure and surfaces as a 500.
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrSelfConnection   = errors.New("cannot send a request to yourself")
	ErrAlreadyPending   = errors.New("request already pending")
	ErrAlreadyConnected = errors.New("already connected")
)
