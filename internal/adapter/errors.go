package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("authentication required")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrInternalServerError = errors.New("internal server error")

	// ErrUnexpectedResponseFormat is returned when a response body that
	// should be JSON is not.
	ErrUnexpectedResponseFormat = errors.New("unexpected response format")

	// ErrSubscriptionClosed is passed to the error callback of a
	// subscription the server closed.
	ErrSubscriptionClosed = errors.New("subscription closed by server")
)
