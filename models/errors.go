package models

import "errors"

// Validation errors returned by the Validate methods of the schema structs.
// Callers match them with [errors.Is]; the concrete error usually wraps one of
// these with the offending field name.
var (
	// ErrInvalidID is returned when a record identifier is empty or contains
	// characters that cannot address a remote document.
	ErrInvalidID = errors.New("invalid record id")

	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("required field is missing")

	// ErrUnsupportedSchema is returned when a stored blob declares a schema
	// version newer than the one this build understands.
	ErrUnsupportedSchema = errors.New("unsupported schema version")

	// ErrUnknownCollection is returned for collection names other than
	// [CollectionInstitutions] and [CollectionBeneficiaries].
	ErrUnknownCollection = errors.New("unknown collection")
)
