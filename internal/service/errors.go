package service

import "errors"

// Document store errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidProjectID    = errors.New("invalid project id")
	ErrPayloadTooLarge     = errors.New("document too large")
	ErrEmptyBatch          = errors.New("batch has no writes")
	ErrBatchTooLarge       = errors.New("batch exceeds write limit")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// Storage authorization and upload errors.
var (
	ErrOAuthNotConfigured       = errors.New("storage authorization is not configured")
	ErrInvalidAuthState         = errors.New("invalid or expired authorization state")
	ErrTokenExchangeFailed      = errors.New("authorization code exchange failed")
	ErrAuthenticationRequired   = errors.New("authentication required")
	ErrUnexpectedResponseFormat = errors.New("unexpected response format")
	ErrUploadFailed             = errors.New("upload failed")
)

// Dashboard runtime errors.
var (
	ErrRemoteNotConfigured = errors.New("remote store not configured")
	ErrInvalidCloudConfig  = errors.New("invalid cloud configuration")
	ErrWrongPassword       = errors.New("wrong username or password")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrRecordNotFound      = errors.New("record not found")
	ErrDuplicateRecord     = errors.New("record id already exists")
	ErrInstitutionInUse    = errors.New("institution still has beneficiaries")
	ErrUserExists          = errors.New("username already exists")
	ErrControllerStopped   = errors.New("dashboard controller stopped")
)
