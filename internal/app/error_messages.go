// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains user-facing message strings shared by the document
// store handlers and the dashboard runtime.
//
// Msg* constants are written into HTTP response bodies. The remaining
// constants are shown to dashboard users in the status line or the storage
// banner. Keeping them in one place keeps the wording consistent.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgInvalidAPIKey is returned when a project route is called without a
	// known X-API-Key header.
	MsgInvalidAPIKey = "invalid api key"

	// MsgDocumentNotFound is returned by get-one routes for missing documents.
	MsgDocumentNotFound = "document not found"

	// MsgPayloadTooLarge is returned when a document exceeds the configured
	// size limit.
	MsgPayloadTooLarge = "document too large"

	// MsgBatchTooLarge is returned when a batch carries more than 50 writes.
	MsgBatchTooLarge = "batch exceeds 50 writes"

	// MsgEmptyBatch is returned when a batch carries no writes.
	MsgEmptyBatch = "batch has no writes"

	// MsgAuthenticationRequired is returned by the upload endpoint when no
	// valid storage credential accompanies the request.
	MsgAuthenticationRequired = "authentication required"

	// MsgOAuthNotConfigured is returned when the storage client id or secret
	// is missing from the server configuration.
	MsgOAuthNotConfigured = "storage authorization is not configured"

	// MsgInvalidAuthState is returned when the callback carries an unknown
	// or expired state.
	MsgInvalidAuthState = "invalid or expired authorization state"

	// MsgUnexpectedResponseFormat is returned when the storage provider
	// answers with a body that is not JSON.
	MsgUnexpectedResponseFormat = "unexpected response format from storage provider"

	// MsgNoFileProvided is returned when the upload form has no "file" part.
	MsgNoFileProvided = "no file provided"

	// MsgIntegrityCheckFailed is returned when a signed write does not match
	// its HashSHA256 header.
	MsgIntegrityCheckFailed = "integrity check failed"
)

const (
	// StorageQuotaExceededMessage is the banner shown while local saves fail
	// because the local store has run out of capacity.
	StorageQuotaExceededMessage = "Local storage capacity exceeded: changes are kept in memory but not saved. Free up storage space or remove old records."

	// StorageFailureMessage is the banner shown for any other local save
	// failure.
	StorageFailureMessage = "Saving data locally failed. Changes are kept in memory until the next successful save."

	// SyncPayloadTooLargeMessage is the status text after a push rejected
	// for size.
	SyncPayloadTooLargeMessage = "Sync failed: a record is too large for the cloud store. Reduce attached data and try again."

	// SyncFailureMessage is the status text after any other push failure.
	SyncFailureMessage = "Sync failed. Changes will be retried on the next edit or with a manual push."

	// SyncSubscriptionFailureMessage is the status text after a live
	// subscription broke.
	SyncSubscriptionFailureMessage = "Lost connection to the cloud store. Update the cloud configuration to reconnect."

	// SyncInitFailureMessage is the status text when the cloud configuration
	// is malformed or the store could not be reached.
	SyncInitFailureMessage = "Cloud store could not be initialised. Check the API key and project id."

	// UploadAuthRequiredMessage is shown when attaching a document without a
	// linked storage account.
	UploadAuthRequiredMessage = "Link a storage account before attaching documents."
)
