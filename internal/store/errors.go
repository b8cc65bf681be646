package store

import "errors"

// Sentinel errors returned by repository and storage methods to signal
// well-known failure conditions. Callers should use [errors.Is] to match
// against these values.
var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrPayloadTooLarge is returned when the database rejects a document
	// because it exceeds an internal size limit.
	ErrPayloadTooLarge = errors.New("document payload too large")

	// ErrKeyNotFound is returned by local storage when a key was never saved.
	ErrKeyNotFound = errors.New("local key not found")

	// ErrQuotaExceeded is returned by local storage when a save would exceed
	// the configured quota or the device is out of space. Nothing is written
	// in that case.
	ErrQuotaExceeded = errors.New("local storage quota exceeded")

	// ErrStateNotFound is returned by a [StateStore] for unknown or expired
	// states.
	ErrStateNotFound = errors.New("authorization state not found")

	// ErrUnknownDriver is returned for an unsupported local storage driver.
	ErrUnknownDriver = errors.New("unknown local storage driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan document row")

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan document rows")
)
