package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/lks-registry/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DocumentRepository persists the documents of every project: one config
// document per project and per-ID documents in the lks and pm collections.
// Writes merge top-level fields into the stored document.
type DocumentRepository interface {
	GetConfig(ctx context.Context, projectID string) (json.RawMessage, error)
	MergeConfig(ctx context.Context, projectID string, data json.RawMessage) error

	GetDocument(ctx context.Context, projectID, collection, docID string) (models.Document, error)
	ListDocuments(ctx context.Context, projectID, collection string) ([]models.Document, error)
	MergeDocument(ctx context.Context, projectID, collection, docID string, data json.RawMessage) error
	DeleteDocument(ctx context.Context, projectID, collection, docID string) error

	// CommitBatch applies all writes in one transaction.
	CommitBatch(ctx context.Context, projectID string, writes []models.WriteOp) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// StateStore keeps short-lived authorization flow state keyed by the
// OAuth state parameter.
type StateStore interface {
	// Put stores value under state for ttl, replacing any previous value.
	Put(ctx context.Context, state, value string, ttl time.Duration) error
	// Get returns the value stored under state or [ErrStateNotFound].
	Get(ctx context.Context, state string) (string, error)
	// Delete removes state. Removing a missing state is not an error.
	Delete(ctx context.Context, state string) error
}
