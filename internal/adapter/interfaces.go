// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the remote document store
// protocol and of the attachment upload service.
//
// [DocumentStore] is a handle bound to one project (projects/{projectId})
// with its nested collections "lks" and "pm". Reads and writes use REST over
// resty; live subscriptions use a websocket per target.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] (e.g. [ErrPayloadTooLarge]
// for 413, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"encoding/json"
	"io"

	"github.com/MKhiriev/lks-registry/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// DocumentStore is a handle to one remote project.
type DocumentStore interface {
	// ProjectID returns the project the handle is bound to.
	ProjectID() string

	// GetConfig returns the config document. [ErrNotFound] means the
	// project has no config yet.
	GetConfig(ctx context.Context) (json.RawMessage, error)

	// MergeConfig merges the top-level fields of data into the config
	// document, creating it when missing.
	MergeConfig(ctx context.Context, data json.RawMessage) error

	// GetDocument returns one document of collection.
	GetDocument(ctx context.Context, collection, id string) (models.Document, error)

	// ListDocuments returns every document of collection.
	ListDocuments(ctx context.Context, collection string) ([]models.Document, error)

	// MergeDocument merges data into collection/id, creating it when missing.
	MergeDocument(ctx context.Context, collection, id string, data json.RawMessage) error

	// DeleteDocument removes collection/id. Deleting a missing document is
	// not an error.
	DeleteDocument(ctx context.Context, collection, id string) error

	// CommitBatch applies up to [models.MaxBatchWrites] writes atomically.
	CommitBatch(ctx context.Context, writes []models.WriteOp) error

	// Subscribe follows target. onEvent receives the current snapshot first
	// and then one snapshot per change. onError is called at most once when
	// the subscription breaks; it is not called after the returned
	// unsubscribe function ran. Callbacks run on a goroutine owned by the
	// subscription and must not block.
	Subscribe(ctx context.Context, target models.SubscriptionTarget,
		onEvent func(models.ChangeEvent), onError func(error)) (unsubscribe func(), err error)
}

// DriveAdapter talks to the attachment upload and storage authorization
// endpoints.
type DriveAdapter interface {
	// AuthURL starts an authorization flow.
	AuthURL(ctx context.Context) (models.AuthURL, error)

	// AuthStatus polls the outcome of the flow identified by state.
	AuthStatus(ctx context.Context, state string) (models.AuthStatus, error)

	// Upload sends content as a multipart file. credential is the signed
	// storage credential; an empty credential fails with [ErrUnauthorized]
	// without contacting the server.
	Upload(ctx context.Context, credential, fileName string, content io.Reader) (models.UploadResult, error)
}
