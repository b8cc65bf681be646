package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/lks-registry/models"
)

// DocumentService is the remote document store: the config document of a
// project and its lks and pm collections.
type DocumentService interface {
	GetConfig(ctx context.Context, projectID string) (json.RawMessage, error)
	MergeConfig(ctx context.Context, projectID string, data json.RawMessage) error

	GetDocument(ctx context.Context, projectID, collection, docID string) (models.Document, error)
	ListDocuments(ctx context.Context, projectID, collection string) ([]models.Document, error)
	MergeDocument(ctx context.Context, projectID, collection, docID string, data json.RawMessage) error
	DeleteDocument(ctx context.Context, projectID, collection, docID string) error
	CommitBatch(ctx context.Context, projectID string, writes []models.WriteOp) error

	// Subscribe returns the current snapshot of target and a channel that
	// receives a fresh snapshot after every change. The channel is closed
	// when ctx is done.
	Subscribe(ctx context.Context, projectID string, target models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error)
}

// DocumentServiceWrapper defines middleware composition for DocumentService.
// Implementations wrap an existing DocumentService to add behavior such as
// validation.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService
}

// OAuthService runs the storage provider authorization flow.
type OAuthService interface {
	// AuthURL starts a flow and returns the provider URL and its state.
	AuthURL(ctx context.Context) (models.AuthURL, error)
	// HandleCallback exchanges code for a token pair and returns it as a
	// signed credential.
	HandleCallback(ctx context.Context, code, state string) (string, error)
	// AuthStatus reports the outcome of the flow identified by state. A
	// complete status is returned once.
	AuthStatus(ctx context.Context, state string) (models.AuthStatus, error)
	// Client returns an HTTP client authorized by credential.
	Client(ctx context.Context, credential string) (*http.Client, error)
}

// UploadService stores attachments with the storage provider.
type UploadService interface {
	Upload(ctx context.Context, credential, fileName string, content io.Reader) (models.UploadResult, error)
}

// AppInfoService exposes build information.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
