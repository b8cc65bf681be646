package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/models"
)

const (
	testAPIKey    = "test-api-key"
	testProjectID = "dinsos-kota"
)

// ─────────────────────────────────────────────
// Mock services
// ─────────────────────────────────────────────

// mockDocumentService implements service.DocumentService. Each method field
// can be overridden per test case; an unset field panics when called.
type mockDocumentService struct {
	getConfigFn      func(ctx context.Context, projectID string) (json.RawMessage, error)
	mergeConfigFn    func(ctx context.Context, projectID string, data json.RawMessage) error
	getDocumentFn    func(ctx context.Context, projectID, collection, docID string) (models.Document, error)
	listDocumentsFn  func(ctx context.Context, projectID, collection string) ([]models.Document, error)
	mergeDocumentFn  func(ctx context.Context, projectID, collection, docID string, data json.RawMessage) error
	deleteDocumentFn func(ctx context.Context, projectID, collection, docID string) error
	commitBatchFn    func(ctx context.Context, projectID string, writes []models.WriteOp) error
	subscribeFn      func(ctx context.Context, projectID string, target models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error)
}

func (m *mockDocumentService) GetConfig(ctx context.Context, projectID string) (json.RawMessage, error) {
	return m.getConfigFn(ctx, projectID)
}

func (m *mockDocumentService) MergeConfig(ctx context.Context, projectID string, data json.RawMessage) error {
	return m.mergeConfigFn(ctx, projectID, data)
}

func (m *mockDocumentService) GetDocument(ctx context.Context, projectID, collection, docID string) (models.Document, error) {
	return m.getDocumentFn(ctx, projectID, collection, docID)
}

func (m *mockDocumentService) ListDocuments(ctx context.Context, projectID, collection string) ([]models.Document, error) {
	return m.listDocumentsFn(ctx, projectID, collection)
}

func (m *mockDocumentService) MergeDocument(ctx context.Context, projectID, collection, docID string, data json.RawMessage) error {
	return m.mergeDocumentFn(ctx, projectID, collection, docID, data)
}

func (m *mockDocumentService) DeleteDocument(ctx context.Context, projectID, collection, docID string) error {
	return m.deleteDocumentFn(ctx, projectID, collection, docID)
}

func (m *mockDocumentService) CommitBatch(ctx context.Context, projectID string, writes []models.WriteOp) error {
	return m.commitBatchFn(ctx, projectID, writes)
}

func (m *mockDocumentService) Subscribe(ctx context.Context, projectID string, target models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error) {
	return m.subscribeFn(ctx, projectID, target)
}

// mockOAuthService implements service.OAuthService.
type mockOAuthService struct {
	authURLFn        func(ctx context.Context) (models.AuthURL, error)
	handleCallbackFn func(ctx context.Context, code, state string) (string, error)
	authStatusFn     func(ctx context.Context, state string) (models.AuthStatus, error)
}

func (m *mockOAuthService) AuthURL(ctx context.Context) (models.AuthURL, error) {
	return m.authURLFn(ctx)
}

func (m *mockOAuthService) HandleCallback(ctx context.Context, code, state string) (string, error) {
	return m.handleCallbackFn(ctx, code, state)
}

func (m *mockOAuthService) AuthStatus(ctx context.Context, state string) (models.AuthStatus, error) {
	return m.authStatusFn(ctx, state)
}

func (m *mockOAuthService) Client(context.Context, string) (*http.Client, error) {
	return http.DefaultClient, nil
}

// mockUploadService implements service.UploadService.
type mockUploadService struct {
	uploadFn func(ctx context.Context, credential, fileName string, content io.Reader) (models.UploadResult, error)
}

func (m *mockUploadService) Upload(ctx context.Context, credential, fileName string, content io.Reader) (models.UploadResult, error) {
	return m.uploadFn(ctx, credential, fileName, content)
}

// mockAppInfoService implements service.AppInfoService.
type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(context.Context) string {
	return m.version
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			APIKeys:            []string{testAPIKey, ""},
			MaxDocumentBytes:   1 << 10,
			CredentialDuration: time.Hour,
		},
		Server: config.Server{RequestTimeout: 5 * time.Second},
		OAuth:  config.OAuth{MaxUploadBytes: 1 << 12},
	}
}

// newTestRouter builds the full router over the given services. Nil
// services are replaced with empty mocks.
func newTestRouter(t *testing.T, services *service.Services) http.Handler {
	t.Helper()
	if services.AppInfoService == nil {
		services.AppInfoService = &mockAppInfoService{version: "test"}
	}
	if services.DocumentService == nil {
		services.DocumentService = &mockDocumentService{}
	}
	if services.OAuthService == nil {
		services.OAuthService = &mockOAuthService{}
	}
	if services.UploadService == nil {
		services.UploadService = &mockUploadService{}
	}
	return NewHandler(services, testConfig(), logger.Nop()).Init()
}

// projectRequest adds the api key header used by every project route.
func projectRequest(r *http.Request) *http.Request {
	r.Header.Set(models.APIKeyHeader, testAPIKey)
	return r
}
