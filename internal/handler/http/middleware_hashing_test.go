package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "body-secret"

func newSignedRouter(t *testing.T, docs *mockDocumentService) http.Handler {
	t.Helper()
	cfg := testConfig()
	cfg.App.HashKey = testHashKey
	return NewHandler(&service.Services{
		AppInfoService:  &mockAppInfoService{version: "test"},
		DocumentService: docs,
		OAuthService:    &mockOAuthService{},
		UploadService:   &mockUploadService{},
	}, cfg, logger.Nop()).Init()
}

func TestWithBodyHash(t *testing.T) {
	batch := `{"writes":[{"collection":"pm","id":"pm-1","data":{"name":"Budi"}}]}`
	doc := `{"name":"Panti A"}`
	hasher := utils.NewHasher(testHashKey)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		hash       string
		wantStatus int
		wantCalled bool
	}{
		{name: "signed batch", method: http.MethodPost, path: "/batch", body: batch, hash: hasher.Sum([]byte(batch)), wantStatus: http.StatusNoContent, wantCalled: true},
		{name: "signed document", method: http.MethodPatch, path: "/lks/lks-a", body: doc, hash: hasher.Sum([]byte(doc)), wantStatus: http.StatusNoContent, wantCalled: true},
		{name: "signed config", method: http.MethodPatch, path: "/", body: `{"appName":"Dinsos"}`, hash: hasher.Sum([]byte(`{"appName":"Dinsos"}`)), wantStatus: http.StatusNoContent, wantCalled: true},
		{name: "missing header", method: http.MethodPost, path: "/batch", body: batch, wantStatus: http.StatusBadRequest},
		{name: "tampered batch", method: http.MethodPost, path: "/batch", body: strings.Replace(batch, "Budi", "Badu", 1), hash: hasher.Sum([]byte(batch)), wantStatus: http.StatusBadRequest},
		{name: "foreign key", method: http.MethodPatch, path: "/lks/lks-a", body: doc, hash: utils.NewHasher("other").Sum([]byte(doc)), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			docs := &mockDocumentService{
				mergeConfigFn: func(_ context.Context, _ string, data json.RawMessage) error {
					called = true
					assert.JSONEq(t, tt.body, string(data), "the handler sees the original body")
					return nil
				},
				mergeDocumentFn: func(_ context.Context, _, _, _ string, data json.RawMessage) error {
					called = true
					assert.JSONEq(t, tt.body, string(data))
					return nil
				},
				commitBatchFn: func(_ context.Context, _ string, writes []models.WriteOp) error {
					called = true
					assert.Len(t, writes, 1)
					return nil
				},
			}
			router := newSignedRouter(t, docs)

			req := projectRequest(httptest.NewRequest(tt.method, "/api/projects/"+testProjectID+tt.path, strings.NewReader(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			if tt.hash != "" {
				req.Header.Set(models.BodyHashHeader, tt.hash)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantCalled, called)
			if !tt.wantCalled {
				assert.Contains(t, rr.Body.String(), app.MsgIntegrityCheckFailed)
			}
		})
	}
}

func TestWithBodyHash_DeleteNeedsNoSignature(t *testing.T) {
	called := false
	router := newSignedRouter(t, &mockDocumentService{
		deleteDocumentFn: func(context.Context, string, string, string) error {
			called = true
			return nil
		},
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodDelete, "/api/projects/"+testProjectID+"/lks/lks-a", nil)))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, called)
}

func TestWithBodyHash_DisabledWithoutKey(t *testing.T) {
	called := false
	router := newTestRouter(t, &service.Services{DocumentService: &mockDocumentService{
		commitBatchFn: func(context.Context, string, []models.WriteOp) error {
			called = true
			return nil
		},
	}})

	body := `{"writes":[{"collection":"pm","id":"pm-1","data":{"name":"Budi"}}]}`
	req := projectRequest(httptest.NewRequest(http.MethodPost, "/api/projects/"+testProjectID+"/batch", strings.NewReader(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, called)
}
