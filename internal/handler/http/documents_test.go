package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name       string
		result     json.RawMessage
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "stored config", result: json.RawMessage(`{"appName":"Dinsos"}`), wantStatus: http.StatusOK, wantBody: `{"appName":"Dinsos"}`},
		{name: "missing config", err: fmt.Errorf("get config: %w", store.ErrNotFound), wantStatus: http.StatusNotFound, wantBody: app.MsgDocumentNotFound},
		{name: "bad project id", err: service.ErrInvalidProjectID, wantStatus: http.StatusBadRequest, wantBody: app.MsgInvalidDataProvided},
		{name: "store failure", err: store.ErrExecutingQuery, wantStatus: http.StatusInternalServerError, wantBody: app.MsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := &mockDocumentService{
				getConfigFn: func(ctx context.Context, projectID string) (json.RawMessage, error) {
					assert.Equal(t, testProjectID, projectID)
					got, ok := utils.GetProjectIDFromContext(ctx)
					assert.True(t, ok)
					assert.Equal(t, testProjectID, got)
					return tt.result, tt.err
				},
			}
			router := newTestRouter(t, &service.Services{DocumentService: docs})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodGet, "/api/projects/"+testProjectID, nil)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rr.Body.String()))
		})
	}
}

func TestMergeConfig(t *testing.T) {
	var got json.RawMessage
	docs := &mockDocumentService{
		mergeConfigFn: func(_ context.Context, projectID string, data json.RawMessage) error {
			got = data
			return nil
		},
	}
	router := newTestRouter(t, &service.Services{DocumentService: docs})

	body := `{"appName":"Dinsos Kota","letterSeq":4}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodPatch, "/api/projects/"+testProjectID+"/", strings.NewReader(body))))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.JSONEq(t, body, string(got))
}

func TestMergeDocument_BodyLimit(t *testing.T) {
	docs := &mockDocumentService{
		mergeDocumentFn: func(context.Context, string, string, string, json.RawMessage) error {
			t.Fatal("oversized body must not reach the service")
			return nil
		},
	}
	router := newTestRouter(t, &service.Services{DocumentService: docs})

	body := `{"name":"` + strings.Repeat("a", 2<<10) + `"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodPatch, "/api/projects/"+testProjectID+"/lks/i-1", strings.NewReader(body))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, app.MsgPayloadTooLarge, strings.TrimSpace(rr.Body.String()))
}

func TestMergeDocument(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "merged", wantStatus: http.StatusNoContent},
		{name: "unknown collection", err: fmt.Errorf("%w: %q", models.ErrUnknownCollection, "institutions"), wantStatus: http.StatusBadRequest},
		{name: "invalid json", err: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest},
		{name: "too large in store", err: store.ErrPayloadTooLarge, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := &mockDocumentService{
				mergeDocumentFn: func(_ context.Context, projectID, collection, docID string, data json.RawMessage) error {
					assert.Equal(t, testProjectID, projectID)
					assert.Equal(t, models.CollectionInstitutions, collection)
					assert.Equal(t, "i-1", docID)
					assert.JSONEq(t, `{"name":"Panti A"}`, string(data))
					return tt.err
				},
			}
			router := newTestRouter(t, &service.Services{DocumentService: docs})

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/api/projects/"+testProjectID+"/lks/i-1", strings.NewReader(`{"name":"Panti A"}`))
			router.ServeHTTP(rr, projectRequest(req))

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestListDocuments(t *testing.T) {
	t.Run("empty collection is an empty array", func(t *testing.T) {
		docs := &mockDocumentService{
			listDocumentsFn: func(context.Context, string, string) ([]models.Document, error) {
				return nil, nil
			},
		}
		router := newTestRouter(t, &service.Services{DocumentService: docs})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodGet, "/api/projects/"+testProjectID+"/pm", nil)))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("documents with data", func(t *testing.T) {
		docs := &mockDocumentService{
			listDocumentsFn: func(_ context.Context, _ string, collection string) ([]models.Document, error) {
				assert.Equal(t, models.CollectionBeneficiaries, collection)
				return []models.Document{
					{ID: "b-1", Data: json.RawMessage(`{"name":"Siti"}`)},
					{ID: "b-2", Data: json.RawMessage(`{"name":"Budi"}`)},
				}, nil
			},
		}
		router := newTestRouter(t, &service.Services{DocumentService: docs})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodGet, "/api/projects/"+testProjectID+"/pm", nil)))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"id":"b-1","data":{"name":"Siti"}},{"id":"b-2","data":{"name":"Budi"}}]`, rr.Body.String())
	})
}

func TestGetDocument(t *testing.T) {
	docs := &mockDocumentService{
		getDocumentFn: func(_ context.Context, _, collection, docID string) (models.Document, error) {
			if docID == "missing" {
				return models.Document{}, store.ErrNotFound
			}
			return models.Document{ID: docID, Data: json.RawMessage(`{"name":"Panti A"}`)}, nil
		},
	}
	router := newTestRouter(t, &service.Services{DocumentService: docs})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodGet, "/api/projects/"+testProjectID+"/lks/i-1", nil)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"i-1","data":{"name":"Panti A"}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodGet, "/api/projects/"+testProjectID+"/lks/missing", nil)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteDocument(t *testing.T) {
	var deleted string
	docs := &mockDocumentService{
		deleteDocumentFn: func(_ context.Context, _, collection, docID string) error {
			deleted = collection + "/" + docID
			return nil
		},
	}
	router := newTestRouter(t, &service.Services{DocumentService: docs})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodDelete, "/api/projects/"+testProjectID+"/pm/b-9", nil)))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "pm/b-9", deleted)
}

func TestCommitBatch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantWrites int
		wantBody   string
	}{
		{
			name:       "mixed writes",
			body:       `{"writes":[{"collection":"lks","id":"i-1","data":{"name":"A"}},{"collection":"pm","id":"b-1","delete":true}]}`,
			wantStatus: http.StatusNoContent,
			wantWrites: 2,
		},
		{
			name:       "malformed body",
			body:       `{"writes":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgInvalidDataProvided,
		},
		{
			name:       "empty batch",
			body:       `{"writes":[]}`,
			err:        service.ErrEmptyBatch,
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgEmptyBatch,
		},
		{
			name:       "batch over the write limit",
			body:       `{"writes":[{"collection":"lks","id":"i-1","data":{}}]}`,
			err:        service.ErrBatchTooLarge,
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgBatchTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			docs := &mockDocumentService{
				commitBatchFn: func(_ context.Context, projectID string, writes []models.WriteOp) error {
					called = true
					assert.Equal(t, testProjectID, projectID)
					if tt.wantWrites > 0 {
						require.Len(t, writes, tt.wantWrites)
						assert.True(t, writes[1].Delete)
					}
					return tt.err
				},
			}
			router := newTestRouter(t, &service.Services{DocumentService: docs})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, projectRequest(httptest.NewRequest(http.MethodPost, "/api/projects/"+testProjectID+"/batch", strings.NewReader(tt.body))))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rr.Body.String()))
			}
			if tt.wantWrites > 0 {
				assert.True(t, called)
			}
		})
	}
}
