package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialSubscription(t *testing.T, srv *httptest.Server, target string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/projects/" + testProjectID + "/subscribe?target=" + target
	return websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{models.APIKeyHeader: []string{testAPIKey}},
	})
}

func TestSubscribe_StreamsSnapshots(t *testing.T) {
	changes := make(chan models.ChangeEvent)
	unsubscribed := make(chan struct{})

	docs := &mockDocumentService{
		subscribeFn: func(ctx context.Context, projectID string, target models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error) {
			assert.Equal(t, testProjectID, projectID)
			assert.Equal(t, models.TargetInstitutions, target)
			go func() {
				<-ctx.Done()
				close(unsubscribed)
			}()
			return models.ChangeEvent{Target: target, Documents: []models.Document{}}, changes, nil
		},
	}
	srv := httptest.NewServer(newTestRouter(t, &service.Services{DocumentService: docs}))
	defer srv.Close()

	conn, _, err := dialSubscription(t, srv, models.CollectionInstitutions)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var initial models.ChangeEvent
	require.NoError(t, wsjson.Read(ctx, conn, &initial))
	assert.Equal(t, models.TargetInstitutions, initial.Target)
	assert.Empty(t, initial.Documents)

	changes <- models.ChangeEvent{
		Target:    models.TargetInstitutions,
		Documents: []models.Document{{ID: "i-1", Data: json.RawMessage(`{"name":"Panti A"}`)}},
	}

	var next models.ChangeEvent
	require.NoError(t, wsjson.Read(ctx, conn, &next))
	require.Len(t, next.Documents, 1)
	assert.Equal(t, "i-1", next.Documents[0].ID)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	select {
	case <-unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription context was not cancelled after the client left")
	}
}

func TestSubscribe_ClosedChannelEndsStream(t *testing.T) {
	changes := make(chan models.ChangeEvent)
	docs := &mockDocumentService{
		subscribeFn: func(context.Context, string, models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error) {
			return models.ChangeEvent{Target: models.TargetConfig, Config: json.RawMessage(`{}`)}, changes, nil
		},
	}
	srv := httptest.NewServer(newTestRouter(t, &service.Services{DocumentService: docs}))
	defer srv.Close()

	conn, _, err := dialSubscription(t, srv, string(models.TargetConfig))
	require.NoError(t, err)
	defer conn.CloseNow()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var initial models.ChangeEvent
	require.NoError(t, wsjson.Read(ctx, conn, &initial))
	assert.JSONEq(t, `{}`, string(initial.Config))

	close(changes)

	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}

func TestSubscribe_RejectedBeforeUpgrade(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "unknown target", target: "letters", wantStatus: http.StatusBadRequest},
		{name: "invalid project", target: string(models.TargetConfig), err: service.ErrInvalidProjectID, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := &mockDocumentService{
				subscribeFn: func(context.Context, string, models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error) {
					return models.ChangeEvent{}, nil, tt.err
				},
			}
			srv := httptest.NewServer(newTestRouter(t, &service.Services{DocumentService: docs}))
			defer srv.Close()

			_, resp, err := dialSubscription(t, srv, tt.target)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestSubscribe_RequiresAPIKey(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, &service.Services{}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/projects/" + testProjectID + "/subscribe?target=config"
	_, resp, err := websocket.Dial(ctx, url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
