package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/lks-registry/models"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/dinsos-kota/subscribe", r.URL.Path)
		assert.Equal(t, "lks", r.URL.Query().Get("target"))
		assert.Equal(t, "key-1", r.Header.Get(models.APIKeyHeader))

		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		defer conn.Close(websocket.StatusNormalClosure, "")

		for _, ids := range [][]string{{"a"}, {"a", "b"}} {
			event := models.ChangeEvent{Target: models.TargetInstitutions}
			for _, id := range ids {
				event.Documents = append(event.Documents, models.Document{ID: id, Data: json.RawMessage(`{}`)})
			}
			data, _ := json.Marshal(event)
			require.NoError(t, conn.Write(r.Context(), websocket.MessageText, data))
		}
		<-release
	}))
	defer srv.Close()
	defer close(release)

	events := make(chan models.ChangeEvent, 2)
	errs := make(chan error, 1)

	unsubscribe, err := newTestStore(t, srv.URL).Subscribe(context.Background(), models.TargetInstitutions,
		func(ev models.ChangeEvent) { events <- ev },
		func(err error) { errs <- err })
	require.NoError(t, err)
	defer unsubscribe()

	first := <-events
	assert.Len(t, first.Documents, 1)
	second := <-events
	assert.Len(t, second.Documents, 2)
	assert.Equal(t, models.TargetInstitutions, second.Target)

	select {
	case err := <-errs:
		t.Fatalf("unexpected subscription error: %v", err)
	default:
	}
}

func TestSubscribe_ServerCloseReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		conn.Close(websocket.StatusGoingAway, "shutting down")
	}))
	defer srv.Close()

	errs := make(chan error, 1)
	unsubscribe, err := newTestStore(t, srv.URL).Subscribe(context.Background(), models.TargetConfig,
		func(models.ChangeEvent) {},
		func(err error) { errs <- err })
	require.NoError(t, err)
	defer unsubscribe()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrSubscriptionClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("error callback was not called")
	}
}

func TestSubscribe_UnsubscribeSilencesErrors(t *testing.T) {
	accepted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		close(accepted)
		_, _, _ = conn.Read(r.Context())
	}))
	defer srv.Close()

	errs := make(chan error, 1)
	unsubscribe, err := newTestStore(t, srv.URL).Subscribe(context.Background(), models.TargetBeneficiaries,
		func(models.ChangeEvent) {},
		func(err error) { errs <- err })
	require.NoError(t, err)

	<-accepted
	unsubscribe()
	unsubscribe()

	select {
	case err := <-errs:
		t.Fatalf("error after unsubscribe: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscribe_RejectedHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestStore(t, srv.URL).Subscribe(context.Background(), models.TargetConfig,
		func(models.ChangeEvent) {}, func(error) {})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubscribeURL(t *testing.T) {
	s := &documentStore{baseURL: "https://store.example.org", projectID: "dinsos-kota"}
	assert.Equal(t, "wss://store.example.org/api/projects/dinsos-kota/subscribe?target=pm",
		s.subscribeURL(models.TargetBeneficiaries))

	s.baseURL = "http://localhost:8080"
	assert.Equal(t, "ws://localhost:8080/api/projects/dinsos-kota/subscribe?target=config",
		s.subscribeURL(models.TargetConfig))
}
