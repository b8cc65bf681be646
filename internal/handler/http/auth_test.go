package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthURL(t *testing.T) {
	tests := []struct {
		name       string
		result     models.AuthURL
		err        error
		wantStatus int
	}{
		{name: "configured", result: models.AuthURL{URL: "https://accounts.example/auth?state=s1", State: "s1"}, wantStatus: http.StatusOK},
		{name: "not configured", err: service.ErrOAuthNotConfigured, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oauth := &mockOAuthService{
				authURLFn: func(context.Context) (models.AuthURL, error) { return tt.result, tt.err },
			}
			router := newTestRouter(t, &service.Services{OAuthService: oauth})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/url", nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.err == nil {
				var got models.AuthURL
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, tt.result, got)
			}
		})
	}
}

func TestAuthCallback_SetsCookie(t *testing.T) {
	oauth := &mockOAuthService{
		handleCallbackFn: func(_ context.Context, code, state string) (string, error) {
			assert.Equal(t, "code-1", code)
			assert.Equal(t, "s1", state)
			return "signed.credential.value", nil
		},
	}
	router := newTestRouter(t, &service.Services{OAuthService: oauth})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=code-1&state=s1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `"drive-auth"`)
	assert.Contains(t, rr.Body.String(), `"success"`)
	assert.NotContains(t, rr.Body.String(), "signed.credential.value")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, models.DriveCredentialCookie, cookie.Name)
	assert.Equal(t, "signed.credential.value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.False(t, cookie.Secure)
}

func TestAuthCallback_Failures(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantText   string
	}{
		{name: "provider denied", query: "error=access_denied&state=s1", wantStatus: http.StatusBadRequest, wantText: "access_denied"},
		{name: "unknown state", query: "code=c&state=nope", err: service.ErrInvalidAuthState, wantStatus: http.StatusBadRequest, wantText: app.MsgInvalidAuthState},
		{name: "exchange failed", query: "code=c&state=s1", err: fmt.Errorf("%w: boom", service.ErrTokenExchangeFailed), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oauth := &mockOAuthService{
				handleCallbackFn: func(context.Context, string, string) (string, error) { return "", tt.err },
			}
			router := newTestRouter(t, &service.Services{OAuthService: oauth})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/callback?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
			assert.Contains(t, rr.Body.String(), tt.wantText)
			assert.Empty(t, rr.Result().Cookies())
		})
	}
}

func TestAuthStatus(t *testing.T) {
	oauth := &mockOAuthService{
		authStatusFn: func(_ context.Context, state string) (models.AuthStatus, error) {
			switch state {
			case "pending":
				return models.AuthStatus{Status: models.AuthPending}, nil
			case "done":
				return models.AuthStatus{Status: models.AuthComplete, Credential: "cred"}, nil
			default:
				return models.AuthStatus{}, service.ErrInvalidAuthState
			}
		},
	}
	router := newTestRouter(t, &service.Services{OAuthService: oauth})

	get := func(query string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/status"+query, nil))
		return rr
	}

	rr := get("?state=pending")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"pending"}`, rr.Body.String())

	rr = get("?state=done")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"complete","credential":"cred"}`, rr.Body.String())

	assert.Equal(t, http.StatusBadRequest, get("?state=gone").Code)

	rr = get("")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, app.MsgInvalidAuthState, strings.TrimSpace(rr.Body.String()))
}

// brokenWriter is a ResponseWriter whose connection is gone.
type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header       { return w.header }
func (w *brokenWriter) WriteHeader(status int)    { w.status = status }
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset by peer") }

func TestRenderCallback_LogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	r := injectLogger(httptest.NewRequest(http.MethodGet, "/api/auth/callback", nil), &buf)
	w := &brokenWriter{header: make(http.Header)}

	renderCallback(w, logger.FromRequest(r), http.StatusOK, callbackResult{Status: "success", Message: "done"})

	assert.Equal(t, http.StatusOK, w.status)
	entry := lastLogEntry(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "writing callback page failed", entry["message"])
	assert.Contains(t, entry["error"], "connection reset by peer")
}
