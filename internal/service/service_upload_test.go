package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// stubOAuth hands out a plain client for the credential "valid".
type stubOAuth struct {
	OAuthService
}

func (stubOAuth) Client(ctx context.Context, credential string) (*http.Client, error) {
	if credential != "valid" {
		return nil, ErrAuthenticationRequired
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access-1", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)})
	return oauth2.NewClient(ctx, src), nil
}

func newTestUploadService(uploadURL string) UploadService {
	return NewUploadService(config.OAuth{UploadURL: uploadURL}, config.Server{RequestTimeout: 5 * time.Second}, stubOAuth{}, logger.Nop())
}

func TestUploadService_Success(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "akta.pdf", header.Filename)
		assert.Equal(t, "content", string(body))

		_, _ = utils.WriteJSON(w, providerFile{
			ID: "f-1", Name: "akta.pdf", WebViewLink: "https://view/f-1", WebContentLink: "https://dl/f-1",
		}, http.StatusOK)
	}))
	defer provider.Close()

	res, err := newTestUploadService(provider.URL).Upload(context.Background(), "valid", "akta.pdf", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, "f-1", res.FileID)
	assert.Equal(t, "https://view/f-1", res.ViewLink)
	assert.Equal(t, "https://dl/f-1", res.DownloadLink)
}

func TestUploadService_NoCredential(t *testing.T) {
	_, err := newTestUploadService("http://127.0.0.1:1").Upload(context.Background(), "", "a.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = newTestUploadService("http://127.0.0.1:1").Upload(context.Background(), "forged", "a.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestUploadService_NonJSONResponse(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>sign in</html>"))
	}))
	defer provider.Close()

	_, err := newTestUploadService(provider.URL).Upload(context.Background(), "valid", "a.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnexpectedResponseFormat)
}

func TestUploadService_ProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthenticationRequired},
		{"forbidden", http.StatusForbidden, ErrUploadFailed},
		{"server error", http.StatusInternalServerError, ErrUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer provider.Close()

			_, err := newTestUploadService(provider.URL).Upload(context.Background(), "valid", "a.pdf", strings.NewReader("x"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
