package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
)

const uploadResponseFields = "id,name,webViewLink,webContentLink"

// providerFile is the storage provider's description of an uploaded file.
type providerFile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	WebViewLink    string `json:"webViewLink"`
	WebContentLink string `json:"webContentLink"`
}

type uploadService struct {
	oauth     OAuthService
	uploadURL string
	timeout   time.Duration

	logger *logger.Logger
}

// NewUploadService uploads attachments to cfg.UploadURL with the client
// returned by oauth for the caller's credential.
func NewUploadService(cfg config.OAuth, serverCfg config.Server, oauth OAuthService, logger *logger.Logger) UploadService {
	return &uploadService{
		oauth:     oauth,
		uploadURL: cfg.UploadURL,
		timeout:   serverCfg.RequestTimeout,
		logger:    logger,
	}
}

func (s *uploadService) Upload(ctx context.Context, credential, fileName string, content io.Reader) (models.UploadResult, error) {
	log := logger.FromContext(ctx)

	if credential == "" {
		return models.UploadResult{}, ErrAuthenticationRequired
	}

	hc, err := s.oauth.Client(ctx, credential)
	if err != nil {
		return models.UploadResult{}, err
	}

	metadata, err := json.Marshal(map[string]string{"name": fileName})
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("encode upload metadata: %w", err)
	}

	resp, err := utils.NewHTTPClientWith(hc, s.timeout).R().
		SetContext(ctx).
		SetQueryParam("uploadType", "multipart").
		SetQueryParam("fields", uploadResponseFields).
		SetMultipartField("metadata", "metadata.json", "application/json; charset=UTF-8", strings.NewReader(string(metadata))).
		SetMultipartField("file", fileName, "application/octet-stream", content).
		Post(s.uploadURL)
	if err != nil {
		log.Err(err).Str("func", "uploadService.Upload").Msg("upload request failed")
		return models.UploadResult{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return models.UploadResult{}, ErrAuthenticationRequired
	case resp.IsError():
		log.Error().
			Str("func", "uploadService.Upload").
			Int("status", resp.StatusCode()).
			Msg("storage provider rejected upload")
		return models.UploadResult{}, fmt.Errorf("%w: provider status %d", ErrUploadFailed, resp.StatusCode())
	}

	var file providerFile
	if err = json.Unmarshal(resp.Body(), &file); err != nil || file.ID == "" {
		log.Error().
			Str("func", "uploadService.Upload").
			Str("content_type", resp.Header().Get("Content-Type")).
			Msg("storage provider answered with unexpected body")
		return models.UploadResult{}, ErrUnexpectedResponseFormat
	}

	result := models.UploadResult{
		FileID:       file.ID,
		Name:         file.Name,
		ViewLink:     file.WebViewLink,
		DownloadLink: file.WebContentLink,
	}
	if result.Name == "" {
		result.Name = fileName
	}

	return result, nil
}
