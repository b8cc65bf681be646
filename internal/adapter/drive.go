package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
)

type driveAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewDriveAdapter constructs the HTTP implementation of [DriveAdapter].
func NewDriveAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (DriveAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &driveAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: logger,
	}, nil
}

// AuthURL implements [DriveAdapter] with GET /api/auth/url.
func (a *driveAdapter) AuthURL(ctx context.Context) (models.AuthURL, error) {
	var authURL models.AuthURL

	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&authURL).
		Get("/api/auth/url")
	if err != nil {
		return models.AuthURL{}, fmt.Errorf("auth url request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthURL{}, err
	}
	if authURL.URL == "" {
		return models.AuthURL{}, fmt.Errorf("auth url: %w", ErrUnexpectedResponseFormat)
	}

	return authURL, nil
}

// AuthStatus implements [DriveAdapter] with GET /api/auth/status.
func (a *driveAdapter) AuthStatus(ctx context.Context, state string) (models.AuthStatus, error) {
	var status models.AuthStatus

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("state", state).
		SetResult(&status).
		Get("/api/auth/status")
	if err != nil {
		return models.AuthStatus{}, fmt.Errorf("auth status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthStatus{}, err
	}

	return status, nil
}

// Upload implements [DriveAdapter] with a multipart POST /api/upload.
func (a *driveAdapter) Upload(ctx context.Context, credential, fileName string, content io.Reader) (models.UploadResult, error) {
	if credential == "" {
		return models.UploadResult{}, ErrUnauthorized
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetCookie(&http.Cookie{Name: models.DriveCredentialCookie, Value: credential}).
		SetFileReader("file", fileName, content).
		Post("/api/upload")
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		a.logger.Err(err).
			Str("func", "driveAdapter.Upload").
			Str("file", fileName).
			Msg("upload rejected")
		return models.UploadResult{}, err
	}

	var result models.UploadResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.UploadResult{}, fmt.Errorf("decode upload response: %w: %w", ErrUnexpectedResponseFormat, err)
	}
	if result.ViewLink == "" && result.DownloadLink == "" {
		return models.UploadResult{}, fmt.Errorf("upload response without links: %w", ErrUnexpectedResponseFormat)
	}

	return result, nil
}
