package service

import (
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/store"
)

type Services struct {
	DocumentService DocumentService
	OAuthService    OAuthService
	UploadService   UploadService
	AppInfoService  AppInfoService
}

func NewServices(repositories *store.Repositories, states store.StateStore, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	documents := NewDocumentValidationService(cfg.App.MaxDocumentBytes).
		Wrap(NewDocumentService(repositories.DocumentRepository, logger))

	oauth, err := NewOAuthService(cfg.OAuth, cfg.App, states, logger)
	if err != nil {
		return nil, fmt.Errorf("oauth service: %w", err)
	}

	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	return &Services{
		DocumentService: documents,
		OAuthService:    oauth,
		UploadService:   NewUploadService(cfg.OAuth, cfg.Server, oauth, logger),
		AppInfoService:  appInfo,
	}, nil
}
