package handler

import (
	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/handler/http"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers creates the transport handlers enabled in cfg. The document
// store is served over HTTP only; without an HTTP address nothing is
// created.
func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}
	if len(cfg.App.APIKeys) == 0 {
		logger.Warn().Msg("no api keys configured: every project route will answer 401/403")
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}
