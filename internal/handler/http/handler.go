package http

import (
	"time"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/utils"
)

type Handler struct {
	services *service.Services

	apiKeys            [][]byte
	requestTimeout     time.Duration
	maxDocumentBytes   int64
	maxUploadBytes     int64
	credentialDuration time.Duration
	hasher             *utils.Hasher

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	keys := make([][]byte, 0, len(cfg.App.APIKeys))
	for _, k := range cfg.App.APIKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	hasher := utils.NewHasher(cfg.App.HashKey)

	logger.Info().Int("api_keys", len(keys)).Bool("body_signing", hasher.Enabled()).Msg("http handler created")
	return &Handler{
		services:           services,
		apiKeys:            keys,
		requestTimeout:     cfg.Server.RequestTimeout,
		maxDocumentBytes:   cfg.App.MaxDocumentBytes,
		maxUploadBytes:     cfg.OAuth.MaxUploadBytes,
		credentialDuration: cfg.App.CredentialDuration,
		hasher:             hasher,
		logger:             logger,
	}
}
