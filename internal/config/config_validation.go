// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// maxBatchSize is the remote store's atomic batch limit.
const maxBatchSize = 50

// validate checks invariants that hold for every merged [StructuredConfig]
// regardless of which binary consumes it.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.BatchSize < 0 || cfg.Sync.BatchSize > maxBatchSize {
		return fmt.Errorf("%w: batch size %d", ErrInvalidSyncConfigs, cfg.Sync.BatchSize)
	}
	if cfg.Sync.DebounceWindow < 0 || cfg.Sync.SuppressWindow < 0 {
		return ErrInvalidSyncConfigs
	}
	if cfg.App.MaxDocumentBytes < 0 || cfg.Storage.Local.QuotaBytes < 0 {
		return ErrInvalidStorageConfigs
	}

	return nil
}

// validateServer checks the settings the document store server cannot start
// without.
func (cfg *StructuredConfig) validateServer() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" || len(cfg.App.APIKeys) == 0 {
		return ErrInvalidAppConfigs
	}
	for _, key := range cfg.App.APIKeys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: empty api key", ErrInvalidAppConfigs)
		}
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}
	switch cfg.Storage.Driver {
	case "sqlite", "bolt":
	default:
		return fmt.Errorf("%w: unknown local driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.DebounceWindow <= 0 || cfg.Sync.SuppressWindow <= 0 ||
		cfg.Sync.BatchSize <= 0 || cfg.Sync.NotificationLimit <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
