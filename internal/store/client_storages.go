package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
)

// Local storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// ClientStorages groups the client-side storage backends.
type ClientStorages struct {
	// LocalStorage holds every persisted dashboard key.
	LocalStorage LocalStorage
}

// NewClientStorages opens the local store selected by cfg.Driver.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("driver", cfg.Driver).Msg("creating new storages...")

	var (
		local LocalStorage
		err   error
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		var db *DB
		db, err = NewConnectSQLite(ctx, cfg.DSN, logger)
		if err == nil {
			local = NewSQLiteStorage(db, cfg.QuotaBytes, logger)
		}
	case DriverBolt:
		local, err = NewBoltStorage(cfg.DSN, cfg.QuotaBytes, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("local storage error: %w", err)
	}

	return &ClientStorages{LocalStorage: local}, nil
}
