package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the server address used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// HashKey signs document writes. Empty sends no signature.
	HashKey string
}

// ClientStorage contains local key-value store settings for the client.
type ClientStorage struct {
	// Driver is "sqlite" or "bolt".
	Driver string
	// DSN is the sqlite DSN or the bolt file path.
	DSN string
	// QuotaBytes caps the total size of stored values.
	QuotaBytes int64
}

// ClientSync contains the partial-sync engine settings.
type ClientSync struct {
	DebounceWindow    time.Duration
	SuppressWindow    time.Duration
	BatchSize         int
	NotificationLimit int
}

// ClientLog contains the rotating log file settings.
type ClientLog struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains the remote server address and timeout.
	Adapter ClientAdapter
	// Storage contains local store settings.
	Storage ClientStorage
	// Sync contains partial-sync timings and limits.
	Sync ClientSync
	// Log contains client log settings.
	Log ClientLog
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config from all sources, maps only the fields relevant
// to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			HashKey:        cfg.Adapter.HashKey,
		},
		Storage: ClientStorage{
			Driver:     cfg.Storage.Local.Driver,
			DSN:        cfg.Storage.Local.DSN,
			QuotaBytes: cfg.Storage.Local.QuotaBytes,
		},
		Sync: ClientSync{
			DebounceWindow:    cfg.Sync.DebounceWindow,
			SuppressWindow:    cfg.Sync.SuppressWindow,
			BatchSize:         cfg.Sync.BatchSize,
			NotificationLimit: cfg.Sync.NotificationLimit,
		},
		Log: ClientLog{
			FilePath:   cfg.Log.FilePath,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		},
	}
}
