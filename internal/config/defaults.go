package config

import "time"

// Default values merged under every other source.
const (
	DefaultServerAddress      = "localhost:8080"
	DefaultRequestTimeout     = 30 * time.Second
	DefaultCredentialDuration = 30 * 24 * time.Hour
	DefaultTokenIssuer        = "lks-registry"
	DefaultMaxDocumentBytes   = 1 << 20

	DefaultOAuthAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultOAuthTokenURL  = "https://oauth2.googleapis.com/token"
	DefaultOAuthUploadURL = "https://www.googleapis.com/upload/drive/v3/files"
	DefaultOAuthScope     = "https://www.googleapis.com/auth/drive.file"
	DefaultOAuthStateTTL  = 10 * time.Minute
	DefaultMaxUploadBytes = 25 << 20

	DefaultLocalDriver     = "sqlite"
	DefaultLocalDSN        = "lks-registry.db"
	DefaultLocalQuotaBytes = 5 << 20

	DefaultDebounceWindow    = 2 * time.Second
	DefaultSuppressWindow    = time.Second
	DefaultBatchSize         = 50
	DefaultNotificationLimit = 50

	DefaultLogFile       = "lks-registry.log"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:        DefaultTokenIssuer,
			CredentialDuration: DefaultCredentialDuration,
			MaxDocumentBytes:   DefaultMaxDocumentBytes,
			Version:            "dev",
		},
		Storage: Storage{
			Local: Local{
				Driver:     DefaultLocalDriver,
				DSN:        DefaultLocalDSN,
				QuotaBytes: DefaultLocalQuotaBytes,
			},
		},
		Server: Server{
			HTTPAddress:    DefaultServerAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		OAuth: OAuth{
			AuthURL:   DefaultOAuthAuthURL,
			TokenURL:  DefaultOAuthTokenURL,
			UploadURL: DefaultOAuthUploadURL,
			Scopes:    []string{DefaultOAuthScope},
			StateTTL:  DefaultOAuthStateTTL,

			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Adapter: Adapter{
			HTTPAddress:    DefaultServerAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Sync: Sync{
			DebounceWindow:    DefaultDebounceWindow,
			SuppressWindow:    DefaultSuppressWindow,
			BatchSize:         DefaultBatchSize,
			NotificationLimit: DefaultNotificationLimit,
		},
		Log: Log{
			FilePath:   DefaultLogFile,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}
