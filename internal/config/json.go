package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		CredentialDuration Duration `json:"credential_duration"`
		APIKeys            []string `json:"api_keys"`
		MaxDocumentBytes   int64    `json:"max_document_bytes"`
		HashKey            string   `json:"hash_key"`
		Version            string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			URL string `json:"url"`
		} `json:"redis,omitempty"`

		Local struct {
			Driver     string `json:"driver"`
			DSN        string `json:"dsn"`
			QuotaBytes int64  `json:"quota_bytes"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	OAuth struct {
		ClientID     string   `json:"client_id"`
		ClientSecret string   `json:"client_secret"`
		RedirectURL  string   `json:"redirect_url"`
		AuthURL      string   `json:"auth_url"`
		TokenURL     string   `json:"token_url"`
		UploadURL    string   `json:"upload_url"`
		Scopes       []string `json:"scopes"`
		StateTTL     Duration `json:"state_ttl"`

		MaxUploadBytes int64 `json:"max_upload_bytes"`
	} `json:"oauth,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		HashKey        string   `json:"hash_key"`
	} `json:"adapter,omitempty"`

	Sync struct {
		DebounceWindow    Duration `json:"debounce_window"`
		SuppressWindow    Duration `json:"suppress_window"`
		BatchSize         int      `json:"batch_size"`
		NotificationLimit int      `json:"notification_limit"`
	} `json:"sync,omitempty"`

	Log struct {
		FilePath   string `json:"file"`
		MaxSizeMB  int    `json:"max_size_mb"`
		MaxBackups int    `json:"max_backups"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			CredentialDuration: time.Duration(jsonCfg.App.CredentialDuration),
			APIKeys:            jsonCfg.App.APIKeys,
			MaxDocumentBytes:   jsonCfg.App.MaxDocumentBytes,
			HashKey:            jsonCfg.App.HashKey,
			Version:            jsonCfg.App.Version,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Redis: Redis{URL: jsonCfg.Storage.Redis.URL},
			Local: Local{
				Driver:     jsonCfg.Storage.Local.Driver,
				DSN:        jsonCfg.Storage.Local.DSN,
				QuotaBytes: jsonCfg.Storage.Local.QuotaBytes,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		OAuth: OAuth{
			ClientID:     jsonCfg.OAuth.ClientID,
			ClientSecret: jsonCfg.OAuth.ClientSecret,
			RedirectURL:  jsonCfg.OAuth.RedirectURL,
			AuthURL:      jsonCfg.OAuth.AuthURL,
			TokenURL:     jsonCfg.OAuth.TokenURL,
			UploadURL:    jsonCfg.OAuth.UploadURL,
			Scopes:       jsonCfg.OAuth.Scopes,
			StateTTL:     time.Duration(jsonCfg.OAuth.StateTTL),

			MaxUploadBytes: jsonCfg.OAuth.MaxUploadBytes,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			HashKey:        jsonCfg.Adapter.HashKey,
		},
		Sync: Sync{
			DebounceWindow:    time.Duration(jsonCfg.Sync.DebounceWindow),
			SuppressWindow:    time.Duration(jsonCfg.Sync.SuppressWindow),
			BatchSize:         jsonCfg.Sync.BatchSize,
			NotificationLimit: jsonCfg.Sync.NotificationLimit,
		},
		Log: Log{
			FilePath:   jsonCfg.Log.FilePath,
			MaxSizeMB:  jsonCfg.Log.MaxSizeMB,
			MaxBackups: jsonCfg.Log.MaxBackups,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
