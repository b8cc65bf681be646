package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/models"
)

// Local storage keys. Each holds the JSON encoding of one part of the state.
const (
	KeyAppName         = "app_name"
	KeyAppLogo         = "app_logo"
	KeyUsers           = "users"
	KeyInstitutions    = "lks"
	KeyBeneficiaries   = "pm"
	KeyLetters         = "letters"
	KeyIsLoggedIn      = "is_logged_in"
	KeyCurrentUser     = "current_user"
	KeyCloudConfig     = "cloud_config"
	KeyNotifications   = "notifications"
	KeyDriveCredential = "drive_credential"
)

var localKeys = []string{
	KeyAppName, KeyAppLogo, KeyUsers, KeyInstitutions, KeyBeneficiaries, KeyLetters,
	KeyIsLoggedIn, KeyCurrentUser, KeyCloudConfig, KeyNotifications, KeyDriveCredential,
}

type persistenceService struct {
	storage store.LocalStorage
	logger  *logger.Logger
}

// NewPersistenceService creates a PersistenceService over storage.
func NewPersistenceService(storage store.LocalStorage, logger *logger.Logger) PersistenceService {
	return &persistenceService{storage: storage, logger: logger}
}

func (p *persistenceService) Load(ctx context.Context) (models.AppState, error) {
	var state models.AppState

	raw := make(map[string]string, len(localKeys))
	for _, key := range localKeys {
		value, err := p.storage.Load(ctx, key)
		if errors.Is(err, store.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return models.AppState{}, fmt.Errorf("load key %s: %w", key, err)
		}
		raw[key] = value
	}

	decodeValue(p.logger, raw, KeyAppName, &state.AppName)
	decodeValue(p.logger, raw, KeyAppLogo, &state.AppLogo)
	decodeValue(p.logger, raw, KeyUsers, &state.Users)
	decodeValue(p.logger, raw, KeyInstitutions, &state.Institutions)
	decodeValue(p.logger, raw, KeyBeneficiaries, &state.Beneficiaries)
	decodeValue(p.logger, raw, KeyLetters, &state.Letters)
	decodeValue(p.logger, raw, KeyIsLoggedIn, &state.IsLoggedIn)
	decodeValue(p.logger, raw, KeyCurrentUser, &state.CurrentUser)
	decodeValue(p.logger, raw, KeyCloudConfig, &state.CloudConfig)
	decodeValue(p.logger, raw, KeyNotifications, &state.Notifications)
	decodeValue(p.logger, raw, KeyDriveCredential, &state.DriveCredential)

	state.Users = validRecords(p.logger, KeyUsers, state.Users)
	state.Institutions = validRecords(p.logger, KeyInstitutions, state.Institutions)
	state.Beneficiaries = validRecords(p.logger, KeyBeneficiaries, state.Beneficiaries)
	state.Letters = validRecords(p.logger, KeyLetters, state.Letters)

	if state.CurrentUser == nil {
		state.IsLoggedIn = false
	}

	return state, nil
}

func (p *persistenceService) Persist(ctx context.Context, state models.AppState) string {
	values := make(map[string]string, len(localKeys))

	entries := map[string]any{
		KeyAppName:         state.AppName,
		KeyAppLogo:         state.AppLogo,
		KeyUsers:           nonNilSlice(state.Users),
		KeyInstitutions:    nonNilSlice(state.Institutions),
		KeyBeneficiaries:   nonNilSlice(state.Beneficiaries),
		KeyLetters:         nonNilSlice(state.Letters),
		KeyIsLoggedIn:      state.IsLoggedIn,
		KeyCurrentUser:     state.CurrentUser,
		KeyCloudConfig:     state.CloudConfig,
		KeyNotifications:   nonNilSlice(state.Notifications),
		KeyDriveCredential: state.DriveCredential,
	}
	for key, v := range entries {
		data, err := json.Marshal(v)
		if err != nil {
			p.logger.Error().Err(err).Str("key", key).Msg("encoding local value failed")
			return app.StorageFailureMessage
		}
		values[key] = string(data)
	}

	if err := p.storage.SaveAll(ctx, values); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			p.logger.Warn().Err(err).Msg("local storage quota exceeded, state kept in memory only")
			return app.StorageQuotaExceededMessage
		}
		p.logger.Error().Err(err).Msg("saving state locally failed")
		return app.StorageFailureMessage
	}

	return ""
}

// decodeValue leaves dst untouched when the stored value does not decode.
func decodeValue[T any](log *logger.Logger, raw map[string]string, key string, dst *T) {
	value, ok := raw[key]
	if !ok {
		return
	}

	var v T
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable local value")
		return
	}
	*dst = v
}

func validRecords[T interface{ Validate() error }](log *logger.Logger, key string, records []T) []T {
	if records == nil {
		return nil
	}

	valid := records[:0:0]
	for _, r := range records {
		if err := r.Validate(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("skipping invalid local record")
			continue
		}
		valid = append(valid, r)
	}
	return valid
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
