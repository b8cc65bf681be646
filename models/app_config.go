package models

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ConfigSchemaVersion is the version of [AppConfig] written by this build.
const ConfigSchemaVersion = 1

// Field names of the config document. They are shared by the local keys, the
// remote payload and the field-presence merge of incoming snapshots.
const (
	ConfigFieldSchemaVersion = "schemaVersion"
	ConfigFieldAppName       = "appName"
	ConfigFieldAppLogo       = "appLogo"
	ConfigFieldUsers         = "users"
	ConfigFieldLetters       = "letters"
	ConfigFieldNotifications = "notifications"
)

// AppConfig is the config blob stored at projects/{projectId}. It is always
// merge-written as a whole, never diffed.
type AppConfig struct {
	SchemaVersion int            `json:"schemaVersion"`
	AppName       string         `json:"appName"`
	AppLogo       string         `json:"appLogo"`
	Users         []User         `json:"users"`
	Letters       []Letter       `json:"letters"`
	Notifications []Notification `json:"notifications"`
}

// Validate rejects blobs written by a newer schema and invalid nested
// records.
func (c AppConfig) Validate() error {
	if c.SchemaVersion > ConfigSchemaVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSchema, c.SchemaVersion)
	}
	for _, u := range c.Users {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	for _, l := range c.Letters {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ConfigPatch holds the fields present in a remote config snapshot. A nil
// field was absent from the payload; a field present with JSON null decodes
// to a non-nil pointer to the zero value.
type ConfigPatch struct {
	AppName       *string
	AppLogo       *string
	Users         *[]User
	Letters       *[]Letter
	Notifications *[]Notification
}

// DecodeConfigPatch parses a remote config document, keeping track of which
// fields were present.
func DecodeConfigPatch(data json.RawMessage) (ConfigPatch, error) {
	var patch ConfigPatch
	if len(data) == 0 {
		return patch, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return patch, fmt.Errorf("decode config document: %w", err)
	}

	if raw, ok := fields[ConfigFieldSchemaVersion]; ok {
		var version int
		if err := json.Unmarshal(raw, &version); err == nil && version > ConfigSchemaVersion {
			return patch, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
		}
	}

	if err := decodeField(fields, ConfigFieldAppName, &patch.AppName); err != nil {
		return patch, err
	}
	if err := decodeField(fields, ConfigFieldAppLogo, &patch.AppLogo); err != nil {
		return patch, err
	}
	if err := decodeField(fields, ConfigFieldUsers, &patch.Users); err != nil {
		return patch, err
	}
	if err := decodeField(fields, ConfigFieldLetters, &patch.Letters); err != nil {
		return patch, err
	}
	if err := decodeField(fields, ConfigFieldNotifications, &patch.Notifications); err != nil {
		return patch, err
	}

	if patch.Users != nil {
		for _, u := range *patch.Users {
			if err := u.Validate(); err != nil {
				return patch, err
			}
		}
	}
	if patch.Letters != nil {
		for _, l := range *patch.Letters {
			if err := l.Validate(); err != nil {
				return patch, err
			}
		}
	}

	return patch, nil
}

func decodeField[T any](fields map[string]json.RawMessage, name string, dst **T) error {
	raw, ok := fields[name]
	if !ok {
		return nil
	}

	v := new(T)
	if string(raw) != "null" {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("decode config field %s: %w", name, err)
		}
	}
	*dst = v
	return nil
}

// Apply overwrites the fields of state present in the patch.
func (p ConfigPatch) Apply(state *AppState) {
	if p.AppName != nil {
		state.AppName = *p.AppName
	}
	if p.AppLogo != nil {
		state.AppLogo = *p.AppLogo
	}
	if p.Users != nil {
		state.Users = slices.Clone(*p.Users)
	}
	if p.Letters != nil {
		state.Letters = slices.Clone(*p.Letters)
	}
	if p.Notifications != nil {
		state.Notifications = slices.Clone(*p.Notifications)
	}
}
