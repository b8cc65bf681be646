package models

import (
	"fmt"
	"regexp"
	"strings"
)

var projectIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{2,62}$`)

// CloudConfig addresses a remote project. An empty config keeps the
// dashboard in local-only mode.
type CloudConfig struct {
	APIKey    string `json:"apiKey"`
	ProjectID string `json:"projectId"`
}

// IsEmpty reports whether either credential is missing.
func (c CloudConfig) IsEmpty() bool {
	return strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.ProjectID) == ""
}

// Validate checks that a non-empty config is well formed.
func (c CloudConfig) Validate() error {
	if c.IsEmpty() {
		return fmt.Errorf("cloud config: %w: apiKey/projectId", ErrMissingField)
	}
	if err := ValidateProjectID(c.ProjectID); err != nil {
		return fmt.Errorf("cloud config: %w", err)
	}
	if strings.ContainsAny(c.APIKey, " \t\r\n") {
		return fmt.Errorf("cloud config: api key contains whitespace")
	}
	return nil
}

// ValidateProjectID checks the project id format accepted by the document
// store.
func ValidateProjectID(id string) error {
	if !projectIDPattern.MatchString(id) {
		return fmt.Errorf("%w: project %q", ErrInvalidID, id)
	}
	return nil
}
