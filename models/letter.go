package models

import (
	"fmt"
	"strings"
)

// Letter is a generated official letter kept in the letter archive of the
// config blob.
type Letter struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	Subject       string `json:"subject"`
	Recipient     string `json:"recipient,omitempty"`
	InstitutionID string `json:"institutionId,omitempty"`
	Body          string `json:"body,omitempty"`
	Date          string `json:"date,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
}

func (l Letter) Validate() error {
	if err := ValidateID(l.ID); err != nil {
		return err
	}
	if strings.TrimSpace(l.Subject) == "" {
		return fmt.Errorf("letter %s: %w: subject", l.ID, ErrMissingField)
	}
	return nil
}
