package models

import (
	"fmt"
	"strings"
)

// Beneficiary is an individual served by an institution (PM).
type Beneficiary struct {
	ID            string `json:"id"`
	InstitutionID string `json:"institutionId"`
	NIK           string `json:"nik,omitempty"`
	Name          string `json:"name"`
	Gender        string `json:"gender,omitempty"`
	BirthPlace    string `json:"birthPlace,omitempty"`
	BirthDate     string `json:"birthDate,omitempty"`
	Address       string `json:"address,omitempty"`
	Category      string `json:"category,omitempty"`
	Status        string `json:"status,omitempty"`
	JoinedAt      string `json:"joinedAt,omitempty"`
}

// Validate checks the identifier, the institution reference and the name.
func (b Beneficiary) Validate() error {
	if err := ValidateID(b.ID); err != nil {
		return err
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("beneficiary %s: %w: name", b.ID, ErrMissingField)
	}
	if b.InstitutionID == "" {
		return fmt.Errorf("beneficiary %s: %w: institutionId", b.ID, ErrMissingField)
	}
	return nil
}

// RecordID implements [Record].
func (b Beneficiary) RecordID() string {
	return b.ID
}
