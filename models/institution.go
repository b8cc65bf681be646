package models

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Institution is a registered social-service organisation (LKS).
//
// The record is stored locally as part of the "lks" collection blob and
// remotely as one document per ID under projects/{projectId}/lks/{id}.
type Institution struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Address            string `json:"address,omitempty"`
	District           string `json:"district,omitempty"`
	Village            string `json:"village,omitempty"`
	Head               string `json:"head,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	LegalStatus        string `json:"legalStatus,omitempty"`
	Accreditation      string `json:"accreditation,omitempty"`
	ServiceType        string `json:"serviceType,omitempty"`
	EstablishedAt      string `json:"establishedAt,omitempty"`

	// Documents maps a document kind (e.g. "akta", "sk") to its uploaded
	// attachment. A key is only written after the upload was confirmed.
	Documents map[string]Attachment `json:"documents,omitempty"`
}

// Attachment is an uploaded file linked to an institution.
type Attachment struct {
	FileID       string    `json:"fileId,omitempty"`
	Name         string    `json:"name"`
	ViewLink     string    `json:"viewLink"`
	DownloadLink string    `json:"downloadLink"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Validate checks the fields required to address and display the record.
func (i Institution) Validate() error {
	if err := ValidateID(i.ID); err != nil {
		return err
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("institution %s: %w: name", i.ID, ErrMissingField)
	}
	return nil
}

// Clone returns a copy that shares no maps with i.
func (i Institution) Clone() Institution {
	if i.Documents != nil {
		i.Documents = maps.Clone(i.Documents)
	}
	return i
}

// RecordID implements [Record].
func (i Institution) RecordID() string {
	return i.ID
}
