package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/lks-registry/models"
)

const systemActor = "system"

// actor names the user credited in notifications.
func (s *dashboardService) actor() string {
	if s.state.CurrentUser != nil && s.state.CurrentUser.Username != "" {
		return s.state.CurrentUser.Username
	}
	return systemActor
}

func (s *dashboardService) SetAppName(ctx context.Context, name string) error {
	return s.do(ctx, func() error {
		return s.mutate(models.ChangeBranding, func(state *models.AppState) error {
			state.AppName = strings.TrimSpace(name)
			s.notifications.Add(state, s.actor(), models.ActionConfig, "app name")
			return nil
		})
	})
}

func (s *dashboardService) SetAppLogo(ctx context.Context, logo string) error {
	return s.do(ctx, func() error {
		return s.mutate(models.ChangeBranding, func(state *models.AppState) error {
			state.AppLogo = logo
			s.notifications.Add(state, s.actor(), models.ActionConfig, "app logo")
			return nil
		})
	})
}

func (s *dashboardService) SetCloudConfig(ctx context.Context, cloud models.CloudConfig) error {
	cloud.APIKey = strings.TrimSpace(cloud.APIKey)
	cloud.ProjectID = strings.TrimSpace(cloud.ProjectID)

	return s.do(ctx, func() error {
		err := s.mutate(models.ChangeCloudConfig, func(state *models.AppState) error {
			state.CloudConfig = cloud
			return nil
		})
		if err != nil {
			return err
		}
		s.connect()
		s.publish()
		return nil
	})
}

func (s *dashboardService) SetDriveCredential(ctx context.Context, credential string) error {
	return s.do(ctx, func() error {
		return s.mutate(models.ChangeSession, func(state *models.AppState) error {
			state.DriveCredential = credential
			return nil
		})
	})
}

func (s *dashboardService) CreateInstitution(ctx context.Context, inst models.Institution) (models.Institution, error) {
	if inst.ID == "" {
		inst.ID = s.ids.Generate()
	}
	inst = inst.Clone()
	if err := inst.Validate(); err != nil {
		return models.Institution{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	err := s.do(ctx, func() error {
		return s.mutate(models.ChangeInstitutions, func(state *models.AppState) error {
			if state.FindInstitution(inst.ID) >= 0 {
				return ErrDuplicateRecord
			}
			state.Institutions = append(state.Institutions, inst)
			s.notifications.Add(state, s.actor(), models.ActionCreate, inst.Name)
			return nil
		})
	})
	if err != nil {
		return models.Institution{}, err
	}

	return inst, nil
}

// UpdateInstitution replaces the record. Attachments are kept when inst
// carries none.
func (s *dashboardService) UpdateInstitution(ctx context.Context, inst models.Institution) error {
	inst = inst.Clone()
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return s.do(ctx, func() error {
		return s.mutate(models.ChangeInstitutions, func(state *models.AppState) error {
			idx := state.FindInstitution(inst.ID)
			if idx < 0 {
				return ErrRecordNotFound
			}
			if inst.Documents == nil {
				inst.Documents = state.Institutions[idx].Documents
			}
			state.Institutions[idx] = inst
			s.notifications.Add(state, s.actor(), models.ActionUpdate, inst.Name)
			return nil
		})
	})
}

// DeleteInstitution refuses while beneficiaries still reference the
// institution; they have to be moved or deleted first.
func (s *dashboardService) DeleteInstitution(ctx context.Context, id string) error {
	return s.do(ctx, func() error {
		return s.mutate(models.ChangeInstitutions, func(state *models.AppState) error {
			idx := state.FindInstitution(id)
			if idx < 0 {
				return ErrRecordNotFound
			}
			if n := countBeneficiaries(state.Beneficiaries, id); n > 0 {
				return fmt.Errorf("%w: %d", ErrInstitutionInUse, n)
			}
			name := state.Institutions[idx].Name
			state.Institutions = slices.Delete(state.Institutions, idx, idx+1)
			s.notifications.Add(state, s.actor(), models.ActionDelete, name)
			return nil
		})
	})
}

func countBeneficiaries(records []models.Beneficiary, institutionID string) int {
	n := 0
	for _, b := range records {
		if b.InstitutionID == institutionID {
			n++
		}
	}
	return n
}

func (s *dashboardService) AttachDocument(ctx context.Context, institutionID, kind, fileName string,
	content io.Reader) (models.Attachment, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" || strings.TrimSpace(fileName) == "" {
		return models.Attachment{}, ErrInvalidDataProvided
	}

	var credential string
	err := s.do(ctx, func() error {
		if s.state.FindInstitution(institutionID) < 0 {
			return ErrRecordNotFound
		}
		credential = s.state.DriveCredential
		return nil
	})
	if err != nil {
		return models.Attachment{}, err
	}

	uploaded, err := s.drive.Upload(ctx, credential, fileName, content)
	if err != nil {
		return models.Attachment{}, mapAdapterError(err)
	}

	attachment := models.Attachment{
		FileID:       uploaded.FileID,
		Name:         uploaded.Name,
		ViewLink:     uploaded.ViewLink,
		DownloadLink: uploaded.DownloadLink,
		UploadedAt:   time.Now().UTC(),
	}
	if attachment.Name == "" {
		attachment.Name = fileName
	}

	err = s.do(ctx, func() error {
		return s.mutate(models.ChangeInstitutions, func(state *models.AppState) error {
			idx := state.FindInstitution(institutionID)
			if idx < 0 {
				return ErrRecordNotFound
			}
			inst := state.Institutions[idx]
			if inst.Documents == nil {
				inst.Documents = make(map[string]models.Attachment)
			}
			inst.Documents[kind] = attachment
			state.Institutions[idx] = inst
			s.notifications.Add(state, s.actor(), models.ActionUpload, inst.Name+": "+kind)
			return nil
		})
	})
	if err != nil {
		return models.Attachment{}, err
	}

	return attachment, nil
}

func (s *dashboardService) CreateBeneficiary(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	if b.ID == "" {
		b.ID = s.ids.Generate()
	}
	if err := b.Validate(); err != nil {
		return models.Beneficiary{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	err := s.do(ctx, func() error {
		return s.mutate(models.ChangeBeneficiaries, func(state *models.AppState) error {
			if state.FindInstitution(b.InstitutionID) < 0 {
				return fmt.Errorf("institution %s: %w", b.InstitutionID, ErrRecordNotFound)
			}
			if state.FindBeneficiary(b.ID) >= 0 {
				return ErrDuplicateRecord
			}
			state.Beneficiaries = append(state.Beneficiaries, b)
			s.notifications.Add(state, s.actor(), models.ActionCreate, b.Name)
			return nil
		})
	})
	if err != nil {
		return models.Beneficiary{}, err
	}

	return b, nil
}

func (s *dashboardService) UpdateBeneficiary(ctx context.Context, b models.Beneficiary) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return s.do(ctx, func() error {
		return s.mutate(models.ChangeBeneficiaries, func(state *models.AppState) error {
			idx := state.FindBeneficiary(b.ID)
			if idx < 0 {
				return ErrRecordNotFound
			}
			if state.FindInstitution(b.InstitutionID) < 0 {
				return fmt.Errorf("institution %s: %w", b.InstitutionID, ErrRecordNotFound)
			}
			state.Beneficiaries[idx] = b
			s.notifications.Add(state, s.actor(), models.ActionUpdate, b.Name)
			return nil
		})
	})
}

func (s *dashboardService) DeleteBeneficiary(ctx context.Context, id string) error {
	return s.do(ctx, func() error {
		return s.mutate(models.ChangeBeneficiaries, func(state *models.AppState) error {
			idx := state.FindBeneficiary(id)
			if idx < 0 {
				return ErrRecordNotFound
			}
			name := state.Beneficiaries[idx].Name
			state.Beneficiaries = slices.Delete(state.Beneficiaries, idx, idx+1)
			s.notifications.Add(state, s.actor(), models.ActionDelete, name)
			return nil
		})
	})
}

// ImportBeneficiaries implements DashboardService. The import is all or
// nothing: one invalid record rejects the whole set.
func (s *dashboardService) ImportBeneficiaries(ctx context.Context, records []models.Beneficiary) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	imported := make([]models.Beneficiary, len(records))
	for i, b := range records {
		if b.ID == "" {
			b.ID = s.ids.Generate()
		}
		if err := b.Validate(); err != nil {
			return 0, fmt.Errorf("%w: record %d: %w", ErrInvalidDataProvided, i+1, err)
		}
		imported[i] = b
	}

	err := s.do(ctx, func() error {
		return s.mutate(models.ChangeBeneficiaries, func(state *models.AppState) error {
			seen := make(map[string]struct{}, len(imported))
			for _, b := range imported {
				if state.FindInstitution(b.InstitutionID) < 0 {
					return fmt.Errorf("institution %s: %w", b.InstitutionID, ErrRecordNotFound)
				}
				if _, dup := seen[b.ID]; dup || state.FindBeneficiary(b.ID) >= 0 {
					return fmt.Errorf("beneficiary %s: %w", b.ID, ErrDuplicateRecord)
				}
				seen[b.ID] = struct{}{}
			}
			state.Beneficiaries = append(state.Beneficiaries, imported...)
			s.notifications.Add(state, s.actor(), models.ActionImport, fmt.Sprintf("%d beneficiaries", len(imported)))
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	return len(imported), nil
}

// CreateLetter archives a letter. Missing numbers are assigned from the
// archive size and the current year.
func (s *dashboardService) CreateLetter(ctx context.Context, letter models.Letter) (models.Letter, error) {
	if letter.ID == "" {
		letter.ID = s.ids.Generate()
	}
	now := time.Now()
	if letter.Date == "" {
		letter.Date = now.Format(time.DateOnly)
	}
	if err := letter.Validate(); err != nil {
		return models.Letter{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	err := s.do(ctx, func() error {
		return s.mutate(models.ChangeLetters, func(state *models.AppState) error {
			if letter.Number == "" {
				letter.Number = fmt.Sprintf("%03d/LKS/%d", len(state.Letters)+1, now.Year())
			}
			if letter.CreatedBy == "" {
				letter.CreatedBy = s.actor()
			}
			state.Letters = append(state.Letters, letter)
			s.notifications.Add(state, s.actor(), models.ActionCreate, "letter "+letter.Number)
			return nil
		})
	})
	if err != nil {
		return models.Letter{}, err
	}

	return letter, nil
}

func (s *dashboardService) MarkNotificationsRead(ctx context.Context) error {
	return s.do(ctx, func() error {
		if UnreadCount(s.state.Notifications) == 0 {
			return nil
		}
		return s.mutate(models.ChangeNotifications, func(state *models.AppState) error {
			s.notifications.MarkAllRead(state)
			return nil
		})
	})
}
