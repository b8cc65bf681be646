package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var institutionCSVHeader = []string{
	"id", "name", "registration_number", "address", "district", "village", "head", "phone",
	"email", "legal_status", "accreditation", "service_type", "established_at", "documents",
}

var beneficiaryCSVHeader = []string{
	"id", "institution_id", "institution_name", "nik", "name", "gender", "birth_place",
	"birth_date", "address", "category", "status", "joined_at",
}

func (s *dashboardService) ExportInstitutionsCSV(ctx context.Context, w io.Writer) error {
	view, err := s.View(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(view.State.Institutions))
	for _, i := range view.State.Institutions {
		rows = append(rows, []string{
			i.ID, i.Name, i.RegistrationNumber, i.Address, i.District, i.Village, i.Head, i.Phone,
			i.Email, i.LegalStatus, i.Accreditation, i.ServiceType, i.EstablishedAt,
			strconv.Itoa(len(i.Documents)),
		})
	}

	return writeCSV(w, institutionCSVHeader, rows)
}

func (s *dashboardService) ExportBeneficiariesCSV(ctx context.Context, w io.Writer) error {
	view, err := s.View(ctx)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(view.State.Institutions))
	for _, i := range view.State.Institutions {
		names[i.ID] = i.Name
	}

	rows := make([][]string, 0, len(view.State.Beneficiaries))
	for _, b := range view.State.Beneficiaries {
		rows = append(rows, []string{
			b.ID, b.InstitutionID, names[b.InstitutionID], b.NIK, b.Name, b.Gender, b.BirthPlace,
			b.BirthDate, b.Address, b.Category, b.Status, b.JoinedAt,
		})
	}

	return writeCSV(w, beneficiaryCSVHeader, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
