package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.MedicalRecordNumber == "" {
		return fmt.Errorf("medical_record_number is required")
	}
	if p.GivenName == "" || p.FamilyName == "" {
		return fmt.Errorf("given_name and family_name are required")
	}
	if existing, err := s.patients.GetByMRN(ctx, p.MedicalRecordNumber); err == nil && existing != nil {
		return fmt.Errorf("patient with medical record number %s already exists", p.MedicalRecordNumber)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.patients.GetByMRN(ctx, mrn)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.MedicalRecordNumber == "" {
		return fmt.Errorf("medical_record_number is required")
	}
	if p.GivenName == "" || p.FamilyName == "" {
		return fmt.Errorf("given_name and family_name are required")
	}
	current, err := s.patients.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.MedicalRecordNumber != p.MedicalRecordNumber {
		if existing, err := s.patients.GetByMRN(ctx, p.MedicalRecordNumber); err == nil && existing != nil {
			return fmt.Errorf("patient with medical record number %s already exists", p.MedicalRecordNumber)
		}
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, filter, limit, offset)
}
