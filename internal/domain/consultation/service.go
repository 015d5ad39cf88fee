package consultation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	consultations Repository
}

func NewService(consultations Repository) *Service {
	return &Service{consultations: consultations}
}

func (s *Service) Create(ctx context.Context, cn *Consultation) error {
	if cn.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if cn.Consultant == "" {
		return fmt.Errorf("consultant is required")
	}
	return s.consultations.Create(ctx, cn)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.consultations.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, cn *Consultation) error {
	if cn.Consultant == "" {
		return fmt.Errorf("consultant is required")
	}
	current, err := s.consultations.GetByID(ctx, cn.ID)
	if err != nil {
		return err
	}
	cn.PatientID = current.PatientID
	return s.consultations.Update(ctx, cn)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.consultations.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	return s.consultations.ListByPatient(ctx, patientID, limit, offset)
}
