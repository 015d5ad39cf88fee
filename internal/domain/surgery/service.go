package surgery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Resyncer re-derives board card placement for a patient after their
// surgical picture changes. Wired in main to avoid a package cycle.
type Resyncer interface {
	ResyncPatient(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	surgeries Repository
	resyncer  Resyncer
}

func NewService(surgeries Repository) *Service {
	return &Service{surgeries: surgeries}
}

// SetResyncer installs the board sync hook. Optional; when unset,
// surgery writes do not touch boards.
func (s *Service) SetResyncer(r Resyncer) {
	s.resyncer = r
}

func (s *Service) Create(ctx context.Context, surg *Surgery) error {
	if surg.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if surg.Status == "" {
		surg.Status = StatusScheduled
	}
	if !ValidStatus(surg.Status) {
		return fmt.Errorf("invalid status: %s", surg.Status)
	}
	if err := s.surgeries.Create(ctx, surg); err != nil {
		return err
	}
	return s.resync(ctx, surg.PatientID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Surgery, error) {
	return s.surgeries.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, surg *Surgery) error {
	if !ValidStatus(surg.Status) {
		return fmt.Errorf("invalid status: %s", surg.Status)
	}
	current, err := s.surgeries.GetByID(ctx, surg.ID)
	if err != nil {
		return err
	}
	surg.PatientID = current.PatientID
	if err := s.surgeries.Update(ctx, surg); err != nil {
		return err
	}
	return s.resync(ctx, surg.PatientID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.surgeries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.surgeries.Delete(ctx, id); err != nil {
		return err
	}
	return s.resync(ctx, current.PatientID)
}

func (s *Service) resync(ctx context.Context, patientID uuid.UUID) error {
	if s.resyncer == nil {
		return nil
	}
	if err := s.resyncer.ResyncPatient(ctx, patientID); err != nil {
		return fmt.Errorf("resync boards: %w", err)
	}
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Surgery, error) {
	return s.surgeries.ListByPatient(ctx, patientID)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Surgery, int, error) {
	if status != "" && !ValidStatus(status) {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.surgeries.List(ctx, status, limit, offset)
}
