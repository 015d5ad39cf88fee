package attachment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	attachments Repository
}

func NewService(attachments Repository) *Service {
	return &Service{attachments: attachments}
}

func (s *Service) Create(ctx context.Context, a *Attachment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.FileName == "" {
		return fmt.Errorf("file_name is required")
	}
	if a.StorageKey == "" {
		return fmt.Errorf("storage_key is required")
	}
	if a.SizeBytes < 0 {
		return fmt.Errorf("size_bytes must not be negative")
	}
	return s.attachments.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	return s.attachments.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.attachments.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Attachment, int, error) {
	return s.attachments.ListByPatient(ctx, patientID, limit, offset)
}
