package comment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	comments Repository
}

func NewService(comments Repository) *Service {
	return &Service{comments: comments}
}

func (s *Service) Create(ctx context.Context, cm *Comment) error {
	if cm.Author == "" {
		return fmt.Errorf("author is required")
	}
	if cm.Body == "" {
		return fmt.Errorf("body is required")
	}
	if (cm.CardID == nil) == (cm.PatientID == nil) {
		return fmt.Errorf("exactly one of card_id or patient_id must be set")
	}
	return s.comments.Create(ctx, cm)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// Update replaces the comment body. Parent and author are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, body string) (*Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}
	cm, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cm.Body = body
	if err := s.comments.Update(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.comments.Delete(ctx, id)
}

func (s *Service) ListByCard(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	return s.comments.ListByCard(ctx, cardID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	return s.comments.ListByPatient(ctx, patientID, limit, offset)
}
