package episode

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	episodes Repository
}

func NewService(episodes Repository) *Service {
	return &Service{episodes: episodes}
}

func (s *Service) Create(ctx context.Context, e *Episode) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if e.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if e.Status == "" {
		e.Status = StatusOpen
	}
	if e.Status != StatusOpen && e.Status != StatusClosed {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	return s.episodes.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Episode, error) {
	return s.episodes.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Episode) error {
	if e.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if e.Status != StatusOpen && e.Status != StatusClosed {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	return s.episodes.Update(ctx, e)
}

// Close marks the episode closed and stamps closed_at.
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*Episode, error) {
	e, err := s.episodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status == StatusClosed {
		return nil, fmt.Errorf("episode is already closed")
	}
	now := time.Now()
	e.Status = StatusClosed
	e.ClosedAt = &now
	if err := s.episodes.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.episodes.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Episode, int, error) {
	return s.episodes.ListByPatient(ctx, patientID, limit, offset)
}
