package surgery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Surgery) error
	GetByID(ctx context.Context, id uuid.UUID) (*Surgery, error)
	Update(ctx context.Context, s *Surgery) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Surgery, error)
	List(ctx context.Context, status string, limit, offset int) ([]*Surgery, int, error)
	// ListOverdue returns surgeries still in status scheduled whose
	// scheduled date is strictly before now.
	ListOverdue(ctx context.Context, now time.Time) ([]*Surgery, error)
	// MarkPending flips the given surgeries to status pending.
	MarkPending(ctx context.Context, ids []uuid.UUID) error
}
