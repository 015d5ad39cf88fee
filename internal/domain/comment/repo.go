package comment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, cm *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	Update(ctx context.Context, cm *Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCard(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]*Comment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Comment, int, error)
}
