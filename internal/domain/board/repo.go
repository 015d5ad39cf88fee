package board

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the row-store contract for boards and cards. Missing
// rows are reported as ErrNotFound.
type Repository interface {
	CreateBoard(ctx context.Context, b *Board) error
	GetBoard(ctx context.Context, id uuid.UUID) (*Board, error)
	UpdateBoard(ctx context.Context, b *Board) error
	DeleteBoard(ctx context.Context, id uuid.UUID) error
	ListBoards(ctx context.Context, limit, offset int) ([]*Board, int, error)

	CreateCard(ctx context.Context, c *Card) error
	GetCard(ctx context.Context, id uuid.UUID) (*Card, error)
	GetCardByBoardPatient(ctx context.Context, boardID, patientID uuid.UUID) (*Card, error)
	UpdateCard(ctx context.Context, c *Card) error
	DeleteCard(ctx context.Context, id uuid.UUID) error
	DeleteCardsByBoard(ctx context.Context, boardID uuid.UUID) error

	// ListCardsInColumn returns the column's cards ordered ascending by
	// position, with patient name and MRN joined in for display and
	// filtering.
	ListCardsInColumn(ctx context.Context, boardID uuid.UUID, columnID string) ([]*Card, error)
	ListCardsByBoard(ctx context.Context, boardID uuid.UUID) ([]*Card, error)
	ListCardsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Card, error)
	CountCardsInColumn(ctx context.Context, boardID uuid.UUID, columnID string) (int, error)
}
