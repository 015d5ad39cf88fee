package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rsmarcelinoo/surgical-patient-hub/internal/platform/db"
)

// DefaultColumns is the column set a new board starts with when the
// caller does not supply one. The ids are the sync policy's targets.
var DefaultColumns = []Column{
	{ID: ColumnWaiting, Name: "Waiting", Color: "#94a3b8"},
	{ID: ColumnScheduled, Name: "Scheduled", Color: "#60a5fa"},
	{ID: ColumnPending, Name: "Pending", Color: "#fbbf24"},
	{ID: ColumnOperated, Name: "Operated", Color: "#4ade80"},
}

type Service struct {
	boards Repository
	pool   *pgxpool.Pool
	syncer *Syncer
}

// NewService builds the board service. pool may be nil (tests); when
// set, multi-row deletes run inside one transaction.
func NewService(boards Repository, pool *pgxpool.Pool) *Service {
	return &Service{boards: boards, pool: pool}
}

// SetSyncer installs the sync engine used by ResetOverride to re-derive
// a card's column right after the latch is cleared.
func (s *Service) SetSyncer(sy *Syncer) {
	s.syncer = sy
}

func (s *Service) CreateBoard(ctx context.Context, b *Board) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(b.Columns) == 0 {
		b.Columns = append([]Column(nil), DefaultColumns...)
	}
	seen := make(map[string]bool, len(b.Columns))
	for i := range b.Columns {
		if b.Columns[i].ID == "" {
			b.Columns[i].ID = slugify(b.Columns[i].Name)
		}
		if b.Columns[i].ID == "" || seen[b.Columns[i].ID] {
			return fmt.Errorf("%w: duplicate or empty column id %q", ErrInvalidColumn, b.Columns[i].ID)
		}
		seen[b.Columns[i].ID] = true
	}
	return s.boards.CreateBoard(ctx, b)
}

func (s *Service) GetBoard(ctx context.Context, id uuid.UUID) (*Board, error) {
	return s.boards.GetBoard(ctx, id)
}

func (s *Service) ListBoards(ctx context.Context, limit, offset int) ([]*Board, int, error) {
	return s.boards.ListBoards(ctx, limit, offset)
}

// UpdateBoard renames the board or changes its hospital/service fields.
// Columns are managed through the column operations, never here.
func (s *Service) UpdateBoard(ctx context.Context, id uuid.UUID, name string, hospitalID *uuid.UUID, service *string) (*Board, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	b, err := s.boards.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Name = name
	b.HospitalID = hospitalID
	b.Service = service
	if err := s.boards.UpdateBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBoard removes the board's cards and then the board itself. The
// two deletes run in one transaction when a pool is wired.
func (s *Service) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	if _, err := s.boards.GetBoard(ctx, id); err != nil {
		return err
	}
	del := func(ctx context.Context) error {
		if err := s.boards.DeleteCardsByBoard(ctx, id); err != nil {
			return err
		}
		return s.boards.DeleteBoard(ctx, id)
	}
	if s.pool != nil {
		return db.WithTx(ctx, s.pool, del)
	}
	return del(ctx)
}

// ListCardsInColumn returns the column's cards ordered by position and
// then filtered. Ordering is persisted state; the filter is a view
// concern and never touches positions.
func (s *Service) ListCardsInColumn(ctx context.Context, boardID uuid.UUID, columnID string, filter CardFilter) ([]*Card, error) {
	b, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !b.HasColumn(columnID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, columnID)
	}
	cards, err := s.boards.ListCardsInColumn(ctx, boardID, columnID)
	if err != nil {
		return nil, err
	}
	filtered := make([]*Card, 0, len(cards))
	for _, c := range cards {
		if filter.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// AddCard places a patient on a board. A patient has at most one card
// per board; the new card appends to the end of the target column.
func (s *Service) AddCard(ctx context.Context, c *Card) error {
	if c.BoardID == uuid.Nil || c.PatientID == uuid.Nil {
		return fmt.Errorf("board_id and patient_id are required")
	}
	if c.Priority == "" {
		c.Priority = PriorityNormal
	}
	if !ValidPriority(c.Priority) {
		return fmt.Errorf("invalid priority: %s", c.Priority)
	}
	b, err := s.boards.GetBoard(ctx, c.BoardID)
	if err != nil {
		return err
	}
	if !b.HasColumn(c.ColumnID) {
		return fmt.Errorf("%w: %s", ErrInvalidColumn, c.ColumnID)
	}
	if existing, err := s.boards.GetCardByBoardPatient(ctx, c.BoardID, c.PatientID); err == nil && existing != nil {
		return ErrDuplicateCard
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	count, err := s.boards.CountCardsInColumn(ctx, c.BoardID, c.ColumnID)
	if err != nil {
		return err
	}
	c.Position = count
	if c.Checklist == nil {
		c.Checklist = []ChecklistItem{}
	}
	return s.boards.CreateCard(ctx, c)
}

func (s *Service) GetCard(ctx context.Context, id uuid.UUID) (*Card, error) {
	return s.boards.GetCard(ctx, id)
}

// MoveCard applies a user-initiated move. A cross-column move latches
// manual_override; reordering within a column does not. Validation
// happens before any write.
func (s *Service) MoveCard(ctx context.Context, cardID uuid.UUID, targetColumnID string, targetPosition *int) (*Card, error) {
	if targetPosition != nil && *targetPosition < 0 {
		return nil, fmt.Errorf("position must not be negative: %d", *targetPosition)
	}
	c, err := s.boards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	b, err := s.boards.GetBoard(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	if !b.HasColumn(targetColumnID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, targetColumnID)
	}

	if targetColumnID != c.ColumnID {
		c.ColumnID = targetColumnID
		c.ManualOverride = true
		if targetPosition != nil {
			c.Position = *targetPosition
		} else {
			count, err := s.boards.CountCardsInColumn(ctx, c.BoardID, targetColumnID)
			if err != nil {
				return nil, err
			}
			c.Position = count
		}
	} else if targetPosition != nil {
		c.Position = *targetPosition
	} else {
		return c, nil
	}

	if err := s.boards.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveCard deletes one card. Other cards keep their positions; gaps
// are fine, ordering stays relative.
func (s *Service) RemoveCard(ctx context.Context, cardID uuid.UUID) error {
	if _, err := s.boards.GetCard(ctx, cardID); err != nil {
		return err
	}
	return s.boards.DeleteCard(ctx, cardID)
}

// UpdateCard edits the card's descriptive fields. Placement and the
// override latch are only changed through MoveCard and ResetOverride.
func (s *Service) UpdateCard(ctx context.Context, cardID uuid.UUID, priority string, scheduledDate *string, surgeryType, note *string) (*Card, error) {
	c, err := s.boards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if priority != "" {
		if !ValidPriority(priority) {
			return nil, fmt.Errorf("invalid priority: %s", priority)
		}
		c.Priority = priority
	}
	if scheduledDate != nil {
		t, err := parseDate(*scheduledDate)
		if err != nil {
			return nil, err
		}
		c.ScheduledDate = t
	}
	if surgeryType != nil {
		c.SurgeryType = surgeryType
	}
	if note != nil {
		c.Note = note
	}
	if err := s.boards.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// parseDate accepts RFC3339 or a bare date; empty clears the field.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &t, nil
}

// ResetOverride clears the manual latch and immediately re-derives the
// card's column from the patient's surgical status.
func (s *Service) ResetOverride(ctx context.Context, cardID uuid.UUID) (*Card, error) {
	c, err := s.boards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	c.ManualOverride = false
	if err := s.boards.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	if s.syncer != nil {
		if err := s.syncer.ResyncPatient(ctx, c.PatientID); err != nil {
			return nil, err
		}
		return s.boards.GetCard(ctx, cardID)
	}
	return c, nil
}

// ReorderColumns replaces the board's column list wholesale. Every
// column id still referenced by a card must survive the new list.
func (s *Service) ReorderColumns(ctx context.Context, boardID uuid.UUID, columns []Column) (*Board, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: column list must not be empty", ErrInvalidColumn)
	}
	b, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.ID == "" || seen[col.ID] {
			return nil, fmt.Errorf("%w: duplicate or empty column id %q", ErrInvalidColumn, col.ID)
		}
		seen[col.ID] = true
	}
	cards, err := s.boards.ListCardsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		if !seen[c.ColumnID] {
			return nil, fmt.Errorf("%w: column %s still has cards", ErrInvalidColumn, c.ColumnID)
		}
	}
	b.Columns = columns
	if err := s.boards.UpdateBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddColumn appends a column to the board. The id defaults to a slug of
// the name and must be unique on the board.
func (s *Service) AddColumn(ctx context.Context, boardID uuid.UUID, col Column) (*Board, error) {
	if col.Name == "" {
		return nil, fmt.Errorf("column name is required")
	}
	if col.ID == "" {
		col.ID = slugify(col.Name)
	}
	b, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if b.HasColumn(col.ID) {
		return nil, fmt.Errorf("%w: column %s already exists", ErrInvalidColumn, col.ID)
	}
	b.Columns = append(b.Columns, col)
	if err := s.boards.UpdateBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// EditColumn renames or recolors a column in place. The id is stable.
func (s *Service) EditColumn(ctx context.Context, boardID uuid.UUID, columnID, name, color string) (*Board, error) {
	b, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			if name != "" {
				b.Columns[i].Name = name
			}
			if color != "" {
				b.Columns[i].Color = color
			}
			if err := s.boards.UpdateBoard(ctx, b); err != nil {
				return nil, err
			}
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, columnID)
}

// DeleteColumn removes a column from the board. Deletion is blocked
// while any card still references the column; cards are never silently
// orphaned.
func (s *Service) DeleteColumn(ctx context.Context, boardID uuid.UUID, columnID string) (*Board, error) {
	b, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !b.HasColumn(columnID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, columnID)
	}
	count, err := s.boards.CountCardsInColumn(ctx, boardID, columnID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: column %s still has %d cards", ErrInvalidColumn, columnID, count)
	}
	kept := make([]Column, 0, len(b.Columns)-1)
	for _, col := range b.Columns {
		if col.ID != columnID {
			kept = append(kept, col)
		}
	}
	b.Columns = kept
	if err := s.boards.UpdateBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
