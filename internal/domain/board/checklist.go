package board

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Checklist items live inside the card's checklist JSONB field, so each
// mutation is a read-modify-write of the owning card.

func (s *Service) AddChecklistItem(ctx context.Context, cardID uuid.UUID, text string) (*Card, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	c, err := s.boards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	c.Checklist = append(c.Checklist, ChecklistItem{
		ID:   uuid.New().String(),
		Text: text,
	})
	if err := s.boards.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ToggleChecklistItem(ctx context.Context, cardID uuid.UUID, itemID string) (*Card, error) {
	c, err := s.boards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	for i := range c.Checklist {
		if c.Checklist[i].ID == itemID {
			c.Checklist[i].Completed = !c.Checklist[i].Completed
			if err := s.boards.UpdateCard(ctx, c); err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: checklist item %s", ErrNotFound, itemID)
}

func (s *Service) RemoveChecklistItem(ctx context.Context, cardID uuid.UUID, itemID string) (*Card, error) {
	c, err := s.boards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	kept := make([]ChecklistItem, 0, len(c.Checklist))
	found := false
	for _, item := range c.Checklist {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, fmt.Errorf("%w: checklist item %s", ErrNotFound, itemID)
	}
	c.Checklist = kept
	if err := s.boards.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
