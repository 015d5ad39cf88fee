package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// mockStore is a map-backed Repository shared by the package tests.
// failUpdateCard simulates a store failure on card writes.
type mockStore struct {
	boards         map[uuid.UUID]*Board
	cards          map[uuid.UUID]*Card
	failUpdateCard bool
}

func newMockStore() *mockStore {
	return &mockStore{
		boards: make(map[uuid.UUID]*Board),
		cards:  make(map[uuid.UUID]*Card),
	}
}

func (m *mockStore) CreateBoard(_ context.Context, b *Board) error {
	b.ID = uuid.New()
	m.boards[b.ID] = b
	return nil
}

func (m *mockStore) GetBoard(_ context.Context, id uuid.UUID) (*Board, error) {
	b, ok := m.boards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *mockStore) UpdateBoard(_ context.Context, b *Board) error {
	if _, ok := m.boards[b.ID]; !ok {
		return ErrNotFound
	}
	m.boards[b.ID] = b
	return nil
}

func (m *mockStore) DeleteBoard(_ context.Context, id uuid.UUID) error {
	delete(m.boards, id)
	return nil
}

func (m *mockStore) ListBoards(_ context.Context, limit, offset int) ([]*Board, int, error) {
	var result []*Board
	for _, b := range m.boards {
		result = append(result, b)
	}
	return result, len(result), nil
}

func (m *mockStore) CreateCard(_ context.Context, c *Card) error {
	c.ID = uuid.New()
	m.cards[c.ID] = c
	return nil
}

func (m *mockStore) GetCard(_ context.Context, id uuid.UUID) (*Card, error) {
	c, ok := m.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockStore) GetCardByBoardPatient(_ context.Context, boardID, patientID uuid.UUID) (*Card, error) {
	for _, c := range m.cards {
		if c.BoardID == boardID && c.PatientID == patientID {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockStore) UpdateCard(_ context.Context, c *Card) error {
	if m.failUpdateCard {
		return fmt.Errorf("store unavailable")
	}
	if _, ok := m.cards[c.ID]; !ok {
		return ErrNotFound
	}
	m.cards[c.ID] = c
	return nil
}

func (m *mockStore) DeleteCard(_ context.Context, id uuid.UUID) error {
	delete(m.cards, id)
	return nil
}

func (m *mockStore) DeleteCardsByBoard(_ context.Context, boardID uuid.UUID) error {
	for id, c := range m.cards {
		if c.BoardID == boardID {
			delete(m.cards, id)
		}
	}
	return nil
}

func (m *mockStore) ListCardsInColumn(_ context.Context, boardID uuid.UUID, columnID string) ([]*Card, error) {
	var result []*Card
	for _, c := range m.cards {
		if c.BoardID == boardID && c.ColumnID == columnID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockStore) ListCardsByBoard(_ context.Context, boardID uuid.UUID) ([]*Card, error) {
	var result []*Card
	for _, c := range m.cards {
		if c.BoardID == boardID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockStore) ListCardsByPatient(_ context.Context, patientID uuid.UUID) ([]*Card, error) {
	var result []*Card
	for _, c := range m.cards {
		if c.PatientID == patientID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockStore) CountCardsInColumn(_ context.Context, boardID uuid.UUID, columnID string) (int, error) {
	n := 0
	for _, c := range m.cards {
		if c.BoardID == boardID && c.ColumnID == columnID {
			n++
		}
	}
	return n, nil
}

func newTestBoard(t *testing.T, svc *Service, columns ...Column) *Board {
	t.Helper()
	b := &Board{Name: "Ortho Waitlist", Columns: columns}
	if err := svc.CreateBoard(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func addCard(t *testing.T, svc *Service, boardID uuid.UUID, columnID string) *Card {
	t.Helper()
	c := &Card{BoardID: boardID, PatientID: uuid.New(), ColumnID: columnID}
	if err := svc.AddCard(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestCreateBoard_DefaultColumns(t *testing.T) {
	svc := NewService(newMockStore(), nil)
	b := newTestBoard(t, svc)
	if len(b.Columns) != 4 {
		t.Fatalf("expected 4 default columns, got %d", len(b.Columns))
	}
	if b.Columns[0].ID != ColumnWaiting || b.Columns[3].ID != ColumnOperated {
		t.Errorf("unexpected default column order: %+v", b.Columns)
	}
}

func TestAddCard_Uniqueness(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	patientID := uuid.New()

	first := &Card{BoardID: b.ID, PatientID: patientID, ColumnID: ColumnWaiting}
	if err := svc.AddCard(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := &Card{BoardID: b.ID, PatientID: patientID, ColumnID: ColumnScheduled}
	if err := svc.AddCard(context.Background(), dup); !errors.Is(err, ErrDuplicateCard) {
		t.Fatalf("expected ErrDuplicateCard, got %v", err)
	}
	if len(store.cards) != 1 {
		t.Errorf("duplicate add must create no row, have %d cards", len(store.cards))
	}
}

func TestAddCard_MonotonicPositions(t *testing.T) {
	svc := NewService(newMockStore(), nil)
	b := newTestBoard(t, svc)

	for want := 0; want < 3; want++ {
		c := addCard(t, svc, b.ID, ColumnWaiting)
		if c.Position != want {
			t.Errorf("card %d: expected position %d, got %d", want, want, c.Position)
		}
	}
}

func TestMoveCard_CrossColumnLatchesOverride(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	c := addCard(t, svc, b.ID, ColumnWaiting)

	moved, err := svc.MoveCard(context.Background(), c.ID, ColumnScheduled, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.ColumnID != ColumnScheduled {
		t.Errorf("expected column scheduled, got %s", moved.ColumnID)
	}
	if !moved.ManualOverride {
		t.Error("cross-column move must latch manual_override")
	}

	// A later resync must leave the manually placed card alone.
	sy := NewSyncer(store, &mockSurgeries{}, zerolog.Nop())
	if err := sy.ResyncPatient(context.Background(), c.PatientID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := store.GetCard(context.Background(), c.ID)
	if after.ColumnID != ColumnScheduled {
		t.Errorf("resync moved an overridden card to %s", after.ColumnID)
	}
}

func TestMoveCard_SameColumnReorderDoesNotLatch(t *testing.T) {
	svc := NewService(newMockStore(), nil)
	b := newTestBoard(t, svc)
	c := addCard(t, svc, b.ID, ColumnWaiting)
	addCard(t, svc, b.ID, ColumnWaiting)

	pos := 1
	moved, err := svc.MoveCard(context.Background(), c.ID, ColumnWaiting, &pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Position != 1 {
		t.Errorf("expected position 1, got %d", moved.Position)
	}
	if moved.ManualOverride {
		t.Error("same-column reorder must not latch manual_override")
	}
}

func TestMoveCard_UnknownCard(t *testing.T) {
	svc := NewService(newMockStore(), nil)
	if _, err := svc.MoveCard(context.Background(), uuid.New(), ColumnWaiting, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMoveCard_InvalidColumn(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	c := addCard(t, svc, b.ID, ColumnWaiting)

	if _, err := svc.MoveCard(context.Background(), c.ID, "discharge", nil); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
	after, _ := store.GetCard(context.Background(), c.ID)
	if after.ColumnID != ColumnWaiting || after.ManualOverride {
		t.Error("rejected move must not write")
	}
}

func TestMoveCard_NegativePosition(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	c := addCard(t, svc, b.ID, ColumnWaiting)

	pos := -1
	if _, err := svc.MoveCard(context.Background(), c.ID, ColumnScheduled, &pos); err == nil {
		t.Fatal("expected error for negative position")
	}
	after, _ := store.GetCard(context.Background(), c.ID)
	if after.ColumnID != ColumnWaiting || after.Position != 0 || after.ManualOverride {
		t.Error("rejected move must not write")
	}
}

func TestRemoveCard_KeepsOtherPositions(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	first := addCard(t, svc, b.ID, ColumnWaiting)
	second := addCard(t, svc, b.ID, ColumnWaiting)

	if err := svc.RemoveCard(context.Background(), first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := store.GetCard(context.Background(), second.ID)
	if after.Position != 1 {
		t.Errorf("remove must not renumber others: got position %d", after.Position)
	}

	if err := svc.RemoveCard(context.Background(), first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for removed card, got %v", err)
	}
}

func TestListCardsInColumn_DateFilterExcludesUndated(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	dated1 := addCard(t, svc, b.ID, ColumnWaiting)
	dated1.ScheduledDate = &jan
	dated2 := addCard(t, svc, b.ID, ColumnWaiting)
	dated2.ScheduledDate = &feb
	addCard(t, svc, b.ID, ColumnWaiting) // undated

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	cards, err := svc.ListCardsInColumn(context.Background(), b.ID, ColumnWaiting, CardFilter{DateFrom: &from})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || !cards[0].ScheduledDate.Equal(feb) {
		t.Fatalf("expected only the 2024-02-01 card, got %d cards", len(cards))
	}
}

func TestListCardsInColumn_FilterNeverMutatesPositions(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	c1 := addCard(t, svc, b.ID, ColumnWaiting)
	c2 := addCard(t, svc, b.ID, ColumnWaiting)
	c1.Priority = PriorityLow
	c2.Priority = PriorityUrgent

	cards, err := svc.ListCardsInColumn(context.Background(), b.ID, ColumnWaiting, CardFilter{Priority: PriorityUrgent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].Position != 1 {
		t.Fatalf("expected the urgent card with its persisted position 1")
	}
}

func TestLastWriteWins(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	c := addCard(t, svc, b.ID, ColumnWaiting)

	if _, err := svc.MoveCard(context.Background(), c.ID, ColumnScheduled, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.MoveCard(context.Background(), c.ID, ColumnPending, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := store.GetCard(context.Background(), c.ID)
	if after.ColumnID != ColumnPending {
		t.Errorf("expected last move to win, card is in %s", after.ColumnID)
	}
}

func TestScenario_OrthoWaitlist(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc,
		Column{ID: ColumnWaiting, Name: "Waiting"},
		Column{ID: ColumnScheduled, Name: "Scheduled"},
		Column{ID: ColumnOperated, Name: "Operated"},
	)

	jane := addCard(t, svc, b.ID, ColumnWaiting)
	john := addCard(t, svc, b.ID, ColumnWaiting)
	if jane.Position != 0 || john.Position != 1 {
		t.Fatalf("expected positions 0 and 1, got %d and %d", jane.Position, john.Position)
	}

	moved, err := svc.MoveCard(context.Background(), john.ID, ColumnScheduled, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.ColumnID != ColumnScheduled || moved.Position != 0 || !moved.ManualOverride {
		t.Errorf("john: expected scheduled/0/override, got %s/%d/%v", moved.ColumnID, moved.Position, moved.ManualOverride)
	}

	after, _ := store.GetCard(context.Background(), jane.ID)
	if after.ColumnID != ColumnWaiting || after.Position != 0 {
		t.Errorf("jane must be untouched, got %s/%d", after.ColumnID, after.Position)
	}
}

func TestReorderColumns_MustKeepReferencedColumns(t *testing.T) {
	svc := NewService(newMockStore(), nil)
	b := newTestBoard(t, svc)
	addCard(t, svc, b.ID, ColumnWaiting)

	// Permutation keeping all ids is fine.
	perm := []Column{b.Columns[3], b.Columns[2], b.Columns[1], b.Columns[0]}
	updated, err := svc.ReorderColumns(context.Background(), b.ID, perm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Columns[0].ID != ColumnOperated {
		t.Errorf("expected reversed order, got %+v", updated.Columns)
	}

	// Dropping a column that still has cards is rejected.
	short := []Column{{ID: ColumnScheduled, Name: "Scheduled"}}
	if _, err := svc.ReorderColumns(context.Background(), b.ID, short); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
}

func TestDeleteColumn_BlockedWhenReferenced(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	c := addCard(t, svc, b.ID, ColumnWaiting)

	if _, err := svc.DeleteColumn(context.Background(), b.ID, ColumnWaiting); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn while cards reference the column, got %v", err)
	}

	if err := svc.RemoveCard(context.Background(), c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := svc.DeleteColumn(context.Background(), b.ID, ColumnWaiting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.HasColumn(ColumnWaiting) {
		t.Error("expected column to be gone")
	}
}

func TestAddEditColumn(t *testing.T) {
	svc := NewService(newMockStore(), nil)
	b := newTestBoard(t, svc)

	updated, err := svc.AddColumn(context.Background(), b.ID, Column{Name: "Post Op Review"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.HasColumn("post-op-review") {
		t.Fatalf("expected slug id, columns: %+v", updated.Columns)
	}

	if _, err := svc.AddColumn(context.Background(), b.ID, Column{ID: ColumnWaiting, Name: "Again"}); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn for duplicate id, got %v", err)
	}

	updated, err = svc.EditColumn(context.Background(), b.ID, "post-op-review", "Review", "#fff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := updated.Columns[len(updated.Columns)-1]
	if last.Name != "Review" || last.Color != "#fff" {
		t.Errorf("edit not applied: %+v", last)
	}
}

func TestDeleteBoard_RemovesCards(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, nil)
	b := newTestBoard(t, svc)
	addCard(t, svc, b.ID, ColumnWaiting)
	addCard(t, svc, b.ID, ColumnScheduled)

	if err := svc.DeleteBoard(context.Background(), b.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.cards) != 0 {
		t.Errorf("expected no cards after board delete, have %d", len(store.cards))
	}
	if _, err := svc.GetBoard(context.Background(), b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChecklistLifecycle(t *testing.T) {
	svc := NewService(newMockStore(), nil)
	b := newTestBoard(t, svc)
	c := addCard(t, svc, b.ID, ColumnWaiting)

	card, err := svc.AddChecklistItem(context.Background(), c.ID, "anesthesia clearance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(card.Checklist) != 1 || card.Checklist[0].Completed {
		t.Fatalf("expected one incomplete item, got %+v", card.Checklist)
	}

	itemID := card.Checklist[0].ID
	card, err = svc.ToggleChecklistItem(context.Background(), c.ID, itemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !card.Checklist[0].Completed {
		t.Error("expected item to be completed after toggle")
	}

	card, err = svc.RemoveChecklistItem(context.Background(), c.ID, itemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(card.Checklist) != 0 {
		t.Errorf("expected empty checklist, got %+v", card.Checklist)
	}

	if _, err := svc.ToggleChecklistItem(context.Background(), c.ID, itemID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for removed item, got %v", err)
	}
}
