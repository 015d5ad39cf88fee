package comment

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	comments map[uuid.UUID]*Comment
}

func newMockRepo() *mockRepo {
	return &mockRepo{comments: make(map[uuid.UUID]*Comment)}
}

func (m *mockRepo) Create(_ context.Context, cm *Comment) error {
	cm.ID = uuid.New()
	m.comments[cm.ID] = cm
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Comment, error) {
	cm, ok := m.comments[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return cm, nil
}

func (m *mockRepo) Update(_ context.Context, cm *Comment) error {
	m.comments[cm.ID] = cm
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.comments, id)
	return nil
}

func (m *mockRepo) ListByCard(_ context.Context, cardID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	var result []*Comment
	for _, cm := range m.comments {
		if cm.CardID != nil && *cm.CardID == cardID {
			result = append(result, cm)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	var result []*Comment
	for _, cm := range m.comments {
		if cm.PatientID != nil && *cm.PatientID == patientID {
			result = append(result, cm)
		}
	}
	return result, len(result), nil
}

func TestCreateComment_OnCard(t *testing.T) {
	svc := NewService(newMockRepo())
	cardID := uuid.New()
	cm := &Comment{CardID: &cardID, Author: "nurse.oliveira", Body: "labs cleared"}
	if err := svc.Create(context.Background(), cm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateComment_RequiresExactlyOneParent(t *testing.T) {
	svc := NewService(newMockRepo())
	cardID := uuid.New()
	patientID := uuid.New()

	if err := svc.Create(context.Background(), &Comment{Author: "a", Body: "b"}); err == nil {
		t.Error("expected error with no parent set")
	}
	both := &Comment{CardID: &cardID, PatientID: &patientID, Author: "a", Body: "b"}
	if err := svc.Create(context.Background(), both); err == nil {
		t.Error("expected error with both parents set")
	}
}

func TestUpdateComment_ReplacesBody(t *testing.T) {
	svc := NewService(newMockRepo())
	cardID := uuid.New()
	cm := &Comment{CardID: &cardID, Author: "nurse.oliveira", Body: "labs pending"}
	if err := svc.Create(context.Background(), cm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(context.Background(), cm.ID, "labs cleared")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Body != "labs cleared" {
		t.Errorf("expected updated body, got %q", updated.Body)
	}

	if _, err := svc.Update(context.Background(), cm.ID, ""); err == nil {
		t.Error("expected error for empty body")
	}
}
