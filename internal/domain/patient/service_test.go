package patient

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	for _, p := range m.patients {
		if p.MedicalRecordNumber == mrn {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, filter SearchFilter, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(p.GivenName), q) &&
				!strings.Contains(strings.ToLower(p.FamilyName), q) &&
				!strings.Contains(strings.ToLower(p.MedicalRecordNumber), q) {
				continue
			}
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{MedicalRecordNumber: "MRN-001", GivenName: "Ana", FamilyName: "Silva"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreatePatient_MRNRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &Patient{GivenName: "Ana", FamilyName: "Silva"})
	if err == nil {
		t.Error("expected error for missing MRN")
	}
}

func TestCreatePatient_DuplicateMRN(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{MedicalRecordNumber: "MRN-001", GivenName: "Ana", FamilyName: "Silva"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := &Patient{MedicalRecordNumber: "MRN-001", GivenName: "Bruno", FamilyName: "Costa"}
	if err := svc.Create(context.Background(), dup); err == nil {
		t.Error("expected error for duplicate MRN")
	}
}

func TestUpdatePatient_KeepsOwnMRN(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{MedicalRecordNumber: "MRN-001", GivenName: "Ana", FamilyName: "Silva"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.GivenName = "Ana Maria"
	if err := svc.Update(context.Background(), p); err != nil {
		t.Fatalf("update with unchanged MRN should succeed: %v", err)
	}
}

func TestUpdatePatient_MRNCollision(t *testing.T) {
	svc := NewService(newMockRepo())
	a := &Patient{MedicalRecordNumber: "MRN-001", GivenName: "Ana", FamilyName: "Silva"}
	b := &Patient{MedicalRecordNumber: "MRN-002", GivenName: "Bruno", FamilyName: "Costa"}
	svc.Create(context.Background(), a)
	svc.Create(context.Background(), b)

	b.MedicalRecordNumber = "MRN-001"
	if err := svc.Update(context.Background(), b); err == nil {
		t.Error("expected error when changing MRN to an existing one")
	}
}

func TestListPatients_QueryFilter(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.Create(context.Background(), &Patient{MedicalRecordNumber: "MRN-001", GivenName: "Ana", FamilyName: "Silva"})
	svc.Create(context.Background(), &Patient{MedicalRecordNumber: "MRN-002", GivenName: "Bruno", FamilyName: "Costa"})

	items, _, err := svc.List(context.Background(), SearchFilter{Query: "silva"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].FamilyName != "Silva" {
		t.Errorf("expected only Silva, got %d items", len(items))
	}
}
