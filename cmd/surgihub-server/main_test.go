package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/surgery"
)

type stubSurgeryRepo struct {
	surgery.Repository
	byPatient map[uuid.UUID][]*surgery.Surgery
}

func (s *stubSurgeryRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*surgery.Surgery, error) {
	return s.byPatient[patientID], nil
}

func TestSurgerySourceAdapter_PatientSurgeries(t *testing.T) {
	patientID := uuid.New()
	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &stubSurgeryRepo{byPatient: map[uuid.UUID][]*surgery.Surgery{
		patientID: {
			{ID: uuid.New(), PatientID: patientID, Status: surgery.StatusScheduled, ScheduledDate: &date},
		},
	}}
	adapter := &surgerySourceAdapter{repo: repo}

	infos, err := adapter.PatientSurgeries(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 surgery, got %d", len(infos))
	}
	if infos[0].Status != surgery.StatusScheduled || !infos[0].ScheduledDate.Equal(date) {
		t.Errorf("mapping lost fields: %+v", infos[0])
	}
}

func TestToSurgeryInfo_Empty(t *testing.T) {
	if got := toSurgeryInfo(nil); len(got) != 0 {
		t.Errorf("expected empty slice, got %d entries", len(got))
	}
}
