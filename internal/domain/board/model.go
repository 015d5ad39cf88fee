package board

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known column slugs the sync policy derives into. Boards are free
// to carry additional columns; these four are the automatic targets.
const (
	ColumnWaiting   = "waiting"
	ColumnScheduled = "scheduled"
	ColumnPending   = "pending"
	ColumnOperated  = "operated"
)

const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// ValidPriority reports whether p is one of the known card priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// Column is a workflow stage on a board, identified by a stable slug.
// The ordered list lives in the board's columns JSONB field.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Board is a named workflow container. Column order is the order of the
// Columns slice.
type Board struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	HospitalID *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	Service    *string    `db:"service" json:"service,omitempty"`
	Columns    []Column   `db:"columns" json:"columns"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// HasColumn reports whether the board carries a column with the given id.
func (b *Board) HasColumn(columnID string) bool {
	for _, c := range b.Columns {
		if c.ID == columnID {
			return true
		}
	}
	return false
}

// ChecklistItem is one entry of a card's typed checklist.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Card is a patient's placement on one board. A patient has at most one
// card per board. ManualOverride latches when a user drags the card to a
// different column and exempts it from per-patient resync.
type Card struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	BoardID        uuid.UUID       `db:"board_id" json:"board_id"`
	PatientID      uuid.UUID       `db:"patient_id" json:"patient_id"`
	ColumnID       string          `db:"column_id" json:"column_id"`
	Position       int             `db:"position" json:"position"`
	Priority       string          `db:"priority" json:"priority"`
	ScheduledDate  *time.Time      `db:"scheduled_date" json:"scheduled_date,omitempty"`
	SurgeryType    *string         `db:"surgery_type" json:"surgery_type,omitempty"`
	Note           *string         `db:"note" json:"note,omitempty"`
	Checklist      []ChecklistItem `db:"checklist" json:"checklist"`
	ManualOverride bool            `db:"manual_override" json:"manual_override"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`

	// Denormalized from the patient row on column reads, for display
	// and free-text filtering. Never written back.
	PatientName string `db:"-" json:"patient_name,omitempty"`
	PatientMRN  string `db:"-" json:"patient_mrn,omitempty"`
}

// CardFilter is a view-level predicate bundle. Filtering happens after
// ordering and never mutates positions.
type CardFilter struct {
	Query    string
	Priority string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Matches applies the filter to a card. A card with no scheduled date
// is excluded whenever either date bound is set.
func (f CardFilter) Matches(c *Card) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		st := ""
		if c.SurgeryType != nil {
			st = *c.SurgeryType
		}
		if !strings.Contains(strings.ToLower(c.PatientName), q) &&
			!strings.Contains(strings.ToLower(c.PatientMRN), q) &&
			!strings.Contains(strings.ToLower(st), q) {
			return false
		}
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.DateFrom != nil || f.DateTo != nil {
		if c.ScheduledDate == nil {
			return false
		}
		if f.DateFrom != nil && c.ScheduledDate.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && c.ScheduledDate.After(*f.DateTo) {
			return false
		}
	}
	return true
}

// slugify turns a column name into a stable slug id.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	return s
}
