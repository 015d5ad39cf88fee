package surgery

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled  = "scheduled"
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is one of the known surgery statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Surgery maps to the surgery table. ScheduledDate is nil for surgeries
// that are planned but not yet booked into a slot.
type Surgery struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	EpisodeID     *uuid.UUID `db:"episode_id" json:"episode_id,omitempty"`
	SurgeryType   *string    `db:"surgery_type" json:"surgery_type,omitempty"`
	Status        string     `db:"status" json:"status"`
	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	Surgeon       *string    `db:"surgeon" json:"surgeon,omitempty"`
	Note          *string    `db:"note" json:"note,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
