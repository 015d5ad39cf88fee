package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is a specialist visit in a patient's workup, e.g. an
// anesthesia clearance before a scheduled surgery.
type Consultation struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	EpisodeID   *uuid.UUID `db:"episode_id" json:"episode_id,omitempty"`
	Consultant  string     `db:"consultant" json:"consultant"`
	Specialty   *string    `db:"specialty" json:"specialty,omitempty"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	Outcome     *string    `db:"outcome" json:"outcome,omitempty"`
	Note        *string    `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
