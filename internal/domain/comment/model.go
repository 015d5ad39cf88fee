package comment

import (
	"time"

	"github.com/google/uuid"
)

// Comment hangs off exactly one parent: a board card or a patient
// record. The store enforces the same constraint with a CHECK.
type Comment struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	CardID    *uuid.UUID `db:"card_id" json:"card_id,omitempty"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	Author    string     `db:"author" json:"author"`
	Body      string     `db:"body" json:"body"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
