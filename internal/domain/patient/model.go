package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. MedicalRecordNumber is unique
// across the whole installation, not per hospital.
type Patient struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	HospitalID          *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	MedicalRecordNumber string     `db:"medical_record_number" json:"medical_record_number"`
	GivenName           string     `db:"given_name" json:"given_name"`
	FamilyName          string     `db:"family_name" json:"family_name"`
	BirthDate           *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender              *string    `db:"gender" json:"gender,omitempty"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	Note                *string    `db:"note" json:"note,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// SearchFilter narrows List. Query matches name and MRN, case-insensitively.
type SearchFilter struct {
	Query      string
	HospitalID *uuid.UUID
}
