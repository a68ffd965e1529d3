package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. Allergies, medical history and tags are
// true string arrays (text[] columns); the bed and attending references are
// by id only and may dangle, deletes never cascade across contexts.
type Patient struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	MRN             string     `db:"mrn" json:"mrn"`
	FirstName       string     `db:"first_name" json:"first_name"`
	LastName        string     `db:"last_name" json:"last_name"`
	BirthDate       *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender          *string    `db:"gender" json:"gender,omitempty"`
	BloodType       *string    `db:"blood_type" json:"blood_type,omitempty"`
	Email           *string    `db:"email" json:"email,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	AddressLine     *string    `db:"address_line" json:"address_line,omitempty"`
	City            *string    `db:"city" json:"city,omitempty"`
	PostalCode      *string    `db:"postal_code" json:"postal_code,omitempty"`
	Allergies       []string   `db:"allergies" json:"allergies"`
	MedicalHistory  []string   `db:"medical_history" json:"medical_history"`
	Tags            []string   `db:"tags" json:"tags"`
	AttendingID     *uuid.UUID `db:"attending_id" json:"attending_id,omitempty"`
	BedID           *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	AdmissionStatus string     `db:"admission_status" json:"admission_status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Age returns whole years at the reference time, or -1 when the birth date
// is unknown.
func (p *Patient) Age(at time.Time) int {
	if p.BirthDate == nil {
		return -1
	}
	years := at.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

// RiskEntry is the derived per-patient risk view. Scores are recomputed on
// every read and never persisted.
type RiskEntry struct {
	PatientID uuid.UUID `json:"patient_id"`
	MRN       string    `json:"mrn"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Score     int       `json:"score"`
	Level     string    `json:"level"`
}

// RiskScore weights age, allergy count and history length into a 0-100
// score. Unknown age contributes nothing.
func (p *Patient) RiskScore(at time.Time) int {
	score := 0
	if age := p.Age(at); age >= 65 {
		score += 30
	} else if age >= 50 {
		score += 15
	}
	score += 10 * len(p.Allergies)
	score += 5 * len(p.MedicalHistory)
	if p.AdmissionStatus == StatusAdmitted {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// RiskLevel buckets a score into low/moderate/high.
func RiskLevel(score int) string {
	switch {
	case score >= 60:
		return "high"
	case score >= 30:
		return "moderate"
	default:
		return "low"
	}
}
