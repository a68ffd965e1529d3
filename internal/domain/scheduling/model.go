package scheduling

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the appointment table.
type Appointment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	StaffID    uuid.UUID `db:"staff_id" json:"staff_id"`
	Room       *string   `db:"room" json:"room,omitempty"`
	Title      string    `db:"title" json:"title"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	Status     string    `db:"status" json:"status"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	Telehealth bool      `db:"telehealth" json:"telehealth"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Duration returns the appointment length.
func (a *Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// Overlaps reports whether two appointments intersect in time. Touching
// boundaries (one ends exactly when the other starts) do not overlap.
func (a *Appointment) Overlaps(b *Appointment) bool {
	return a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
}

// Conflict is a derived pair of overlapping appointments for one staff
// member. Conflicts are reported, never rejected; double booking is legal.
type Conflict struct {
	StaffID uuid.UUID    `json:"staff_id"`
	First   *Appointment `json:"first"`
	Second  *Appointment `json:"second"`
}

// PixelsPerHour is the vertical scale of the agenda grid a drag delta is
// measured against.
const PixelsPerHour = 80.0

// SnapMinutes is the grid granularity drags snap to.
const SnapMinutes = 15

// MinutesFromPixelDelta converts a vertical drag delta in pixels into a
// snapped minute delta: pixels become minutes at 80 px per hour, rounded to
// the nearest minute, then snapped to the nearest 15.
func MinutesFromPixelDelta(deltaPx float64) int {
	rawMinutes := math.Round(deltaPx / PixelsPerHour * 60)
	return int(math.Round(rawMinutes/SnapMinutes)) * SnapMinutes
}
