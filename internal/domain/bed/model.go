package bed

import (
	"time"

	"github.com/google/uuid"
)

// Bed maps to the bed table. A bed belongs to a ward and may hold at most
// one patient reference; the reference is by id only and may dangle if the
// patient record is deleted.
type Bed struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Ward      string     `db:"ward" json:"ward"`
	Room      string     `db:"room" json:"room"`
	Number    string     `db:"number" json:"number"`
	BedType   *string    `db:"bed_type" json:"bed_type,omitempty"`
	Status    string     `db:"status" json:"status"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// WardOccupancy is a derived per-ward breakdown, recomputed on every request
// and never persisted.
type WardOccupancy struct {
	Ward        string `json:"ward"`
	Total       int    `json:"total"`
	Available   int    `json:"available"`
	Occupied    int    `json:"occupied"`
	Cleaning    int    `json:"cleaning"`
	Maintenance int    `json:"maintenance"`
}

// OccupancyReport aggregates bed status counts across wards. Rate counts
// occupied beds against beds in service (total minus maintenance).
type OccupancyReport struct {
	Total         int             `json:"total"`
	Available     int             `json:"available"`
	Occupied      int             `json:"occupied"`
	Cleaning      int             `json:"cleaning"`
	Maintenance   int             `json:"maintenance"`
	OccupancyRate float64         `json:"occupancy_rate"`
	Wards         []WardOccupancy `json:"wards"`
}

// BuildOccupancyReport computes the derived occupancy view over a bed list.
func BuildOccupancyReport(beds []*Bed) *OccupancyReport {
	report := &OccupancyReport{}
	wardIdx := map[string]int{}

	for _, b := range beds {
		report.Total++
		w, ok := wardIdx[b.Ward]
		if !ok {
			report.Wards = append(report.Wards, WardOccupancy{Ward: b.Ward})
			w = len(report.Wards) - 1
			wardIdx[b.Ward] = w
		}
		report.Wards[w].Total++
		switch b.Status {
		case StatusAvailable:
			report.Available++
			report.Wards[w].Available++
		case StatusOccupied:
			report.Occupied++
			report.Wards[w].Occupied++
		case StatusCleaning:
			report.Cleaning++
			report.Wards[w].Cleaning++
		case StatusMaintenance:
			report.Maintenance++
			report.Wards[w].Maintenance++
		}
	}

	inService := report.Total - report.Maintenance
	if inService > 0 {
		report.OccupancyRate = float64(report.Occupied) / float64(inService)
	}
	return report
}
