package crm

import (
	"time"

	"github.com/google/uuid"
)

// Customer maps to the customer table.
type Customer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Company   *string   `db:"company" json:"company,omitempty"`
	Status    string    `db:"status" json:"status"`
	Tags      []string  `db:"tags" json:"tags"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Deal maps to the deal table. Value is stored in cents.
type Deal struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CustomerID    uuid.UUID  `db:"customer_id" json:"customer_id"`
	Title         string     `db:"title" json:"title"`
	ValueCents    int64      `db:"value_cents" json:"value_cents"`
	Currency      string     `db:"currency" json:"currency"`
	Stage         string     `db:"stage" json:"stage"`
	Probability   *int       `db:"probability" json:"probability,omitempty"`
	ExpectedClose *time.Time `db:"expected_close" json:"expected_close,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// StageSummary is one row of the derived pipeline view.
type StageSummary struct {
	Stage      string `json:"stage"`
	Count      int    `json:"count"`
	ValueCents int64  `json:"value_cents"`
}

// BuildPipeline aggregates deals into per-stage counts and value, in the
// canonical stage order.
func BuildPipeline(deals []*Deal) []StageSummary {
	order := []string{StageQualification, StageProposal, StageNegotiation, StageWon, StageLost}
	idx := map[string]int{}
	out := make([]StageSummary, len(order))
	for i, st := range order {
		out[i] = StageSummary{Stage: st}
		idx[st] = i
	}
	for _, d := range deals {
		i, ok := idx[d.Stage]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].ValueCents += d.ValueCents
	}
	return out
}
