package billing

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one billable row of an invoice. Unit price is in cents.
type LineItem struct {
	ID             uuid.UUID `db:"id" json:"id"`
	InvoiceID      uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Description    string    `db:"description" json:"description"`
	Quantity       int       `db:"quantity" json:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents" json:"unit_price_cents"`
	Position       int       `db:"position" json:"position"`
}

// Invoice maps to the invoice table. Exactly one of CustomerID/PatientID is
// normally set; both are plain id references and may dangle. Totals are never
// stored, they are derived from the line items on every read.
type Invoice struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Number     string     `db:"number" json:"number"`
	CustomerID *uuid.UUID `db:"customer_id" json:"customer_id,omitempty"`
	PatientID  *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	Status     string     `db:"status" json:"status"`
	IssueDate  *time.Time `db:"issue_date" json:"issue_date,omitempty"`
	DueDate    *time.Time `db:"due_date" json:"due_date,omitempty"`
	Currency   string     `db:"currency" json:"currency"`
	TaxRateBps int        `db:"tax_rate_bps" json:"tax_rate_bps"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
	Items      []LineItem `db:"-" json:"items"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Totals is the derived money view of an invoice.
type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// ComputeTotals derives subtotal, tax and total from the line items. Tax is
// the invoice's rate in basis points applied to the subtotal.
func (inv *Invoice) ComputeTotals() Totals {
	var subtotal int64
	for _, it := range inv.Items {
		subtotal += int64(it.Quantity) * it.UnitPriceCents
	}
	tax := subtotal * int64(inv.TaxRateBps) / 10000
	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
	}
}

// InvoiceView is the read shape: the stored invoice plus its derived totals.
type InvoiceView struct {
	*Invoice
	Totals Totals `json:"totals"`
}

// NewView pairs an invoice with its freshly computed totals.
func NewView(inv *Invoice) *InvoiceView {
	return &InvoiceView{Invoice: inv, Totals: inv.ComputeTotals()}
}

// RevenueSummary is one row of the derived per-status revenue report.
type RevenueSummary struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	TotalCents int64  `json:"total_cents"`
}

// BuildRevenueSummary aggregates invoice totals per status in canonical
// status order.
func BuildRevenueSummary(invoices []*Invoice) []RevenueSummary {
	order := []string{StatusDraft, StatusPending, StatusPaid, StatusOverdue, StatusCancelled}
	idx := map[string]int{}
	out := make([]RevenueSummary, len(order))
	for i, st := range order {
		out[i] = RevenueSummary{Status: st}
		idx[st] = i
	}
	for _, inv := range invoices {
		i, ok := idx[inv.Status]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].TotalCents += inv.ComputeTotals().TotalCents
	}
	return out
}
