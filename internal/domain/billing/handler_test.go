package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestUpdate_PartialBodyKeepsItemsAndReference(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, &Invoice{
		CustomerID: custRef(),
		Status:     StatusPending,
		Items:      []LineItem{{Description: "Consultation", Quantity: 1, UnitPriceCents: 15000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	h := NewHandler(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"notes":"resend to insurer"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes == nil || *got.Notes != "resend to insurer" {
		t.Errorf("expected notes set, got %v", got.Notes)
	}
	if got.Status != StatusPending {
		t.Errorf("status changed by notes-only update: %q", got.Status)
	}
	if got.CustomerID == nil {
		t.Error("customer reference blanked by notes-only update")
	}
	if len(got.Items) != 1 || got.Items[0].Description != "Consultation" {
		t.Errorf("line items changed by notes-only update: %+v", got.Items)
	}
	if got.Totals.TotalCents == 0 {
		t.Error("expected totals recomputed from retained items")
	}
}
