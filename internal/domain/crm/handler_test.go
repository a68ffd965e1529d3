package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newUpdateContext(e *echo.Echo, id uuid.UUID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	return c, rec
}

func TestUpdateCustomer_PartialBodyKeepsOtherFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	email := "ann@example.com"
	cust := &Customer{Name: "Ann", Email: &email, Status: StatusLead}
	if err := svc.CreateCustomer(ctx, cust); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(svc)
	e := echo.New()
	c, _ := newUpdateContext(e, cust.ID, `{"status":"client"}`)
	if err := h.UpdateCustomer(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetCustomer(ctx, cust.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusClient {
		t.Errorf("expected status client, got %q", got.Status)
	}
	if got.Name != "Ann" {
		t.Errorf("name changed by status-only update: %q", got.Name)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("email changed by status-only update: %v", got.Email)
	}
}

func TestUpdateCustomer_NameOnlyKeepsStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	cust := &Customer{Name: "Ann", Status: StatusClient}
	if err := svc.CreateCustomer(ctx, cust); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(svc)
	e := echo.New()
	c, _ := newUpdateContext(e, cust.ID, `{"name":"Bob"}`)
	if err := h.UpdateCustomer(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetCustomer(ctx, cust.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Bob" {
		t.Errorf("expected name Bob, got %q", got.Name)
	}
	if got.Status != StatusClient {
		t.Errorf("status changed by name-only update: %q", got.Status)
	}
}

func TestUpdateDeal_StageOnlyKeepsValue(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	cust := &Customer{Name: "Ann"}
	if err := svc.CreateCustomer(ctx, cust); err != nil {
		t.Fatal(err)
	}
	d := &Deal{CustomerID: cust.ID, Title: "Imaging contract", ValueCents: 250000, Stage: StageProposal}
	if err := svc.CreateDeal(ctx, d); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(svc)
	e := echo.New()
	c, _ := newUpdateContext(e, d.ID, `{"stage":"won"}`)
	if err := h.UpdateDeal(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetDeal(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stage != StageWon {
		t.Errorf("expected stage won, got %q", got.Stage)
	}
	if got.ValueCents != 250000 {
		t.Errorf("value changed by stage-only update: %d", got.ValueCents)
	}
	if got.Title != "Imaging contract" {
		t.Errorf("title changed by stage-only update: %q", got.Title)
	}
}
