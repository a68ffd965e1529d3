package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestUpdate_PartialBodyKeepsOtherFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	email := "jo@example.com"
	p := &Patient{
		MRN:       "MRN-200001",
		FirstName: "Jo",
		LastName:  "Keller",
		Email:     &email,
		Allergies: []string{"penicillin"},
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"admission_status":"admitted"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.AdmissionStatus != StatusAdmitted {
		t.Errorf("expected admitted, got %q", got.AdmissionStatus)
	}
	if got.FirstName != "Jo" || got.LastName != "Keller" {
		t.Errorf("name changed by status-only update: %s %s", got.FirstName, got.LastName)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("email changed by status-only update: %v", got.Email)
	}
	if len(got.Allergies) != 1 || got.Allergies[0] != "penicillin" {
		t.Errorf("allergies changed by status-only update: %v", got.Allergies)
	}
}
