package scheduling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestUpdate_PartialBodyKeepsTimes(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a := mustCreate(t, svc, &Appointment{
		PatientID: uuid.New(),
		StaffID:   uuid.New(),
		Title:     "Follow-up",
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 9, 30),
	})

	h := NewHandler(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"checked_in"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.Get(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCheckedIn {
		t.Errorf("expected checked_in, got %q", got.Status)
	}
	if !got.StartTime.Equal(a.StartTime) || !got.EndTime.Equal(a.EndTime) {
		t.Errorf("times changed by status-only update: %v-%v", got.StartTime, got.EndTime)
	}
	if got.Title != "Follow-up" {
		t.Errorf("title changed by status-only update: %q", got.Title)
	}
}
