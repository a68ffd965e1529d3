// Package reporting assembles the cross-domain dashboard summary. Everything
// here is derived on request from the domain services; nothing is persisted.
package reporting

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/caredesk/caredesk/internal/domain/bed"
	"github.com/caredesk/caredesk/internal/domain/billing"
	"github.com/caredesk/caredesk/internal/domain/scheduling"
	"github.com/caredesk/caredesk/internal/platform/auth"
)

// OccupancySource yields the current bed occupancy report.
type OccupancySource interface {
	Occupancy(ctx context.Context) (*bed.OccupancyReport, error)
}

// AgendaSource yields a day's appointments and conflicts.
type AgendaSource interface {
	Agenda(ctx context.Context, day time.Time) ([]*scheduling.Appointment, error)
	Conflicts(ctx context.Context, day time.Time) ([]scheduling.Conflict, error)
}

// RevenueSource yields the per-status invoice revenue rows.
type RevenueSource interface {
	Revenue(ctx context.Context) ([]billing.RevenueSummary, error)
}

// UnreadSource yields the total unread message count.
type UnreadSource interface {
	TotalUnread(ctx context.Context) (int, error)
}

// Dashboard is the admin landing summary.
type Dashboard struct {
	GeneratedAt       time.Time                `json:"generated_at"`
	Occupancy         *bed.OccupancyReport     `json:"occupancy"`
	AppointmentsToday int                      `json:"appointments_today"`
	ConflictsToday    int                      `json:"conflicts_today"`
	Revenue           []billing.RevenueSummary `json:"revenue"`
	OutstandingCents  int64                    `json:"outstanding_cents"`
	CollectedCents    int64                    `json:"collected_cents"`
	UnreadMessages    int                      `json:"unread_messages"`
}

type Service struct {
	beds         OccupancySource
	appointments AgendaSource
	invoices     RevenueSource
	messages     UnreadSource

	now func() time.Time
}

func NewService(beds OccupancySource, appointments AgendaSource, invoices RevenueSource, messages UnreadSource) *Service {
	return &Service{
		beds:         beds,
		appointments: appointments,
		invoices:     invoices,
		messages:     messages,
		now:          time.Now,
	}
}

// Build assembles the dashboard for the current day.
func (s *Service) Build(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	d := &Dashboard{GeneratedAt: now}

	occupancy, err := s.beds.Occupancy(ctx)
	if err != nil {
		return nil, err
	}
	d.Occupancy = occupancy

	agenda, err := s.appointments.Agenda(ctx, now)
	if err != nil {
		return nil, err
	}
	d.AppointmentsToday = len(agenda)

	conflicts, err := s.appointments.Conflicts(ctx, now)
	if err != nil {
		return nil, err
	}
	d.ConflictsToday = len(conflicts)

	revenue, err := s.invoices.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	d.Revenue = revenue
	for _, row := range revenue {
		switch row.Status {
		case billing.StatusPending, billing.StatusOverdue:
			d.OutstandingCents += row.TotalCents
		case billing.StatusPaid:
			d.CollectedCents += row.TotalCents
		}
	}

	unread, err := s.messages.TotalUnread(ctx)
	if err != nil {
		return nil, err
	}
	d.UnreadMessages = unread

	return d, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin"))
	g.GET("/dashboard", h.Dashboard)
}

func (h *Handler) Dashboard(c echo.Context) error {
	d, err := h.svc.Build(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}
