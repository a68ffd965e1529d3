// Package sandbox seeds a deterministic demo dataset through the domain
// services. It backs the memory driver so a fresh server starts with
// something to click through; the postgres driver never runs it.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caredesk/caredesk/internal/domain/bed"
	"github.com/caredesk/caredesk/internal/domain/billing"
	"github.com/caredesk/caredesk/internal/domain/board"
	"github.com/caredesk/caredesk/internal/domain/crm"
	"github.com/caredesk/caredesk/internal/domain/messaging"
	"github.com/caredesk/caredesk/internal/domain/page"
	"github.com/caredesk/caredesk/internal/domain/patient"
	"github.com/caredesk/caredesk/internal/domain/scheduling"
	"github.com/caredesk/caredesk/internal/domain/staff"
)

// Services collects everything the seeder writes through. All writes go via
// the service layer so defaults and validation apply exactly as they would
// for API traffic.
type Services struct {
	Patients     *patient.Service
	Staff        *staff.Service
	Beds         *bed.Service
	Appointments *scheduling.Service
	CRM          *crm.Service
	Invoices     *billing.Service
	Messages     *messaging.Service
	Boards       *board.Service
	Pages        *page.Service
}

// Result summarizes what a seed run created.
type Result struct {
	Patients     int `json:"patients"`
	Staff        int `json:"staff"`
	Beds         int `json:"beds"`
	Appointments int `json:"appointments"`
	Customers    int `json:"customers"`
	Deals        int `json:"deals"`
	Invoices     int `json:"invoices"`
	Messages     int `json:"messages"`
	Boards       int `json:"boards"`
	Pages        int `json:"pages"`
}

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// Seed populates the demo dataset. It is not idempotent; run it once against
// empty repositories.
func Seed(ctx context.Context, svcs Services, logger zerolog.Logger) (*Result, error) {
	result := &Result{}

	staffMembers := []*staff.Staff{
		{EmployeeNo: "EMP-0001", FirstName: "Amelia", LastName: "Hart", Role: staff.RolePhysician, Department: "Cardiology", Email: strPtr("amelia.hart@caredesk.local"), OnCall: true},
		{EmployeeNo: "EMP-0002", FirstName: "Marcus", LastName: "Oyelaran", Role: staff.RolePhysician, Department: "Emergency"},
		{EmployeeNo: "EMP-0003", FirstName: "Priya", LastName: "Natarajan", Role: staff.RoleNurse, Department: "ICU", OnCall: true},
		{EmployeeNo: "EMP-0004", FirstName: "Jonas", LastName: "Weiss", Role: staff.RoleNurse, Department: "General"},
		{EmployeeNo: "EMP-0005", FirstName: "Carla", LastName: "Mendes", Role: staff.RoleRegistrar, Department: "Front Desk"},
		{EmployeeNo: "EMP-0006", FirstName: "Tomasz", LastName: "Kowalski", Role: staff.RoleTechnician, Department: "Radiology"},
	}
	for _, m := range staffMembers {
		if err := svcs.Staff.Create(ctx, m); err != nil {
			return nil, fmt.Errorf("seed staff: %w", err)
		}
		result.Staff++
	}
	attending := staffMembers[0]

	beds := []*bed.Bed{
		{Ward: "ICU", Room: "1", Number: "ICU-1"},
		{Ward: "ICU", Room: "1", Number: "ICU-2"},
		{Ward: "ICU", Room: "2", Number: "ICU-3"},
		{Ward: "General", Room: "10", Number: "G-10A"},
		{Ward: "General", Room: "10", Number: "G-10B"},
		{Ward: "General", Room: "11", Number: "G-11A", Status: bed.StatusMaintenance},
	}
	for _, b := range beds {
		if err := svcs.Beds.Create(ctx, b); err != nil {
			return nil, fmt.Errorf("seed beds: %w", err)
		}
		result.Beds++
	}

	patients := []*patient.Patient{
		{
			MRN: "MRN-100001", FirstName: "Elena", LastName: "Santos",
			BirthDate: datePtr(1954, time.March, 12), Gender: strPtr("female"),
			Allergies:       []string{"penicillin"},
			MedicalHistory:  []string{"hypertension", "type 2 diabetes"},
			Tags:            []string{"cardiology"},
			AttendingID:     &attending.ID,
			AdmissionStatus: patient.StatusAdmitted,
		},
		{
			MRN: "MRN-100002", FirstName: "Noah", LastName: "Berg",
			BirthDate: datePtr(1988, time.July, 3), Gender: strPtr("male"),
			AdmissionStatus: patient.StatusOutpatient,
		},
		{
			MRN: "MRN-100003", FirstName: "Yuki", LastName: "Tanaka",
			BirthDate: datePtr(1972, time.November, 21), Gender: strPtr("female"),
			Allergies:       []string{"latex", "aspirin"},
			MedicalHistory:  []string{"asthma"},
			AdmissionStatus: patient.StatusOutpatient,
		},
		{
			MRN: "MRN-100004", FirstName: "Samuel", LastName: "Adeyemi",
			BirthDate: datePtr(1946, time.January, 30), Gender: strPtr("male"),
			MedicalHistory:  []string{"copd", "atrial fibrillation", "stroke"},
			AttendingID:     &attending.ID,
			AdmissionStatus: patient.StatusAdmitted,
		},
	}
	for _, p := range patients {
		if err := svcs.Patients.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("seed patients: %w", err)
		}
		result.Patients++
	}

	// Put the two admitted patients into ICU beds.
	if _, err := svcs.Beds.Assign(ctx, beds[0].ID, patients[0].ID); err != nil {
		return nil, fmt.Errorf("seed bed assignment: %w", err)
	}
	if _, err := svcs.Beds.Assign(ctx, beds[1].ID, patients[3].ID); err != nil {
		return nil, fmt.Errorf("seed bed assignment: %w", err)
	}

	// Appointments on today's agenda plus one for tomorrow.
	y, m, d := time.Now().Date()
	today := func(hour, min int) time.Time {
		return time.Date(y, m, d, hour, min, 0, 0, time.Local)
	}
	appointments := []*scheduling.Appointment{
		{PatientID: patients[0].ID, StaffID: staffMembers[0].ID, Title: "Cardiology follow-up", StartTime: today(9, 0), EndTime: today(9, 30)},
		{PatientID: patients[1].ID, StaffID: staffMembers[1].ID, Title: "Annual check-up", StartTime: today(10, 0), EndTime: today(10, 45)},
		{PatientID: patients[2].ID, StaffID: staffMembers[0].ID, Title: "Asthma review", StartTime: today(9, 15), EndTime: today(10, 0)},
		{PatientID: patients[3].ID, StaffID: staffMembers[1].ID, Title: "Discharge planning", StartTime: today(14, 0).AddDate(0, 0, 1), EndTime: today(14, 30).AddDate(0, 0, 1)},
	}
	for _, a := range appointments {
		if err := svcs.Appointments.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("seed appointments: %w", err)
		}
		result.Appointments++
	}

	customers := []*crm.Customer{
		{Name: "Harbor Clinic Group", Email: strPtr("ops@harborclinic.example"), Company: strPtr("Harbor Clinic Group"), Status: crm.StatusClient, Tags: []string{"imaging"}},
		{Name: "Dana Whitfield", Email: strPtr("dana@whitfield.example"), Status: crm.StatusLead},
		{Name: "Meridian Insurance", Company: strPtr("Meridian Insurance Co"), Status: crm.StatusProspect, Tags: []string{"payer"}},
	}
	for _, c := range customers {
		if err := svcs.CRM.CreateCustomer(ctx, c); err != nil {
			return nil, fmt.Errorf("seed customers: %w", err)
		}
		result.Customers++
	}

	deals := []*crm.Deal{
		{CustomerID: customers[0].ID, Title: "Imaging services contract", ValueCents: 4_500_000, Stage: crm.StageNegotiation},
		{CustomerID: customers[2].ID, Title: "Network agreement renewal", ValueCents: 12_000_000, Stage: crm.StageProposal},
		{CustomerID: customers[1].ID, Title: "Occupational health screening", ValueCents: 350_000, Stage: crm.StageQualification},
	}
	for _, deal := range deals {
		if err := svcs.CRM.CreateDeal(ctx, deal); err != nil {
			return nil, fmt.Errorf("seed deals: %w", err)
		}
		result.Deals++
	}

	invoices := []*billing.Invoice{
		{
			CustomerID: &customers[0].ID, Status: billing.StatusPaid, TaxRateBps: 800,
			Items: []billing.LineItem{
				{Description: "MRI scan", Quantity: 2, UnitPriceCents: 45000},
				{Description: "Radiologist reading", Quantity: 2, UnitPriceCents: 15000},
			},
		},
		{
			PatientID: &patients[1].ID, Status: billing.StatusPending, TaxRateBps: 800,
			Items: []billing.LineItem{
				{Description: "Annual check-up", Quantity: 1, UnitPriceCents: 18000},
			},
		},
		{
			PatientID: &patients[2].ID, Status: billing.StatusOverdue,
			Items: []billing.LineItem{
				{Description: "Pulmonary function test", Quantity: 1, UnitPriceCents: 22000},
			},
		},
	}
	for _, inv := range invoices {
		if _, err := svcs.Invoices.Create(ctx, inv); err != nil {
			return nil, fmt.Errorf("seed invoices: %w", err)
		}
		result.Invoices++
	}

	thread := uuid.New()
	messages := []*messaging.Message{
		{ThreadID: thread, SenderID: staffMembers[2].ID, RecipientID: staffMembers[0].ID, PatientID: &patients[0].ID, Subject: "Bed ICU-1 telemetry", Body: "Telemetry alarms overnight, please review before rounds.", Priority: messaging.PriorityHigh},
		{ThreadID: thread, SenderID: staffMembers[0].ID, RecipientID: staffMembers[2].ID, PatientID: &patients[0].ID, Body: "Reviewed, adjusting beta blocker dose this morning."},
		{SenderID: staffMembers[4].ID, RecipientID: staffMembers[1].ID, Subject: "Walk-in volume", Body: "Front desk expects a busy afternoon, three walk-ins already waiting."},
	}
	for _, msg := range messages {
		if err := svcs.Messages.Send(ctx, msg); err != nil {
			return nil, fmt.Errorf("seed messages: %w", err)
		}
		result.Messages++
	}

	wardBoard, err := svcs.Boards.CreateBoard(ctx, &board.Board{Name: "Ward Operations", Description: strPtr("Day-to-day ward tasks")}, nil)
	if err != nil {
		return nil, fmt.Errorf("seed board: %w", err)
	}
	result.Boards++
	cards := []*board.Card{
		{BoardID: wardBoard.ID, ColumnKey: "todo", Title: "Restock ICU supply cart", AssigneeID: &staffMembers[2].ID, Labels: []string{"supplies"}},
		{BoardID: wardBoard.ID, ColumnKey: "todo", Title: "Schedule equipment calibration", AssigneeID: &staffMembers[5].ID},
		{BoardID: wardBoard.ID, ColumnKey: "in_progress", Title: "Update discharge checklist", Labels: []string{"process"}},
		{BoardID: wardBoard.ID, ColumnKey: "done", Title: "Hand-off template rollout"},
	}
	for _, c := range cards {
		if _, err := svcs.Boards.CreateCard(ctx, c); err != nil {
			return nil, fmt.Errorf("seed cards: %w", err)
		}
	}

	_, err = svcs.Pages.Create(ctx, &page.Page{
		Title: "Ward Handbook",
		Icon:  strPtr("📘"),
		Blocks: []page.Block{
			{Type: page.BlockHeading, Heading: &page.HeadingContent{Level: 1, Text: "Ward Handbook"}},
			{Type: page.BlockCallout, Callout: &page.CalloutContent{Emoji: "⚠️", Text: "Isolation protocol applies to room ICU-2 until further notice."}},
			{Type: page.BlockParagraph, Paragraph: &page.ParagraphContent{Text: "Pharmacy is reachable on extension 4412, after hours via the on-call line."}},
			{Type: page.BlockTodo, Todo: &page.TodoContent{Text: "Review updated hand-off template"}},
			{Type: page.BlockDivider},
			{Type: page.BlockHeading, Heading: &page.HeadingContent{Level: 2, Text: "Escalation"}},
			{Type: page.BlockParagraph, Paragraph: &page.ParagraphContent{Text: "Clinical emergencies page the on-call physician directly."}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed page: %w", err)
	}
	result.Pages++

	logger.Info().
		Int("patients", result.Patients).
		Int("staff", result.Staff).
		Int("beds", result.Beds).
		Int("appointments", result.Appointments).
		Msg("sandbox data seeded")
	return result, nil
}
