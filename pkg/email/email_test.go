package email

import (
	"testing"
	"time"

	"fleet-compliance/internal/models"
	"fleet-compliance/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_InspectionReminder(t *testing.T) {
	body, err := renderTemplate("inspection_reminder.html", reminderData{
		RiderName:   "Alice",
		PlateNumber: "KAA 001",
		Odometer:    12500,
		Period:      "March 2026",
	})

	require.NoError(t, err)
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "KAA 001")
	assert.Contains(t, body, "March 2026")
	assert.Contains(t, body, "12500")
}

func TestRenderTemplate_DefectEscalation(t *testing.T) {
	body, err := renderTemplate("defect_escalation.html", escalationData{
		RiderName:   "Bob",
		PlateNumber: "KAA 002",
		Odometer:    "9000 km",
		ReportedAt:  "2026-03-17 10:30",
		Defects: []models.Defect{
			{Field: "oil", Value: "low"},
			{Field: "brakes", Value: "poor"},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, body, "Bob")
	assert.Contains(t, body, "oil")
	assert.Contains(t, body, "brakes")
	assert.Contains(t, body, "poor")
}

func TestRenderTemplate_ExpiryReportGroupsByKind(t *testing.T) {
	expiry := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	body, err := renderTemplate("expiry_report.html", expiryReportData{
		GeneratedAt: "2026-03-01",
		Insurance: []models.ExpiringItem{
			{Kind: models.ExpiryKindInsurance, SubKind: models.InsuranceSubKindMandatory,
				PlateNumber: "KAA 001", ExpiryDate: expiry, DaysLeft: 9},
		},
		Registration: []models.ExpiringItem{
			{Kind: models.ExpiryKindRegistration, PlateNumber: "KAA 002", ExpiryDate: expiry, DaysLeft: 9},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, body, "Insurance expiring")
	assert.Contains(t, body, "Registration expiring")
	assert.Contains(t, body, "KAA 001")
	assert.Contains(t, body, "KAA 002")
	assert.Contains(t, body, "2026-03-10")
}

func TestEscalationPlate_LabelsUnresolvedVehicle(t *testing.T) {
	notice := services.EscalationNotice{VehicleID: "65f1c0ffee"}
	assert.Equal(t, "unknown plate (vehicle 65f1c0ffee)", escalationPlate(notice))

	notice.PlateNumber = "KAA 001"
	assert.Equal(t, "KAA 001", escalationPlate(notice))
}

func TestBuildMessage_Headers(t *testing.T) {
	s := &EmailService{
		fromEmail: "noreply@example.com",
		fromName:  "Fleet Compliance",
	}

	message := string(s.buildMessage("rider@example.com", "Monthly inspection due", "<p>hello</p>"))

	assert.Contains(t, message, "From: Fleet Compliance <noreply@example.com>")
	assert.Contains(t, message, "To: rider@example.com")
	assert.Contains(t, message, "Subject: Monthly inspection due")
	assert.Contains(t, message, "Content-Type: text/html")
	assert.Contains(t, message, "<p>hello</p>")
}
