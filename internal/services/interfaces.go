package services

import (
	"time"

	"fleet-compliance/internal/models"
)

// RiderStore is the slice of the store gateway the compliance jobs read riders
// through.
type RiderStore interface {
	FindActive() ([]*models.Rider, error)
	FindByID(id string) (*models.Rider, error)
}

// VehicleStore is the slice of the store gateway the compliance jobs touch
// vehicles through.
type VehicleStore interface {
	FindByID(id string) (*models.Vehicle, error)
	FindInService() ([]*models.Vehicle, error)
	UpdateOdometer(id string, reading int) error
}

// InspectionStore is the store gateway for monthly check records.
type InspectionStore interface {
	Insert(record *models.InspectionRecord) (string, error)
	FindByID(id string) (*models.InspectionRecord, error)
	FindByRiderVehiclePeriod(riderID, vehicleID string, period time.Time) (*models.InspectionRecord, error)
	FindPendingByPeriod(period time.Time) ([]*models.InspectionRecord, error)
	FindFiltered(period *time.Time, status, riderID string) ([]*models.InspectionRecord, error)
	SetLastReminderSent(id string, at time.Time) error
	SetStatus(id string, status string, by models.Actor) error
	MarkCompleted(id string, answers models.InspectionAnswers, odometer *int, completedAt time.Time, by models.Actor) error
	Delete(id string) error
}

// NotificationSender delivers the three compliance notifications. Sends are
// fire-and-forget: no retries here, failures come back as errors for the
// caller to count or log.
type NotificationSender interface {
	SendInspectionReminder(to string, notice ReminderNotice) error
	SendDefectEscalation(to string, notice EscalationNotice) error
	SendExpiryReport(to string, items []models.ExpiringItem) error
}

// ReminderNotice carries what a rider needs to see in a reminder.
type ReminderNotice struct {
	RiderName   string
	PlateNumber string
	Odometer    int
	Period      time.Time
}

// EscalationNotice carries a defect finding to management. PlateNumber is
// empty when the vehicle lookup failed; VehicleID is always set so the
// notification can still name the vehicle.
type EscalationNotice struct {
	RiderName   string
	PlateNumber string
	VehicleID   string
	Odometer    *int
	Defects     []models.Defect
}
