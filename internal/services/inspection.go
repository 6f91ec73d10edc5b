package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"fleet-compliance/internal/models"
	"fleet-compliance/internal/repository"
)

// ErrCheckNotOpen is returned when an operation needs a check that can still
// be worked on (pending or in progress) and the record has already been
// finalized.
var ErrCheckNotOpen = errors.New("monthly check is not open")

// ErrNotPending is returned by the manual reminder path when the record has
// already been started or finished.
var ErrNotPending = errors.New("monthly check is not pending")

// ErrNoContactAddress is returned by the manual reminder path when the rider
// cannot be notified.
var ErrNoContactAddress = errors.New("rider has no contact address")

// Skip reasons reported by the cycle generator.
const (
	SkipReasonUnassigned     = "unassigned"
	SkipReasonNotOperational = "vehicle not operational"
	SkipReasonAlreadyExists  = "already exists"
)

// InspectionService runs the recurring compliance cycle: monthly check
// generation, daily reminders and completion handling. All dependencies are
// injected so the jobs run against mocks in tests.
type InspectionService struct {
	riderStore      RiderStore
	vehicleStore    VehicleStore
	inspectionStore InspectionStore
	notifier        NotificationSender
	managementEmail string
	loc             *time.Location
}

func NewInspectionService(riders RiderStore, vehicles VehicleStore, inspections InspectionStore, notifier NotificationSender, managementEmail string, loc *time.Location) *InspectionService {
	if loc == nil {
		loc = time.UTC
	}
	return &InspectionService{
		riderStore:      riders,
		vehicleStore:    vehicles,
		inspectionStore: inspections,
		notifier:        notifier,
		managementEmail: managementEmail,
		loc:             loc,
	}
}

// PeriodOf normalizes a point in time to the first day of its month in the
// operational time zone. All check_date values go through this.
func (s *InspectionService) PeriodOf(now time.Time) time.Time {
	t := now.In(s.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, s.loc)
}

// ParsePeriod parses a YYYY-MM period string in the operational time zone.
// Parsing in any other zone can land the period in the neighboring month.
func (s *InspectionService) ParsePeriod(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", value, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	return s.PeriodOf(t), nil
}

func (s *InspectionService) sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.In(s.loc).Date()
	by, bm, bd := b.In(s.loc).Date()
	return ay == by && am == bm && ad == bd
}

// CycleSkip records one rider the generator passed over and why.
type CycleSkip struct {
	RiderID string `json:"riderId"`
	Reason  string `json:"reason"`
}

// CycleError records one rider the generator could not process.
type CycleError struct {
	RiderID string `json:"riderId"`
	Reason  string `json:"reason"`
}

type CycleResult struct {
	Created int          `json:"created"`
	Skipped int          `json:"skipped"`
	Skips   []CycleSkip  `json:"skips,omitempty"`
	Errors  []CycleError `json:"errors,omitempty"`
}

// RunMonthlyCycle opens one pending check per eligible rider/vehicle pair for
// the month of now. Safe to re-run any number of times within the same month:
// existing records are skipped, not duplicated. Per-rider failures are counted
// and never stop the pass; only the initial rider fetch is fatal.
func (s *InspectionService) RunMonthlyCycle(now time.Time) (*CycleResult, error) {
	riders, err := s.riderStore.FindActive()
	if err != nil {
		return nil, fmt.Errorf("fetching active riders: %w", err)
	}

	period := s.PeriodOf(now)
	result := &CycleResult{}

	for _, rider := range riders {
		s.generateCheck(rider, period, models.SystemActor, result)
	}

	return result, nil
}

// CreateChecksForRiders is the operator bulk-creation path. Same guards and
// the same one-record-per-period rule as the scheduled cycle, attributed to
// the requesting actor instead of the system.
func (s *InspectionService) CreateChecksForRiders(riderIDs []string, actor models.Actor, now time.Time) (*CycleResult, error) {
	period := s.PeriodOf(now)
	result := &CycleResult{}

	for _, id := range riderIDs {
		rider, err := s.riderStore.FindByID(id)
		if err != nil {
			result.Errors = append(result.Errors, CycleError{RiderID: id, Reason: err.Error()})
			continue
		}
		s.generateCheck(rider, period, actor, result)
	}

	return result, nil
}

func (s *InspectionService) generateCheck(rider *models.Rider, period time.Time, actor models.Actor, result *CycleResult) {
	riderID := rider.ID.Hex()

	if !rider.IsAssigned() {
		result.Skipped++
		result.Skips = append(result.Skips, CycleSkip{RiderID: riderID, Reason: SkipReasonUnassigned})
		return
	}

	vehicle, err := s.vehicleStore.FindByID(rider.VehicleID)
	if err != nil {
		result.Errors = append(result.Errors, CycleError{RiderID: riderID, Reason: err.Error()})
		return
	}

	if !vehicle.IsOperational() {
		result.Skipped++
		result.Skips = append(result.Skips, CycleSkip{RiderID: riderID, Reason: SkipReasonNotOperational})
		return
	}

	_, err = s.inspectionStore.FindByRiderVehiclePeriod(riderID, rider.VehicleID, period)
	if err == nil {
		result.Skipped++
		result.Skips = append(result.Skips, CycleSkip{RiderID: riderID, Reason: SkipReasonAlreadyExists})
		return
	}
	if !errors.Is(err, repository.ErrCheckNotFound) {
		result.Errors = append(result.Errors, CycleError{RiderID: riderID, Reason: err.Error()})
		return
	}

	record := &models.InspectionRecord{
		VehicleID: rider.VehicleID,
		RiderID:   riderID,
		CheckDate: period,
		Status:    models.CheckStatusPending,
		CreatedBy: actor,
		UpdatedBy: actor,
	}

	if _, err := s.inspectionStore.Insert(record); err != nil {
		result.Errors = append(result.Errors, CycleError{RiderID: riderID, Reason: err.Error()})
		return
	}

	result.Created++
}

type ReminderResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// RunDailyReminders nags every rider with a still-pending check for the month
// of now, at most once per calendar day. A failed send is not recorded as
// sent, so the next run retries it.
func (s *InspectionService) RunDailyReminders(now time.Time) (*ReminderResult, error) {
	period := s.PeriodOf(now)
	records, err := s.inspectionStore.FindPendingByPeriod(period)
	if err != nil {
		return nil, fmt.Errorf("fetching pending checks: %w", err)
	}

	result := &ReminderResult{}

	for _, record := range records {
		if record.LastReminderSent != nil && s.sameCalendarDay(*record.LastReminderSent, now) {
			result.Skipped++
			continue
		}

		rider, err := s.riderStore.FindByID(record.RiderID)
		if err != nil {
			log.Printf("Reminder for check %s: rider %s: %v", record.ID.Hex(), record.RiderID, err)
			result.Errors++
			continue
		}

		vehicle, err := s.vehicleStore.FindByID(record.VehicleID)
		if err != nil {
			log.Printf("Reminder for check %s: vehicle %s: %v", record.ID.Hex(), record.VehicleID, err)
			result.Errors++
			continue
		}

		if rider.Email == "" {
			result.Skipped++
			continue
		}

		notice := ReminderNotice{
			RiderName:   rider.Name,
			PlateNumber: vehicle.PlateNumber,
			Odometer:    vehicle.Odometer,
			Period:      record.CheckDate,
		}
		if err := s.notifier.SendInspectionReminder(rider.Email, notice); err != nil {
			log.Printf("Reminder for check %s: send to %s failed: %v", record.ID.Hex(), rider.Email, err)
			result.Errors++
			continue
		}

		if err := s.inspectionStore.SetLastReminderSent(record.ID.Hex(), now); err != nil {
			log.Printf("Reminder for check %s: recording send time: %v", record.ID.Hex(), err)
			result.Errors++
			continue
		}

		result.Sent++
	}

	return result, nil
}

// SendReminderNow is the operator override. It ignores the once-per-day rule
// but still requires the check to be pending.
func (s *InspectionService) SendReminderNow(recordID string) error {
	record, err := s.inspectionStore.FindByID(recordID)
	if err != nil {
		return err
	}

	if record.Status != models.CheckStatusPending {
		return ErrNotPending
	}

	rider, err := s.riderStore.FindByID(record.RiderID)
	if err != nil {
		return err
	}

	if rider.Email == "" {
		return ErrNoContactAddress
	}

	vehicle, err := s.vehicleStore.FindByID(record.VehicleID)
	if err != nil {
		return err
	}

	notice := ReminderNotice{
		RiderName:   rider.Name,
		PlateNumber: vehicle.PlateNumber,
		Odometer:    vehicle.Odometer,
		Period:      record.CheckDate,
	}
	if err := s.notifier.SendInspectionReminder(rider.Email, notice); err != nil {
		return err
	}

	return s.inspectionStore.SetLastReminderSent(recordID, time.Now().In(s.loc))
}

// CompletionResult reports what happened after a completed submission. The
// completion itself is authoritative; Warnings carry the non-fatal failures
// (odometer forward, escalation send).
type CompletionResult struct {
	Defects   []models.Defect `json:"defects"`
	Escalated bool            `json:"escalated"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// OnCompleted runs the post-completion side effects for a record that has
// transitioned to completed: forward the odometer reading, evaluate the
// answers, and escalate any defects to management.
func (s *InspectionService) OnCompleted(recordID string, answers models.InspectionAnswers, odometer *int) (*CompletionResult, error) {
	record, err := s.inspectionStore.FindByID(recordID)
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{}

	if odometer != nil {
		if err := s.vehicleStore.UpdateOdometer(record.VehicleID, *odometer); err != nil {
			log.Printf("Check %s: odometer forward to vehicle %s failed: %v", recordID, record.VehicleID, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("odometer update failed: %v", err))
		}
	}

	result.Defects = EvaluateDefects(answers)
	if len(result.Defects) == 0 {
		return result, nil
	}

	notice := EscalationNotice{
		VehicleID: record.VehicleID,
		Odometer:  odometer,
		Defects:   result.Defects,
	}
	if rider, err := s.riderStore.FindByID(record.RiderID); err == nil {
		notice.RiderName = rider.Name
	} else {
		notice.RiderName = record.RiderID
	}
	if vehicle, err := s.vehicleStore.FindByID(record.VehicleID); err == nil {
		notice.PlateNumber = vehicle.PlateNumber
	}

	if err := s.notifier.SendDefectEscalation(s.managementEmail, notice); err != nil {
		log.Printf("Check %s: defect escalation failed: %v", recordID, err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("escalation send failed: %v", err))
		return result, nil
	}

	result.Escalated = true
	return result, nil
}

// SubmitInspection persists a rider's submission as the completed transition
// and then runs the completion side effects.
func (s *InspectionService) SubmitInspection(recordID string, answers models.InspectionAnswers, odometer *int, actor models.Actor) (*CompletionResult, error) {
	record, err := s.inspectionStore.FindByID(recordID)
	if err != nil {
		return nil, err
	}

	if !record.IsOpen() {
		return nil, ErrCheckNotOpen
	}

	completedAt := time.Now().In(s.loc)
	if err := s.inspectionStore.MarkCompleted(recordID, answers, odometer, completedAt, actor); err != nil {
		return nil, err
	}

	return s.OnCompleted(recordID, answers, odometer)
}

// StartInspection moves a pending check to in_progress.
func (s *InspectionService) StartInspection(recordID string, actor models.Actor) error {
	record, err := s.inspectionStore.FindByID(recordID)
	if err != nil {
		return err
	}

	if record.Status != models.CheckStatusPending {
		return ErrNotPending
	}

	return s.inspectionStore.SetStatus(recordID, models.CheckStatusInProgress, actor)
}

// FailInspection moves an open check to the failed terminal state.
func (s *InspectionService) FailInspection(recordID string, actor models.Actor) error {
	record, err := s.inspectionStore.FindByID(recordID)
	if err != nil {
		return err
	}

	if !record.IsOpen() {
		return ErrCheckNotOpen
	}

	return s.inspectionStore.SetStatus(recordID, models.CheckStatusFailed, actor)
}

// GetCheck returns one monthly check record.
func (s *InspectionService) GetCheck(recordID string) (*models.InspectionRecord, error) {
	return s.inspectionStore.FindByID(recordID)
}

// ListChecks lists records for the CRUD surface.
func (s *InspectionService) ListChecks(period *time.Time, status, riderID string) ([]*models.InspectionRecord, error) {
	if period != nil {
		p := s.PeriodOf(*period)
		period = &p
	}
	return s.inspectionStore.FindFiltered(period, status, riderID)
}

// DeleteCheck removes a record. Administrative action only; the jobs never
// delete.
func (s *InspectionService) DeleteCheck(recordID string) error {
	return s.inspectionStore.Delete(recordID)
}
