package services

import (
	"errors"
	"testing"
	"time"

	"fleet-compliance/internal/models"
	"fleet-compliance/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockRiderStore is a mock implementation of RiderStore
type MockRiderStore struct {
	mock.Mock
}

func (m *MockRiderStore) FindActive() ([]*models.Rider, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Rider), args.Error(1)
}

func (m *MockRiderStore) FindByID(id string) (*models.Rider, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rider), args.Error(1)
}

// MockVehicleStore is a mock implementation of VehicleStore
type MockVehicleStore struct {
	mock.Mock
}

func (m *MockVehicleStore) FindByID(id string) (*models.Vehicle, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleStore) FindInService() ([]*models.Vehicle, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vehicle), args.Error(1)
}

func (m *MockVehicleStore) UpdateOdometer(id string, reading int) error {
	args := m.Called(id, reading)
	return args.Error(0)
}

// MockInspectionStore is a mock implementation of InspectionStore
type MockInspectionStore struct {
	mock.Mock
}

func (m *MockInspectionStore) Insert(record *models.InspectionRecord) (string, error) {
	args := m.Called(record)
	return args.String(0), args.Error(1)
}

func (m *MockInspectionStore) FindByID(id string) (*models.InspectionRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InspectionRecord), args.Error(1)
}

func (m *MockInspectionStore) FindByRiderVehiclePeriod(riderID, vehicleID string, period time.Time) (*models.InspectionRecord, error) {
	args := m.Called(riderID, vehicleID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InspectionRecord), args.Error(1)
}

func (m *MockInspectionStore) FindPendingByPeriod(period time.Time) ([]*models.InspectionRecord, error) {
	args := m.Called(period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InspectionRecord), args.Error(1)
}

func (m *MockInspectionStore) FindFiltered(period *time.Time, status, riderID string) ([]*models.InspectionRecord, error) {
	args := m.Called(period, status, riderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InspectionRecord), args.Error(1)
}

func (m *MockInspectionStore) SetLastReminderSent(id string, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockInspectionStore) SetStatus(id string, status string, by models.Actor) error {
	args := m.Called(id, status, by)
	return args.Error(0)
}

func (m *MockInspectionStore) MarkCompleted(id string, answers models.InspectionAnswers, odometer *int, completedAt time.Time, by models.Actor) error {
	args := m.Called(id, answers, odometer, completedAt, by)
	return args.Error(0)
}

func (m *MockInspectionStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockNotifier is a mock implementation of NotificationSender
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendInspectionReminder(to string, notice ReminderNotice) error {
	args := m.Called(to, notice)
	return args.Error(0)
}

func (m *MockNotifier) SendDefectEscalation(to string, notice EscalationNotice) error {
	args := m.Called(to, notice)
	return args.Error(0)
}

func (m *MockNotifier) SendExpiryReport(to string, items []models.ExpiringItem) error {
	args := m.Called(to, items)
	return args.Error(0)
}

func newTestService(riders *MockRiderStore, vehicles *MockVehicleStore, inspections *MockInspectionStore, notifier *MockNotifier) *InspectionService {
	return NewInspectionService(riders, vehicles, inspections, notifier, "management@example.com", time.UTC)
}

func assignedRider(name, vehicleID string) *models.Rider {
	return &models.Rider{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Email:            name + "@example.com",
		Status:           models.RiderStatusActive,
		AssignmentStatus: models.AssignmentAssigned,
		VehicleID:        vehicleID,
	}
}

func activeVehicle(id, plate string) *models.Vehicle {
	oid, _ := primitive.ObjectIDFromHex(id)
	return &models.Vehicle{
		ID:          oid,
		PlateNumber: plate,
		Status:      models.VehicleStatusActive,
		Odometer:    12000,
	}
}

func TestRunMonthlyCycle_CreatesChecksAndSkipsUnassigned(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	vehicleIDs := []string{
		primitive.NewObjectID().Hex(),
		primitive.NewObjectID().Hex(),
		primitive.NewObjectID().Hex(),
	}

	active := []*models.Rider{
		assignedRider("alice", vehicleIDs[0]),
		assignedRider("bob", vehicleIDs[1]),
		assignedRider("carol", vehicleIDs[2]),
		{
			ID:               primitive.NewObjectID(),
			Name:             "dave",
			Status:           models.RiderStatusActive,
			AssignmentStatus: models.AssignmentUnassigned,
		},
	}

	riders.On("FindActive").Return(active, nil)
	for i, id := range vehicleIDs {
		vehicles.On("FindByID", id).Return(activeVehicle(id, "KAA 00"+string(rune('1'+i))), nil)
	}
	inspections.On("FindByRiderVehiclePeriod", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrCheckNotFound)
	inspections.On("Insert", mock.AnythingOfType("*models.InspectionRecord")).Return(primitive.NewObjectID().Hex(), nil)

	now := time.Date(2026, 3, 17, 10, 30, 0, 0, time.UTC)
	result, err := svc.RunMonthlyCycle(now)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Skips, 1)
	assert.Equal(t, SkipReasonUnassigned, result.Skips[0].Reason)
	assert.Empty(t, result.Errors)

	inspections.AssertNumberOfCalls(t, "Insert", 3)

	// every created record is pending for the first of the month
	for _, call := range inspections.Calls {
		if call.Method != "Insert" {
			continue
		}
		record := call.Arguments.Get(0).(*models.InspectionRecord)
		assert.Equal(t, models.CheckStatusPending, record.Status)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), record.CheckDate)
		assert.True(t, record.CreatedBy.System)
	}
}

func TestRunMonthlyCycle_RerunSkipsExistingChecks(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)

	riders.On("FindActive").Return([]*models.Rider{rider}, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	inspections.On("FindByRiderVehiclePeriod", rider.ID.Hex(), vehicleID, mock.Anything).
		Return(&models.InspectionRecord{Status: models.CheckStatusPending}, nil)

	result, err := svc.RunMonthlyCycle(time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Skips, 1)
	assert.Equal(t, SkipReasonAlreadyExists, result.Skips[0].Reason)
	inspections.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestRunMonthlyCycle_SkipsVehicleNotOperational(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)
	parked := activeVehicle(vehicleID, "KAA 001")
	parked.Status = models.VehicleStatusMaintenance

	riders.On("FindActive").Return([]*models.Rider{rider}, nil)
	vehicles.On("FindByID", vehicleID).Return(parked, nil)

	result, err := svc.RunMonthlyCycle(time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, SkipReasonNotOperational, result.Skips[0].Reason)
	inspections.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestRunMonthlyCycle_PerRiderErrorDoesNotStopPass(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	brokenVehicleID := primitive.NewObjectID().Hex()
	goodVehicleID := primitive.NewObjectID().Hex()
	broken := assignedRider("alice", brokenVehicleID)
	good := assignedRider("bob", goodVehicleID)

	riders.On("FindActive").Return([]*models.Rider{broken, good}, nil)
	vehicles.On("FindByID", brokenVehicleID).Return(nil, errors.New("connection reset"))
	vehicles.On("FindByID", goodVehicleID).Return(activeVehicle(goodVehicleID, "KAA 002"), nil)
	inspections.On("FindByRiderVehiclePeriod", good.ID.Hex(), goodVehicleID, mock.Anything).
		Return(nil, repository.ErrCheckNotFound)
	inspections.On("Insert", mock.AnythingOfType("*models.InspectionRecord")).Return(primitive.NewObjectID().Hex(), nil)

	result, err := svc.RunMonthlyCycle(time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, broken.ID.Hex(), result.Errors[0].RiderID)
}

func TestRunMonthlyCycle_RiderFetchFailureIsFatal(t *testing.T) {
	riders := &MockRiderStore{}
	svc := newTestService(riders, &MockVehicleStore{}, &MockInspectionStore{}, &MockNotifier{})

	riders.On("FindActive").Return(nil, errors.New("primary unreachable"))

	result, err := svc.RunMonthlyCycle(time.Now())

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestCreateChecksForRiders_AttributesToRequestingUser(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	svc := newTestService(riders, vehicles, inspections, &MockNotifier{})

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)

	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	inspections.On("FindByRiderVehiclePeriod", rider.ID.Hex(), vehicleID, mock.Anything).
		Return(nil, repository.ErrCheckNotFound)
	inspections.On("Insert", mock.MatchedBy(func(r *models.InspectionRecord) bool {
		return !r.CreatedBy.System && r.CreatedBy.UserID == "ops-1"
	})).Return(primitive.NewObjectID().Hex(), nil)

	result, err := svc.CreateChecksForRiders([]string{rider.ID.Hex()}, models.UserActor("ops-1"), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	inspections.AssertExpectations(t)
}

func pendingRecord(riderID, vehicleID string, period time.Time) *models.InspectionRecord {
	return &models.InspectionRecord{
		ID:        primitive.NewObjectID(),
		RiderID:   riderID,
		VehicleID: vehicleID,
		CheckDate: period,
		Status:    models.CheckStatusPending,
	}
}

func TestRunDailyReminders_SendsOncePerDay(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	now := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)

	fresh := pendingRecord(rider.ID.Hex(), vehicleID, period)
	remindedEarlier := pendingRecord(rider.ID.Hex(), vehicleID, period)
	earlier := now.Add(-2 * time.Hour)
	remindedEarlier.LastReminderSent = &earlier

	inspections.On("FindPendingByPeriod", period).
		Return([]*models.InspectionRecord{fresh, remindedEarlier}, nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	notifier.On("SendInspectionReminder", rider.Email, mock.AnythingOfType("services.ReminderNotice")).Return(nil)
	inspections.On("SetLastReminderSent", fresh.ID.Hex(), now).Return(nil)

	result, err := svc.RunDailyReminders(now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Errors)
	notifier.AssertNumberOfCalls(t, "SendInspectionReminder", 1)
}

func TestRunDailyReminders_NextDaySendsAgain(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	now := time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)

	record := pendingRecord(rider.ID.Hex(), vehicleID, period)
	yesterday := now.AddDate(0, 0, -1)
	record.LastReminderSent = &yesterday

	inspections.On("FindPendingByPeriod", period).Return([]*models.InspectionRecord{record}, nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	notifier.On("SendInspectionReminder", rider.Email, mock.AnythingOfType("services.ReminderNotice")).Return(nil)
	inspections.On("SetLastReminderSent", record.ID.Hex(), now).Return(nil)

	result, err := svc.RunDailyReminders(now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Skipped)
}

func TestRunDailyReminders_FailedSendIsNotRecorded(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	now := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)
	record := pendingRecord(rider.ID.Hex(), vehicleID, period)

	inspections.On("FindPendingByPeriod", period).Return([]*models.InspectionRecord{record}, nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	notifier.On("SendInspectionReminder", rider.Email, mock.AnythingOfType("services.ReminderNotice")).
		Return(errors.New("smtp timeout"))

	result, err := svc.RunDailyReminders(now)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Errors)
	inspections.AssertNotCalled(t, "SetLastReminderSent", mock.Anything, mock.Anything)
}

func TestRunDailyReminders_MissingRiderCountsAsError(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	now := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)

	orphaned := pendingRecord(primitive.NewObjectID().Hex(), vehicleID, period)
	healthy := pendingRecord(rider.ID.Hex(), vehicleID, period)

	inspections.On("FindPendingByPeriod", period).
		Return([]*models.InspectionRecord{orphaned, healthy}, nil)
	riders.On("FindByID", orphaned.RiderID).Return(nil, repository.ErrRiderNotFound)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	notifier.On("SendInspectionReminder", rider.Email, mock.AnythingOfType("services.ReminderNotice")).Return(nil)
	inspections.On("SetLastReminderSent", healthy.ID.Hex(), now).Return(nil)

	result, err := svc.RunDailyReminders(now)

	// the orphaned record must not abort the pass or produce a send
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.Sent)
	notifier.AssertNumberOfCalls(t, "SendInspectionReminder", 1)
	inspections.AssertNotCalled(t, "SetLastReminderSent", orphaned.ID.Hex(), mock.Anything)
}

func TestRunDailyReminders_NoEmailIsSkipped(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	now := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)
	rider.Email = ""
	record := pendingRecord(rider.ID.Hex(), vehicleID, period)

	inspections.On("FindPendingByPeriod", period).Return([]*models.InspectionRecord{record}, nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)

	result, err := svc.RunDailyReminders(now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	notifier.AssertNotCalled(t, "SendInspectionReminder", mock.Anything, mock.Anything)
}

func TestSendReminderNow_RequiresPending(t *testing.T) {
	inspections := &MockInspectionStore{}
	svc := newTestService(&MockRiderStore{}, &MockVehicleStore{}, inspections, &MockNotifier{})

	record := pendingRecord("r1", "v1", time.Now())
	record.Status = models.CheckStatusInProgress

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)

	err := svc.SendReminderNow(record.ID.Hex())
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestSendReminderNow_RequiresContactAddress(t *testing.T) {
	riders := &MockRiderStore{}
	inspections := &MockInspectionStore{}
	svc := newTestService(riders, &MockVehicleStore{}, inspections, &MockNotifier{})

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)
	rider.Email = ""
	record := pendingRecord(rider.ID.Hex(), vehicleID, time.Now())

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)

	err := svc.SendReminderNow(record.ID.Hex())
	assert.ErrorIs(t, err, ErrNoContactAddress)
}

func TestSubmitInspection_CompletedCheckIsFinal(t *testing.T) {
	inspections := &MockInspectionStore{}
	svc := newTestService(&MockRiderStore{}, &MockVehicleStore{}, inspections, &MockNotifier{})

	record := pendingRecord("r1", "v1", time.Now())
	record.Status = models.CheckStatusCompleted

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)

	_, err := svc.SubmitInspection(record.ID.Hex(), models.InspectionAnswers{}, nil, models.UserActor("u1"))
	assert.ErrorIs(t, err, ErrCheckNotOpen)
	inspections.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitInspection_DefectsAreEscalatedOnce(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)
	record := pendingRecord(rider.ID.Hex(), vehicleID, time.Now())

	answers := models.InspectionAnswers{
		OilCheck:        models.AnswerLow,
		BrakesCondition: models.ConditionPoor,
	}
	odometer := 12500

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)
	inspections.On("MarkCompleted", record.ID.Hex(), answers, &odometer, mock.Anything, models.UserActor("u1")).Return(nil)
	vehicles.On("UpdateOdometer", vehicleID, odometer).Return(nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	notifier.On("SendDefectEscalation", "management@example.com", mock.MatchedBy(func(n EscalationNotice) bool {
		return len(n.Defects) == 2 && n.PlateNumber == "KAA 001"
	})).Return(nil)

	result, err := svc.SubmitInspection(record.ID.Hex(), answers, &odometer, models.UserActor("u1"))

	require.NoError(t, err)
	assert.True(t, result.Escalated)
	assert.Len(t, result.Defects, 2)
	assert.Empty(t, result.Warnings)
	notifier.AssertNumberOfCalls(t, "SendDefectEscalation", 1)
}

func TestSubmitInspection_VehicleLookupFailureKeepsPlateEmpty(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)
	record := pendingRecord(rider.ID.Hex(), vehicleID, time.Now())

	answers := models.InspectionAnswers{
		OilCheck:        models.AnswerLow,
		BrakesCondition: models.ConditionGood,
	}

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)
	inspections.On("MarkCompleted", record.ID.Hex(), answers, (*int)(nil), mock.Anything, models.UserActor("u1")).Return(nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(nil, errors.New("mongo down"))
	// the plate stays empty so downstream formatting can label the vehicle
	// by id instead of passing the raw id off as a plate
	notifier.On("SendDefectEscalation", "management@example.com", mock.MatchedBy(func(n EscalationNotice) bool {
		return n.PlateNumber == "" && n.VehicleID == vehicleID
	})).Return(nil)

	result, err := svc.SubmitInspection(record.ID.Hex(), answers, nil, models.UserActor("u1"))

	require.NoError(t, err)
	assert.True(t, result.Escalated)
	notifier.AssertNumberOfCalls(t, "SendDefectEscalation", 1)
}

func TestSubmitInspection_CleanChecklistDoesNotEscalate(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	record := pendingRecord("r1", "v1", time.Now())
	answers := models.InspectionAnswers{
		OilCheck:        models.AnswerOK,
		BrakesCondition: models.ConditionGood,
	}

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)
	inspections.On("MarkCompleted", record.ID.Hex(), answers, (*int)(nil), mock.Anything, models.UserActor("u1")).Return(nil)

	result, err := svc.SubmitInspection(record.ID.Hex(), answers, nil, models.UserActor("u1"))

	require.NoError(t, err)
	assert.False(t, result.Escalated)
	assert.Empty(t, result.Defects)
	notifier.AssertNotCalled(t, "SendDefectEscalation", mock.Anything, mock.Anything)
}

func TestSubmitInspection_OdometerFailureDoesNotBlockCompletion(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	record := pendingRecord("r1", "v1", time.Now())
	answers := models.InspectionAnswers{OilCheck: models.AnswerOK}
	odometer := 9000

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)
	inspections.On("MarkCompleted", record.ID.Hex(), answers, &odometer, mock.Anything, models.UserActor("u1")).Return(nil)
	vehicles.On("UpdateOdometer", "v1", odometer).Return(errors.New("write conflict"))

	result, err := svc.SubmitInspection(record.ID.Hex(), answers, &odometer, models.UserActor("u1"))

	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "odometer")
}

func TestSubmitInspection_EscalationFailureIsWarningOnly(t *testing.T) {
	riders := &MockRiderStore{}
	vehicles := &MockVehicleStore{}
	inspections := &MockInspectionStore{}
	notifier := &MockNotifier{}
	svc := newTestService(riders, vehicles, inspections, notifier)

	vehicleID := primitive.NewObjectID().Hex()
	rider := assignedRider("alice", vehicleID)
	record := pendingRecord(rider.ID.Hex(), vehicleID, time.Now())
	answers := models.InspectionAnswers{ChainLubrication: models.ActionNotDone}

	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)
	inspections.On("MarkCompleted", record.ID.Hex(), answers, (*int)(nil), mock.Anything, models.UserActor("u1")).Return(nil)
	riders.On("FindByID", rider.ID.Hex()).Return(rider, nil)
	vehicles.On("FindByID", vehicleID).Return(activeVehicle(vehicleID, "KAA 001"), nil)
	notifier.On("SendDefectEscalation", "management@example.com", mock.AnythingOfType("services.EscalationNotice")).
		Return(errors.New("smtp down"))

	result, err := svc.SubmitInspection(record.ID.Hex(), answers, nil, models.UserActor("u1"))

	require.NoError(t, err)
	assert.False(t, result.Escalated)
	assert.Len(t, result.Defects, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "escalation")
}

func TestStartInspection_OnlyFromPending(t *testing.T) {
	inspections := &MockInspectionStore{}
	svc := newTestService(&MockRiderStore{}, &MockVehicleStore{}, inspections, &MockNotifier{})

	record := pendingRecord("r1", "v1", time.Now())
	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)
	inspections.On("SetStatus", record.ID.Hex(), models.CheckStatusInProgress, models.UserActor("u1")).Return(nil)

	err := svc.StartInspection(record.ID.Hex(), models.UserActor("u1"))
	require.NoError(t, err)

	started := pendingRecord("r1", "v1", time.Now())
	started.Status = models.CheckStatusInProgress
	inspections.On("FindByID", started.ID.Hex()).Return(started, nil)

	err = svc.StartInspection(started.ID.Hex(), models.UserActor("u1"))
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestFailInspection_TerminalStatesRejected(t *testing.T) {
	inspections := &MockInspectionStore{}
	svc := newTestService(&MockRiderStore{}, &MockVehicleStore{}, inspections, &MockNotifier{})

	record := pendingRecord("r1", "v1", time.Now())
	record.Status = models.CheckStatusFailed
	inspections.On("FindByID", record.ID.Hex()).Return(record, nil)

	err := svc.FailInspection(record.ID.Hex(), models.SystemActor)
	assert.ErrorIs(t, err, ErrCheckNotOpen)
}

func TestPeriodOf_NormalizesToFirstOfMonth(t *testing.T) {
	svc := newTestService(&MockRiderStore{}, &MockVehicleStore{}, &MockInspectionStore{}, &MockNotifier{})

	period := svc.PeriodOf(time.Date(2026, 7, 23, 18, 45, 12, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), period)
}

func TestParsePeriod_UsesOperationalZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	svc := NewInspectionService(&MockRiderStore{}, &MockVehicleStore{}, &MockInspectionStore{},
		&MockNotifier{}, "management@example.com", ny)

	// midnight UTC on the first of the month is still the previous evening in
	// New York; parsing in the operational zone must not slide the month
	period, err := svc.ParsePeriod("2026-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, ny), period)
	assert.Equal(t, time.March, period.Month())
}

func TestParsePeriod_RejectsMalformedInput(t *testing.T) {
	svc := newTestService(&MockRiderStore{}, &MockVehicleStore{}, &MockInspectionStore{}, &MockNotifier{})

	_, err := svc.ParsePeriod("March 2026")
	assert.Error(t, err)

	_, err = svc.ParsePeriod("2026-13")
	assert.Error(t, err)
}
