package scheduler

import (
	"testing"
	"time"

	"fleet-compliance/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockComplianceJobs is a mock implementation of ComplianceJobs
type MockComplianceJobs struct {
	mock.Mock
}

func (m *MockComplianceJobs) RunMonthlyCycle(now time.Time) (*services.CycleResult, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CycleResult), args.Error(1)
}

func (m *MockComplianceJobs) RunDailyReminders(now time.Time) (*services.ReminderResult, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReminderResult), args.Error(1)
}

// MockExpiryJob is a mock implementation of ExpiryJob
type MockExpiryJob struct {
	mock.Mock
}

func (m *MockExpiryJob) RunWeeklyScan(now time.Time) (*services.ScanResult, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ScanResult), args.Error(1)
}

func testConfig() Config {
	return Config{
		Location:      time.UTC,
		MonthlyDay:    1,
		MonthlyHour:   6,
		DailyHour:     9,
		WeeklyWeekday: time.Monday,
		WeeklyHour:    8,
	}
}

func TestTick_MonthlyFiresOncePerMonth(t *testing.T) {
	compliance := &MockComplianceJobs{}
	expiry := &MockExpiryJob{}
	p := New(testConfig(), compliance, expiry)

	compliance.On("RunMonthlyCycle", mock.Anything).Return(&services.CycleResult{}, nil)

	due := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	p.tick(due)
	p.tick(due.Add(time.Minute))
	p.tick(due.Add(30 * time.Minute))

	compliance.AssertNumberOfCalls(t, "RunMonthlyCycle", 1)

	// next month fires again
	p.tick(time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC))
	compliance.AssertNumberOfCalls(t, "RunMonthlyCycle", 2)
}

func TestTick_MonthlyDoesNotFireOffSchedule(t *testing.T) {
	compliance := &MockComplianceJobs{}
	p := New(testConfig(), compliance, &MockExpiryJob{})

	p.tick(time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC))  // wrong day
	p.tick(time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC))  // wrong hour
	p.tick(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	compliance.AssertNotCalled(t, "RunMonthlyCycle", mock.Anything)
}

func TestTick_DailyFiresOncePerDay(t *testing.T) {
	compliance := &MockComplianceJobs{}
	p := New(testConfig(), compliance, &MockExpiryJob{})

	compliance.On("RunDailyReminders", mock.Anything).Return(&services.ReminderResult{}, nil)

	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	p.tick(day)
	p.tick(day.Add(5 * time.Minute))
	p.tick(day.AddDate(0, 0, 1))

	compliance.AssertNumberOfCalls(t, "RunDailyReminders", 2)
}

func TestTick_WeeklyFiresOncePerISOWeek(t *testing.T) {
	expiry := &MockExpiryJob{}
	p := New(testConfig(), &MockComplianceJobs{}, expiry)

	expiry.On("RunWeeklyScan", mock.Anything).Return(&services.ScanResult{}, nil)

	monday := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, monday.Weekday())

	p.tick(monday)
	p.tick(monday.Add(10 * time.Minute))
	p.tick(monday.AddDate(0, 0, 7))

	expiry.AssertNumberOfCalls(t, "RunWeeklyScan", 2)
}

func TestRunNow_DispatchesByName(t *testing.T) {
	compliance := &MockComplianceJobs{}
	expiry := &MockExpiryJob{}
	p := New(testConfig(), compliance, expiry)

	compliance.On("RunMonthlyCycle", mock.Anything).Return(&services.CycleResult{}, nil)
	compliance.On("RunDailyReminders", mock.Anything).Return(&services.ReminderResult{}, nil)
	expiry.On("RunWeeklyScan", mock.Anything).Return(&services.ScanResult{}, nil)

	assert.NoError(t, p.RunNow(JobMonthlyCycle))
	assert.NoError(t, p.RunNow(JobDailyReminders))
	assert.NoError(t, p.RunNow(JobExpiryScan))

	compliance.AssertNumberOfCalls(t, "RunMonthlyCycle", 1)
	compliance.AssertNumberOfCalls(t, "RunDailyReminders", 1)
	expiry.AssertNumberOfCalls(t, "RunWeeklyScan", 1)
}

func TestRunNow_UnknownJob(t *testing.T) {
	p := New(testConfig(), &MockComplianceJobs{}, &MockExpiryJob{})

	err := p.RunNow("vacuum_cleaning")
	assert.Error(t, err)
}

func TestRunNow_DoesNotConsumeScheduledSlot(t *testing.T) {
	compliance := &MockComplianceJobs{}
	p := New(testConfig(), compliance, &MockExpiryJob{})

	compliance.On("RunDailyReminders", mock.Anything).Return(&services.ReminderResult{}, nil)

	// manual run first, then the scheduled fire still happens
	assert.NoError(t, p.RunNow(JobDailyReminders))
	p.tick(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	compliance.AssertNumberOfCalls(t, "RunDailyReminders", 2)
}

func TestStartStop(t *testing.T) {
	compliance := &MockComplianceJobs{}
	cfg := testConfig()
	cfg.TickInterval = 10 * time.Millisecond
	p := New(cfg, compliance, &MockExpiryJob{})

	done := make(chan struct{})
	go func() {
		p.Start()
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	p.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
