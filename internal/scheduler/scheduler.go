package scheduler

import (
	"fmt"
	"log"
	"time"

	"fleet-compliance/internal/services"
)

// Job names accepted by RunNow.
const (
	JobMonthlyCycle   = "monthly_cycle"
	JobDailyReminders = "daily_reminders"
	JobExpiryScan     = "expiry_scan"
)

// ComplianceJobs is what the scheduler needs from the inspection service.
type ComplianceJobs interface {
	RunMonthlyCycle(now time.Time) (*services.CycleResult, error)
	RunDailyReminders(now time.Time) (*services.ReminderResult, error)
}

// ExpiryJob is what the scheduler needs from the expiry service.
type ExpiryJob interface {
	RunWeeklyScan(now time.Time) (*services.ScanResult, error)
}

type Config struct {
	Location      *time.Location
	MonthlyDay    int
	MonthlyHour   int
	DailyHour     int
	WeeklyWeekday time.Weekday
	WeeklyHour    int
	TickInterval  time.Duration
}

// Process fires the compliance jobs on their calendar cadences. One Process
// is created at startup with its job dependencies injected; Start runs the
// loop until Stop. Every write the jobs perform re-checks state first, so a
// manual RunNow interleaving with a scheduled fire is harmless.
type Process struct {
	cfg        Config
	compliance ComplianceJobs
	expiry     ExpiryJob
	stopChan   chan bool

	// last fired period keys, touched only by the run loop
	lastMonthly string
	lastDaily   string
	lastWeekly  string
}

func New(cfg Config, compliance ComplianceJobs, expiry ExpiryJob) *Process {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Minute
	}
	return &Process{
		cfg:        cfg,
		compliance: compliance,
		expiry:     expiry,
		stopChan:   make(chan bool),
	}
}

// Start runs the scheduling loop. Blocks; run it in its own goroutine.
func (p *Process) Start() {
	log.Printf("Starting compliance scheduler (monthly day %d %02d:00, daily %02d:00, weekly %s %02d:00, zone %s)",
		p.cfg.MonthlyDay, p.cfg.MonthlyHour, p.cfg.DailyHour, p.cfg.WeeklyWeekday, p.cfg.WeeklyHour, p.cfg.Location)

	ticker := time.NewTicker(p.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.tick(time.Now().In(p.cfg.Location))
		case <-p.stopChan:
			log.Println("Stopping compliance scheduler")
			return
		}
	}
}

// Stop ends the scheduling loop. A job in flight finishes its current pass;
// partial runs need no compensation because the next cadence closes the gap.
func (p *Process) Stop() {
	p.stopChan <- true
}

// tick fires whichever jobs are due at now, at most once per period each.
func (p *Process) tick(now time.Time) {
	if now.Day() == p.cfg.MonthlyDay && now.Hour() == p.cfg.MonthlyHour {
		key := now.Format("2006-01")
		if p.lastMonthly != key {
			p.lastMonthly = key
			p.runMonthlyCycle(now)
		}
	}

	if now.Hour() == p.cfg.DailyHour {
		key := now.Format("2006-01-02")
		if p.lastDaily != key {
			p.lastDaily = key
			p.runDailyReminders(now)
		}
	}

	if now.Weekday() == p.cfg.WeeklyWeekday && now.Hour() == p.cfg.WeeklyHour {
		year, week := now.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		if p.lastWeekly != key {
			p.lastWeekly = key
			p.runExpiryScan(now)
		}
	}
}

// RunNow is the operator entry point. It invokes the same job functions the
// scheduled triggers use, without consuming the scheduled slot.
func (p *Process) RunNow(name string) error {
	now := time.Now().In(p.cfg.Location)

	switch name {
	case JobMonthlyCycle:
		return p.runMonthlyCycle(now)
	case JobDailyReminders:
		return p.runDailyReminders(now)
	case JobExpiryScan:
		return p.runExpiryScan(now)
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

func (p *Process) runMonthlyCycle(now time.Time) error {
	result, err := p.compliance.RunMonthlyCycle(now)
	if err != nil {
		log.Printf("Monthly cycle failed: %v", err)
		return err
	}
	log.Printf("Monthly cycle: created=%d skipped=%d errors=%d", result.Created, result.Skipped, len(result.Errors))
	return nil
}

func (p *Process) runDailyReminders(now time.Time) error {
	result, err := p.compliance.RunDailyReminders(now)
	if err != nil {
		log.Printf("Daily reminders failed: %v", err)
		return err
	}
	log.Printf("Daily reminders: sent=%d skipped=%d errors=%d", result.Sent, result.Skipped, result.Errors)
	return nil
}

func (p *Process) runExpiryScan(now time.Time) error {
	result, err := p.expiry.RunWeeklyScan(now)
	if err != nil {
		log.Printf("Expiry scan failed: %v", err)
		return err
	}
	log.Printf("Expiry scan: %d expiring items", result.ItemCount)
	return nil
}
