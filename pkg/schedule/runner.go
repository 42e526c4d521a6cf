package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/db"
	"github.com/mscrnt/vdash/pkg/session"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

// Runner executes schedules by recording headless drive sessions.
type Runner struct {
	cron     *cron.Cron
	store    *Store
	recorder *session.Recorder
	jobs     map[int64]cron.EntryID
	mu       sync.RWMutex
	log      *logrus.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRunner creates a new schedule runner
func NewRunner(database *db.DB, recorder *session.Recorder, log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		cron:     cron.New(cron.WithParser(cronParser)),
		store:    NewStore(database),
		recorder: recorder,
		jobs:     make(map[int64]cron.EntryID),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler
func (r *Runner) Start() error {
	r.log.Info("Starting scheduler")

	// Load all enabled schedules
	enabled := true
	schedules, err := r.store.List(ScheduleFilter{Enabled: &enabled})
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	// Register each schedule
	for _, schedule := range schedules {
		if err := r.registerSchedule(schedule); err != nil {
			r.log.WithError(err).WithField("schedule", schedule.Name).Error("Failed to register schedule")
		}
	}

	// Start cron scheduler
	r.cron.Start()

	r.log.WithField("active", len(r.jobs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running sessions to finish.
func (r *Runner) Stop() {
	r.log.Info("Stopping scheduler")

	r.cancel()

	ctx := r.cron.Stop()
	select {
	case <-ctx.Done():
		r.log.Info("All scheduled sessions completed")
	case <-time.After(5 * time.Minute):
		r.log.Warn("Timeout waiting for scheduled sessions to complete")
	}
}

// RegisterSchedule adds a schedule to the runner
func (r *Runner) RegisterSchedule(scheduleID int64) error {
	schedule, err := r.store.Get(scheduleID)
	if err != nil {
		return err
	}

	return r.registerSchedule(schedule)
}

// UnregisterSchedule removes a schedule from the runner
func (r *Runner) UnregisterSchedule(scheduleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entryID, exists := r.jobs[scheduleID]; exists {
		r.cron.Remove(entryID)
		delete(r.jobs, scheduleID)
		r.log.WithField("schedule_id", scheduleID).Debug("Unregistered schedule")
	}

	return nil
}

// RefreshSchedule updates a schedule in the runner
func (r *Runner) RefreshSchedule(scheduleID int64) error {
	if err := r.UnregisterSchedule(scheduleID); err != nil {
		return err
	}

	schedule, err := r.store.Get(scheduleID)
	if err != nil {
		return err
	}

	if schedule.Enabled {
		return r.registerSchedule(schedule)
	}

	return nil
}

func (r *Runner) registerSchedule(schedule *Schedule) error {
	if !schedule.Enabled {
		return nil
	}

	entryID, err := r.cron.AddFunc(schedule.CronExpr, r.createJob(schedule))
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.mu.Lock()
	r.jobs[schedule.ID] = entryID
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"schedule": schedule.Name,
		"cron":     schedule.CronExpr,
	}).Info("Registered schedule")

	return nil
}

func (r *Runner) createJob(schedule *Schedule) func() {
	return func() {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		// Run in goroutine to not block scheduler
		go func() {
			if err := r.executeSchedule(schedule); err != nil {
				r.log.WithError(err).WithField("schedule", schedule.Name).Error("Scheduled session failed")
			}
		}()
	}
}

// executeSchedule records one drive session for a schedule.
func (r *Runner) executeSchedule(schedule *Schedule) error {
	defer func() {
		if p := recover(); p != nil {
			r.log.WithField("schedule", schedule.Name).Errorf("Panic in scheduled session: %v", p)
		}
	}()

	maneuver, err := vehicle.ParseManeuver(schedule.Maneuver)
	if err != nil {
		return err
	}
	gear := vehicle.GearDrive
	if schedule.Gear != "" {
		if gear, err = vehicle.ParseGear(schedule.Gear); err != nil {
			return err
		}
	}

	duration := time.Duration(schedule.DurationSecs) * time.Second
	ctx, cancel := context.WithTimeout(r.ctx, duration+30*time.Second)
	defer cancel()

	record, err := r.recorder.Run(ctx, session.Options{
		Label:       fmt.Sprintf("scheduled: %s", schedule.Name),
		Gear:        gear,
		Maneuver:    maneuver,
		Duration:    duration,
		Tick:        time.Duration(schedule.TickMS) * time.Millisecond,
		Accelerator: 50,
	})
	if err != nil {
		return err
	}

	if err := r.store.UpdateLastRun(schedule.ID, record.ID); err != nil {
		r.log.WithError(err).Warn("Failed to update schedule last run")
	}

	r.log.WithFields(logrus.Fields{
		"schedule": schedule.Name,
		"session":  record.ID,
		"samples":  record.Samples,
	}).Info("Scheduled session completed")

	return nil
}

// CheckDue runs any overdue schedules immediately
func (r *Runner) CheckDue() error {
	schedules, err := r.store.GetDue()
	if err != nil {
		return fmt.Errorf("failed to get due schedules: %w", err)
	}

	for _, schedule := range schedules {
		r.log.WithField("schedule", schedule.Name).Info("Running overdue schedule")
		go func(s *Schedule) {
			if err := r.executeSchedule(s); err != nil {
				r.log.WithError(err).WithField("schedule", s.Name).Error("Overdue session failed")
			}
		}(schedule)
	}

	return nil
}

// ListJobs returns information about all scheduled jobs
func (r *Runner) ListJobs() []cron.Entry {
	return r.cron.Entries()
}
