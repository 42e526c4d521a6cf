// Package session records headless drive sessions: it ticks a vehicle
// simulator at a fixed interval, classifies every channel reading and
// persists the samples to the telemetry database.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/classify"
	"github.com/mscrnt/vdash/pkg/config"
	"github.com/mscrnt/vdash/pkg/db"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

// Publisher receives each tick's snapshot. Implemented by the MQTT
// transmitter; nil disables publishing.
type Publisher interface {
	Publish(state vehicle.State) error
}

// Options configures one recorded session.
type Options struct {
	Label    string
	Gear     vehicle.Gear
	Maneuver vehicle.Maneuver
	Duration time.Duration
	Tick     time.Duration

	// Accelerator is the pedal position held for the whole session
	// when no maneuver is active. Zero records a coasting session;
	// negative selects the default half throttle.
	Accelerator float64
}

// Recorder runs drive sessions against the database.
type Recorder struct {
	db        *db.DB
	cfg       *config.Config
	publisher Publisher
	log       *logrus.Logger
}

// NewRecorder creates a session recorder. publisher may be nil.
func NewRecorder(database *db.DB, cfg *config.Config, publisher Publisher, log *logrus.Logger) *Recorder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recorder{
		db:        database,
		cfg:       cfg,
		publisher: publisher,
		log:       log,
	}
}

// Run executes one session to completion. The context cancels the
// session early; whatever was recorded up to that point is kept.
func (r *Recorder) Run(ctx context.Context, opts Options) (*db.Session, error) {
	if opts.Tick <= 0 {
		opts.Tick = r.cfg.RefreshInterval()
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("session duration must be positive")
	}
	if opts.Gear == "" {
		opts.Gear = vehicle.GearDrive
	}
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("drive %s", time.Now().Format("2006-01-02 15:04:05"))
	}
	if opts.Accelerator < 0 {
		opts.Accelerator = 50
	}

	sim := vehicle.NewSimulator(r.cfg.Vehicle)
	sim.TogglePower()
	if err := sim.SetGear(opts.Gear); err != nil {
		return nil, err
	}
	if opts.Maneuver != vehicle.ManeuverNone {
		if err := sim.StartManeuver(opts.Maneuver); err != nil {
			return nil, err
		}
	} else {
		sim.SetAccelerator(opts.Accelerator)
	}

	record, err := r.db.CreateSession(opts.Label, string(opts.Maneuver), string(opts.Gear), int(opts.Tick.Milliseconds()), db.JSONData{
		"duration_secs": opts.Duration.Seconds(),
		"accelerator":   opts.Accelerator,
	})
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"session":  record.ID,
		"maneuver": opts.Maneuver.String(),
		"gear":     opts.Gear,
		"tick":     opts.Tick,
		"duration": opts.Duration,
	}).Info("Starting drive session")

	count, runErr := r.loop(ctx, sim, record.ID, opts)

	end := time.Now()
	record.EndTime = &end
	record.Samples = count
	if runErr != nil {
		record.Error = runErr.Error()
	}
	if err := r.db.UpdateSession(record); err != nil {
		return record, fmt.Errorf("finalizing session %d: %w", record.ID, err)
	}

	r.log.WithFields(logrus.Fields{
		"session": record.ID,
		"samples": count,
	}).Info("Drive session finished")

	return record, runErr
}

func (r *Recorder) loop(ctx context.Context, sim *vehicle.Simulator, sessionID int64, opts Options) (int, error) {
	ticker := time.NewTicker(opts.Tick)
	defer ticker.Stop()

	deadline := time.NewTimer(opts.Duration)
	defer deadline.Stop()

	count := 0
	for {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		case <-deadline.C:
			return count, nil
		case <-ticker.C:
			sim.Step(opts.Tick)
			n, err := r.capture(sim.Snapshot(), sessionID)
			if err != nil {
				return count, err
			}
			count += n
		}
	}
}

// capture classifies and persists one snapshot.
func (r *Recorder) capture(state vehicle.State, sessionID int64) (int, error) {
	now := time.Now()
	batch := make([]*db.Sample, 0, len(vehicle.Channels))

	for _, ch := range vehicle.Channels {
		value, ok := state.Channel(ch.Name)
		if !ok {
			continue
		}
		band := classify.Classify(value, r.cfg.ThresholdsFor(ch.Name))
		if band != classify.BandNormal {
			r.log.WithFields(logrus.Fields{
				"channel": ch.Name,
				"value":   value,
				"band":    band.String(),
			}).Debug("Channel outside normal band")
		}
		batch = append(batch, &db.Sample{
			SessionID: sessionID,
			Timestamp: now,
			Channel:   ch.Name,
			Value:     value,
			Unit:      ch.Unit,
			Band:      band.String(),
		})
	}

	if err := r.db.CreateSamples(batch); err != nil {
		return 0, err
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(state); err != nil {
			// Telemetry publishing is best effort; the local record
			// is the source of truth.
			r.log.WithError(err).Warn("Failed to publish telemetry")
		}
	}

	return len(batch), nil
}
