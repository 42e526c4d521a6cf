package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/config"
	"github.com/mscrnt/vdash/pkg/db"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

type capturingPublisher struct {
	mu     sync.Mutex
	states []vehicle.State
}

func (p *capturingPublisher) Publish(state vehicle.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, state)
	return nil
}

func newTestRecorder(t *testing.T, pub Publisher) (*Recorder, *db.DB) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "vdash.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return NewRecorder(database, config.Default(), pub, log), database
}

func TestRunRecordsSamples(t *testing.T) {
	recorder, database := newTestRecorder(t, nil)

	record, err := recorder.Run(context.Background(), Options{
		Label:    "test drive",
		Gear:     vehicle.GearDrive,
		Duration: 100 * time.Millisecond,
		Tick:     10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if record.EndTime == nil {
		t.Error("session not finalized")
	}
	if record.Samples == 0 {
		t.Fatal("no samples recorded")
	}

	samples, err := database.GetSamples(record.ID)
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if len(samples) != record.Samples {
		t.Errorf("stored %d samples, session says %d", len(samples), record.Samples)
	}

	seen := map[string]bool{}
	for _, s := range samples {
		seen[s.Channel] = true
		if s.Band == "" {
			t.Errorf("sample %s has no band", s.Channel)
		}
	}
	for _, ch := range vehicle.Channels {
		if !seen[ch.Name] {
			t.Errorf("channel %s never sampled", ch.Name)
		}
	}
}

func TestRunManeuverSession(t *testing.T) {
	recorder, database := newTestRecorder(t, nil)

	record, err := recorder.Run(context.Background(), Options{
		Maneuver: vehicle.ManeuverRight,
		Duration: 60 * time.Millisecond,
		Tick:     10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if record.Maneuver != "right" {
		t.Errorf("maneuver = %q, want right", record.Maneuver)
	}

	id := record.ID
	speeds, err := database.ListSamples(db.SampleFilter{SessionID: &id, Channel: vehicle.ChannelSpeed})
	if err != nil {
		t.Fatalf("ListSamples: %v", err)
	}
	for _, s := range speeds {
		if s.Value != 30 {
			t.Errorf("maneuver speed sample = %v, want 30", s.Value)
		}
	}
}

func TestRunZeroAcceleratorCoasts(t *testing.T) {
	recorder, database := newTestRecorder(t, nil)

	record, err := recorder.Run(context.Background(), Options{
		Gear:        vehicle.GearDrive,
		Duration:    60 * time.Millisecond,
		Tick:        10 * time.Millisecond,
		Accelerator: 0,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	id := record.ID
	accels, err := database.ListSamples(db.SampleFilter{SessionID: &id, Channel: vehicle.ChannelAccel})
	if err != nil {
		t.Fatalf("ListSamples: %v", err)
	}
	if len(accels) == 0 {
		t.Fatal("no accelerator samples recorded")
	}
	for _, s := range accels {
		if s.Value != 0 {
			t.Errorf("accelerator sample = %v, want 0", s.Value)
		}
	}

	speeds, err := database.ListSamples(db.SampleFilter{SessionID: &id, Channel: vehicle.ChannelSpeed})
	if err != nil {
		t.Fatalf("ListSamples: %v", err)
	}
	for _, s := range speeds {
		if s.Value != 0 {
			t.Errorf("coasting speed sample = %v, want 0", s.Value)
		}
	}
}

func TestRunDefaultAccelerator(t *testing.T) {
	recorder, database := newTestRecorder(t, nil)

	record, err := recorder.Run(context.Background(), Options{
		Duration:    60 * time.Millisecond,
		Tick:        10 * time.Millisecond,
		Accelerator: -1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	id := record.ID
	accels, err := database.ListSamples(db.SampleFilter{SessionID: &id, Channel: vehicle.ChannelAccel})
	if err != nil {
		t.Fatalf("ListSamples: %v", err)
	}
	if len(accels) == 0 {
		t.Fatal("no accelerator samples recorded")
	}
	for _, s := range accels {
		if s.Value != 50 {
			t.Errorf("accelerator sample = %v, want default 50", s.Value)
		}
	}
}

func TestRunPublishes(t *testing.T) {
	pub := &capturingPublisher{}
	recorder, _ := newTestRecorder(t, pub)

	if _, err := recorder.Run(context.Background(), Options{
		Duration: 50 * time.Millisecond,
		Tick:     10 * time.Millisecond,
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.states) == 0 {
		t.Error("publisher never called")
	}
	for _, st := range pub.states {
		if !st.Started {
			t.Error("published state has vehicle off")
		}
	}
}

func TestRunCancel(t *testing.T) {
	recorder, _ := newTestRecorder(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record, err := recorder.Run(ctx, Options{
		Duration: time.Hour,
		Tick:     10 * time.Millisecond,
	})
	if err == nil {
		t.Error("expected context error")
	}
	if record == nil {
		t.Fatal("expected finalized session record")
	}
	if record.EndTime == nil {
		t.Error("cancelled session not finalized")
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	recorder, _ := newTestRecorder(t, nil)

	if _, err := recorder.Run(context.Background(), Options{Tick: time.Millisecond}); err == nil {
		t.Error("expected error for missing duration")
	}
}
