package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mscrnt/vdash/pkg/classify"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err == nil {
		t.Error("expected warning error for missing file")
	}
	if cfg == nil {
		t.Fatal("expected usable config")
	}
	if cfg.RefreshRateMS != 1000 {
		t.Errorf("refresh rate = %d, want 1000", cfg.RefreshRateMS)
	}
	if !cfg.Simulation {
		t.Error("simulation should default to enabled")
	}
}

func TestLoadCorruptFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err == nil {
		t.Error("expected warning error for corrupt file")
	}
	if cfg.RefreshRateMS != 1000 {
		t.Errorf("refresh rate = %d, want default 1000", cfg.RefreshRateMS)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.RefreshRateMS = 250
	cfg.Vehicle.OdometerKM = 98765.4
	cfg.Thresholds[vehicle.ChannelSpeed] = classify.Thresholds{
		WarningLow: 0, WarningHigh: 100, DangerLow: 0, DangerHigh: 140,
	}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.RefreshRateMS != 250 {
		t.Errorf("refresh rate = %d, want 250", loaded.RefreshRateMS)
	}
	if loaded.Vehicle.OdometerKM != 98765.4 {
		t.Errorf("odometer = %v, want 98765.4", loaded.Vehicle.OdometerKM)
	}
	if got := loaded.Thresholds[vehicle.ChannelSpeed].DangerHigh; got != 140 {
		t.Errorf("speed danger high = %v, want 140", got)
	}
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := Default()
	cfg.Thresholds[vehicle.ChannelRPM] = classify.Thresholds{
		WarningLow: 100, WarningHigh: 10, DangerLow: 0, DangerHigh: 200,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted warning range")
	}

	cfg = Default()
	cfg.Thresholds[vehicle.ChannelRPM] = classify.Thresholds{
		WarningLow: -10, WarningHigh: 50, DangerLow: 0, DangerHigh: 100,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for warning range outside danger range")
	}
}

func TestValidateFixesRefreshRate(t *testing.T) {
	cfg := Default()
	cfg.RefreshRateMS = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.RefreshRateMS != 1000 {
		t.Errorf("refresh rate = %d, want corrected to 1000", cfg.RefreshRateMS)
	}
}

func TestValidateMQTTUrl(t *testing.T) {
	cfg := Default()
	cfg.MQTTUrl = "http://broker:1883"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for http mqtt url")
	}

	cfg.MQTTUrl = "mqtt://broker:1883"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestThresholdsFor(t *testing.T) {
	cfg := Default()

	if got := cfg.ThresholdsFor(vehicle.ChannelSpeed).DangerHigh; got != 160 {
		t.Errorf("speed danger high = %v, want 160", got)
	}

	// Channels without explicit thresholds never leave the normal band
	// inside their display range.
	th := cfg.ThresholdsFor(vehicle.ChannelOdometer)
	if got := classify.Classify(500, th); got != classify.BandNormal {
		t.Errorf("odometer band = %v, want normal", got)
	}
}
