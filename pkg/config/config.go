// Package config loads and persists the simulator configuration file.
// The file is JSON; a missing or unparsable file falls back to the
// built-in defaults so the application always starts.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mscrnt/vdash/pkg/classify"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

// Config holds every user-tunable setting.
type Config struct {
	// RefreshRateMS is the dashboard refresh period in milliseconds.
	RefreshRateMS int `json:"refresh_rate"`

	// Simulation toggles the dummy data generator. There is no real
	// vehicle backend, so turning it off freezes the dashboard.
	Simulation bool `json:"simulation"`

	// DatabasePath overrides the default telemetry database location.
	DatabasePath string `json:"database_path,omitempty"`

	// MQTTUrl, when set, enables telemetry publishing from headless
	// drive sessions (mqtt://, mqtts://, ws:// or wss://).
	MQTTUrl   string `json:"mqtt_url,omitempty"`
	MQTTTopic string `json:"mqtt_topic,omitempty"`

	// Thresholds maps channel names to their severity envelopes.
	Thresholds map[string]classify.Thresholds `json:"thresholds"`

	// Vehicle is the state restored at startup and saved on exit.
	Vehicle vehicle.State `json:"vehicle_data"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RefreshRateMS: 1000,
		Simulation:    true,
		MQTTTopic:     "vdash/telemetry",
		Thresholds:    DefaultThresholds(),
		Vehicle:       vehicle.DefaultState(),
	}
}

// DefaultThresholds returns the severity envelopes used when the
// config file does not override them.
func DefaultThresholds() map[string]classify.Thresholds {
	return map[string]classify.Thresholds{
		vehicle.ChannelSpeed:    {WarningLow: 0, WarningHigh: 120, DangerLow: 0, DangerHigh: 160},
		vehicle.ChannelRPM:      {WarningLow: 0, WarningHigh: 6000, DangerLow: 0, DangerHigh: 7500},
		vehicle.ChannelAccel:    {WarningLow: 0, WarningHigh: 90, DangerLow: 0, DangerHigh: 100},
		vehicle.ChannelBrake:    {WarningLow: 0, WarningHigh: 90, DangerLow: 0, DangerHigh: 100},
		vehicle.ChannelClutch:   {WarningLow: 0, WarningHigh: 90, DangerLow: 0, DangerHigh: 100},
		vehicle.ChannelSteering: {WarningLow: -500, WarningHigh: 500, DangerLow: -780, DangerHigh: 780},
		vehicle.ChannelRoll:     {WarningLow: -30, WarningHigh: 30, DangerLow: -60, DangerHigh: 60},
		vehicle.ChannelPitch:    {WarningLow: -30, WarningHigh: 30, DangerLow: -60, DangerHigh: 60},
		vehicle.ChannelYaw:      {WarningLow: -180, WarningHigh: 180, DangerLow: -180, DangerHigh: 180},
	}
}

// Load reads the configuration from path. The returned Config is
// always usable: when the file is missing or corrupt the defaults are
// returned together with an error describing why, so the caller can
// log a warning and continue.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("config file %s not found, using defaults", path)
		}
		return cfg, fmt.Errorf("reading config %s: %w, using defaults", path, err)
	}

	loaded := Default()
	if err := json.Unmarshal(data, loaded); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w, using defaults", path, err)
	}
	if err := loaded.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w, using defaults", path, err)
	}
	return loaded, nil
}

// Save writes the configuration to path, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for values the simulator cannot
// run with. Recoverable fields are fixed up in place.
func (c *Config) Validate() error {
	if c.RefreshRateMS <= 0 {
		c.RefreshRateMS = 1000
	}

	if c.MQTTUrl != "" {
		if !strings.HasPrefix(c.MQTTUrl, "mqtt://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtts://") &&
			!strings.HasPrefix(c.MQTTUrl, "ws://") &&
			!strings.HasPrefix(c.MQTTUrl, "wss://") {
			return fmt.Errorf("mqtt_url must use mqtt://, mqtts://, ws:// or wss://")
		}
	}

	for name, t := range c.Thresholds {
		if t.WarningLow > t.WarningHigh {
			return fmt.Errorf("channel %s: warning_low %v above warning_high %v", name, t.WarningLow, t.WarningHigh)
		}
		if t.DangerLow > t.DangerHigh {
			return fmt.Errorf("channel %s: danger_low %v above danger_high %v", name, t.DangerLow, t.DangerHigh)
		}
		if t.WarningLow < t.DangerLow || t.WarningHigh > t.DangerHigh {
			return fmt.Errorf("channel %s: warning range must sit inside danger range", name)
		}
	}
	return nil
}

// RefreshInterval returns the refresh period as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshRateMS) * time.Millisecond
}

// ThresholdsFor returns the envelopes for a channel. Channels without
// configured envelopes get a wide-open range that never leaves the
// normal band.
func (c *Config) ThresholdsFor(channel string) classify.Thresholds {
	if t, ok := c.Thresholds[channel]; ok {
		return t
	}
	if info, ok := vehicle.ChannelByName(channel); ok {
		return classify.Thresholds{
			WarningLow:  info.Min,
			WarningHigh: info.Max,
			DangerLow:   info.Min,
			DangerHigh:  info.Max,
		}
	}
	return classify.Thresholds{
		WarningLow:  -1e18,
		WarningHigh: 1e18,
		DangerLow:   -1e18,
		DangerHigh:  1e18,
	}
}

// DefaultPath returns the config file location: $VDASH_CONFIG if set,
// otherwise ~/.vdash/config.json, falling back to ./config.json when
// the home directory cannot be determined.
func DefaultPath() string {
	if p := os.Getenv("VDASH_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".vdash", "config.json")
}
