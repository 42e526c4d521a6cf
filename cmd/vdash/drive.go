package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mscrnt/vdash/pkg/db"
	"github.com/mscrnt/vdash/pkg/mqtt"
	"github.com/mscrnt/vdash/pkg/session"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

var (
	driveLabel       string
	driveGear        string
	driveManeuver    string
	driveDuration    time.Duration
	driveTick        time.Duration
	driveAccelerator float64
	drivePublish     bool
)

func driveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Record a headless drive session",
		Long: `Run the vehicle simulator without the GUI and record every channel
reading to the database, classified against the configured thresholds.

Examples:
  # Record 60 seconds of driving at half throttle
  vdash drive --duration 60s

  # Record a left-turn maneuver
  vdash drive --maneuver left --duration 30s

  # Record in reverse with a fast sample rate
  vdash drive --gear R --tick 100ms --duration 10s

  # Publish each tick to the configured MQTT broker
  vdash drive --duration 60s --publish`,
		RunE: runDrive,
	}

	cmd.Flags().StringVarP(&driveLabel, "label", "l", "", "Session label (default: timestamped)")
	cmd.Flags().StringVarP(&driveGear, "gear", "g", "D", "Gear to drive in (P, R, N, D, L)")
	cmd.Flags().StringVarP(&driveManeuver, "maneuver", "m", "", "Maneuver preset (straight, left, right)")
	cmd.Flags().DurationVarP(&driveDuration, "duration", "d", 60*time.Second, "Session duration")
	cmd.Flags().DurationVarP(&driveTick, "tick", "t", 0, "Sample interval (default: config refresh rate)")
	cmd.Flags().Float64VarP(&driveAccelerator, "accelerator", "a", 50, "Accelerator pedal position (0-100)")
	cmd.Flags().BoolVar(&drivePublish, "publish", false, "Publish ticks to the configured MQTT broker")

	return cmd
}

func runDrive(_ *cobra.Command, _ []string) error {
	log := logrus.StandardLogger()
	cfg, _ := loadConfig()

	gear, err := vehicle.ParseGear(driveGear)
	if err != nil {
		return err
	}
	maneuver, err := vehicle.ParseManeuver(driveManeuver)
	if err != nil {
		return err
	}

	database, err := db.Open(getDBPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	var publisher session.Publisher
	if drivePublish {
		if cfg.MQTTUrl == "" {
			return fmt.Errorf("--publish requires mqtt_url in the config file")
		}
		pub, err := mqtt.NewPublisher(cfg.MQTTUrl, cfg.MQTTTopic, log)
		if err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		defer pub.Close()
		publisher = pub
	}

	recorder := session.NewRecorder(database, cfg, publisher, log)

	// Ctrl+C ends the session early but keeps what was recorded.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := session.Options{
		Label:       driveLabel,
		Gear:        gear,
		Maneuver:    maneuver,
		Duration:    driveDuration,
		Tick:        driveTick,
		Accelerator: driveAccelerator,
	}

	fmt.Printf("Starting drive session (gear %s", gear)
	if maneuver != vehicle.ManeuverNone {
		fmt.Printf(", maneuver %s", maneuver)
	}
	fmt.Printf(") for %s\n", driveDuration)

	rec, err := recorder.Run(ctx, opts)
	if rec != nil {
		fmt.Printf("\nSession %d (%s)\n", rec.ID, rec.Label)
		fmt.Printf("Samples: %d\n", rec.Samples)
		if rec.EndTime != nil {
			fmt.Printf("Duration: %.1fs\n", rec.Duration().Seconds())
		}

		summary, sumErr := database.ChannelSummary(rec.ID)
		if sumErr == nil && len(summary) > 0 {
			fmt.Printf("\n%-22s %-10s %12s %12s %12s\n", "Channel", "Unit", "Min", "Max", "Avg")
			for _, agg := range summary {
				fmt.Printf("%-22s %-10s %12.2f %12.2f %12.2f\n",
					agg.Channel, agg.Unit, agg.Min, agg.Max, agg.Avg)
			}
		}
	}

	return err
}
