package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mscrnt/vdash/pkg/db"
	"github.com/mscrnt/vdash/pkg/schedule"
	"github.com/mscrnt/vdash/pkg/session"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled drive sessions",
		Long:  "Create, manage, and run drive sessions on a cron schedule",
	}

	cmd.AddCommand(scheduleAddCmd())
	cmd.AddCommand(scheduleListCmd())
	cmd.AddCommand(scheduleRemoveCmd())
	cmd.AddCommand(scheduleEnableCmd())
	cmd.AddCommand(scheduleDisableCmd())
	cmd.AddCommand(scheduleStartCmd())
	cmd.AddCommand(scheduleShowCmd())

	return cmd
}

func scheduleAddCmd() *cobra.Command {
	var (
		name         string
		description  string
		cronExpr     string
		maneuver     string
		gear         string
		durationSecs int
		tickMS       int
		enabled      bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new schedule",
		Long: `Add a new drive session schedule with cron-style timing.

Cron expression format:
  ┌───────────── minute (0 - 59)
  │ ┌───────────── hour (0 - 23)
  │ │ ┌───────────── day of month (1 - 31)
  │ │ │ ┌───────────── month (1 - 12)
  │ │ │ │ ┌───────────── day of week (0 - 6) (Sunday to Saturday)
  │ │ │ │ │
  * * * * *

Examples:
  # Record a straight-line run every hour
  vdash schedule add --name "Hourly Straight" --cron "0 * * * *" --maneuver straight

  # Record a left-turn run daily at 2 AM
  vdash schedule add --name "Daily Left" --cron "0 2 * * *" --maneuver left --duration 30

  # Record a manual drive every Monday at 3:30 AM
  vdash schedule add --name "Weekly Drive" --cron "30 3 * * 1" --gear D --duration 120`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if name == "" {
				return fmt.Errorf("schedule name is required")
			}
			if cronExpr == "" {
				return fmt.Errorf("cron expression is required")
			}

			// Validate the maneuver and gear before writing anything.
			if _, err := vehicle.ParseManeuver(maneuver); err != nil {
				return err
			}
			if gear != "" {
				if _, err := vehicle.ParseGear(gear); err != nil {
					return err
				}
			}

			cfg, _ := loadConfig()
			database, err := db.Open(getDBPath(cfg))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			store := schedule.NewStore(database)

			sched := &schedule.Schedule{
				Name:         name,
				Description:  description,
				CronExpr:     cronExpr,
				Maneuver:     maneuver,
				Gear:         gear,
				DurationSecs: durationSecs,
				TickMS:       tickMS,
				Enabled:      enabled,
			}

			if err := store.Create(sched); err != nil {
				return fmt.Errorf("failed to create schedule: %w", err)
			}

			fmt.Printf("Created schedule '%s' (ID: %d)\n", sched.Name, sched.ID)
			fmt.Printf("Cron: %s\n", sched.CronExpr)
			if sched.Maneuver != "" {
				fmt.Printf("Maneuver: %s\n", sched.Maneuver)
			}
			fmt.Printf("Duration: %ds\n", sched.DurationSecs)
			if sched.NextRunTime != nil {
				fmt.Printf("Next run: %s\n", sched.NextRunTime.Format("2006-01-02 15:04:05"))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Schedule name (required)")
	cmd.Flags().StringVarP(&description, "desc", "d", "", "Schedule description")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (required)")
	cmd.Flags().StringVarP(&maneuver, "maneuver", "m", "", "Maneuver preset (straight, left, right)")
	cmd.Flags().StringVarP(&gear, "gear", "g", "", "Gear to drive in (default: D)")
	cmd.Flags().IntVar(&durationSecs, "duration", 0, "Session duration in seconds (default: 60)")
	cmd.Flags().IntVar(&tickMS, "tick", 0, "Sample interval in milliseconds (default: config refresh rate)")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Enable schedule immediately")

	if err := cmd.MarkFlagRequired("name"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to mark flag 'name' as required: %v\n", err)
	}
	if err := cmd.MarkFlagRequired("cron"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to mark flag 'cron' as required: %v\n", err)
	}

	return cmd
}

func scheduleListCmd() *cobra.Command {
	var (
		all      bool
		disabled bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		Long: `List all configured schedules.

Examples:
  # List enabled schedules
  vdash schedule list

  # List all schedules
  vdash schedule list --all`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, _ := loadConfig()
			database, err := db.Open(getDBPath(cfg))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			store := schedule.NewStore(database)

			filter := schedule.ScheduleFilter{}
			if !all && !disabled {
				enabled := true
				filter.Enabled = &enabled
			} else if disabled {
				enabled := false
				filter.Enabled = &enabled
			}

			schedules, err := store.List(filter)
			if err != nil {
				return fmt.Errorf("failed to list schedules: %w", err)
			}

			if len(schedules) == 0 {
				fmt.Println("No schedules found")
				return nil
			}

			fmt.Printf("%-4s %-20s %-10s %-16s %-8s %-20s\n",
				"ID", "Name", "Maneuver", "Cron", "Enabled", "Next Run")
			fmt.Println(strings.Repeat("-", 84))

			for _, sched := range schedules {
				nextRun := "N/A"
				if sched.NextRunTime != nil {
					if sched.IsOverdue() {
						nextRun = fmt.Sprintf("%s (overdue)", sched.NextRunTime.Format("2006-01-02 15:04"))
					} else {
						nextRun = sched.NextRunTime.Format("2006-01-02 15:04")
					}
				}

				maneuver := sched.Maneuver
				if maneuver == "" {
					maneuver = "manual"
				}

				fmt.Printf("%-4d %-20s %-10s %-16s %-8v %-20s\n",
					sched.ID,
					truncate(sched.Name, 20),
					maneuver,
					sched.CronExpr,
					sched.Enabled,
					nextRun,
				)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show all schedules")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Show only disabled schedules")

	return cmd
}

func scheduleRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove [id|name]",
		Short: "Remove a schedule",
		Long: `Remove a schedule by ID or name.

Examples:
  vdash schedule remove 1
  vdash schedule remove "Hourly Straight"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, _ := loadConfig()
			database, err := db.Open(getDBPath(cfg))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			store := schedule.NewStore(database)

			sched, err := findSchedule(store, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Delete schedule '%s' (ID: %d)? [y/N] ", sched.Name, sched.ID)
			var confirm string
			if _, err := fmt.Scanln(&confirm); err != nil {
				confirm = "n"
			}
			if !strings.EqualFold(confirm, "y") {
				fmt.Println("Cancelled")
				return nil
			}

			if err := store.Delete(sched.ID); err != nil {
				return fmt.Errorf("failed to delete schedule: %w", err)
			}

			fmt.Printf("Deleted schedule '%s'\n", sched.Name)
			return nil
		},
	}

	return cmd
}

func scheduleEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable [id|name]",
		Short: "Enable a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return toggleSchedule(args[0], true)
		},
	}
}

func scheduleDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable [id|name]",
		Short: "Disable a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return toggleSchedule(args[0], false)
		},
	}
}

func toggleSchedule(identifier string, enable bool) error {
	cfg, _ := loadConfig()
	database, err := db.Open(getDBPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	store := schedule.NewStore(database)

	sched, err := findSchedule(store, identifier)
	if err != nil {
		return err
	}

	if enable {
		if err := store.Enable(sched.ID); err != nil {
			return fmt.Errorf("failed to enable schedule: %w", err)
		}
		fmt.Printf("Enabled schedule '%s'\n", sched.Name)
	} else {
		if err := store.Disable(sched.ID); err != nil {
			return fmt.Errorf("failed to disable schedule: %w", err)
		}
		fmt.Printf("Disabled schedule '%s'\n", sched.Name)
	}

	return nil
}

func scheduleStartCmd() *cobra.Command {
	var checkInterval time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Start the scheduler daemon to record drive sessions automatically.

The scheduler will:
- Load all enabled schedules
- Record sessions according to their cron expressions
- Save samples to the database
- Continue running until interrupted

Examples:
  # Start scheduler in foreground
  vdash schedule start

  # Start with custom check interval
  vdash schedule start --check-interval 30s`,
		RunE: func(_ *cobra.Command, _ []string) error {
			log := logrus.StandardLogger()

			cfg, _ := loadConfig()
			database, err := db.Open(getDBPath(cfg))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			recorder := session.NewRecorder(database, cfg, nil, log)

			runner := schedule.NewRunner(database, recorder, log)
			if err := runner.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			// Overdue schedules are picked up periodically in case the
			// daemon was down when they came due.
			ticker := time.NewTicker(checkInterval)
			defer ticker.Stop()

			fmt.Println("Scheduler started. Press Ctrl+C to stop.")
			log.Info("Scheduler daemon started")

			for {
				select {
				case <-sigChan:
					log.Info("Received shutdown signal")
					runner.Stop()
					return nil

				case <-ticker.C:
					if err := runner.CheckDue(); err != nil {
						log.WithError(err).Warn("Failed to check due schedules")
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&checkInterval, "check-interval", 60*time.Second, "Interval to check for overdue schedules")

	return cmd
}

func scheduleShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id|name]",
		Short: "Show schedule details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, _ := loadConfig()
			database, err := db.Open(getDBPath(cfg))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			store := schedule.NewStore(database)

			sched, err := findSchedule(store, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Schedule: %s (ID: %d)\n", sched.Name, sched.ID)
			if sched.Description != "" {
				fmt.Printf("Description: %s\n", sched.Description)
			}
			if sched.Maneuver != "" {
				fmt.Printf("Maneuver: %s\n", sched.Maneuver)
			}
			if sched.Gear != "" {
				fmt.Printf("Gear: %s\n", sched.Gear)
			}
			fmt.Printf("Duration: %ds\n", sched.DurationSecs)
			fmt.Printf("Tick: %dms\n", sched.TickMS)
			fmt.Printf("Cron Expression: %s\n", sched.CronExpr)
			fmt.Printf("Enabled: %v\n", sched.Enabled)
			fmt.Printf("Created: %s\n", sched.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Updated: %s\n", sched.UpdatedAt.Format("2006-01-02 15:04:05"))

			if sched.LastRunTime != nil {
				fmt.Printf("\nLast Run: %s\n", sched.LastRunTime.Format("2006-01-02 15:04:05"))
				if sched.LastSessionID != nil {
					fmt.Printf("Last Session ID: %d\n", *sched.LastSessionID)
				}
			} else {
				fmt.Printf("\nLast Run: Never\n")
			}

			if sched.NextRunTime != nil {
				fmt.Printf("Next Run: %s", sched.NextRunTime.Format("2006-01-02 15:04:05"))
				if sched.IsOverdue() {
					fmt.Printf(" (OVERDUE)")
				}
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}

// findSchedule resolves an identifier that may be a numeric ID or a name.
func findSchedule(store *schedule.Store, identifier string) (*schedule.Schedule, error) {
	if id, err := parseInt64(identifier); err == nil {
		sched, err := store.Get(id)
		if err != nil {
			return nil, fmt.Errorf("schedule with ID %d not found", id)
		}
		return sched, nil
	}

	sched, err := store.GetByName(identifier)
	if err != nil {
		return nil, fmt.Errorf("schedule '%s' not found", identifier)
	}
	return sched, nil
}

// Helper functions
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func parseInt64(s string) (int64, error) {
	var id int64
	_, err := fmt.Sscanf(s, "%d", &id)
	return id, err
}
