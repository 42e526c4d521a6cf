package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mscrnt/vdash/pkg/db"
)

func listCmd() *cobra.Command {
	var (
		listManeuver string
		listLimit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded drive sessions",
		Long: `List drive sessions from the database.

Examples:
  # List all sessions
  vdash list

  # List only left-turn maneuver sessions
  vdash list --maneuver left

  # List last 10 sessions
  vdash list --limit 10`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, _ := loadConfig()
			database, err := db.Open(getDBPath(cfg))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			sessions, err := database.ListSessions(db.SessionFilter{
				Maneuver: listManeuver,
				Limit:    listLimit,
			})
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions found")
				return nil
			}

			fmt.Printf("%-6s %-24s %-10s %-5s %-20s %-10s %-8s %-9s\n",
				"ID", "Label", "Maneuver", "Gear", "Start Time", "Duration", "Samples", "Status")
			fmt.Println(strings.Repeat("-", 100))

			for _, sess := range sessions {
				duration := "-"
				if sess.EndTime != nil {
					duration = fmt.Sprintf("%.1fs", sess.Duration().Seconds())
				}

				fmt.Printf("%-6d %-24s %-10s %-5s %-20s %-10s %-8d %-9s\n",
					sess.ID,
					truncate(sess.Label, 24),
					sess.Maneuver,
					sess.Gear,
					sess.StartTime.Format("2006-01-02 15:04:05"),
					duration,
					sess.Samples,
					sess.GetStatus(),
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&listManeuver, "maneuver", "m", "", "Filter by maneuver")
	cmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Maximum number of sessions to show")

	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show detailed session information",
		Long: `Show detailed information about a recorded drive session, including
per-channel min/max/average aggregates.

Examples:
  vdash show 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sessionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %s", args[0])
			}

			cfg, _ := loadConfig()
			database, err := db.Open(getDBPath(cfg))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			sess, err := database.GetSession(sessionID)
			if err != nil {
				return fmt.Errorf("session %d not found", sessionID)
			}

			fmt.Printf("Session ID: %d\n", sess.ID)
			fmt.Printf("Label: %s\n", sess.Label)
			fmt.Printf("Maneuver: %s\n", sess.Maneuver)
			fmt.Printf("Gear: %s\n", sess.Gear)
			fmt.Printf("Tick: %dms\n", sess.TickMS)
			fmt.Printf("Start Time: %s\n", sess.StartTime.Format("2006-01-02 15:04:05"))

			if sess.EndTime != nil {
				fmt.Printf("End Time: %s\n", sess.EndTime.Format("2006-01-02 15:04:05"))
				fmt.Printf("Duration: %.2f seconds\n", sess.Duration().Seconds())
			} else {
				fmt.Printf("End Time: (still running)\n")
			}

			fmt.Printf("Samples: %d\n", sess.Samples)
			fmt.Printf("Status: %s\n", sess.GetStatus())

			if sess.Error != "" {
				fmt.Printf("Error: %s\n", sess.Error)
			}

			if len(sess.Params) > 0 {
				fmt.Printf("\nParameters:\n")
				for k, v := range sess.Params {
					fmt.Printf("  %s: %v\n", k, v)
				}
			}

			summary, err := database.ChannelSummary(sessionID)
			if err != nil {
				return fmt.Errorf("failed to get channel summary: %w", err)
			}

			if len(summary) > 0 {
				fmt.Printf("\n%-22s %-10s %12s %12s %12s %8s\n",
					"Channel", "Unit", "Min", "Max", "Avg", "Count")
				fmt.Println(strings.Repeat("-", 82))
				for _, agg := range summary {
					fmt.Printf("%-22s %-10s %12.2f %12.2f %12.2f %8d\n",
						agg.Channel, agg.Unit, agg.Min, agg.Max, agg.Avg, agg.Count)
				}
			}

			return nil
		},
	}

	return cmd
}
