package schedule

import (
	"time"
)

// Schedule represents a cron-scheduled drive session.
type Schedule struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	CronExpr      string     `json:"cron_expr"`
	Maneuver      string     `json:"maneuver"`
	Gear          string     `json:"gear"`
	DurationSecs  int        `json:"duration_secs"`
	TickMS        int        `json:"tick_ms"`
	Enabled       bool       `json:"enabled"`
	LastSessionID *int64     `json:"last_session_id"`
	LastRunTime   *time.Time `json:"last_run_time"`
	NextRunTime   *time.Time `json:"next_run_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ScheduleFilter represents filters for querying schedules
type ScheduleFilter struct {
	Maneuver string
	Enabled  *bool
	Limit    int
	Offset   int
}

// IsOverdue returns true if the schedule is overdue for execution
func (s *Schedule) IsOverdue() bool {
	if !s.Enabled || s.NextRunTime == nil {
		return false
	}
	return time.Now().After(*s.NextRunTime)
}

