package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Session represents one recorded drive session.
type Session struct {
	ID        int64      `json:"id"`
	Label     string     `json:"label"`
	Maneuver  string     `json:"maneuver"`
	Gear      string     `json:"gear"`
	Params    JSONData   `json:"params"`
	TickMS    int        `json:"tick_ms"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Samples   int        `json:"samples"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Sample is one channel reading captured during a session.
type Sample struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Channel   string    `json:"channel"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Band      string    `json:"band"`
}

// ChannelAggregate summarizes one channel over a whole session.
type ChannelAggregate struct {
	Channel string  `json:"channel"`
	Unit    string  `json:"unit"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
	Count   int     `json:"count"`
}

// JSONData is a custom type for storing JSON in SQLite
type JSONData map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSONData) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSONData) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan type %T into JSONData", value)
	}

	return json.Unmarshal(data, j)
}

// SessionStatus represents the lifecycle of a session record.
type SessionStatus string

const (
	SessionStatusRunning  SessionStatus = "running"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusFailed   SessionStatus = "failed"
)

// GetStatus returns the status of a session.
func (s *Session) GetStatus() SessionStatus {
	if s.EndTime == nil {
		return SessionStatusRunning
	}
	if s.Error != "" {
		return SessionStatusFailed
	}
	return SessionStatusComplete
}

// Duration returns the recorded length of the session.
func (s *Session) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// SessionFilter represents filters for querying sessions
type SessionFilter struct {
	Maneuver  string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}

// SampleFilter represents filters for querying samples
type SampleFilter struct {
	SessionID *int64
	Channel   string
	Band      string
	Limit     int
	Offset    int
}

// ExportFormat represents the format for exporting data
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)
