package db

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

var exportHeaders = []string{
	"Session ID", "Label", "Maneuver", "Gear", "Start Time", "End Time",
	"Duration (s)", "Timestamp", "Channel", "Value", "Unit", "Band",
}

// Export exports one session in the named format.
func (db *DB) Export(w io.Writer, sessionID int64, format ExportFormat) error {
	switch format {
	case ExportFormatCSV:
		return db.ExportCSV(w, sessionID)
	case ExportFormatJSON:
		return db.ExportJSON(w, sessionID)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

// ExportCSV exports one session's samples to CSV format
func (db *DB) ExportCSV(w io.Writer, sessionID int64) error {
	session, err := db.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	samples, err := db.GetSamples(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get samples: %w", err)
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	if err := writeSessionRows(csvWriter, session, samples); err != nil {
		return err
	}

	return nil
}

// ExportJSON exports one session with its samples to JSON format
func (db *DB) ExportJSON(w io.Writer, sessionID int64) error {
	session, err := db.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	samples, err := db.GetSamples(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get samples: %w", err)
	}

	export := struct {
		Session *Session  `json:"session"`
		Samples []*Sample `json:"samples"`
	}{
		Session: session,
		Samples: samples,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportAllCSV exports every session's samples to CSV format
func (db *DB) ExportAllCSV(w io.Writer) error {
	sessions, err := db.ListSessions(SessionFilter{})
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, session := range sessions {
		samples, err := db.GetSamples(session.ID)
		if err != nil {
			return fmt.Errorf("failed to get samples for session %d: %w", session.ID, err)
		}
		if err := writeSessionRows(csvWriter, session, samples); err != nil {
			return err
		}
	}

	return nil
}

func writeSessionRows(csvWriter *csv.Writer, session *Session, samples []*Sample) error {
	duration := float64(0)
	endTime := ""
	if session.EndTime != nil {
		duration = session.EndTime.Sub(session.StartTime).Seconds()
		endTime = session.EndTime.Format("2006-01-02 15:04:05")
	}

	for _, sample := range samples {
		row := []string{
			strconv.FormatInt(session.ID, 10),
			session.Label,
			session.Maneuver,
			session.Gear,
			session.StartTime.Format("2006-01-02 15:04:05"),
			endTime,
			fmt.Sprintf("%.3f", duration),
			sample.Timestamp.Format("2006-01-02 15:04:05.000"),
			sample.Channel,
			fmt.Sprintf("%.6f", sample.Value),
			sample.Unit,
			sample.Band,
		}

		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}
