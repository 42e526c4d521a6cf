package db

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "vdash.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestSessionLifecycle(t *testing.T) {
	database := openTestDB(t)

	session, err := database.CreateSession("morning drive", "straight", "D", 500, JSONData{"duration_secs": 60})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID == 0 {
		t.Fatal("session id not assigned")
	}
	if session.GetStatus() != SessionStatusRunning {
		t.Errorf("status = %s, want running", session.GetStatus())
	}

	end := time.Now().Add(time.Minute)
	session.EndTime = &end
	session.Samples = 120
	if err := database.UpdateSession(session); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	got, err := database.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Label != "morning drive" || got.Maneuver != "straight" || got.Gear != "D" {
		t.Errorf("unexpected session: %+v", got)
	}
	if got.TickMS != 500 {
		t.Errorf("tick_ms = %d, want 500", got.TickMS)
	}
	if got.Samples != 120 {
		t.Errorf("samples = %d, want 120", got.Samples)
	}
	if got.GetStatus() != SessionStatusComplete {
		t.Errorf("status = %s, want complete", got.GetStatus())
	}
	if v, ok := got.Params["duration_secs"]; !ok || v != float64(60) {
		t.Errorf("params = %v, want duration_secs 60", got.Params)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	database := openTestDB(t)
	if _, err := database.GetSession(12345); err == nil {
		t.Error("expected error for missing session")
	}
}

func TestListSessionsFilter(t *testing.T) {
	database := openTestDB(t)

	for _, m := range []string{"straight", "left", "straight"} {
		if _, err := database.CreateSession("s", m, "D", 1000, nil); err != nil {
			t.Fatal(err)
		}
	}

	all, err := database.ListSessions(SessionFilter{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d sessions, want 3", len(all))
	}

	straight, err := database.ListSessions(SessionFilter{Maneuver: "straight"})
	if err != nil {
		t.Fatalf("ListSessions(straight): %v", err)
	}
	if len(straight) != 2 {
		t.Errorf("got %d straight sessions, want 2", len(straight))
	}

	limited, err := database.ListSessions(SessionFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListSessions(limit): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d sessions, want 1", len(limited))
	}
}

func TestSamplesAndSummary(t *testing.T) {
	database := openTestDB(t)

	session, err := database.CreateSession("drive", "", "D", 1000, nil)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	batch := []*Sample{
		{SessionID: session.ID, Timestamp: now, Channel: "speed_kmh", Value: 50, Unit: "km/h", Band: "normal"},
		{SessionID: session.ID, Timestamp: now, Channel: "rpm", Value: 3000, Unit: "rpm", Band: "normal"},
		{SessionID: session.ID, Timestamp: now.Add(time.Second), Channel: "speed_kmh", Value: 130, Unit: "km/h", Band: "warning"},
		{SessionID: session.ID, Timestamp: now.Add(time.Second), Channel: "rpm", Value: 7800, Unit: "rpm", Band: "danger"},
	}
	if err := database.CreateSamples(batch); err != nil {
		t.Fatalf("CreateSamples: %v", err)
	}

	samples, err := database.GetSamples(session.ID)
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if len(samples) != 4 {
		t.Fatalf("got %d samples, want 4", len(samples))
	}

	warnings, err := database.ListSamples(SampleFilter{SessionID: &session.ID, Band: "warning"})
	if err != nil {
		t.Fatalf("ListSamples: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Channel != "speed_kmh" {
		t.Errorf("unexpected warning samples: %+v", warnings)
	}

	summary, err := database.ChannelSummary(session.ID)
	if err != nil {
		t.Fatalf("ChannelSummary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("got %d summary rows, want 2", len(summary))
	}
	for _, agg := range summary {
		if agg.Channel == "speed_kmh" {
			if agg.Min != 50 || agg.Max != 130 || agg.Count != 2 {
				t.Errorf("speed summary = %+v", agg)
			}
		}
	}
}

func TestExportCSV(t *testing.T) {
	database := openTestDB(t)

	session, err := database.CreateSession("export test", "left", "D", 1000, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := database.CreateSample(session.ID, time.Now(), "speed_kmh", 30, "km/h", "normal"); err != nil {
		t.Fatal(err)
	}
	end := time.Now()
	session.EndTime = &end
	session.Samples = 1
	if err := database.UpdateSession(session); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := database.ExportCSV(&buf, session.ID); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parsing exported CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1 sample", len(records))
	}
	if records[1][8] != "speed_kmh" || records[1][11] != "normal" {
		t.Errorf("unexpected row: %v", records[1])
	}
}

func TestExportJSON(t *testing.T) {
	database := openTestDB(t)

	session, err := database.CreateSession("export test", "", "N", 1000, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := database.CreateSample(session.ID, time.Now(), "rpm", 800, "rpm", "normal"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := database.ExportJSON(&buf, session.ID); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var export struct {
		Session *Session  `json:"session"`
		Samples []*Sample `json:"samples"`
	}
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("parsing exported JSON: %v", err)
	}
	if export.Session == nil || export.Session.ID != session.ID {
		t.Errorf("unexpected session in export: %+v", export.Session)
	}
	if len(export.Samples) != 1 || export.Samples[0].Channel != "rpm" {
		t.Errorf("unexpected samples in export: %+v", export.Samples)
	}
}

func TestExportFormatDispatch(t *testing.T) {
	database := openTestDB(t)

	session, err := database.CreateSession("format test", "", "D", 1000, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := database.CreateSample(session.ID, time.Now(), "speed_kmh", 60, "km/h", "normal"); err != nil {
		t.Fatal(err)
	}

	var csvBuf bytes.Buffer
	if err := database.Export(&csvBuf, session.ID, ExportFormatCSV); err != nil {
		t.Fatalf("Export csv: %v", err)
	}
	if !strings.Contains(csvBuf.String(), "speed_kmh") {
		t.Error("CSV export missing sample row")
	}

	var jsonBuf bytes.Buffer
	if err := database.Export(&jsonBuf, session.ID, ExportFormatJSON); err != nil {
		t.Fatalf("Export json: %v", err)
	}
	if !json.Valid(jsonBuf.Bytes()) {
		t.Error("JSON export is not valid JSON")
	}

	var buf bytes.Buffer
	if err := database.Export(&buf, session.ID, ExportFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
