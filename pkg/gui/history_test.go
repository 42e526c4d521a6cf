package gui

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

func TestHistoryUnopenableDatabaseLogged(t *testing.T) {
	test.NewApp()

	// A file where the database directory should be makes Open fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, hook := logrustest.NewNullLogger()
	h := NewHistory(filepath.Join(blocker, "data", "vdash.db"), logger)

	hook.Reset()
	h.Refresh()

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a logged warning for an unopenable database")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("log level = %v, want warning", entry.Level)
	}
}
