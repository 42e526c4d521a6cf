package schedule

import (
	"path/filepath"
	"testing"

	"github.com/mscrnt/vdash/pkg/db"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "vdash.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return NewStore(database)
}

func TestCreateAndGet(t *testing.T) {
	store := openTestStore(t)

	sched := &Schedule{
		Name:         "nightly cruise",
		Description:  "automated straight drive",
		CronExpr:     "0 2 * * *",
		Maneuver:     "straight",
		Gear:         "D",
		DurationSecs: 120,
		TickMS:       500,
		Enabled:      true,
	}
	if err := store.Create(sched); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sched.ID == 0 {
		t.Fatal("schedule id not assigned")
	}
	if sched.NextRunTime == nil {
		t.Error("next run time not calculated")
	}

	got, err := store.Get(sched.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "nightly cruise" || got.Maneuver != "straight" || got.DurationSecs != 120 {
		t.Errorf("unexpected schedule: %+v", got)
	}

	byName, err := store.GetByName("nightly cruise")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != sched.ID {
		t.Errorf("GetByName id = %d, want %d", byName.ID, sched.ID)
	}
}

func TestCreateRejectsBadCron(t *testing.T) {
	store := openTestStore(t)

	sched := &Schedule{Name: "bad", CronExpr: "not a cron"}
	if err := store.Create(sched); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	store := openTestStore(t)

	sched := &Schedule{Name: "defaults", CronExpr: "*/5 * * * *"}
	if err := store.Create(sched); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sched.DurationSecs != 60 {
		t.Errorf("duration = %d, want default 60", sched.DurationSecs)
	}
	if sched.TickMS != 1000 {
		t.Errorf("tick = %d, want default 1000", sched.TickMS)
	}
}

func TestEnableDisableDelete(t *testing.T) {
	store := openTestStore(t)

	sched := &Schedule{Name: "toggled", CronExpr: "0 * * * *", Enabled: true}
	if err := store.Create(sched); err != nil {
		t.Fatal(err)
	}

	if err := store.Disable(sched.ID); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	got, err := store.Get(sched.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Enabled {
		t.Error("schedule still enabled after Disable")
	}

	if err := store.Enable(sched.ID); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	got, err = store.Get(sched.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Enabled {
		t.Error("schedule still disabled after Enable")
	}

	if err := store.Delete(sched.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(sched.ID); err == nil {
		t.Error("expected error after delete")
	}
}

func TestListFilter(t *testing.T) {
	store := openTestStore(t)

	enabled := &Schedule{Name: "a", CronExpr: "0 * * * *", Maneuver: "left", Enabled: true}
	disabled := &Schedule{Name: "b", CronExpr: "0 * * * *", Maneuver: "right", Enabled: false}
	for _, s := range []*Schedule{enabled, disabled} {
		if err := store.Create(s); err != nil {
			t.Fatal(err)
		}
	}

	on := true
	got, err := store.List(ScheduleFilter{Enabled: &on})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "a" {
		t.Errorf("unexpected enabled schedules: %+v", got)
	}

	got, err = store.List(ScheduleFilter{Maneuver: "right"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "b" {
		t.Errorf("unexpected right schedules: %+v", got)
	}
}
