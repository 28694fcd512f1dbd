package collections_test

import (
	"testing"
	"time"

	"github.com/cenkokut62/sagaplus/collections"
	"github.com/cenkokut62/sagaplus/testhelpers"
)

func TestMigrateVisitDurations_Backfills(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "saha@example.com", "Saha Temsilcisi", "")

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	visit := testhelpers.CreateTestVisit(t, app, user.Id, "Kuru Temizleme", "completed", start)
	visit.Set("ended_at", start.Add(42*time.Minute+30*time.Second))
	visit.Set("duration_seconds", 0)
	if err := app.Save(visit); err != nil {
		t.Fatalf("save visit: %v", err)
	}

	if err := collections.MigrateVisitDurations(app); err != nil {
		t.Fatalf("MigrateVisitDurations() error: %v", err)
	}

	got, _ := app.FindRecordById("visits", visit.Id)
	if got.GetInt("duration_seconds") != 2550 {
		t.Errorf("duration_seconds = %d, want 2550", got.GetInt("duration_seconds"))
	}
}

func TestMigrateVisitDurations_LeavesOthersAlone(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "saha@example.com", "Saha Temsilcisi", "")

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	planned := testhelpers.CreateTestVisit(t, app, user.Id, "Planlı", "planned", start)
	done := testhelpers.CreateTestVisit(t, app, user.Id, "Bitti", "completed", start)
	done.Set("ended_at", start.Add(time.Hour))
	done.Set("duration_seconds", 60)
	if err := app.Save(done); err != nil {
		t.Fatalf("save visit: %v", err)
	}

	if err := collections.MigrateVisitDurations(app); err != nil {
		t.Fatalf("MigrateVisitDurations() error: %v", err)
	}

	got, _ := app.FindRecordById("visits", done.Id)
	if got.GetInt("duration_seconds") != 60 {
		t.Errorf("existing duration overwritten: %d", got.GetInt("duration_seconds"))
	}
	got, _ = app.FindRecordById("visits", planned.Id)
	if got.GetInt("duration_seconds") != 0 {
		t.Errorf("planned visit got a duration: %d", got.GetInt("duration_seconds"))
	}
}

func TestMigrateVisitDurations_NoVisits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.MigrateVisitDurations(app); err != nil {
		t.Fatalf("MigrateVisitDurations() error: %v", err)
	}
}
