package services

import (
	"testing"
	"time"

	"github.com/cenkokut62/sagaplus/testhelpers"
)

func TestFormatOfferNumber(t *testing.T) {
	tests := []struct {
		year, seq int
		expect    string
	}{
		{2025, 1, "TKL-2025-0001"},
		{2025, 42, "TKL-2025-0042"},
		{2026, 9999, "TKL-2026-9999"},
		{2026, 12345, "TKL-2026-12345"},
	}
	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			got := formatOfferNumber(tt.year, tt.seq)
			if got != tt.expect {
				t.Errorf("formatOfferNumber(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.expect)
			}
		})
	}
}

func TestGenerateOfferNumber_Sequence(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "saha@example.com", "Saha", "")
	visit := testhelpers.CreateTestVisit(t, app, user.Id, "Eczane", "active", time.Now())

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	first, err := GenerateOfferNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateOfferNumber error: %v", err)
	}
	if first != "TKL-2025-0001" {
		t.Errorf("first number = %q, want TKL-2025-0001", first)
	}

	testhelpers.CreateTestOffer(t, app, visit.Id, user.Id, first, 100)
	testhelpers.CreateTestOffer(t, app, visit.Id, user.Id, "TKL-2024-0007", 100)

	second, _ := GenerateOfferNumber(app, now)
	if second != "TKL-2025-0002" {
		t.Errorf("second number = %q, want TKL-2025-0002", second)
	}

	nextYear, _ := GenerateOfferNumber(app, now.AddDate(1, 0, 0))
	if nextYear != "TKL-2026-0001" {
		t.Errorf("new year number = %q, want TKL-2026-0001", nextYear)
	}
}

func TestBackfillOfferNumbers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "saha@example.com", "Saha", "")
	visit := testhelpers.CreateTestVisit(t, app, user.Id, "Eczane", "completed", time.Now())

	a := testhelpers.CreateTestOffer(t, app, visit.Id, user.Id, "", 100)
	b := testhelpers.CreateTestOffer(t, app, visit.Id, user.Id, "", 200)

	if err := BackfillOfferNumbers(app); err != nil {
		t.Fatalf("BackfillOfferNumbers error: %v", err)
	}

	seen := map[string]bool{}
	for _, id := range []string{a.Id, b.Id} {
		rec, _ := app.FindRecordById("offers", id)
		n := rec.GetString("offer_number")
		if n == "" {
			t.Errorf("offer %s still has no number", id)
		}
		if seen[n] {
			t.Errorf("duplicate offer number %q", n)
		}
		seen[n] = true
	}
}
