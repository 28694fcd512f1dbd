package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/tools/types"
)

// DailyMetrics summarizes one user's field activity for a day.
type DailyMetrics struct {
	TotalVisits          int `json:"totalVisits"`
	PlannedVisits        int `json:"plannedVisits"`
	CompletedVisits      int `json:"completedVisits"`
	TotalDurationMinutes int `json:"totalDurationMinutes"`
	OfferCount           int `json:"offerCount"`
	ConversionRate       int `json:"conversionRate"`
}

// DailyVisitRow is one visit line of the daily report.
type DailyVisitRow struct {
	ID              string    `json:"id"`
	PlaceName       string    `json:"place_name"`
	Address         string    `json:"address"`
	Status          string    `json:"status"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds int       `json:"duration_seconds"`
	OfferGiven      bool      `json:"offer_given"`
}

// DurationMinutes is the visit duration floored to whole minutes.
func (r DailyVisitRow) DurationMinutes() int {
	return r.DurationSeconds / 60
}

// DailyReport holds all data needed to render a daily activity report.
type DailyReport struct {
	Date     string          `json:"date"`
	UserName string          `json:"user_name"`
	Metrics  DailyMetrics    `json:"metrics"`
	Visits   []DailyVisitRow `json:"visits"`
}

// ParseReportDate parses a YYYY-MM-DD day in loc. An empty string means today.
func ParseReportDate(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return day, nil
}

// VisitStatusLabel is the report label of a visit status.
func VisitStatusLabel(status string) string {
	switch status {
	case "completed":
		return "Tamamlandı"
	case "cancelled":
		return "İptal"
	case "active":
		return "Devam Ediyor"
	default:
		return "Planlı"
	}
}

// ComputeDailyMetrics folds visit rows into the report metrics. Durations
// are summed in seconds and floored to minutes once.
func ComputeDailyMetrics(rows []DailyVisitRow) DailyMetrics {
	var m DailyMetrics
	var seconds int
	for _, r := range rows {
		m.TotalVisits++
		switch r.Status {
		case "planned":
			m.PlannedVisits++
		case "completed":
			m.CompletedVisits++
		}
		seconds += r.DurationSeconds
		if r.OfferGiven {
			m.OfferCount++
		}
	}
	m.TotalDurationMinutes = seconds / 60
	if m.CompletedVisits > 0 {
		m.ConversionRate = m.OfferCount * 100 / m.CompletedVisits
	}
	return m
}

// LoadDailyReport collects the visits a user started on day (interpreted in
// loc) together with whether each one produced an offer.
func LoadDailyReport(app *pocketbase.PocketBase, userID string, day time.Time, loc *time.Location) (*DailyReport, error) {
	y, mo, d := day.In(loc).Date()
	start := time.Date(y, mo, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	visits, err := app.FindRecordsByFilter(
		"visits",
		"user = {:user} && started_at >= {:start} && started_at < {:end}",
		"started_at",
		0, 0,
		dbx.Params{
			"user":  userID,
			"start": start.UTC().Format(types.DefaultDateLayout),
			"end":   end.UTC().Format(types.DefaultDateLayout),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("load visits: %w", err)
	}

	withOffer := map[string]bool{}
	if len(visits) > 0 {
		ids := make([]any, len(visits))
		for i, v := range visits {
			ids[i] = v.Id
		}
		offers, err := app.FindAllRecords("offers", dbx.In("visit", ids...))
		if err != nil {
			return nil, fmt.Errorf("load offers: %w", err)
		}
		for _, o := range offers {
			withOffer[o.GetString("visit")] = true
		}
	}

	rows := make([]DailyVisitRow, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, DailyVisitRow{
			ID:              v.Id,
			PlaceName:       v.GetString("place_name"),
			Address:         v.GetString("address"),
			Status:          v.GetString("status"),
			StartedAt:       v.GetDateTime("started_at").Time().In(loc),
			DurationSeconds: v.GetInt("duration_seconds"),
			OfferGiven:      withOffer[v.Id],
		})
	}

	report := &DailyReport{
		Date:    start.Format("02.01.2006"),
		Metrics: ComputeDailyMetrics(rows),
		Visits:  rows,
	}
	if user, err := app.FindRecordById("users", userID); err == nil {
		report.UserName = user.GetString("full_name")
	}

	return report, nil
}
