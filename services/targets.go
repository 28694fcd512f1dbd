package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Target types of the monthly_targets collection.
const (
	TargetTypeUser = "user"
	TargetTypeTeam = "team"
)

// ErrInvalidTarget is returned for malformed target input.
var ErrInvalidTarget = errors.New("invalid target")

// TargetProgress compares the offers given in a month against the target.
type TargetProgress struct {
	TargetType string `json:"target_type"`
	EntityID   string `json:"entity_id"`
	Month      string `json:"month"`
	Target     int    `json:"target"`
	Achieved   int    `json:"achieved"`
	Percent    int    `json:"percent"`
}

// ProgressReport holds the user's own progress and, if the user belongs to
// a team, the team's.
type ProgressReport struct {
	User *TargetProgress `json:"user"`
	Team *TargetProgress `json:"team,omitempty"`
}

// FormatTargetMonth renders the target_month key, e.g. "2025-03".
func FormatTargetMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseTargetMonth parses a YYYY-MM month. An empty string means the month of now.
func ParseTargetMonth(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, _ := now.In(loc).Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q must be YYYY-MM", ErrInvalidTarget, s)
	}
	return t, nil
}

// UpsertMonthlyTarget creates or replaces the target of a user or team for
// one month.
func UpsertMonthlyTarget(app *pocketbase.PocketBase, targetType, entityID string, year, month, amount int) (*core.Record, error) {
	var entityCollection string
	switch targetType {
	case TargetTypeUser:
		entityCollection = "users"
	case TargetTypeTeam:
		entityCollection = "teams"
	default:
		return nil, fmt.Errorf("%w: unknown target type %q", ErrInvalidTarget, targetType)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidTarget, month)
	}
	if year < 2000 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidTarget, year)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidTarget)
	}
	if _, err := app.FindRecordById(entityCollection, entityID); err != nil {
		return nil, fmt.Errorf("%w: %s %q not found", ErrInvalidTarget, targetType, entityID)
	}

	key := FormatTargetMonth(year, month)

	record, err := app.FindFirstRecordByFilter(
		"monthly_targets",
		"target_type = {:type} && "+targetType+" = {:entity} && target_month = {:month}",
		dbx.Params{"type": targetType, "entity": entityID, "month": key},
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find target: %w", err)
		}
		col, err := app.FindCollectionByNameOrId("monthly_targets")
		if err != nil {
			return nil, fmt.Errorf("monthly_targets collection: %w", err)
		}
		record = core.NewRecord(col)
		record.Set("target_type", targetType)
		record.Set(targetType, entityID)
		record.Set("target_month", key)
	}

	record.Set("target_amount", amount)
	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("save target: %w", err)
	}
	return record, nil
}

// LoadTargetProgress reports how many offers the user, and the user's team,
// gave during month against their targets. A missing target reads as zero.
func LoadTargetProgress(app *pocketbase.PocketBase, userID string, month time.Time, loc *time.Location) (*ProgressReport, error) {
	y, m, _ := month.In(loc).Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	key := FormatTargetMonth(y, int(m))

	user, err := app.FindRecordById("users", userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	period := dbx.Params{
		"start": start.UTC().Format(types.DefaultDateLayout),
		"end":   end.UTC().Format(types.DefaultDateLayout),
	}

	userProgress, err := targetProgress(app, TargetTypeUser, userID, key,
		dbx.NewExp("[[user]] = {:user} AND [[created]] >= {:start} AND [[created]] < {:end}",
			mergeParams(period, dbx.Params{"user": userID})),
	)
	if err != nil {
		return nil, err
	}
	report := &ProgressReport{User: userProgress}

	if teamID := user.GetString("team"); teamID != "" {
		report.Team, err = targetProgress(app, TargetTypeTeam, teamID, key,
			dbx.NewExp("[[user]] IN (SELECT [[id]] FROM {{users}} WHERE [[team]] = {:team}) AND [[created]] >= {:start} AND [[created]] < {:end}",
				mergeParams(period, dbx.Params{"team": teamID})),
		)
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

func targetProgress(app *pocketbase.PocketBase, targetType, entityID, month string, offers dbx.Expression) (*TargetProgress, error) {
	achieved, err := app.CountRecords("offers", offers)
	if err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}

	p := &TargetProgress{
		TargetType: targetType,
		EntityID:   entityID,
		Month:      month,
		Achieved:   int(achieved),
	}

	target, err := app.FindFirstRecordByFilter(
		"monthly_targets",
		"target_type = {:type} && "+targetType+" = {:entity} && target_month = {:month}",
		dbx.Params{"type": targetType, "entity": entityID, "month": month},
	)
	switch {
	case err == nil:
		p.Target = target.GetInt("target_amount")
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find target: %w", err)
	}

	if p.Target > 0 {
		p.Percent = p.Achieved * 100 / p.Target
	}
	return p, nil
}

func mergeParams(a, b dbx.Params) dbx.Params {
	out := make(dbx.Params, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
