package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"go.uber.org/zap"
)

// MigrateVisitDurations fills duration_seconds for completed visits that were
// closed with both timestamps but no duration. Safe to call on every startup
// -- returns early if nothing to migrate.
func MigrateVisitDurations(app *pocketbase.PocketBase) error {
	visitsCol, err := app.FindCollectionByNameOrId("visits")
	if err != nil {
		return fmt.Errorf("migrate: could not find visits collection: %w", err)
	}

	stale, err := app.FindRecordsByFilter(
		visitsCol,
		"status = 'completed' && duration_seconds = 0 && started_at != '' && ended_at != ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query visits: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	zap.L().Info("migrate: backfilling visit durations", zap.Int("visits", len(stale)))

	for _, v := range stale {
		started := v.GetDateTime("started_at").Time()
		ended := v.GetDateTime("ended_at").Time()
		if ended.Before(started) {
			zap.L().Warn("migrate: visit ends before it starts, skipping", zap.String("visit_id", v.Id))
			continue
		}

		v.Set("duration_seconds", int(ended.Sub(started).Seconds()))
		if err := app.Save(v); err != nil {
			zap.L().Warn("migrate: failed to save visit duration", zap.String("visit_id", v.Id), zap.Error(err))
			continue
		}
	}

	return nil
}
