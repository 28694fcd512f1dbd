package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

const offerNumberPrefix = "TKL"

// formatOfferNumber constructs the offer number string from components.
func formatOfferNumber(year, sequence int) string {
	return fmt.Sprintf("%s-%d-%04d", offerNumberPrefix, year, sequence)
}

// GenerateOfferNumber creates the next offer number for the calendar year of now.
// Format: TKL-{year}-{sequence}
// - sequence: 4-digit zero-padded, restarting every calendar year
//
// app may be a transaction so that numbering and saving happen atomically.
func GenerateOfferNumber(app core.App, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("%s-%d-", offerNumberPrefix, year)

	total, err := countOffersWithPrefix(app, prefix)
	if err != nil {
		return "", err
	}

	return formatOfferNumber(year, total+1), nil
}

func countOffersWithPrefix(app core.App, prefix string) (int, error) {
	total, err := app.CountRecords("offers", dbx.Like("offer_number", prefix).Match(false, true))
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return int(total), nil
}

// BackfillOfferNumbers numbers offers saved without one, oldest first, in the
// year they were created. Safe to call on every startup.
func BackfillOfferNumbers(app *pocketbase.PocketBase) error {
	missing, err := app.FindRecordsByFilter("offers", "offer_number = ''", "created", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("backfill offer numbers: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	zap.L().Info("backfilling offer numbers", zap.Int("offers", len(missing)))

	for _, offer := range missing {
		number, err := GenerateOfferNumber(app, offer.GetDateTime("created").Time())
		if err != nil {
			return err
		}
		offer.Set("offer_number", number)
		if err := app.Save(offer); err != nil {
			zap.L().Warn("failed to backfill offer number", zap.String("offer_id", offer.Id), zap.Error(err))
		}
	}
	return nil
}
