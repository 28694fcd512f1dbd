package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/sessions"
)

var (
	// ErrNotVisitFlow is returned when finalizing a quote that was opened
	// outside a visit.
	ErrNotVisitFlow = errors.New("quote is not attached to a visit")
	// ErrVisitNotOwned is returned when the visit belongs to another user.
	ErrVisitNotOwned = errors.New("visit belongs to another user")
	// ErrVisitClosed is returned for cancelled visits.
	ErrVisitClosed = errors.New("visit is cancelled")
)

// FinalizeOffer turns a visit-flow quote session into a saved offer record
// with its PDF attached. The offer number is allocated in the same
// transaction as the save.
func FinalizeOffer(app *pocketbase.PocketBase, sess *sessions.Session, company CompanyInfo, now time.Time) (*core.Record, error) {
	if sess.VisitID == "" {
		return nil, ErrNotVisitFlow
	}

	breakdown := sess.Breakdown()
	if err := pricing.CheckSubmittable(sess.Selection, breakdown); err != nil {
		return nil, err
	}

	visit, err := app.FindRecordById("visits", sess.VisitID)
	if err != nil {
		return nil, fmt.Errorf("visit not found: %w", err)
	}
	if visit.GetString("user") != sess.Owner {
		return nil, ErrVisitNotOwned
	}
	if visit.GetString("status") == "cancelled" {
		return nil, ErrVisitClosed
	}

	offersCol, err := app.FindCollectionByNameOrId("offers")
	if err != nil {
		return nil, fmt.Errorf("offers collection: %w", err)
	}

	var offer *core.Record
	err = app.RunInTransaction(func(txApp core.App) error {
		number, err := GenerateOfferNumber(txApp, now)
		if err != nil {
			return err
		}

		data, err := BuildOfferExportData(txApp, company, number, sess.Selection, sess.Flags, sess.VisitID, sess.Owner, now)
		if err != nil {
			return err
		}

		pdfBytes, err := GenerateOfferPDF(data)
		if err != nil {
			return err
		}
		file, err := filesystem.NewFileFromBytes(pdfBytes, number+".pdf")
		if err != nil {
			return fmt.Errorf("attach offer PDF: %w", err)
		}

		offer = core.NewRecord(offersCol)
		offer.Set("visit", sess.VisitID)
		offer.Set("user", sess.Owner)
		offer.Set("offer_number", number)
		offer.Set("line", string(sess.Line))
		offer.Set("products_data", data.Lines)
		offer.Set("subscription_net", RoundMoney(breakdown.SubscriptionNet))
		offer.Set("subscription_total", RoundMoney(breakdown.SubscriptionTotal))
		offer.Set("one_time_total", RoundMoney(breakdown.OneTimeFeesTotal))
		offer.Set("total_price", RoundMoney(breakdown.GrandTotal))
		offer.Set("is_campaign_applied", sess.Flags.CampaignApplied)
		offer.Set("activation_waived", sess.Flags.ActivationWaived)
		offer.Set("pdf", file)

		return txApp.Save(offer)
	})
	if err != nil {
		return nil, fmt.Errorf("finalize offer: %w", err)
	}

	zap.L().Info("offer saved",
		zap.String("offer_number", offer.GetString("offer_number")),
		zap.String("visit_id", sess.VisitID),
		zap.Float64("total", offer.GetFloat("total_price")),
	)

	return offer, nil
}

// LoadOfferLines decodes the stored products_data of an offer.
func LoadOfferLines(offer *core.Record) ([]OfferLine, error) {
	var lines []OfferLine
	if err := offer.UnmarshalJSONField("products_data", &lines); err != nil {
		return nil, fmt.Errorf("decode products_data: %w", err)
	}
	return lines, nil
}

// OfferPDFPath returns the storage key of an offer's attached PDF, or "" if
// none is attached.
func OfferPDFPath(offer *core.Record) string {
	name := offer.GetString("pdf")
	if name == "" {
		return ""
	}
	return offer.BaseFilesPath() + "/" + name
}
