package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/services"
	"github.com/cenkokut62/sagaplus/sessions"
	"github.com/cenkokut62/sagaplus/templates"
)

type offerResponse struct {
	ID          string  `json:"id"`
	OfferNumber string  `json:"offer_number"`
	TotalPrice  float64 `json:"total_price"`
	PDFURL      string  `json:"pdf_url"`
}

// HandleQuoteFinalize saves a visit flow quote as an offer with its PDF and
// discards the session. The session is taken out of the store first so a
// quote is saved at most once; a rejected finalize puts it back.
// Route: POST /api/quotes/{id}/finalize
func HandleQuoteFinalize(app *pocketbase.PocketBase, store sessions.Store, company services.CompanyInfo) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		loaded := GetQuoteSession(e.Request)
		if loaded == nil {
			return respondError(e, "quote_finalize", sessions.ErrNotFound)
		}

		ctx := e.Request.Context()
		sess, err := store.Take(ctx, loaded.ID)
		if errors.Is(err, sessions.ErrNotFound) {
			return respondError(e, "quote_finalize", errAlreadyFinalized)
		}
		if err != nil {
			return respondError(e, "quote_finalize: take session", err)
		}

		offer, err := services.FinalizeOffer(app, sess, company, time.Now())
		if err != nil {
			if rerr := store.Restore(ctx, sess); rerr != nil {
				zap.L().Warn("quote_finalize: restore session", zap.String("id", sess.ID), zap.Error(rerr))
			}
			return respondError(e, "quote_finalize", err)
		}

		number := offer.GetString("offer_number")
		total := offer.GetFloat("total_price")
		SetToast(e, "success", "Teklif oluşturuldu: "+number)

		if isHTMX(e) {
			component := templates.OfferSaved(offer.Id, number, total)
			return component.Render(e.Request.Context(), e.Response)
		}

		return e.JSON(http.StatusCreated, offerResponse{
			ID:          offer.Id,
			OfferNumber: number,
			TotalPrice:  total,
			PDFURL:      "/api/offers/" + offer.Id + "/pdf",
		})
	}
}

// HandleOfferPDF streams the stored PDF of an offer to its owner.
// Route: GET /api/offers/{id}/pdf
func HandleOfferPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userID, ok := currentUserID(e)
		if !ok {
			return respondError(e, "offer_pdf", errUnauthenticated)
		}

		offer, err := app.FindRecordById("offers", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Teklif bulunamadı")
		}
		if offer.GetString("user") != userID {
			return ErrorToast(e, http.StatusForbidden, "Bu teklife erişiminiz yok")
		}

		key := services.OfferPDFPath(offer)
		if key == "" {
			return ErrorToast(e, http.StatusNotFound, "Teklif PDF dosyası yok")
		}

		fsys, err := app.NewFilesystem()
		if err != nil {
			return respondError(e, "offer_pdf: filesystem", err)
		}
		defer fsys.Close()

		name := sanitizeFilename(offer.GetString("offer_number")) + ".pdf"
		if err := fsys.Serve(e.Response, e.Request, key, name); err != nil {
			return respondError(e, "offer_pdf: serve", err)
		}
		return nil
	}
}
