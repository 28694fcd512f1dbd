package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/services"
	"github.com/cenkokut62/sagaplus/sessions"
	"github.com/cenkokut62/sagaplus/templates"
)

// quoteResponse is the JSON view of a quote session.
type quoteResponse struct {
	Session     *sessions.Session        `json:"session"`
	Lines       []pricing.LineItem       `json:"lines"`
	Breakdown   pricing.Breakdown        `json:"breakdown"`
	Campaign    *pricing.CampaignPreview `json:"campaign,omitempty"`
	Submittable bool                     `json:"submittable"`
}

type createQuoteInput struct {
	Line    string `json:"line" form:"line"`
	VisitID string `json:"visit_id" form:"visit_id"`
}

type productInput struct {
	ProductID string `json:"product_id" form:"product_id"`
	Variant   string `json:"variant" form:"variant"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

type flagsInput struct {
	CampaignApplied  bool   `json:"campaign_applied" form:"campaign_applied"`
	ActivationWaived bool   `json:"activation_waived" form:"activation_waived"`
	ExtraFee         string `json:"extra_installation_fee" form:"extra_installation_fee"`
}

// HandleQuoteCreate opens a new quote session. A visit_id makes it a visit
// flow quote that is charged one-time fees and can be finalized.
// Route: POST /api/quotes
func HandleQuoteCreate(app *pocketbase.PocketBase, store sessions.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userID, ok := currentUserID(e)
		if !ok {
			return respondError(e, "quote_create", errUnauthenticated)
		}

		var input createQuoteInput
		if err := e.BindBody(&input); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Geçersiz form verisi")
		}

		line := pricing.Category(input.Line)
		if !line.Valid() {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Geçersiz ürün hattı")
		}

		if input.VisitID != "" {
			visit, err := app.FindRecordById("visits", input.VisitID)
			if err != nil {
				return ErrorToast(e, http.StatusNotFound, "Ziyaret bulunamadı")
			}
			if visit.GetString("user") != userID {
				return respondError(e, "quote_create", services.ErrVisitNotOwned)
			}
			if visit.GetString("status") == "cancelled" {
				return respondError(e, "quote_create", services.ErrVisitClosed)
			}
		}

		sess, err := store.Create(e.Request.Context(), userID, line, input.VisitID)
		if err != nil {
			return respondError(e, "quote_create: store", err)
		}

		zap.L().Debug("quote session opened",
			zap.String("id", sess.ID),
			zap.String("line", string(line)),
			zap.Bool("visit_flow", sess.Flags.VisitFlow),
		)

		return renderQuote(e, sess, http.StatusCreated)
	}
}

// HandleQuoteGet returns the current state and price of a quote.
// Route: GET /api/quotes/{id}
func HandleQuoteGet() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sess := GetQuoteSession(e.Request)
		if sess == nil {
			return respondError(e, "quote_get", sessions.ErrNotFound)
		}
		return renderQuote(e, sess, http.StatusOK)
	}
}

// HandleQuoteSelectPackage replaces the selected package or hub.
// Route: POST /api/quotes/{id}/package
func HandleQuoteSelectPackage(app *pocketbase.PocketBase, store sessions.Store) func(*core.RequestEvent) error {
	return mutateQuote(app, store, "quote_package", func(sel pricing.Selection, p pricing.Product, v pricing.Variant, _ int) (pricing.Selection, error) {
		return sel.SelectPackage(p, v)
	})
}

// HandleQuoteSetPeripheral sets the quantity of a peripheral line. Zero
// removes the line.
// Route: POST /api/quotes/{id}/peripherals
func HandleQuoteSetPeripheral(app *pocketbase.PocketBase, store sessions.Store) func(*core.RequestEvent) error {
	return mutateQuote(app, store, "quote_peripheral", func(sel pricing.Selection, p pricing.Product, v pricing.Variant, qty int) (pricing.Selection, error) {
		return sel.SetPeripheralQuantity(p, v, qty)
	})
}

// HandleQuoteAddPeripheral adds one unit of a peripheral.
// Route: POST /api/quotes/{id}/peripherals/add
func HandleQuoteAddPeripheral(app *pocketbase.PocketBase, store sessions.Store) func(*core.RequestEvent) error {
	return mutateQuote(app, store, "quote_peripheral_add", func(sel pricing.Selection, p pricing.Product, v pricing.Variant, _ int) (pricing.Selection, error) {
		return sel.AddPeripheralUnit(p, v)
	})
}

type selectionOp func(sel pricing.Selection, p pricing.Product, v pricing.Variant, quantity int) (pricing.Selection, error)

// mutateQuote resolves the posted product, applies op and saves the session.
// A rejected op leaves the stored session unchanged.
func mutateQuote(app *pocketbase.PocketBase, store sessions.Store, op string, apply selectionOp) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sess := GetQuoteSession(e.Request)
		if sess == nil {
			return respondError(e, op, sessions.ErrNotFound)
		}

		var input productInput
		if err := e.BindBody(&input); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Geçersiz form verisi")
		}

		variant, err := pricing.ParseVariant(input.Variant)
		if err != nil {
			return respondError(e, op, fmt.Errorf("%w: %v", pricing.ErrVariantUnavailable, err))
		}

		product, err := services.FindProduct(app, input.ProductID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Ürün bulunamadı")
		}

		sel, err := apply(sess.Selection, product, variant, input.Quantity)
		if err != nil {
			return respondError(e, op, err)
		}

		sess.Selection = sel
		if err := store.Save(e.Request.Context(), sess); err != nil {
			return respondError(e, op+": save", err)
		}

		return renderQuote(e, sess, http.StatusOK)
	}
}

// HandleQuoteClearPackage removes the selected package.
// Route: DELETE /api/quotes/{id}/package
func HandleQuoteClearPackage(store sessions.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sess := GetQuoteSession(e.Request)
		if sess == nil {
			return respondError(e, "quote_clear_package", sessions.ErrNotFound)
		}

		sess.Selection = sess.Selection.ClearPackage()
		if err := store.Save(e.Request.Context(), sess); err != nil {
			return respondError(e, "quote_clear_package: save", err)
		}

		return renderQuote(e, sess, http.StatusOK)
	}
}

// HandleQuoteFlags updates the campaign, activation waiver and extra
// installation fee switches. The visit flow flag is fixed at creation.
// Route: POST /api/quotes/{id}/flags
func HandleQuoteFlags(store sessions.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sess := GetQuoteSession(e.Request)
		if sess == nil {
			return respondError(e, "quote_flags", sessions.ErrNotFound)
		}

		var input flagsInput
		if err := e.BindBody(&input); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Geçersiz form verisi")
		}

		var extra float64
		if input.ExtraFee != "" {
			v, err := services.ParseMoney(input.ExtraFee)
			if err != nil || v < 0 {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Ek kurulum ücreti geçersiz")
			}
			extra = v
		}

		sess.Flags.CampaignApplied = input.CampaignApplied
		sess.Flags.ActivationWaived = input.ActivationWaived
		sess.Flags.ExtraInstallationFeeNet = extra

		if err := store.Save(e.Request.Context(), sess); err != nil {
			return respondError(e, "quote_flags: save", err)
		}

		return renderQuote(e, sess, http.StatusOK)
	}
}

// HandleQuoteDelete discards a quote session.
// Route: DELETE /api/quotes/{id}
func HandleQuoteDelete(store sessions.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sess := GetQuoteSession(e.Request)
		if sess == nil {
			return respondError(e, "quote_delete", sessions.ErrNotFound)
		}

		if err := store.Delete(e.Request.Context(), sess.ID); err != nil {
			return respondError(e, "quote_delete", err)
		}

		SetToast(e, "success", "Teklif silindi")
		return e.NoContent(http.StatusNoContent)
	}
}

// renderQuote answers HTMX requests with the summary fragment and API
// clients with JSON.
func renderQuote(e *core.RequestEvent, sess *sessions.Session, status int) error {
	breakdown := sess.Breakdown()

	var campaign *pricing.CampaignPreview
	if sess.Flags.CampaignApplied {
		preview := pricing.PreviewCampaign(breakdown.SubscriptionNet)
		campaign = &preview
	}

	lines := sess.Selection.Lines()
	submittable := sess.Flags.VisitFlow && pricing.CheckSubmittable(sess.Selection, breakdown) == nil

	if isHTMX(e) {
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		e.Response.WriteHeader(status)
		component := templates.QuoteSummary(quoteSummaryData(sess, lines, breakdown, campaign, submittable))
		return component.Render(e.Request.Context(), e.Response)
	}

	return e.JSON(status, quoteResponse{
		Session:     sess,
		Lines:       lines,
		Breakdown:   breakdown,
		Campaign:    campaign,
		Submittable: submittable,
	})
}

func quoteSummaryData(sess *sessions.Session, lines []pricing.LineItem, b pricing.Breakdown, campaign *pricing.CampaignPreview, submittable bool) templates.QuoteSummaryData {
	views := make([]templates.QuoteLineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, templates.QuoteLineView{
			Name:     l.DisplayName,
			Variant:  string(l.Variant),
			Quantity: l.Quantity,
			UnitNet:  l.UnitPrice,
			LineNet:  l.Net(),
		})
	}
	return templates.QuoteSummaryData{
		QuoteID:     sess.ID,
		Line:        sess.Line,
		Lines:       views,
		Breakdown:   b,
		Campaign:    campaign,
		VisitFlow:   sess.Flags.VisitFlow,
		Submittable: submittable,
	}
}
