package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/services"
)

type targetInput struct {
	TargetType string `json:"target_type" form:"target_type"`
	EntityID   string `json:"entity_id" form:"entity_id"`
	Year       int    `json:"year" form:"year"`
	Month      int    `json:"month" form:"month"`
	Amount     int    `json:"amount" form:"amount"`
}

// HandleTargetUpsert creates or replaces a monthly offer target.
// Route: POST /api/targets
func HandleTargetUpsert(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var input targetInput
		if err := e.BindBody(&input); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Geçersiz form verisi")
		}

		record, err := services.UpsertMonthlyTarget(app, input.TargetType, input.EntityID, input.Year, input.Month, input.Amount)
		if err != nil {
			return respondError(e, "target_upsert", err)
		}

		SetToast(e, "success", "Hedef kaydedildi")
		return e.JSON(http.StatusOK, map[string]any{
			"id":            record.Id,
			"target_type":   record.GetString("target_type"),
			"entity_id":     input.EntityID,
			"target_month":  record.GetString("target_month"),
			"target_amount": record.GetInt("target_amount"),
		})
	}
}

// HandleTargetProgress reports the current user's and team's offer counts
// against their targets for ?month=YYYY-MM.
// Route: GET /api/targets/progress
func HandleTargetProgress(app *pocketbase.PocketBase, loc *time.Location) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userID, ok := currentUserID(e)
		if !ok {
			return respondError(e, "target_progress", errUnauthenticated)
		}

		month, err := services.ParseTargetMonth(e.Request.URL.Query().Get("month"), loc, time.Now())
		if err != nil {
			return respondError(e, "target_progress", err)
		}

		report, err := services.LoadTargetProgress(app, userID, month, loc)
		if err != nil {
			return respondError(e, "target_progress", err)
		}
		return e.JSON(http.StatusOK, report)
	}
}
