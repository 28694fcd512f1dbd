package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/sessions"
)

type contextKey string

const QuoteSessionKey contextKey = "quoteSession"

// GetQuoteSession extracts the quote session loaded by QuoteSessionMiddleware.
func GetQuoteSession(r *http.Request) *sessions.Session {
	if val, ok := r.Context().Value(QuoteSessionKey).(*sessions.Session); ok {
		return val
	}
	return nil
}

// QuoteSessionMiddleware loads the quote session named by the {id} path
// value, checks that it belongs to the authenticated user and stores it in
// the request context.
func QuoteSessionMiddleware(store sessions.Store) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userID, ok := currentUserID(e)
		if !ok {
			return ErrorToast(e, http.StatusUnauthorized, "Oturum açmanız gerekiyor")
		}

		id := e.Request.PathValue("id")
		sess, err := store.Get(e.Request.Context(), id)
		if err != nil {
			if errors.Is(err, sessions.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Teklif oturumu bulunamadı")
			}
			zap.L().Error("middleware: load quote session", zap.String("id", id), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Teklif oturumu yüklenemedi")
		}
		if sess.Owner != userID {
			zap.L().Warn("middleware: quote session owner mismatch",
				zap.String("id", id), zap.String("user", userID))
			return ErrorToast(e, http.StatusForbidden, "Bu teklif oturumuna erişiminiz yok")
		}

		ctx := context.WithValue(e.Request.Context(), QuoteSessionKey, sess)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// currentUserID returns the id of the authenticated user.
func currentUserID(e *core.RequestEvent) (string, bool) {
	if e.Auth == nil {
		return "", false
	}
	return e.Auth.Id, true
}
