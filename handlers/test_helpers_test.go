package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/services"
	"github.com/cenkokut62/sagaplus/sessions"
)

var testCompany = services.CompanyInfo{Name: "Saga Güvenlik", Tagline: "Alarm ve Güvenlik Sistemleri"}

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newAuthedRequestEvent is newTestRequestEvent with user as the authenticated record.
func newAuthedRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder, user *core.Record) *core.RequestEvent {
	e := newTestRequestEvent(app, req, rec)
	e.Auth = user
	return e
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withQuoteSession stores sess in the request context the way
// QuoteSessionMiddleware does.
func withQuoteSession(req *http.Request, sess *sessions.Session) *http.Request {
	req.SetPathValue("id", sess.ID)
	return req.WithContext(context.WithValue(req.Context(), QuoteSessionKey, sess))
}

// newQuoteSession opens a session in store for owner.
func newQuoteSession(t *testing.T, store sessions.Store, owner, line, visitID string) *sessions.Session {
	t.Helper()
	sess, err := store.Create(context.Background(), owner, pricing.Category(line), visitID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess
}

func newMemoryStore() *sessions.MemoryStore {
	return sessions.NewMemoryStore(time.Hour)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
}
