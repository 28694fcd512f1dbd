// Package sessions keeps in-progress quotes between requests. A quote lives
// here from the moment a sales representative opens the calculator until it
// is finalized into an offer or discarded.
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cenkokut62/sagaplus/pricing"
)

// ErrNotFound is returned for unknown and expired sessions.
var ErrNotFound = errors.New("quote session not found")

// Session is one in-progress quote.
type Session struct {
	ID        string            `json:"id"`
	Owner     string            `json:"owner"`
	Line      pricing.Category  `json:"line"`
	VisitID   string            `json:"visit_id,omitempty"`
	Selection pricing.Selection `json:"selection"`
	Flags     pricing.Flags     `json:"flags"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, owner string, line pricing.Category, visitID string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Take removes a session and returns it. Of concurrent callers only one
	// gets the session, the others get ErrNotFound.
	Take(ctx context.Context, id string) (*Session, error)
	// Restore puts back a session removed by Take.
	Restore(ctx context.Context, s *Session) error
}

// newSession builds an empty session. A session tied to a visit is a visit
// flow and is charged one-time fees.
func newSession(owner string, line pricing.Category, visitID string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Line:      line,
		VisitID:   visitID,
		Selection: pricing.NewSelection(line),
		Flags:     pricing.Flags{VisitFlow: visitID != ""},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Breakdown computes the current price of the session.
func (s *Session) Breakdown() pricing.Breakdown {
	return pricing.Compute(s.Selection, s.Flags)
}
