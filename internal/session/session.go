// Package session keeps the signed-in user, the backend token and the resolved school name per browser session.
package session

import (
	"context"
	"time"

	"github.com/yigit/fypdash/internal/app/models"
)

// Session is the server-side state behind a session cookie
type Session struct {
	ID         string       `json:"id"`
	Token      string       `json:"token,omitempty"`
	User       *models.User `json:"user,omitempty"`
	SchoolName string       `json:"schoolName,omitempty"`
	Hydrated   bool         `json:"hydrated"`
	CreatedAt  time.Time    `json:"createdAt"`
	ExpiresAt  time.Time    `json:"expiresAt"`
}

// Authenticated reports whether the session carries a backend token
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Expired reports whether the session outlived its TTL
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SchoolID returns the school of the signed-in user, or ""
func (s *Session) SchoolID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.SchoolID
}

// Store persists sessions. Load returns apperrors.ErrSessionNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// Count returns how many sessions are still live at now
	Count(ctx context.Context, now time.Time) (int64, error)
	Name() string
}

// Purger is implemented by stores that cannot expire sessions on their own
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Tracker holds per-session state that must not outlive the session
type Tracker interface {
	Sessions() []string
	Forget(sessionID string)
}

// SchoolNameFinder looks a school's display name up by id; "" means unknown
type SchoolNameFinder interface {
	FindSchoolName(ctx context.Context, schoolID string) (string, error)
}
