package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/metrics"
)

const (
	commitTimeout = 5 * time.Second
	pollInterval  = 50 * time.Millisecond
)

// Manager owns session lifecycle and school-name hydration
type Manager struct {
	store    Store
	resolver *Resolver
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	trackers []Tracker
}

// NewManager creates a manager over store; finder resolves school names
func NewManager(store Store, finder SchoolNameFinder, ttl time.Duration, logger zerolog.Logger) *Manager {
	logger = logger.With().Str("component", "session").Logger()
	return &Manager{
		store:    store,
		resolver: NewResolver(finder, 30*time.Second, logger),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// StoreName returns the name of the backing store
func (m *Manager) StoreName() string {
	return m.store.Name()
}

// Create starts an anonymous session
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Hydrated:  true,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		s.ExpiresAt = now.Add(m.ttl)
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

// Get loads a live session. Expired sessions are deleted and reported as ErrSessionExpired.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperrors.ErrSessionNotFound
	}
	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		_ = m.Clear(ctx, id)
		return nil, apperrors.ErrSessionExpired
	}
	return s, nil
}

// SetUser stores user and token in the session and starts resolving the user's school name.
// A nil user or one without a school clears the name and marks the session hydrated at once.
func (m *Manager) SetUser(ctx context.Context, id string, user *models.User, token string) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.User != nil {
		m.resolver.Cancel(resolutionKey(id, s.User.ID))
	}

	s.User = user
	s.Token = token
	if user == nil {
		s.Token = ""
	}

	resolve := user != nil && user.SchoolID != ""
	if resolve {
		s.Hydrated = false
	} else {
		s.SchoolName = ""
		s.Hydrated = true
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if resolve {
		userID, schoolID := user.ID, user.SchoolID
		m.resolver.Start(apiclient.WithToken(ctx, token), resolutionKey(id, userID), schoolID, func(name string, err error) {
			m.commitSchoolName(id, userID, schoolID, name, err)
		})
	}
	return s, nil
}

func (m *Manager) commitSchoolName(id, userID, schoolID, name string, resolveErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	s, err := m.store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			m.logger.Error().Err(err).Str("sessionId", id).Msg("Failed to load session for school name")
		}
		return
	}
	if s.User == nil || s.User.ID != userID || s.User.SchoolID != schoolID {
		return
	}

	if resolveErr != nil {
		m.logger.Warn().Err(resolveErr).Str("schoolId", schoolID).Msg("School name resolution failed")
		name = ""
	}
	s.SchoolName = name
	s.Hydrated = true

	if err := m.store.Save(ctx, s); err != nil {
		m.logger.Error().Err(err).Str("sessionId", id).Msg("Failed to save resolved school name")
	}
}

// Track registers state that is forgotten whenever a session ends
func (m *Manager) Track(t Tracker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackers = append(m.trackers, t)
}

func (m *Manager) tracked() []Tracker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Tracker(nil), m.trackers...)
}

func (m *Manager) forget(id string) {
	for _, t := range m.tracked() {
		t.Forget(id)
	}
}

// Clear deletes the session, stops any resolution it started and drops tracked state
func (m *Manager) Clear(ctx context.Context, id string) error {
	if s, err := m.store.Load(ctx, id); err == nil && s.User != nil {
		m.resolver.Cancel(resolutionKey(id, s.User.ID))
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.forget(id)
	return nil
}

// Sweep purges expired sessions when the store needs it, forgets tracked state of sessions
// that no longer exist and publishes the live session count.
func (m *Manager) Sweep(ctx context.Context) error {
	now := m.now()

	if p, ok := m.store.(Purger); ok {
		n, err := p.PurgeExpired(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to purge expired sessions: %w", err)
		}
		if n > 0 {
			m.logger.Debug().Int64("count", n).Msg("Purged expired sessions")
		}
	}

	for _, t := range m.tracked() {
		for _, id := range t.Sessions() {
			if m.ended(ctx, id, now) {
				t.Forget(id)
			}
		}
	}

	live, err := m.store.Count(ctx, now)
	if err != nil {
		return err
	}
	metrics.ActiveSessions.Set(float64(live))
	return nil
}

// ended reports whether id is gone or expired. Store errors keep the state.
func (m *Manager) ended(ctx context.Context, id string, now time.Time) bool {
	s, err := m.store.Load(ctx, id)
	if errors.Is(err, apperrors.ErrSessionNotFound) {
		return true
	}
	return err == nil && s.Expired(now)
}

// WaitHydrated blocks until the session's school name is resolved or ctx is done.
// On ctx expiry it returns the latest session together with ctx.Err().
func (m *Manager) WaitHydrated(ctx context.Context, id string) (*Session, error) {
	for {
		s, err := m.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.Hydrated || s.User == nil {
			return s, nil
		}

		select {
		case <-m.resolver.Done(resolutionKey(id, s.User.ID)):
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// Resolving reports whether a school-name lookup is in flight for the session's user
func (m *Manager) Resolving(id, userID string) bool {
	return m.resolver.Pending(resolutionKey(id, userID))
}

// Close stops background resolutions
func (m *Manager) Close() {
	m.resolver.Close()
}

// resolutionKey scopes a user's resolution to one session
func resolutionKey(sessionID, userID string) string {
	return sessionID + ":" + userID
}
