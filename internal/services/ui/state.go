// Package ui keeps the per-installation presentation state: the color theme
// and the queue of toast notifications.
package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"financetracker/internal/models"
	"financetracker/internal/services/storage"
)

const (
	themeKey = "theme"

	// DefaultTTL is how long a notification stays visible
	DefaultTTL = 5 * time.Second
)

// ErrInvalidTheme is returned by SetTheme for anything but light or dark
var ErrInvalidTheme = errors.New("theme must be light or dark")

// State holds the theme preference and active notifications
type State struct {
	kv  storage.KV
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger

	mu            sync.Mutex
	notifications []models.Notification
}

// Option configures a State
type Option func(*State)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// New creates the UI state. A non-positive ttl means DefaultTTL.
func New(kv storage.KV, ttl time.Duration, log zerolog.Logger, opts ...Option) *State {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &State{
		kv:  kv,
		ttl: ttl,
		now: time.Now,
		log: log.With().Str("component", "ui").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close drops all pending notifications
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// Theme returns the saved theme, light when nothing valid is stored
func (s *State) Theme() models.Theme {
	raw, err := s.kv.Get(themeKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Msg("could not read theme preference")
		}
		return models.ThemeLight
	}

	var t models.Theme
	if err := json.Unmarshal(raw, &t); err != nil || !t.Valid() {
		return models.ThemeLight
	}
	return t
}

// SetTheme stores t as the preferred theme
func (s *State) SetTheme(t models.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}
	data, _ := json.Marshal(t)
	if err := s.kv.Set(themeKey, data); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme
func (s *State) ToggleTheme() (models.Theme, error) {
	next := s.Theme().Toggled()
	if err := s.SetTheme(next); err != nil {
		return s.Theme(), err
	}
	return next, nil
}

// Notify queues a message. Unknown kinds become info and a zero ttl uses
// the configured default.
func (s *State) Notify(message string, kind models.NotificationKind, ttl time.Duration) models.Notification {
	if !kind.Valid() {
		kind = models.NotifyInfo
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.now()
	n := models.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()

	s.log.Debug().Str("id", n.ID).Str("kind", string(kind)).Msg("notification queued")
	return n
}

// Active prunes expired notifications and returns the rest, oldest first
func (s *State) Active() []models.Notification {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	s.notifications = kept

	out := make([]models.Notification, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a notification and reports whether it was there
func (s *State) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}
