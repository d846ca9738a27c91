package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iconidentify/archivelens/internal/domain"
)

// Gauge tracks the number of live sessions. prometheus.Gauge satisfies
// it.
type Gauge interface {
	Inc()
	Dec()
}

type nopGauge struct{}

func (nopGauge) Inc() {}
func (nopGauge) Dec() {}

// Manager creates, looks up, and expires sessions.
type Manager struct {
	fetcher Fetcher
	logger  *slog.Logger
	gauge   Gauge

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(fetcher Fetcher, logger *slog.Logger) *Manager {
	return &Manager{
		fetcher:  fetcher,
		logger:   logger,
		gauge:    nopGauge{},
		sessions: make(map[string]*Session),
	}
}

// SetGauge installs a live-session gauge. Call before serving traffic.
func (m *Manager) SetGauge(g Gauge) {
	if g != nil {
		m.gauge = g
	}
}

// Open creates a session for the account and starts warming its post
// history in the background.
func (m *Manager) Open(account domain.Account) *Session {
	s := newSession("ses_"+uuid.New().String(), account, m.fetcher, m.logger)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.gauge.Inc()

	// Warm the cache so reports are ready by the time they are asked
	// for. Uses the session's own context, not a request context.
	go func() {
		if _, err := s.Posts(s.ctx); err != nil {
			return
		}
	}()

	m.logger.Info("session opened", "session", s.ID, "account", account.Username)
	return s
}

// Get looks a session up by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Close tears a session down, cancelling any in-flight work.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	s.close()
	m.gauge.Dec()
	m.logger.Info("session closed", "session", id)
	return nil
}

// CloseIdle expires sessions that have not been touched for maxIdle and
// returns how many were closed.
func (m *Manager) CloseIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.lastAccessed().Before(cutoff) {
			delete(m.sessions, id)
			stale = append(stale, s)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
		m.gauge.Dec()
		m.logger.Info("session expired", "session", s.ID)
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
