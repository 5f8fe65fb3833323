package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"charityportal/internal/metrics"
	"charityportal/internal/utils"
	"charityportal/pkg/types"
)

const (
	CloseReasonClosed   = "closed"
	CloseReasonIdle     = "idle"
	CloseReasonShutdown = "shutdown"
)

// Sessions is the registry of live workflow sessions of the process.
type Sessions struct {
	logger  *logrus.Logger
	metrics *metrics.Metrics
	opts    *Options
	idle    time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(logger *logrus.Logger, m *metrics.Metrics, opts *Options, idle time.Duration) *Sessions {
	return &Sessions{
		logger:   logger,
		metrics:  m,
		opts:     opts,
		idle:     idle,
		sessions: make(map[string]*Session),
	}
}

func (r *Sessions) Open(ownerID string) *Session {
	s := NewSession(utils.NanoID(), ownerID, r.opts)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.metrics.IncrementSessionOpened()
	r.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"user_id":    ownerID,
	}).Info("workflow session opened")

	return s
}

// Get returns the session only to the user who opened it.
func (r *Sessions) Get(id, ownerID string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok || s.OwnerID != ownerID || s.Closed() {
		return nil, types.ErrSessionNotFound
	}

	return s, nil
}

func (r *Sessions) Close(id, ownerID string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.OwnerID != ownerID {
		r.mu.Unlock()
		return types.ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	r.teardown(s, CloseReasonClosed)
	return nil
}

func (r *Sessions) teardown(s *Session, reason string) {
	s.Close()
	r.metrics.IncrementSessionClosed(reason)
	r.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"user_id":    s.OwnerID,
		"reason":     reason,
	}).Info("workflow session closed")
}

// Evict closes every session idle since before now minus the idle timeout
// and returns how many were closed.
func (r *Sessions) Evict(now time.Time) int {
	cutoff := now.Add(-r.idle)

	r.mu.Lock()
	stale := make([]*Session, 0)
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		r.teardown(s, CloseReasonIdle)
	}

	return len(stale)
}

// Run evicts idle sessions until ctx is done.
func (r *Sessions) Run(ctx context.Context) {
	interval := r.idle / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Evict(now); n > 0 {
				r.logger.WithField("evicted", n).Debug("evicted idle workflow sessions")
			}
		}
	}
}

func (r *Sessions) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		r.teardown(s, CloseReasonShutdown)
	}
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
