package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed session lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// ErrSessionNotFound is returned by Lookup for unknown sessions.
var ErrSessionNotFound = errors.New("session not found")

// Factory builds the workbench of a new session.
type Factory func(ctx context.Context, sessionID string) (*lectern.Workbench, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	factory Factory

	mu      sync.Mutex            // guards locks and benches
	locks   map[string]*lockEntry // active locks
	benches map[string]*lectern.Workbench

	locker  ports.DistributedLocker // optional
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager that builds workbenches with factory.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		locks:   make(map[string]*lockEntry),
		benches: make(map[string]*lectern.Workbench),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Do runs fn with the session's workbench while holding the session lock.
// The workbench is created on first use.
func (m *Manager) Do(ctx context.Context, sessionID string, fn func(context.Context, *lectern.Workbench) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		wb, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		return fn(ctx, wb)
	})
}

// Get returns the session's workbench, creating it if needed.
// Callers that mutate engine state should prefer Do.
func (m *Manager) Get(ctx context.Context, sessionID string) (*lectern.Workbench, error) {
	var wb *lectern.Workbench
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		wb, err = m.loadOrStart(ctx, sessionID)
		return err
	})
	return wb, err
}

// Lookup returns an existing workbench without creating one.
func (m *Manager) Lookup(sessionID string) (*lectern.Workbench, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wb, ok := m.benches[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return wb, nil
}

func (m *Manager) loadOrStart(ctx context.Context, sessionID string) (*lectern.Workbench, error) {
	m.mu.Lock()
	wb, ok := m.benches[sessionID]
	m.mu.Unlock()
	if ok {
		return wb, nil
	}

	wb, err := m.factory(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.mu.Lock()
	m.benches[sessionID] = wb
	m.mu.Unlock()
	m.logger.Debug("session started", "session_id", sessionID)
	return wb, nil
}

// Delete drops the session's workbench. Deleting an unknown session is not an error.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.benches, sessionID)
		m.mu.Unlock()
		return nil
	})
}

// List returns the active session IDs in lexical order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.benches))
	for id := range m.benches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
