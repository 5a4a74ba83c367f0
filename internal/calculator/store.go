package calculator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultMaxSessions = 1024
	DefaultSessionTTL  = 30 * time.Minute
)

// StoreOptions bound the number and lifetime of stored sessions. Zero values
// fall back to the defaults.
type StoreOptions struct {
	MaxSessions int
	SessionTTL  time.Duration
	Defaults    Settings
}

type storedSession struct {
	mu       sync.Mutex
	session  *Session
	lastUsed atomic.Int64 // unix nanoseconds
}

// Store holds sessions by id. At most one operation runs per session at a
// time; different sessions proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession

	maxSessions int
	ttl         time.Duration
	defaults    Settings

	now func() time.Time
}

func NewStore(opts StoreOptions) *Store {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.Defaults == (Settings{}) {
		opts.Defaults = DefaultSettings()
	}

	return &Store{
		sessions:    make(map[string]*storedSession),
		maxSessions: opts.MaxSessions,
		ttl:         opts.SessionTTL,
		defaults:    opts.Defaults,
		now:         time.Now,
	}
}

// Defaults returns the settings used for sessions created without a patch.
func (st *Store) Defaults() Settings { return st.defaults }

// Create stores a new session whose settings are the store defaults with
// patch applied, and returns its id.
func (st *Store) Create(patch SettingsPatch) (string, error) {
	settings, err := patch.Apply(st.defaults)
	if err != nil {
		return "", err
	}
	session, err := NewSession(settings)
	if err != nil {
		return "", err
	}

	entry := &storedSession{session: session}
	entry.lastUsed.Store(st.now().UnixNano())

	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.sessions) >= st.maxSessions {
		st.sweepLocked()
		if len(st.sessions) >= st.maxSessions {
			return "", ErrTooManySessions
		}
	}

	id := uuid.NewString()
	st.sessions[id] = entry
	track(1)
	return id, nil
}

// With runs fn on the session stored under id while holding that session's
// lock. Expired sessions are dropped and reported as ErrSessionNotFound.
func (st *Store) With(id string, fn func(*Session) error) error {
	st.mu.RLock()
	entry, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	if st.expired(entry, st.now()) {
		st.mu.Lock()
		if st.sessions[id] == entry {
			delete(st.sessions, id)
			track(-1)
		}
		st.mu.Unlock()
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastUsed.Store(st.now().UnixNano())
	return fn(entry.session)
}

// Delete removes the session stored under id.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	track(-1)
	return nil
}

// Len is the number of stored sessions, expired ones included until swept.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were dropped.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked()
}

func (st *Store) sweepLocked() int {
	now := st.now()
	n := 0
	for id, entry := range st.sessions {
		if st.expired(entry, now) {
			delete(st.sessions, id)
			n++
		}
	}
	track(-int64(n))
	return n
}

// track moves the sessions counter by delta for every session stored or
// dropped, evictions included. It is a no-op before InitMetrics.
func track(delta int64) {
	if sessionsCounter == nil || delta == 0 {
		return
	}
	sessionsCounter.Add(context.Background(), delta)
}

func (st *Store) expired(entry *storedSession, now time.Time) bool {
	return now.Sub(time.Unix(0, entry.lastUsed.Load())) > st.ttl
}

// Collector exposes the number of stored sessions to Prometheus.
func (st *Store) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of calculator sessions currently held in memory.",
	}, func() float64 {
		return float64(st.Len())
	})
}
