package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/hook"
	"github.com/armatrix/agent-scratchpad/internal/hookrunner"
)

// MemoryStore is the in-memory SessionStore. A single mutex guards the map,
// so every check-then-write (expiry + eviction, merge + timestamp refresh)
// is atomic with respect to every other operation. Returned sessions are
// deep copies.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*scratchpad.Session

	opts   options
	logger zerolog.Logger
	hooks  atomic.Pointer[hookrunner.Runner]

	sweepMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ scratchpad.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. The background sweeper is not
// running until Start is called.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := resolveOptions(opts)
	return &MemoryStore{
		sessions: make(map[string]*scratchpad.Session),
		opts:     o,
		logger:   o.logger.With().Str("component", "session_store").Logger(),
	}
}

// SetHooks installs lifecycle hooks (SessionCreated, SessionDeleted,
// SessionExpired). Hooks run after the store lock is released and their
// errors are logged, never returned.
func (m *MemoryStore) SetHooks(matchers []hook.Matcher) error {
	r, err := hookrunner.New(matchers)
	if err != nil {
		return err
	}
	m.hooks.Store(r)
	return nil
}

// TTL returns the configured idle time-to-live.
func (m *MemoryStore) TTL() time.Duration {
	return m.opts.ttl
}

// Create stores a new empty session bound to owner (unbound if owner is empty).
func (m *MemoryStore) Create(owner string) (*scratchpad.Session, error) {
	sess, evicted, err := m.createLocked(owner)
	m.afterEviction(evicted)
	if err != nil {
		m.logger.Error().Err(err).Msg("session id generation failed")
		return nil, err
	}
	m.logger.Debug().Str("session_id", sess.ID).Bool("owner_bound", sess.OwnerBound()).Msg("session created")
	m.fire(hook.SessionCreated, sess.ID)
	return sess, nil
}

func (m *MemoryStore) createLocked(owner string) (*scratchpad.Session, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	var evicted []string
	id, err := scratchpad.UniqueID(m.opts.idGen, m.opts.idLength, func(candidate string) bool {
		live, gone := m.lookupLocked(candidate, now)
		if gone {
			evicted = append(evicted, candidate)
		}
		return live != nil
	})
	if err != nil {
		return nil, evicted, err
	}

	sess := scratchpad.NewSession(id, owner, now)
	m.sessions[id] = sess
	return sess.Clone(), evicted, nil
}

// Get returns a copy of the session. It does not refresh LastActivity.
func (m *MemoryStore) Get(id, caller string) (*scratchpad.Session, error) {
	var out *scratchpad.Session
	err := m.withSession(id, caller, func(s *scratchpad.Session, _ time.Time) error {
		out = s.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update merges upd into the session and refreshes LastActivity. A
// replacement todo list is validated before the session is looked up.
func (m *MemoryStore) Update(id string, upd scratchpad.SessionUpdate, caller string) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	return m.withSession(id, caller, func(s *scratchpad.Session, now time.Time) error {
		upd.Apply(s)
		s.LastActivity = now
		return nil
	})
}

// Mutate applies fn to a working copy of the session and commits it, with a
// refreshed LastActivity, only if fn returns nil. ID, Owner and CreatedAt
// cannot be changed through fn.
func (m *MemoryStore) Mutate(id, caller string, fn func(*scratchpad.Session) error) (*scratchpad.Session, error) {
	return m.mutate(id, caller, func(s *scratchpad.Session, _ time.Time) error {
		return fn(s)
	})
}

func (m *MemoryStore) mutate(id, caller string, fn func(*scratchpad.Session, time.Time) error) (*scratchpad.Session, error) {
	var out *scratchpad.Session
	err := m.withSession(id, caller, func(s *scratchpad.Session, now time.Time) error {
		work := s.Clone()
		if err := fn(work, now); err != nil {
			return err
		}
		work.ID, work.Owner, work.CreatedAt = s.ID, s.Owner, s.CreatedAt
		work.LastActivity = now
		*s = *work
		out = work.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the session.
func (m *MemoryStore) Delete(id, caller string) error {
	err := m.withSession(id, caller, func(s *scratchpad.Session, _ time.Time) error {
		delete(m.sessions, s.ID)
		return nil
	})
	if err != nil {
		return err
	}
	m.logger.Debug().Str("session_id", id).Msg("session deleted")
	m.fire(hook.SessionDeleted, id)
	return nil
}

// Exists reports whether id maps to a live session. It evicts an expired
// record but performs no identity check.
func (m *MemoryStore) Exists(id string) bool {
	live, evicted := m.existsLocked(id)
	if evicted {
		m.afterEviction([]string{id})
	}
	return live
}

func (m *MemoryStore) existsLocked(id string) (live, evicted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, gone := m.lookupLocked(id, m.opts.now())
	return s != nil, gone
}

// Count returns the number of live sessions without evicting anything.
func (m *MemoryStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	n := 0
	for _, s := range m.sessions {
		if !m.expired(s, now) {
			n++
		}
	}
	return n
}

// Sweep removes every expired session and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	removed := m.sweepLocked()
	if len(removed) > 0 {
		m.logger.Info().Int("removed", len(removed)).Msg("expired sessions swept")
	}
	m.afterEviction(removed)
	return len(removed)
}

func (m *MemoryStore) sweepLocked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	var removed []string
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// AddTodo appends a pending todo built from draft.
func (m *MemoryStore) AddTodo(id, caller string, draft scratchpad.TodoDraft) (scratchpad.Todo, error) {
	if err := draft.Validate(); err != nil {
		return scratchpad.Todo{}, err
	}
	var added scratchpad.Todo
	_, err := m.mutate(id, caller, func(s *scratchpad.Session, now time.Time) error {
		todoID, err := scratchpad.UniqueID(m.opts.idGen, m.opts.todoIDLength, s.HasTodo)
		if err != nil {
			return err
		}
		added = draft.Todo(todoID, now)
		s.Todos = append(s.Todos, added)
		return nil
	})
	if err != nil {
		return scratchpad.Todo{}, err
	}
	added.Tags = append([]string(nil), added.Tags...)
	return added, nil
}

// SetTodoStatus changes the status of one todo.
func (m *MemoryStore) SetTodoStatus(id, caller, todoID string, status scratchpad.TodoStatus) (scratchpad.Todo, error) {
	status, err := scratchpad.ParseTodoStatus(string(status))
	if err != nil {
		return scratchpad.Todo{}, err
	}
	var updated scratchpad.Todo
	_, err = m.mutate(id, caller, func(s *scratchpad.Session, _ time.Time) error {
		var err error
		updated, err = s.SetTodoStatus(todoID, status)
		return err
	})
	if err != nil {
		return scratchpad.Todo{}, err
	}
	return updated, nil
}

// RemoveTodo deletes one todo, keeping the relative order of the others.
func (m *MemoryStore) RemoveTodo(id, caller, todoID string) error {
	_, err := m.mutate(id, caller, func(s *scratchpad.Session, _ time.Time) error {
		return s.RemoveTodo(todoID)
	})
	return err
}

// expired is the single age test shared by lookups, Count and Sweep.
func (m *MemoryStore) expired(s *scratchpad.Session, now time.Time) bool {
	return now.Sub(s.LastActivity) >= m.opts.ttl
}

// lookupLocked returns the live record for id. An expired record is removed
// and reported as evicted. Caller must hold m.mu.
func (m *MemoryStore) lookupLocked(id string, now time.Time) (live *scratchpad.Session, evicted bool) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.expired(s, now) {
		delete(m.sessions, id)
		return nil, true
	}
	return s, false
}

// withSession runs fn on the live, identity-checked record for id while the
// store lock is held.
func (m *MemoryStore) withSession(id, caller string, fn func(*scratchpad.Session, time.Time) error) error {
	evicted, err := m.withSessionLocked(id, caller, fn)
	if evicted {
		m.afterEviction([]string{id})
	}
	return err
}

func (m *MemoryStore) withSessionLocked(id, caller string, fn func(*scratchpad.Session, time.Time) error) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	s, evicted := m.lookupLocked(id, now)
	if s == nil {
		return evicted, fmt.Errorf("session %q: %w", id, scratchpad.ErrNotFound)
	}
	if err := s.CheckIdentity(caller); err != nil {
		return false, err
	}
	return false, fn(s, now)
}

func (m *MemoryStore) afterEviction(ids []string) {
	for _, id := range ids {
		m.logger.Debug().Str("session_id", id).Msg("session expired")
		m.fire(hook.SessionExpired, id)
	}
}

func (m *MemoryStore) fire(event hook.Event, sessionID string) {
	r := m.hooks.Load()
	if r == nil || !r.Has(event) {
		return
	}
	if err := r.RunSessionEvent(context.Background(), event, sessionID); err != nil {
		m.logger.Warn().Err(err).Str("event", string(event)).Str("session_id", sessionID).Msg("session hook failed")
	}
}
