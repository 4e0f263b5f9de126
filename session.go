package scratchpad

import (
	"fmt"
	"strings"
	"time"
)

// TodoStatus is the lifecycle state of a todo.
type TodoStatus string

const (
	TodoPending TodoStatus = "pending"
	TodoDone    TodoStatus = "done"
)

// ParseTodoStatus converts s to a TodoStatus.
func ParseTodoStatus(s string) (TodoStatus, error) {
	switch TodoStatus(strings.ToLower(strings.TrimSpace(s))) {
	case TodoPending:
		return TodoPending, nil
	case TodoDone:
		return TodoDone, nil
	default:
		return "", fmt.Errorf("%w: status %q must be pending|done", ErrInvalidInput, s)
	}
}

// Todo is a unit of tracked work inside a session.
type Todo struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Status      TodoStatus
	CreatedAt   time.Time
}

// TodoDraft holds the caller-supplied fields of a todo that is about to be added.
type TodoDraft struct {
	Title       string
	Description string
	Tags        []string
}

// Validate reports ErrInvalidInput when the draft has no title.
func (d TodoDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

// Todo builds a pending Todo from the draft.
func (d TodoDraft) Todo(id string, now time.Time) Todo {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)
	return Todo{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Tags:        tags,
		Status:      TodoPending,
		CreatedAt:   now,
	}
}

// Session is one isolated agent workspace: a scratchpad and an ordered todo list.
//
// Owner is the identity token bound at creation. An empty Owner means the
// session is unbound and accepts any caller.
type Session struct {
	ID           string
	Owner        string
	Scratchpad   string
	Todos        []Todo
	CreatedAt    time.Time
	LastActivity time.Time
}

// NewSession creates an empty session.
func NewSession(id, owner string, now time.Time) *Session {
	return &Session{
		ID:           id,
		Owner:        owner,
		Todos:        []Todo{},
		CreatedAt:    now,
		LastActivity: now,
	}
}

// OwnerBound reports whether the session is restricted to one identity.
func (s *Session) OwnerBound() bool {
	return s.Owner != ""
}

// CheckIdentity returns ErrIdentityMismatch if caller may not access s.
func (s *Session) CheckIdentity(caller string) error {
	if s.Owner == "" || s.Owner == caller {
		return nil
	}
	return fmt.Errorf("session %q: %w", s.ID, ErrIdentityMismatch)
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Todos = make([]Todo, len(s.Todos))
	for i, t := range s.Todos {
		c.Todos[i] = t
		c.Todos[i].Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

// SessionUpdate carries the fields an update replaces. A nil Scratchpad
// leaves the scratchpad alone; Todos is applied only when ReplaceTodos is set,
// so an empty list can be written explicitly.
type SessionUpdate struct {
	Scratchpad   *string
	Todos        []Todo
	ReplaceTodos bool
}

// Validate checks a replacement todo list: ids present and unique, titles
// non-empty, statuses pending or done. It is a no-op without ReplaceTodos.
func (u SessionUpdate) Validate() error {
	if !u.ReplaceTodos {
		return nil
	}
	seen := make(map[string]bool, len(u.Todos))
	for i, t := range u.Todos {
		switch {
		case t.ID == "":
			return fmt.Errorf("%w: todos[%d]: id is required", ErrInvalidInput, i)
		case seen[t.ID]:
			return fmt.Errorf("%w: todos[%d]: duplicate id %q", ErrInvalidInput, i, t.ID)
		case strings.TrimSpace(t.Title) == "":
			return fmt.Errorf("%w: todos[%d]: title is required", ErrInvalidInput, i)
		}
		if status, err := ParseTodoStatus(string(t.Status)); err != nil || status != t.Status {
			return fmt.Errorf("%w: todos[%d]: status %q must be pending|done", ErrInvalidInput, i, t.Status)
		}
		seen[t.ID] = true
	}
	return nil
}

// Apply merges the update into s with deep-copied todos. It does not touch
// LastActivity or validate; callers run Validate first.
func (u SessionUpdate) Apply(s *Session) {
	if u.Scratchpad != nil {
		s.Scratchpad = *u.Scratchpad
	}
	if u.ReplaceTodos {
		s.Todos = make([]Todo, len(u.Todos))
		for i, t := range u.Todos {
			s.Todos[i] = t
			s.Todos[i].Tags = append([]string(nil), t.Tags...)
		}
	}
}

// SessionStore is the custody contract for sessions. Every method enforces
// expiry and, where a caller identity is taken, identity binding.
type SessionStore interface {
	Create(owner string) (*Session, error)
	Get(id, caller string) (*Session, error)
	Update(id string, upd SessionUpdate, caller string) error
	Mutate(id, caller string, fn func(*Session) error) (*Session, error)
	Delete(id, caller string) error
	Exists(id string) bool
	Count() int
	Sweep() int

	AddTodo(id, caller string, draft TodoDraft) (Todo, error)
	SetTodoStatus(id, caller, todoID string, status TodoStatus) (Todo, error)
	RemoveTodo(id, caller, todoID string) error
}
