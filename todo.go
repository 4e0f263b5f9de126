package scratchpad

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// TodoFilter selects todos by criteria. The zero value selects everything.
type TodoFilter struct {
	Status *TodoStatus

	// Tag is a doublestar glob matched against each tag, e.g. "bug/*".
	// A todo is selected when any of its tags matches.
	Tag string
}

// HasTodo reports whether a todo with the given id exists in s.
func (s *Session) HasTodo(id string) bool {
	return s.todoIndex(id) >= 0
}

// FindTodo returns a copy of the todo with the given id.
func (s *Session) FindTodo(id string) (Todo, error) {
	i := s.todoIndex(id)
	if i < 0 {
		return Todo{}, fmt.Errorf("todo %q: %w", id, ErrNotFound)
	}
	t := s.Todos[i]
	t.Tags = append([]string(nil), t.Tags...)
	return t, nil
}

// SetTodoStatus changes a todo's status in place, keeping its position.
func (s *Session) SetTodoStatus(id string, status TodoStatus) (Todo, error) {
	status, err := ParseTodoStatus(string(status))
	if err != nil {
		return Todo{}, err
	}
	i := s.todoIndex(id)
	if i < 0 {
		return Todo{}, fmt.Errorf("todo %q: %w", id, ErrNotFound)
	}
	s.Todos[i].Status = status
	return s.FindTodo(id)
}

// RemoveTodo deletes exactly one todo, preserving the order of the rest.
func (s *Session) RemoveTodo(id string) error {
	i := s.todoIndex(id)
	if i < 0 {
		return fmt.Errorf("todo %q: %w", id, ErrNotFound)
	}
	s.Todos = append(s.Todos[:i:i], s.Todos[i+1:]...)
	return nil
}

// FilterTodos returns the todos matching f in list order.
func (s *Session) FilterTodos(f TodoFilter) ([]Todo, error) {
	if f.Tag != "" && !doublestar.ValidatePattern(f.Tag) {
		return nil, fmt.Errorf("%w: bad tag pattern %q", ErrInvalidInput, f.Tag)
	}
	result := make([]Todo, 0, len(s.Todos))
	for _, t := range s.Todos {
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Tag != "" && !matchAnyTag(f.Tag, t.Tags) {
			continue
		}
		t.Tags = append([]string(nil), t.Tags...)
		result = append(result, t)
	}
	return result, nil
}

func (s *Session) todoIndex(id string) int {
	for i := range s.Todos {
		if s.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

func matchAnyTag(pattern string, tags []string) bool {
	for _, tag := range tags {
		if ok, _ := doublestar.Match(pattern, tag); ok {
			return true
		}
	}
	return false
}
