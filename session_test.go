package scratchpad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestParseTodoStatus(t *testing.T) {
	s, err := ParseTodoStatus(" Done ")
	require.NoError(t, err)
	assert.Equal(t, TodoDone, s)

	s, err = ParseTodoStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, TodoPending, s)

	_, err = ParseTodoStatus("in_progress")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewSession(t *testing.T) {
	s := NewSession("abc", "", epoch)
	assert.Equal(t, "abc", s.ID)
	assert.Empty(t, s.Scratchpad)
	assert.NotNil(t, s.Todos)
	assert.Empty(t, s.Todos)
	assert.Equal(t, epoch, s.CreatedAt)
	assert.Equal(t, epoch, s.LastActivity)
	assert.False(t, s.OwnerBound())
}

func TestCheckIdentity(t *testing.T) {
	unbound := NewSession("u", "", epoch)
	assert.NoError(t, unbound.CheckIdentity(""))
	assert.NoError(t, unbound.CheckIdentity("anyone"))

	bound := NewSession("b", "alice", epoch)
	assert.True(t, bound.OwnerBound())
	assert.NoError(t, bound.CheckIdentity("alice"))
	assert.ErrorIs(t, bound.CheckIdentity("bob"), ErrIdentityMismatch)
	assert.ErrorIs(t, bound.CheckIdentity(""), ErrIdentityMismatch)
	assert.ErrorIs(t, bound.CheckIdentity("Alice"), ErrIdentityMismatch)
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession("abc", "", epoch)
	s.Scratchpad = "notes"
	s.Todos = append(s.Todos, TodoDraft{Title: "t", Tags: []string{"x"}}.Todo("t1", epoch))

	c := s.Clone()
	c.Scratchpad = "changed"
	c.Todos[0].Title = "changed"
	c.Todos[0].Tags[0] = "changed"
	c.Todos = append(c.Todos, Todo{ID: "t2"})

	assert.Equal(t, "notes", s.Scratchpad)
	require.Len(t, s.Todos, 1)
	assert.Equal(t, "t", s.Todos[0].Title)
	assert.Equal(t, []string{"x"}, s.Todos[0].Tags)
}

func TestTodoDraft(t *testing.T) {
	assert.ErrorIs(t, TodoDraft{Title: "   "}.Validate(), ErrInvalidInput)
	assert.NoError(t, TodoDraft{Title: "write tests"}.Validate())

	tags := []string{"a"}
	todo := TodoDraft{Title: "t", Description: "d", Tags: tags}.Todo("id1", epoch)
	tags[0] = "mutated"

	assert.Equal(t, Todo{
		ID:          "id1",
		Title:       "t",
		Description: "d",
		Tags:        []string{"a"},
		Status:      TodoPending,
		CreatedAt:   epoch,
	}, todo)
}

func TestSessionUpdateApply(t *testing.T) {
	s := NewSession("abc", "", epoch)
	s.Todos = []Todo{{ID: "keep"}}

	notes := "hello"
	SessionUpdate{Scratchpad: &notes}.Apply(s)
	assert.Equal(t, "hello", s.Scratchpad)
	assert.Len(t, s.Todos, 1, "todos untouched without ReplaceTodos")

	SessionUpdate{ReplaceTodos: true}.Apply(s)
	assert.Equal(t, "hello", s.Scratchpad, "nil scratchpad leaves content alone")
	assert.Empty(t, s.Todos)

	empty := ""
	SessionUpdate{Scratchpad: &empty}.Apply(s)
	assert.Equal(t, "", s.Scratchpad)
	assert.Equal(t, epoch, s.LastActivity)
}

func TestSessionUpdateApplyCopiesTags(t *testing.T) {
	s := NewSession("abc", "", epoch)
	todos := []Todo{{ID: "t1", Title: "a", Status: TodoPending, Tags: []string{"orig"}}}

	SessionUpdate{Todos: todos, ReplaceTodos: true}.Apply(s)
	todos[0].Tags[0] = "mutated"

	assert.Equal(t, []string{"orig"}, s.Todos[0].Tags)
}

func TestSessionUpdateValidate(t *testing.T) {
	valid := Todo{ID: "t1", Title: "a", Status: TodoPending}

	assert.NoError(t, SessionUpdate{}.Validate())
	assert.NoError(t, SessionUpdate{Todos: []Todo{{}}}.Validate(), "todos ignored without ReplaceTodos")
	assert.NoError(t, SessionUpdate{ReplaceTodos: true}.Validate())
	assert.NoError(t, SessionUpdate{Todos: []Todo{valid, {ID: "t2", Title: "b", Status: TodoDone}}, ReplaceTodos: true}.Validate())

	dup := valid
	dup.Title = "other"
	err := SessionUpdate{Todos: []Todo{valid, dup}, ReplaceTodos: true}.Validate()
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), `duplicate id "t1"`)
}
