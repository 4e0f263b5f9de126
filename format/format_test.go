package format_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/format"
)

var ts = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func sampleTodos() []scratchpad.Todo {
	return []scratchpad.Todo{
		{ID: "t1", Title: "write parser", Status: scratchpad.TodoPending, Tags: []string{"bug", "p1"}, CreatedAt: ts},
		{ID: "t2", Title: "docs", Description: "see README, section 2", Status: scratchpad.TodoDone, CreatedAt: ts},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := format.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, format.JSON, f)

	f, err = format.ParseFormat(" table ")
	require.NoError(t, err)
	assert.Equal(t, format.Table, f)

	_, err = format.ParseFormat("xml")
	assert.ErrorIs(t, err, scratchpad.ErrInvalidInput)
}

func TestEncodeTodosEmpty(t *testing.T) {
	out, err := format.EncodeTodos(format.JSON, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = format.EncodeTodos(format.Table, []scratchpad.Todo{})
	require.NoError(t, err)
	assert.Equal(t, "todos[0]:", out)
}

func TestEncodeTodosTable(t *testing.T) {
	out, err := format.EncodeTodos(format.Table, sampleTodos())
	require.NoError(t, err)

	want := strings.Join([]string{
		"todos[2]{id,title,status,tags,description,created_at}:",
		"  t1,write parser,pending,bug|p1,,2026-01-02T03:04:05Z",
		`  t2,docs,done,,see README\, section 2,2026-01-02T03:04:05Z`,
	}, "\n")
	assert.Equal(t, want, out)
}

func TestTableEscapesControlCharacters(t *testing.T) {
	todo := scratchpad.Todo{
		ID:          "t1",
		Title:       "line1\nline2\ttab\rcr",
		Description: `back\slash`,
		Tags:        []string{"a|b", "c,d"},
		Status:      scratchpad.TodoPending,
		CreatedAt:   ts,
	}
	out, err := format.EncodeTodos(format.Table, []scratchpad.Todo{todo})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2, "each record stays on one line")
	assert.Equal(t, `  t1,line1\nline2\ttab\rcr,pending,a\|b|c\,d,back\\slash,2026-01-02T03:04:05Z`, lines[1])
}

func TestTableDistinguishesEmptyTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"no tags", nil, ""},
		{"one empty tag", []string{""}, `""`},
		{"two empty tags", []string{"", ""}, `""|""`},
		{"literal quotes", []string{`""`}, `\"\"`},
		{"mixed", []string{"a", ""}, `a|""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := scratchpad.Todo{ID: "t1", Title: "x", Status: scratchpad.TodoPending, Tags: tt.tags, CreatedAt: ts}
			out, err := format.EncodeTodo(format.Table, todo)
			require.NoError(t, err)
			assert.Equal(t, "todo{id,title,status,tags,description,created_at}:\n  t1,x,pending,"+tt.want+",,2026-01-02T03:04:05Z", out)
		})
	}
}

func TestEncodeTodoJSON(t *testing.T) {
	out, err := format.EncodeTodo(format.JSON, sampleTodos()[1])
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "t2", m["id"])
	assert.Equal(t, "done", m["status"])
	assert.Equal(t, []any{}, m["tags"])
	assert.Equal(t, "see README, section 2", m["description"])
	assert.Equal(t, "2026-01-02T03:04:05Z", m["created_at"])
}

func TestEncodeTodoTable(t *testing.T) {
	out, err := format.EncodeTodo(format.Table, sampleTodos()[0])
	require.NoError(t, err)
	assert.Equal(t,
		"todo{id,title,status,tags,description,created_at}:\n  t1,write parser,pending,bug|p1,,2026-01-02T03:04:05Z",
		out)
}

func TestEncodeSession(t *testing.T) {
	s := scratchpad.NewSession("sess", "alice", ts)
	s.Scratchpad = "plan:\n1. parse"
	s.Todos = sampleTodos()[:1]

	out, err := format.EncodeSession(format.JSON, s)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "sess", m["id"])
	assert.Equal(t, true, m["owner_bound"])
	assert.EqualValues(t, 1, m["todo_count"])
	assert.Equal(t, "plan:\n1. parse", m["scratchpad"])
	assert.NotContains(t, out, "alice", "owner token is never echoed")

	out, err = format.EncodeSession(format.Table, s)
	require.NoError(t, err)
	want := strings.Join([]string{
		"session{id,owner_bound,created_at,last_activity,todo_count}:",
		"  sess,true,2026-01-02T03:04:05Z,2026-01-02T03:04:05Z,1",
		`scratchpad: plan:\n1. parse`,
		"todos[1]{id,title,status,tags,description,created_at}:",
		"  t1,write parser,pending,bug|p1,,2026-01-02T03:04:05Z",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestEncodeSessionEmptyTable(t *testing.T) {
	out, err := format.EncodeSession(format.Table, scratchpad.NewSession("s", "", ts))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "scratchpad: \ntodos[0]:"), out)
}

func TestEncodeScratchpad(t *testing.T) {
	out, err := format.EncodeScratchpad(format.JSON, "s1", "hi")
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"s1","scratchpad":"hi"}`, out)

	out, err = format.EncodeScratchpad(format.Table, "s1", "a,b\nc")
	require.NoError(t, err)
	assert.Equal(t, "scratchpad{session_id,content}:\n  s1,a\\,b\\nc", out)
}

func TestUnknownFormat(t *testing.T) {
	_, err := format.EncodeTodos(format.Format("yaml"), nil)
	assert.ErrorIs(t, err, scratchpad.ErrInvalidInput)
	_, err = format.EncodeSession(format.Format("yaml"), scratchpad.NewSession("s", "", ts))
	assert.ErrorIs(t, err, scratchpad.ErrInvalidInput)
}
