// Package format renders sessions and todos for tool responses.
//
// Two encodings are supported. [JSON] is plain encoding/json output with
// snake_case keys. [Table] is a compact line-oriented layout that keeps every
// record on one line:
//
//	todos[2]{id,title,status,tags,description,created_at}:
//	  Xy3_k9Qa,write parser,pending,bug|p1,,2026-01-02T03:04:05Z
//	  b7-LmN0p,docs,done,,see README\, section 2,2026-01-02T03:05:00Z
//
// Free text is escaped so that commas, newlines and tag separators never
// break a row. An empty tags cell means no tags; an empty tag is written as
// "" and a literal quote inside a tag as \".
package format

import (
	"fmt"
	"strings"
	"time"

	scratchpad "github.com/armatrix/agent-scratchpad"
)

// Format selects an output encoding.
type Format string

const (
	JSON  Format = "json"
	Table Format = "table"
)

// ParseFormat converts s to a Format. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case JSON:
		return JSON, nil
	case Table:
		return Table, nil
	default:
		return "", fmt.Errorf("%w: format %q must be json|table", scratchpad.ErrInvalidInput, s)
	}
}

// EncodeSession renders a session summary with its scratchpad and todos.
func EncodeSession(f Format, s *scratchpad.Session) (string, error) {
	switch f {
	case JSON:
		return marshal(newSessionView(s))
	case Table:
		var b strings.Builder
		b.WriteString("session{id,owner_bound,created_at,last_activity,todo_count}:\n  ")
		writeRow(&b,
			escape(s.ID),
			fmt.Sprint(s.OwnerBound()),
			timestamp(s.CreatedAt),
			timestamp(s.LastActivity),
			fmt.Sprint(len(s.Todos)),
		)
		b.WriteString("\nscratchpad: ")
		b.WriteString(escape(s.Scratchpad))
		b.WriteString("\n")
		writeTodos(&b, s.Todos)
		return strings.TrimSuffix(b.String(), "\n"), nil
	default:
		return "", unknown(f)
	}
}

// EncodeTodo renders a single todo.
func EncodeTodo(f Format, t scratchpad.Todo) (string, error) {
	switch f {
	case JSON:
		return marshal(newTodoView(t))
	case Table:
		var b strings.Builder
		b.WriteString("todo{" + todoFields + "}:\n  ")
		writeTodoRow(&b, t)
		return b.String(), nil
	default:
		return "", unknown(f)
	}
}

// EncodeTodos renders an ordered todo list. An empty list is `[]` in JSON
// and a bare `todos[0]:` header in Table.
func EncodeTodos(f Format, todos []scratchpad.Todo) (string, error) {
	switch f {
	case JSON:
		return marshal(newTodoViews(todos))
	case Table:
		var b strings.Builder
		writeTodos(&b, todos)
		return strings.TrimSuffix(b.String(), "\n"), nil
	default:
		return "", unknown(f)
	}
}

// EncodeScratchpad renders the scratchpad content of one session.
func EncodeScratchpad(f Format, sessionID, content string) (string, error) {
	switch f {
	case JSON:
		return marshal(scratchpadView{SessionID: sessionID, Scratchpad: content})
	case Table:
		var b strings.Builder
		b.WriteString("scratchpad{session_id,content}:\n  ")
		writeRow(&b, escape(sessionID), escape(content))
		return b.String(), nil
	default:
		return "", unknown(f)
	}
}

func unknown(f Format) error {
	return fmt.Errorf("%w: unknown format %q", scratchpad.ErrInvalidInput, string(f))
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
