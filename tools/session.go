package tools

import (
	"context"
	"fmt"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/format"
)

// SessionCreateInput defines the input for the session_create tool.
type SessionCreateInput struct {
	Identity string `json:"identity,omitempty" jsonschema:"description=Optional owner token. When set every later call must present the same identity"`
	Format   string `json:"format,omitempty" jsonschema:"enum=json,enum=table,description=Output format"`
}

// SessionCreateTool creates a new session.
type SessionCreateTool struct{ base }

var _ scratchpad.Tool[SessionCreateInput] = (*SessionCreateTool)(nil)

func (t *SessionCreateTool) Name() string { return "session_create" }
func (t *SessionCreateTool) Description() string {
	return "Create a new session with an empty scratchpad and todo list. Returns the session id."
}

func (t *SessionCreateTool) Execute(_ context.Context, input SessionCreateInput) (*scratchpad.ToolResult, error) {
	f, err := t.format(input.Format)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	s, err := t.store.Create(input.Identity)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return render(format.EncodeSession(f, s))
}

// SessionGetInput defines the input for the session_get tool.
type SessionGetInput struct {
	SessionID string `json:"session_id" jsonschema:"required,description=Session id returned by session_create"`
	Identity  string `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
	Format    string `json:"format,omitempty" jsonschema:"enum=json,enum=table,description=Output format"`
}

// SessionGetTool returns a session summary with its scratchpad and todos.
type SessionGetTool struct{ base }

var _ scratchpad.Tool[SessionGetInput] = (*SessionGetTool)(nil)

func (t *SessionGetTool) Name() string { return "session_get" }
func (t *SessionGetTool) Description() string {
	return "Show a session: timestamps, scratchpad and all todos. Does not extend the session's lifetime."
}

func (t *SessionGetTool) Execute(_ context.Context, input SessionGetInput) (*scratchpad.ToolResult, error) {
	f, err := t.format(input.Format)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := requireSessionID(input.SessionID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	s, err := t.store.Get(input.SessionID, input.Identity)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return render(format.EncodeSession(f, s))
}

// SessionDeleteInput defines the input for the session_delete tool.
type SessionDeleteInput struct {
	SessionID string `json:"session_id" jsonschema:"required,description=Session to delete"`
	Identity  string `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
}

// SessionDeleteTool removes a session and everything in it.
type SessionDeleteTool struct{ base }

var _ scratchpad.Tool[SessionDeleteInput] = (*SessionDeleteTool)(nil)

func (t *SessionDeleteTool) Name() string { return "session_delete" }
func (t *SessionDeleteTool) Description() string {
	return "Delete a session together with its scratchpad and todos."
}

func (t *SessionDeleteTool) Execute(_ context.Context, input SessionDeleteInput) (*scratchpad.ToolResult, error) {
	if err := requireSessionID(input.SessionID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := t.store.Delete(input.SessionID, input.Identity); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return scratchpad.TextResult(fmt.Sprintf("session %s deleted", input.SessionID)), nil
}
