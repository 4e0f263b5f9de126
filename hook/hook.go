// Package hook defines public types for scratchpad hooks.
//
// Hooks are callbacks fired at session lifecycle boundaries (created,
// deleted, expired) and around tool execution. A [Matcher] binds a set of
// [Func] callbacks to one [Event] and an optional tool-name regex.
package hook

import (
	"context"
	"encoding/json"
	"time"
)

// Event identifies when a hook fires.
type Event string

const (
	SessionCreated     Event = "SessionCreated"
	SessionDeleted     Event = "SessionDeleted"
	SessionExpired     Event = "SessionExpired"
	PreToolUse         Event = "PreToolUse"
	PostToolUse        Event = "PostToolUse"
	PostToolUseFailure Event = "PostToolUseFailure"
)

// Input is passed to hook functions.
type Input struct {
	SessionID  string
	Event      Event
	ToolName   string          // Tool events only.
	ToolInput  json.RawMessage // PreToolUse, PostToolUse, PostToolUseFailure.
	ToolOutput string          // PostToolUse.
	ToolError  error           // PostToolUseFailure.

	// PostToolUse only: whether the tool returned an error result, and its
	// machine-readable code when it carried one.
	ToolIsError   bool
	ToolErrorCode string
}

// Result is returned by hook functions. A zero value means "no action".
// Only PreToolUse honours Block and UpdatedInput.
type Result struct {
	Block        bool
	Reason       string
	UpdatedInput json.RawMessage
}

// Func is the signature for hook callbacks.
type Func func(ctx context.Context, input *Input) (*Result, error)

// Matcher defines which events a set of hooks should fire for.
type Matcher struct {
	Event   Event         // Which event to match.
	Pattern string        // Regex on tool name (empty = match all). Ignored for session events.
	Hooks   []Func        // Called in order.
	Timeout time.Duration // Budget for all hooks in this matcher (0 = 5s).
}
