// Package permission decides which scratchpad tools a server will run.
//
// A Checker combines a Mode with declarative glob Rules and is installed on a
// ToolRegistry as a PreToolUse hook, so denied calls come back as blocked
// error results without reaching the store.
package permission

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/armatrix/agent-scratchpad/hook"
)

// Decision represents the outcome of a permission check.
type Decision int

const (
	Allow Decision = iota // Tool execution is permitted
	Deny                  // Tool execution is blocked
)

func (d Decision) String() string {
	if d == Deny {
		return "deny"
	}
	return "allow"
}

// Mode controls the default permission behavior.
type Mode int

const (
	ModeDefault  Mode = iota // all tools allowed unless a rule denies
	ModeReadOnly             // only ReadOnlyTools allowed
)

// Func is a user-provided permission callback.
type Func func(ctx context.Context, toolName string, input json.RawMessage) (Decision, error)

// ReadOnlyTools lists tools that never change a session.
var ReadOnlyTools = map[string]bool{
	"session_get":     true,
	"scratchpad_read": true,
	"todo_list":       true,
}

// Checker evaluates whether a tool can be used.
type Checker struct {
	mode       Mode
	rules      []Rule
	canUseTool Func // Optional callback consulted after rules and mode allow
}

// NewChecker creates a permission checker. rules are validated up front.
func NewChecker(mode Mode, rules []Rule, canUseTool Func) (*Checker, error) {
	for i, r := range rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("permission: rule[%d]: %w", i, err)
		}
	}
	return &Checker{mode: mode, rules: rules, canUseTool: canUseTool}, nil
}

// Check evaluates whether the named tool with the given input is allowed.
// A matching deny rule always wins; then the mode; then the callback.
func (c *Checker) Check(ctx context.Context, toolName string, input json.RawMessage) (Decision, error) {
	if d, ok := MatchRules(c.rules, toolName); ok && d == Deny {
		return Deny, nil
	}
	if c.mode == ModeReadOnly && !ReadOnlyTools[toolName] {
		return Deny, nil
	}
	if c.canUseTool != nil {
		return c.canUseTool(ctx, toolName, input)
	}
	return Allow, nil
}

// Mode returns the current permission mode.
func (c *Checker) Mode() Mode {
	return c.mode
}

// Matcher returns a PreToolUse hook matcher that blocks denied calls.
func (c *Checker) Matcher() hook.Matcher {
	return hook.Matcher{
		Event: hook.PreToolUse,
		Hooks: []hook.Func{func(ctx context.Context, in *hook.Input) (*hook.Result, error) {
			d, err := c.Check(ctx, in.ToolName, in.ToolInput)
			if err != nil {
				return nil, err
			}
			if d == Deny {
				return &hook.Result{Block: true, Reason: fmt.Sprintf("tool %s is not permitted", in.ToolName)}, nil
			}
			return nil, nil
		}},
	}
}
