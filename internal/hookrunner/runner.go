// Package hookrunner provides the internal runner that executes hook matchers.
package hookrunner

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/armatrix/agent-scratchpad/hook"
)

const defaultTimeout = 5 * time.Second

// Runner executes hooks matched by event and tool name.
type Runner struct {
	matchers []matcherEntry
}

type matcherEntry struct {
	event   hook.Event
	pattern *regexp.Regexp // nil = match all tools
	hooks   []hook.Func
	timeout time.Duration
}

// New creates a Runner from public Matcher definitions.
// Returns an error if any regex pattern is invalid.
func New(matchers []hook.Matcher) (*Runner, error) {
	entries := make([]matcherEntry, 0, len(matchers))
	for i, m := range matchers {
		entry := matcherEntry{
			event:   m.Event,
			hooks:   m.Hooks,
			timeout: m.Timeout,
		}
		if entry.timeout <= 0 {
			entry.timeout = defaultTimeout
		}
		if m.Pattern != "" {
			re, err := regexp.Compile(m.Pattern)
			if err != nil {
				return nil, fmt.Errorf("matcher[%d]: invalid pattern %q: %w", i, m.Pattern, err)
			}
			entry.pattern = re
		}
		entries = append(entries, entry)
	}
	return &Runner{matchers: entries}, nil
}

// Has reports whether any matcher is registered for event.
func (r *Runner) Has(event hook.Event) bool {
	for _, m := range r.matchers {
		if m.event == event {
			return true
		}
	}
	return false
}

// RunSessionEvent fires SessionCreated, SessionDeleted or SessionExpired hooks.
func (r *Runner) RunSessionEvent(ctx context.Context, event hook.Event, sessionID string) error {
	_, err := r.run(ctx, "", &hook.Input{SessionID: sessionID, Event: event})
	return err
}

// RunPreToolUse runs all matching PreToolUse hooks. First block wins;
// UpdatedInput from the last hook that set one wins.
func (r *Runner) RunPreToolUse(ctx context.Context, sessionID, toolName string, input json.RawMessage) (*hook.Result, error) {
	return r.run(ctx, toolName, &hook.Input{
		SessionID: sessionID,
		Event:     hook.PreToolUse,
		ToolName:  toolName,
		ToolInput: input,
	})
}

// RunPostToolUse runs all matching PostToolUse hooks. errorCode is only
// meaningful when isError is set.
func (r *Runner) RunPostToolUse(ctx context.Context, sessionID, toolName string, input json.RawMessage, output string, isError bool, errorCode string) error {
	_, err := r.run(ctx, toolName, &hook.Input{
		SessionID:     sessionID,
		Event:         hook.PostToolUse,
		ToolName:      toolName,
		ToolInput:     input,
		ToolOutput:    output,
		ToolIsError:   isError,
		ToolErrorCode: errorCode,
	})
	return err
}

// RunPostToolFailure runs all matching PostToolUseFailure hooks.
func (r *Runner) RunPostToolFailure(ctx context.Context, sessionID, toolName string, input json.RawMessage, toolErr error) error {
	_, err := r.run(ctx, toolName, &hook.Input{
		SessionID: sessionID,
		Event:     hook.PostToolUseFailure,
		ToolName:  toolName,
		ToolInput: input,
		ToolError: toolErr,
	})
	return err
}

func (r *Runner) run(ctx context.Context, toolName string, input *hook.Input) (*hook.Result, error) {
	var combined *hook.Result

	for _, entry := range r.matchers {
		if entry.event != input.Event {
			continue
		}
		if toolName != "" && entry.pattern != nil && !entry.pattern.MatchString(toolName) {
			continue
		}

		tctx, cancel := context.WithTimeout(ctx, entry.timeout)
		res, err := runHooks(tctx, entry.hooks, input)
		cancel()

		if err != nil {
			return combined, err
		}
		combined = merge(combined, res)
		if combined != nil && combined.Block {
			break
		}
	}

	return combined, nil
}

// runHooks executes hooks in order, stopping at the first block or when ctx ends.
func runHooks(ctx context.Context, hooks []hook.Func, input *hook.Input) (*hook.Result, error) {
	var combined *hook.Result

	for _, fn := range hooks {
		if err := ctx.Err(); err != nil {
			return combined, err
		}

		res, err := fn(ctx, input)
		if err != nil {
			return combined, err
		}
		combined = merge(combined, res)
		if combined != nil && combined.Block {
			return combined, nil
		}
	}

	return combined, nil
}

func merge(into, res *hook.Result) *hook.Result {
	if res == nil {
		return into
	}
	if into == nil {
		into = &hook.Result{}
	}
	if res.Block && !into.Block {
		into.Block = true
		into.Reason = res.Reason
	}
	if res.UpdatedInput != nil {
		into.UpdatedInput = res.UpdatedInput
	}
	return into
}
