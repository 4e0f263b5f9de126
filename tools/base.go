package tools

import (
	"fmt"
	"strings"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/format"
)

// base holds what every handler shares.
type base struct {
	store         scratchpad.SessionStore
	defaultFormat format.Format
}

func newBase(store scratchpad.SessionStore, opts Options) base {
	f := opts.DefaultFormat
	if f == "" {
		f = format.JSON
	}
	return base{store: store, defaultFormat: f}
}

// format resolves the per-call output format.
func (b base) format(requested string) (format.Format, error) {
	if strings.TrimSpace(requested) == "" {
		return b.defaultFormat, nil
	}
	return format.ParseFormat(requested)
}

// render turns an encoder's output into a tool result.
func render(out string, err error) (*scratchpad.ToolResult, error) {
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return scratchpad.TextResult(out), nil
}

func requireSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: session_id is required", scratchpad.ErrInvalidInput)
	}
	return nil
}

func requireTodoID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: todo_id is required", scratchpad.ErrInvalidInput)
	}
	return nil
}
