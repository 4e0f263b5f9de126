package tools

import (
	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/format"
)

// Options configures the handlers installed by RegisterAll.
type Options struct {
	// DefaultFormat is used when a call omits "format". Zero means JSON.
	DefaultFormat format.Format
}

// RegisterAll registers every scratchpad tool into the provided registry.
func RegisterAll(registry *scratchpad.ToolRegistry, store scratchpad.SessionStore, opts Options) {
	b := newBase(store, opts)
	scratchpad.RegisterTool(registry, &SessionCreateTool{b})
	scratchpad.RegisterTool(registry, &SessionGetTool{b})
	scratchpad.RegisterTool(registry, &SessionDeleteTool{b})
	scratchpad.RegisterTool(registry, &ScratchpadReadTool{b})
	scratchpad.RegisterTool(registry, &ScratchpadWriteTool{b})
	scratchpad.RegisterTool(registry, &TodoAddTool{b})
	scratchpad.RegisterTool(registry, &TodoListTool{b})
	scratchpad.RegisterTool(registry, &TodoUpdateTool{b})
	scratchpad.RegisterTool(registry, &TodoDeleteTool{b})
}
