package tools

import (
	"context"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/format"
)

// ScratchpadReadInput defines the input for the scratchpad_read tool.
type ScratchpadReadInput struct {
	SessionID string `json:"session_id" jsonschema:"required,description=Session to read from"`
	Identity  string `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
	Format    string `json:"format,omitempty" jsonschema:"enum=json,enum=table,description=Output format"`
}

// ScratchpadReadTool returns the scratchpad text of a session.
type ScratchpadReadTool struct{ base }

var _ scratchpad.Tool[ScratchpadReadInput] = (*ScratchpadReadTool)(nil)

func (t *ScratchpadReadTool) Name() string        { return "scratchpad_read" }
func (t *ScratchpadReadTool) Description() string { return "Read the scratchpad text of a session." }

func (t *ScratchpadReadTool) Execute(_ context.Context, input ScratchpadReadInput) (*scratchpad.ToolResult, error) {
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
	return render(format.EncodeScratchpad(f, s.ID, s.Scratchpad))
}

// ScratchpadWriteInput defines the input for the scratchpad_write tool.
type ScratchpadWriteInput struct {
	SessionID string `json:"session_id" jsonschema:"required,description=Session to write to"`
	Content   string `json:"content" jsonschema:"required,description=New scratchpad text. Replaces the previous content"`
	Identity  string `json:"identity,omitempty" jsonschema:"description=Caller identity token"`
	Format    string `json:"format,omitempty" jsonschema:"enum=json,enum=table,description=Output format"`
}

// ScratchpadWriteTool replaces the scratchpad text of a session.
type ScratchpadWriteTool struct{ base }

var _ scratchpad.Tool[ScratchpadWriteInput] = (*ScratchpadWriteTool)(nil)

func (t *ScratchpadWriteTool) Name() string { return "scratchpad_write" }
func (t *ScratchpadWriteTool) Description() string {
	return "Replace the scratchpad text of a session. Empty content clears it."
}

func (t *ScratchpadWriteTool) Execute(_ context.Context, input ScratchpadWriteInput) (*scratchpad.ToolResult, error) {
	f, err := t.format(input.Format)
	if err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	if err := requireSessionID(input.SessionID); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	content := input.Content
	upd := scratchpad.SessionUpdate{Scratchpad: &content}
	if err := t.store.Update(input.SessionID, upd, input.Identity); err != nil {
		return scratchpad.ErrorResultFor(err), nil
	}
	return render(format.EncodeScratchpad(f, input.SessionID, content))
}
