package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	scratchpad "github.com/armatrix/agent-scratchpad"
	"github.com/armatrix/agent-scratchpad/format"
	"github.com/armatrix/agent-scratchpad/session"
)

// extractText gets the text content from a ToolResult's first content block.
func extractText(r *scratchpad.ToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	// The content block is a union; marshal and extract the text field.
	b, err := json.Marshal(r.Content[0])
	if err != nil {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return ""
	}
	if text, ok := m["text"].(string); ok {
		return text
	}
	return ""
}

type harness struct {
	t        *testing.T
	store    *session.MemoryStore
	registry *scratchpad.ToolRegistry
}

func newHarness(t *testing.T, defaultFormat format.Format) *harness {
	t.Helper()
	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	registry := scratchpad.NewToolRegistry()
	RegisterAll(registry, store, Options{DefaultFormat: defaultFormat})
	return &harness{t: t, store: store, registry: registry}
}

// call executes a tool and returns its result text and error flag.
func (h *harness) call(name string, args map[string]any) (string, bool) {
	h.t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(h.t, err)
	result, err := h.registry.Execute(context.Background(), name, raw)
	require.NoError(h.t, err)
	require.NotNil(h.t, result)
	return extractText(result), result.IsError
}

// ok executes a tool that must succeed and decodes its JSON output into v.
func (h *harness) ok(name string, args map[string]any, v any) {
	h.t.Helper()
	text, isErr := h.call(name, args)
	require.False(h.t, isErr, "%s failed: %s", name, text)
	if v != nil {
		require.NoError(h.t, json.Unmarshal([]byte(text), v), text)
	}
}

type sessionOut struct {
	ID         string    `json:"id"`
	OwnerBound bool      `json:"owner_bound"`
	Scratchpad string    `json:"scratchpad"`
	TodoCount  int       `json:"todo_count"`
	Todos      []todoOut `json:"todos"`
}

type todoOut struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

type scratchpadOut struct {
	SessionID  string `json:"session_id"`
	Scratchpad string `json:"scratchpad"`
}

func titles(todos []todoOut) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}
