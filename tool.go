package scratchpad

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/armatrix/agent-scratchpad/hook"
	"github.com/armatrix/agent-scratchpad/internal/hookrunner"
	"github.com/armatrix/agent-scratchpad/internal/schema"
)

// Tool is the generic interface for scratchpad tools. The type parameter T
// defines the input struct that is deserialized from the call's JSON arguments.
type Tool[T any] interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input T) (*ToolResult, error)
}

// ToolResult is the output of a tool execution.
type ToolResult struct {
	Content  []anthropic.ContentBlockParamUnion
	IsError  bool
	Metadata map[string]any
}

// TextResult is a convenience constructor for a text-only tool result.
func TextResult(text string) *ToolResult {
	return &ToolResult{
		Content: []anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock(text),
		},
	}
}

// ErrorResult is a convenience constructor for an error tool result.
func ErrorResult(text string) *ToolResult {
	return &ToolResult{
		Content: []anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock(text),
		},
		IsError: true,
	}
}

// ErrorResultFor turns err into an error result of the form
// "error: CODE: message", with the code also stored under Metadata["code"].
func ErrorResultFor(err error) *ToolResult {
	code := ErrorCode(err)
	r := ErrorResult(fmt.Sprintf("error: %s: %s", code, err.Error()))
	r.Metadata = map[string]any{"code": code}
	return r
}

// Code returns the machine-readable code of an error result, or "" when the
// result is not an error or carries no code.
func (r *ToolResult) Code() string {
	if r == nil || !r.IsError {
		return ""
	}
	code, _ := r.Metadata["code"].(string)
	return code
}

// Text concatenates the text blocks of the result.
func (r *ToolResult) Text() string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, block := range r.Content {
		if text := block.GetText(); text != nil {
			parts = append(parts, *text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolDefinition describes a registered tool independently of any API.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
}

// SchemaJSON returns the input schema as a standalone JSON Schema object.
func (d ToolDefinition) SchemaJSON() (json.RawMessage, error) {
	doc := map[string]any{"type": "object"}
	if d.InputSchema.Properties != nil {
		doc["properties"] = d.InputSchema.Properties
	} else {
		doc["properties"] = map[string]any{}
	}
	if len(d.InputSchema.Required) > 0 {
		doc["required"] = d.InputSchema.Required
	}
	return json.Marshal(doc)
}

// toolEntry is the type-erased wrapper stored in the registry.
type toolEntry struct {
	def     ToolDefinition
	execute func(ctx context.Context, raw json.RawMessage) (*ToolResult, error)
}

// ToolRegistry manages registered tools. It is concurrent-safe.
type ToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]*toolEntry
	order  []string // preserve registration order
	logger zerolog.Logger
	hooks  atomic.Pointer[hookrunner.Runner]
}

// NewToolRegistry creates a new empty ToolRegistry.
func NewToolRegistry(opts ...RegistryOption) *ToolRegistry {
	o := resolveRegistryOptions(opts)
	return &ToolRegistry{
		tools:  make(map[string]*toolEntry),
		logger: o.logger.With().Str("component", "tool_registry").Logger(),
	}
}

// SetHooks installs PreToolUse, PostToolUse and PostToolUseFailure hooks.
func (r *ToolRegistry) SetHooks(matchers []hook.Matcher) error {
	runner, err := hookrunner.New(matchers)
	if err != nil {
		return err
	}
	r.hooks.Store(runner)
	return nil
}

// RegisterTool registers a generic tool into the registry.
// The input type T is used to auto-generate a JSON Schema.
func RegisterTool[T any](r *ToolRegistry, tool Tool[T]) {
	r.RegisterRaw(tool.Name(), tool.Description(), schema.Generate[T](),
		func(ctx context.Context, raw json.RawMessage) (*ToolResult, error) {
			var input T
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &input); err != nil {
					return ErrorResultFor(fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())), nil
				}
			}
			return tool.Execute(ctx, input)
		})
}

// RegisterRaw registers a tool with a pre-built schema and execute function.
func (r *ToolRegistry) RegisterRaw(
	name, description string,
	inputSchema anthropic.ToolInputSchemaParam,
	execute func(ctx context.Context, raw json.RawMessage) (*ToolResult, error),
) {
	entry := &toolEntry{
		def: ToolDefinition{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
		},
		execute: execute,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = entry
}

// Execute runs a tool by name with the given raw JSON input. Hooks run around
// the tool; a blocking PreToolUse hook turns the call into an error result.
func (r *ToolRegistry) Execute(ctx context.Context, name string, input json.RawMessage) (*ToolResult, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}

	sessionID := sessionIDOf(input)
	log := r.logger.With().
		Str("tool", name).
		Str("call_id", uuid.NewString()).
		Str("session_id", sessionID).
		Logger()

	runner := r.hooks.Load()
	if runner != nil {
		pre, err := runner.RunPreToolUse(ctx, sessionID, name, input)
		if err != nil {
			return nil, fmt.Errorf("pre-tool hook: %w", err)
		}
		if pre != nil && pre.Block {
			log.Info().Str("reason", pre.Reason).Msg("tool call blocked by hook")
			return ErrorResult("blocked: " + pre.Reason), nil
		}
		if pre != nil && pre.UpdatedInput != nil {
			input = pre.UpdatedInput
		}
	}

	start := time.Now()
	result, err := entry.execute(ctx, input)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("tool failed")
		if runner != nil {
			if herr := runner.RunPostToolFailure(ctx, sessionID, name, input, err); herr != nil {
				log.Warn().Err(herr).Msg("post-tool failure hook failed")
			}
		}
		return nil, err
	}

	log.Debug().Dur("elapsed", elapsed).Bool("is_error", result.IsError).Msg("tool executed")
	if runner != nil {
		if herr := runner.RunPostToolUse(ctx, sessionID, name, input, result.Text(), result.IsError, result.Code()); herr != nil {
			log.Warn().Err(herr).Msg("post-tool hook failed")
		}
	}
	return result, nil
}

// ListForAPI returns the registered tools in the format expected by the Anthropic API.
func (r *ToolRegistry) ListForAPI() []anthropic.ToolUnionParam {
	defs := r.Definitions()
	result := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		result = append(result, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: param.NewOpt(def.Description),
				InputSchema: def.InputSchema,
			},
		})
	}
	return result
}

// Definitions returns the registered tools in registration order.
func (r *ToolRegistry) Definitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Get returns a tool definition by name.
func (r *ToolRegistry) Get(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tools[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return entry.def, true
}

// Names returns the names of all registered tools in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Search finds tools whose name or description contains the query (case-insensitive).
func (r *ToolRegistry) Search(query string) []ToolDefinition {
	q := strings.ToLower(query)
	var matches []ToolDefinition
	for _, def := range r.Definitions() {
		if strings.Contains(strings.ToLower(def.Name), q) ||
			strings.Contains(strings.ToLower(def.Description), q) {
			matches = append(matches, def)
		}
	}
	return matches
}

// sessionIDOf extracts the session_id argument for logging and hooks.
func sessionIDOf(raw json.RawMessage) string {
	var probe struct {
		SessionID string `json:"session_id"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &probe) != nil {
		return ""
	}
	return probe.SessionID
}
