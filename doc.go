// Package scratchpad provides ephemeral per-agent working memory: a
// scratchpad and an ordered todo list addressed by an opaque session id.
//
// The core contract is [SessionStore]. Every store operation enforces the
// idle TTL (measured from [Session.LastActivity]) and, for sessions created
// with an owner, exact identity binding. Errors are the sentinels in this
// package and map to client-facing codes with [ErrorCode].
//
// # Quick Start
//
//	store := session.NewMemoryStore(session.WithTTL(time.Hour))
//	store.Start(ctx)
//	defer store.Close()
//
//	registry := scratchpad.NewToolRegistry()
//	tools.RegisterAll(registry, store, tools.Options{})
//	result, err := registry.Execute(ctx, "session_create", json.RawMessage(`{}`))
//
// # Sub-packages
//
//   - [session] provides the in-memory SessionStore with its expiry sweeper.
//   - [tools] provides the tool handlers (session, scratchpad and todo tools).
//   - [format] renders sessions and todos as JSON or compact tables.
//   - [mcp] serves a ToolRegistry over MCP stdio.
//   - [hook] provides hook types for session lifecycle and tool execution.
//   - [permission] provides tool access policies.
package scratchpad
