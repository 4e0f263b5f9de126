// Package tools provides the scratchpad tool handlers.
//
// Each handler validates its typed input, calls one store operation and
// renders the result with the format package. Store errors come back as
// error results whose text starts with "error: <CODE>:", so clients can tell
// NOT_FOUND apart from IDENTITY_MISMATCH.
//
// Use [RegisterAll] to install every handler:
//
//	store := session.NewMemoryStore()
//	registry := scratchpad.NewToolRegistry()
//	tools.RegisterAll(registry, store, tools.Options{})
package tools
