// Package mcp exposes a scratchpad ToolRegistry as a Model Context Protocol
// server over stdio, using github.com/mark3labs/mcp-go.
//
// Every registered tool is advertised with its generated JSON schema. Calls
// are routed through ToolRegistry.Execute, so registry hooks and logging
// apply to MCP traffic exactly as they do to in-process calls.
//
//	srv, err := mcp.NewServer("scratchpad", "1.0.0", registry, logger)
//	if err != nil { ... }
//	err = srv.ServeStdio(ctx, os.Stdin, os.Stdout)
package mcp
