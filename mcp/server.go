package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	scratchpad "github.com/armatrix/agent-scratchpad"
)

// Server bridges a ToolRegistry onto an MCP server.
type Server struct {
	mcp      *server.MCPServer
	registry *scratchpad.ToolRegistry
	logger   zerolog.Logger
	tools    []string
}

// NewServer builds an MCP server advertising every tool currently in
// registry. Tools registered afterwards are not picked up.
func NewServer(name, version string, registry *scratchpad.ToolRegistry, logger zerolog.Logger, opts ...Option) (*Server, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	s := &Server{
		mcp: server.NewMCPServer(name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		registry: registry,
		logger:   logger.With().Str("component", "mcp").Logger(),
	}

	for _, def := range registry.Definitions() {
		schema, err := def.SchemaJSON()
		if err != nil {
			return nil, fmt.Errorf("mcp: schema for %s: %w", def.Name, err)
		}
		advertised := ToolName(o.toolPrefix, def.Name)
		tool := mcpgo.NewToolWithRawSchema(advertised, def.Description, schema)
		s.mcp.AddTool(tool, s.handler(def.Name))
		s.tools = append(s.tools, advertised)
	}
	s.logger.Debug().Strs("tools", s.tools).Msg("mcp tools registered")
	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ToolNames returns the advertised tool names in registration order.
func (s *Server) ToolNames() []string {
	names := make([]string, len(s.tools))
	copy(names, s.tools)
	return names
}

// ServeStdio serves JSON-RPC over in/out until ctx is done or in reaches EOF.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.logger, "", 0))

	s.logger.Info().Int("tools", len(s.tools)).Msg("serving mcp over stdio")
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		raw := json.RawMessage("{}")
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcpgo.NewToolResultError(scratchpad.ErrorResultFor(
					fmt.Errorf("%w: %s", scratchpad.ErrInvalidInput, err.Error())).Text()), nil
			}
			raw = data
		}

		result, err := s.registry.Execute(ctx, name, raw)
		if err != nil {
			s.logger.Error().Err(err).Str("tool", name).Msg("tool call failed")
			return mcpgo.NewToolResultError(scratchpad.ErrorResultFor(err).Text()), nil
		}
		if result.IsError {
			return mcpgo.NewToolResultError(result.Text()), nil
		}
		return mcpgo.NewToolResultText(result.Text()), nil
	}
}
