package mcp

// Option configures a Server.
type Option func(*options)

type options struct {
	toolPrefix string
}

// WithToolPrefix namespaces every advertised tool as {prefix}__{tool}.
// Calls are mapped back to the registry name before execution.
func WithToolPrefix(prefix string) Option {
	return func(o *options) {
		o.toolPrefix = prefix
	}
}

// ToolName returns the advertised name for a registry tool.
func ToolName(prefix, tool string) string {
	if prefix == "" {
		return tool
	}
	return prefix + "__" + tool
}
