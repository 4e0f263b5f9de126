package scratchpad

import "github.com/rs/zerolog"

// RegistryOption configures a ToolRegistry via the functional options pattern.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger    zerolog.Logger
	loggerSet bool
}

func resolveRegistryOptions(opts []RegistryOption) registryOptions {
	var o registryOptions
	for _, fn := range opts {
		fn(&o)
	}
	if !o.loggerSet {
		o.logger = zerolog.Nop()
	}
	return o
}

// WithToolLogger sets the logger used for per-call tool logging.
func WithToolLogger(l zerolog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = l
		o.loggerSet = true
	}
}
