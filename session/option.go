package session

import (
	"time"

	"github.com/rs/zerolog"

	scratchpad "github.com/armatrix/agent-scratchpad"
)

// Option configures a MemoryStore via the functional options pattern.
type Option func(*options)

type options struct {
	ttl           time.Duration
	sweepInterval time.Duration
	idLength      int
	todoIDLength  int
	idGen         scratchpad.IDGenerator
	now           func() time.Time
	logger        zerolog.Logger
	loggerSet     bool
}

// applyDefaults fills in zero or non-positive fields.
func (o *options) applyDefaults() {
	if o.ttl <= 0 {
		o.ttl = scratchpad.DefaultTTL
	}
	if o.sweepInterval <= 0 {
		o.sweepInterval = scratchpad.DefaultSweepInterval
	}
	if o.idLength <= 0 {
		o.idLength = scratchpad.DefaultIDLength
	}
	if o.todoIDLength <= 0 {
		o.todoIDLength = scratchpad.DefaultTodoIDLength
	}
	if o.idGen == nil {
		o.idGen = scratchpad.RandomID
	}
	if o.now == nil {
		o.now = time.Now
	}
	if !o.loggerSet {
		o.logger = zerolog.Nop()
	}
}

func resolveOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return o
}

// WithTTL sets the idle duration after which a session expires.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithSweepInterval sets the period of the background sweeper.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweepInterval = d }
}

// WithIDLength sets the length of generated session ids.
func WithIDLength(n int) Option {
	return func(o *options) { o.idLength = n }
}

// WithTodoIDLength sets the length of generated todo ids.
func WithTodoIDLength(n int) Option {
	return func(o *options) { o.todoIDLength = n }
}

// WithIDGenerator replaces the random id source.
func WithIDGenerator(gen scratchpad.IDGenerator) Option {
	return func(o *options) { o.idGen = gen }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.loggerSet = true
	}
}
