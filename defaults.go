package scratchpad

import "time"

// Store and id defaults.
const (
	// DefaultTTL is how long a session may sit idle before it expires.
	DefaultTTL = 24 * time.Hour

	// DefaultSweepInterval is the period of the background expiry sweep.
	DefaultSweepInterval = time.Hour

	// DefaultIDLength is the length of session ids.
	DefaultIDLength = 21

	// DefaultTodoIDLength is the length of todo ids. Todo ids only need to be
	// unique within their session.
	DefaultTodoIDLength = 8

	// MaxIDAttempts bounds redraws on id collision.
	MaxIDAttempts = 10
)
