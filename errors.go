package scratchpad

import "errors"

// Sentinel errors returned by session stores and tool handlers.
var (
	// ErrNotFound is returned when a session or todo id does not resolve to a
	// live record. Expired records report the same error as missing ones.
	ErrNotFound = errors.New("scratchpad: not found")

	// ErrIdentityMismatch is returned when a session has a bound owner and the
	// caller's identity does not match it exactly, including an empty identity.
	ErrIdentityMismatch = errors.New("scratchpad: identity mismatch")

	// ErrIDGenerationExhausted is returned when no unused identifier could be
	// drawn within MaxIDAttempts.
	ErrIDGenerationExhausted = errors.New("scratchpad: id generation exhausted")

	// ErrInvalidInput is returned for malformed tool or store arguments.
	ErrInvalidInput = errors.New("scratchpad: invalid input")
)

// Machine-readable error codes surfaced to tool-calling clients.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeIdentityMismatch      = "IDENTITY_MISMATCH"
	CodeIDGenerationExhausted = "ID_GENERATION_EXHAUSTED"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInternal              = "INTERNAL"
)

// ErrorCode maps err to one of the Code* constants. It returns "" for nil.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrIdentityMismatch):
		return CodeIdentityMismatch
	case errors.Is(err, ErrIDGenerationExhausted):
		return CodeIDGenerationExhausted
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}
