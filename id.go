package scratchpad

import (
	"crypto/rand"
	"fmt"
)

// IDAlphabet is the 64-symbol URL-safe alphabet ids are drawn from.
const IDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// IDGenerator draws a candidate identifier of the given length.
type IDGenerator func(length int) (string, error)

// RandomID is the default IDGenerator. Each symbol takes the low six bits of
// one byte from crypto/rand, which is uniform because len(IDAlphabet) == 64.
func RandomID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: id length %d", ErrInvalidInput, length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("scratchpad: read random: %w", err)
	}
	for i := range b {
		b[i] = IDAlphabet[b[i]&63]
	}
	return string(b), nil
}

// UniqueID draws ids from gen until taken reports one as free. It gives up
// with ErrIDGenerationExhausted after MaxIDAttempts draws.
func UniqueID(gen IDGenerator, length int, taken func(string) bool) (string, error) {
	if gen == nil {
		gen = RandomID
	}
	for attempt := 0; attempt < MaxIDAttempts; attempt++ {
		id, err := gen(length)
		if err != nil {
			return "", err
		}
		if !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIDGenerationExhausted, MaxIDAttempts)
}
