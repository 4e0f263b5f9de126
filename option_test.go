package scratchpad

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRegistryOptionsDefaults(t *testing.T) {
	o := resolveRegistryOptions(nil)
	assert.False(t, o.loggerSet)
	assert.Equal(t, zerolog.Disabled, o.logger.GetLevel())
}

func TestWithToolLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	registry := NewToolRegistry(WithToolLogger(logger))
	RegisterTool[echoInput](registry, &mockEchoTool{})

	_, err := registry.Execute(context.Background(), "echo", json.RawMessage(`{"session_id":"s1","text":"x"}`))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "tool_registry", line["component"])
	assert.Equal(t, "echo", line["tool"])
	assert.Equal(t, "s1", line["session_id"])
	assert.NotEmpty(t, line["call_id"])
	assert.Equal(t, "tool executed", line["message"])
}
