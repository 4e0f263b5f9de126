package hookrunner_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armatrix/agent-scratchpad/hook"
	"github.com/armatrix/agent-scratchpad/internal/hookrunner"
)

func noop(_ context.Context, _ *hook.Input) (*hook.Result, error) {
	return nil, nil
}

func blockHook(reason string) hook.Func {
	return func(_ context.Context, _ *hook.Input) (*hook.Result, error) {
		return &hook.Result{Block: true, Reason: reason}, nil
	}
}

func TestNewInvalidPattern(t *testing.T) {
	_, err := hookrunner.New([]hook.Matcher{
		{Event: hook.PreToolUse, Pattern: "[invalid", Hooks: []hook.Func{noop}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestEmptyRunnerReturnsNil(t *testing.T) {
	r, err := hookrunner.New(nil)
	require.NoError(t, err)

	res, err := r.RunPreToolUse(context.Background(), "sess", "todo_add", nil)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.False(t, r.Has(hook.PreToolUse))
}

func TestEventMismatchSkips(t *testing.T) {
	called := false
	r, err := hookrunner.New([]hook.Matcher{
		{
			Event: hook.SessionExpired,
			Hooks: []hook.Func{
				func(_ context.Context, _ *hook.Input) (*hook.Result, error) {
					called = true
					return nil, nil
				},
			},
		},
	})
	require.NoError(t, err)

	_, err = r.RunPreToolUse(context.Background(), "sess", "todo_add", nil)
	require.NoError(t, err)
	assert.False(t, called, "SessionExpired matcher should not fire for PreToolUse")
	assert.True(t, r.Has(hook.SessionExpired))
}

func TestRegexPatternMatching(t *testing.T) {
	var matched []string
	record := func(_ context.Context, in *hook.Input) (*hook.Result, error) {
		matched = append(matched, in.ToolName)
		return nil, nil
	}

	r, err := hookrunner.New([]hook.Matcher{
		{Event: hook.PreToolUse, Pattern: `^todo_`, Hooks: []hook.Func{record}},
	})
	require.NoError(t, err)

	_, err = r.RunPreToolUse(context.Background(), "s", "todo_add", nil)
	require.NoError(t, err)
	_, err = r.RunPreToolUse(context.Background(), "s", "scratchpad_read", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"todo_add"}, matched)
}

func TestFirstBlockWins(t *testing.T) {
	thirdCalled := false
	r, err := hookrunner.New([]hook.Matcher{
		{Event: hook.PreToolUse, Hooks: []hook.Func{noop}},
		{Event: hook.PreToolUse, Hooks: []hook.Func{blockHook("reason-1")}},
		{
			Event: hook.PreToolUse,
			Hooks: []hook.Func{
				func(_ context.Context, _ *hook.Input) (*hook.Result, error) {
					thirdCalled = true
					return &hook.Result{Block: true, Reason: "reason-2"}, nil
				},
			},
		},
	})
	require.NoError(t, err)

	res, err := r.RunPreToolUse(context.Background(), "s", "todo_delete", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Block)
	assert.Equal(t, "reason-1", res.Reason)
	assert.False(t, thirdCalled)
}

func TestTimeoutEnforcement(t *testing.T) {
	r, err := hookrunner.New([]hook.Matcher{
		{
			Event:   hook.PreToolUse,
			Timeout: 50 * time.Millisecond,
			Hooks: []hook.Func{
				func(ctx context.Context, _ *hook.Input) (*hook.Result, error) {
					select {
					case <-ctx.Done():
						return nil, ctx.Err()
					case <-time.After(5 * time.Second):
						return nil, nil
					}
				},
			},
		},
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = r.RunPreToolUse(context.Background(), "s", "todo_list", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestUpdatedInputPropagation(t *testing.T) {
	r, err := hookrunner.New([]hook.Matcher{
		{
			Event: hook.PreToolUse,
			Hooks: []hook.Func{
				func(_ context.Context, _ *hook.Input) (*hook.Result, error) {
					return &hook.Result{UpdatedInput: json.RawMessage(`{"v":1}`)}, nil
				},
				func(_ context.Context, _ *hook.Input) (*hook.Result, error) {
					return &hook.Result{UpdatedInput: json.RawMessage(`{"v":2}`)}, nil
				},
			},
		},
	})
	require.NoError(t, err)

	res, err := r.RunPreToolUse(context.Background(), "s", "scratchpad_write", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.JSONEq(t, `{"v":2}`, string(res.UpdatedInput))
}

func TestRunPostToolUseAndFailure(t *testing.T) {
	var captured []*hook.Input
	capture := func(_ context.Context, in *hook.Input) (*hook.Result, error) {
		captured = append(captured, in)
		return nil, nil
	}
	r, err := hookrunner.New([]hook.Matcher{
		{Event: hook.PostToolUse, Hooks: []hook.Func{capture}},
		{Event: hook.PostToolUseFailure, Hooks: []hook.Func{capture}},
	})
	require.NoError(t, err)

	require.NoError(t, r.RunPostToolUse(context.Background(), "sess-2", "scratchpad_read", json.RawMessage(`{}`), "notes", true, "NOT_FOUND"))
	toolErr := errors.New("boom")
	require.NoError(t, r.RunPostToolFailure(context.Background(), "sess-2", "scratchpad_read", nil, toolErr))

	require.Len(t, captured, 2)
	assert.Equal(t, hook.PostToolUse, captured[0].Event)
	assert.Equal(t, "notes", captured[0].ToolOutput)
	assert.True(t, captured[0].ToolIsError)
	assert.Equal(t, "NOT_FOUND", captured[0].ToolErrorCode)
	assert.Equal(t, hook.PostToolUseFailure, captured[1].Event)
	assert.Equal(t, toolErr, captured[1].ToolError)
}

func TestRunSessionEventIgnoresPattern(t *testing.T) {
	var ids []string
	r, err := hookrunner.New([]hook.Matcher{
		{
			Event:   hook.SessionDeleted,
			Pattern: `^todo_`,
			Hooks: []hook.Func{
				func(_ context.Context, in *hook.Input) (*hook.Result, error) {
					assert.Equal(t, hook.SessionDeleted, in.Event)
					ids = append(ids, in.SessionID)
					return nil, nil
				},
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.RunSessionEvent(context.Background(), hook.SessionDeleted, "abc"))
	require.NoError(t, r.RunSessionEvent(context.Background(), hook.SessionCreated, "def"))
	assert.Equal(t, []string{"abc"}, ids)
}

func TestHookErrorStopsExecution(t *testing.T) {
	secondCalled := false
	r, err := hookrunner.New([]hook.Matcher{
		{
			Event: hook.PreToolUse,
			Hooks: []hook.Func{
				func(_ context.Context, _ *hook.Input) (*hook.Result, error) {
					return nil, errors.New("hook failed")
				},
			},
		},
		{
			Event: hook.PreToolUse,
			Hooks: []hook.Func{
				func(_ context.Context, _ *hook.Input) (*hook.Result, error) {
					secondCalled = true
					return nil, nil
				},
			},
		},
	})
	require.NoError(t, err)

	_, err = r.RunPreToolUse(context.Background(), "s", "todo_add", nil)
	require.Error(t, err)
	assert.Equal(t, "hook failed", err.Error())
	assert.False(t, secondCalled)
}
