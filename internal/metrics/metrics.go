// Package metrics exports scratchpad activity as Prometheus metrics.
//
// A Collector observes the server through hooks only: [Collector.StoreHooks]
// go on the session store and [Collector.ToolHooks] on the tool registry.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/armatrix/agent-scratchpad/hook"
)

const namespace = "scratchpad"

// Tool call outcomes that are not error codes.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Collector owns a private registry with the scratchpad metrics.
type Collector struct {
	registry  *prometheus.Registry
	sessions  *prometheus.CounterVec
	toolCalls *prometheus.CounterVec
}

// New creates a Collector. live reports the current number of sessions and
// backs the live_sessions gauge; it may be nil.
func New(live func() int) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by kind",
		}, []string{"event"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and result (ok, failed or an error code)",
		}, []string{"tool", "result"}),
	}
	c.registry.MustRegister(c.sessions, c.toolCalls)

	if live != nil {
		c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Sessions currently held by the store",
		}, func() float64 { return float64(live()) }))
	}
	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StoreHooks returns lifecycle matchers for a session store.
func (c *Collector) StoreHooks() []hook.Matcher {
	events := []struct {
		event hook.Event
		label string
	}{
		{hook.SessionCreated, "created"},
		{hook.SessionDeleted, "deleted"},
		{hook.SessionExpired, "expired"},
	}
	matchers := make([]hook.Matcher, 0, len(events))
	for _, e := range events {
		counter := c.sessions.WithLabelValues(e.label)
		matchers = append(matchers, hook.Matcher{
			Event: e.event,
			Hooks: []hook.Func{func(context.Context, *hook.Input) (*hook.Result, error) {
				counter.Inc()
				return nil, nil
			}},
		})
	}
	return matchers
}

// ToolHooks returns PostToolUse and PostToolUseFailure matchers for a tool
// registry. Blocked calls never reach these hooks and are not counted.
func (c *Collector) ToolHooks() []hook.Matcher {
	return []hook.Matcher{
		{
			Event: hook.PostToolUse,
			Hooks: []hook.Func{func(_ context.Context, in *hook.Input) (*hook.Result, error) {
				c.toolCalls.WithLabelValues(in.ToolName, resultLabel(in)).Inc()
				return nil, nil
			}},
		},
		{
			Event: hook.PostToolUseFailure,
			Hooks: []hook.Func{func(_ context.Context, in *hook.Input) (*hook.Result, error) {
				c.toolCalls.WithLabelValues(in.ToolName, ResultFailed).Inc()
				return nil, nil
			}},
		},
	}
}

// resultLabel maps a PostToolUse input to ok, its error code, or failed for
// error results without a code.
func resultLabel(in *hook.Input) string {
	switch {
	case !in.ToolIsError:
		return ResultOK
	case in.ToolErrorCode != "":
		return in.ToolErrorCode
	default:
		return ResultFailed
	}
}
