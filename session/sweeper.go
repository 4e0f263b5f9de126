package session

import (
	"context"
	"time"
)

// Start launches the background sweeper, which calls Sweep every sweep
// interval until Stop is called or ctx is done. Calling Start while the
// sweeper is running is a no-op.
func (m *MemoryStore) Start(ctx context.Context) {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	if m.done != nil {
		select {
		case <-m.done:
			// Previous sweeper exited because its context ended.
		default:
			return
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel, m.done = cancel, done
	go m.sweepLoop(ctx, done)

	m.logger.Debug().Dur("interval", m.opts.sweepInterval).Msg("sweeper started")
}

// Stop cancels the sweeper and waits for it to exit, so no sweep runs after
// Stop returns. It is safe to call when the sweeper is not running.
func (m *MemoryStore) Stop() {
	m.sweepMu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.sweepMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.logger.Debug().Msg("sweeper stopped")
}

// Running reports whether the sweeper goroutine is alive.
func (m *MemoryStore) Running() bool {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()
	if m.done == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

// Close stops the sweeper. Stored sessions are left in place.
func (m *MemoryStore) Close() error {
	m.Stop()
	return nil
}

func (m *MemoryStore) sweepLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.opts.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
