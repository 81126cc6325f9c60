package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultRaceGrace is how long CheckRace waits for a signal that trails an input error.
const DefaultRaceGrace = 100 * time.Millisecond

// SignalManager turns SIGINT/SIGTERM into context cancellation for the player
// loop. The first interrupt during autoplay only pauses, so the listener is
// re-armed with Reset instead of being torn down.
type SignalManager struct {
	// Grace bounds CheckRace. Zero means DefaultRaceGrace.
	Grace time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a new manager and immediately starts listening for signals.
func NewSignalManager() *SignalManager {
	sm := &SignalManager{Grace: DefaultRaceGrace}
	sm.Reset()
	return sm
}

// Context is cancelled by the next interrupt.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Interrupted reports whether an interrupt arrived since the last Reset.
func (sm *SignalManager) Interrupted() bool {
	return sm.ctx.Err() != nil
}

// Reset re-arms the listener after an interrupt was handled.
func (sm *SignalManager) Reset() {
	sm.Stop()
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Stop releases the signal listener.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

// CheckRace gives a trailing interrupt a chance to land before the caller
// decides an input error was fatal: some terminals deliver EOF on Ctrl+C
// before the signal itself.
func (sm *SignalManager) CheckRace() {
	if sm.Interrupted() {
		return
	}
	grace := sm.Grace
	if grace <= 0 {
		grace = DefaultRaceGrace
	}
	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case <-sm.ctx.Done():
	case <-t.C:
	}
}
