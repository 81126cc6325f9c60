package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
)

// DefaultSpeed is the autoplay delay used when Play is given a non-positive speed.
const DefaultSpeed = 500 * time.Millisecond

// Controller walks a trace one step at a time, manually or on a timer.
// It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	trace   *domain.Trace
	index   int
	playing bool
	speed   time.Duration
	timer   Timer
	gen     uint64

	clock     Clock
	onChange  func(View)
	hooks     domain.LifecycleHooks
	sessionID string
	logger    *slog.Logger
}

// Option configures the Controller.
type Option func(*Controller)

// WithClock replaces the wall clock (tests use a manual clock).
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithOnChange registers a callback invoked after every cursor or status change,
// including timer-driven advances. It runs outside the controller lock.
func WithOnChange(fn func(View)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithLifecycleHooks registers the OnPlayback hook.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithSessionID tags emitted playback events.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// WithLogger configures a logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSpeed sets the default autoplay delay.
func WithSpeed(d time.Duration) Option {
	return func(c *Controller) {
		c.speed = d
	}
}

// New creates an idle Controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		index:  -1,
		speed:  DefaultSpeed,
		clock:  realClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// status derives the state from the cursor. Must hold mu.
func (c *Controller) status() domain.PlaybackStatus {
	switch {
	case c.trace == nil:
		return domain.StatusIdle
	case c.playing:
		return domain.StatusPlaying
	case c.index < 0:
		return domain.StatusReady
	case c.index == c.trace.Len()-1:
		return domain.StatusFinished
	}
	return domain.StatusStepping
}

// view must hold mu.
func (c *Controller) view() View {
	return viewAt(c.trace, c.index, c.status())
}

// stop cancels autoplay and invalidates any callback already in flight. Must hold mu.
func (c *Controller) stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.playing = false
	c.gen++
}

// arm schedules the next advance. Must hold mu.
func (c *Controller) arm() {
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.speed, func() { c.tick(gen) })
}

// mutate runs fn under the lock and notifies observers when the view changed.
func (c *Controller) mutate(fn func()) View {
	c.mu.Lock()
	before := c.view()
	fn()
	after := c.view()
	c.mu.Unlock()

	c.notify(before, after)
	return after
}

func (c *Controller) notify(before, after View) {
	if before.Index == after.Index && before.Status == after.Status && before.Len == after.Len {
		return
	}
	if c.onChange != nil {
		c.onChange(after)
	}
	if before.Status != after.Status {
		c.logger.Debug("playback transition", "from", before.Status, "to", after.Status, "index", after.Index)
		if c.hooks.OnPlayback != nil {
			c.hooks.OnPlayback(context.Background(), &domain.PlaybackEvent{
				EventBase: domain.EventBase{
					Timestamp: time.Now(),
					Type:      domain.EventPlayback,
					SessionID: c.sessionID,
				},
				From:  before.Status,
				To:    after.Status,
				Index: after.Index,
			})
		}
	}
}

// Load replaces the trace and rewinds to before the first step. Any state → Ready.
func (c *Controller) Load(tr domain.Trace) View {
	return c.mutate(func() {
		c.stop()
		c.trace = &tr
		c.index = -1
	})
}

// Unload drops the trace. Any state → Idle.
func (c *Controller) Unload() View {
	return c.mutate(func() {
		c.stop()
		c.trace = nil
		c.index = -1
	})
}

// StepForward advances one step, clamped at the last step. A manual step
// during autoplay stops the timer first.
func (c *Controller) StepForward() View {
	return c.mutate(func() {
		if c.trace == nil {
			return
		}
		if c.playing {
			c.stop()
		}
		if c.index < c.trace.Len()-1 {
			c.index++
		}
	})
}

// StepBackward moves back one step. It is a no-op at index -1 and 0.
func (c *Controller) StepBackward() View {
	return c.mutate(func() {
		if c.trace == nil {
			return
		}
		if c.playing {
			c.stop()
		}
		if c.index > 0 {
			c.index--
		}
	})
}

// Seek moves the cursor to i, clamped to [-1, len-1].
func (c *Controller) Seek(i int) View {
	return c.mutate(func() {
		if c.trace == nil {
			return
		}
		if c.playing {
			c.stop()
		}
		c.index = max(-1, min(i, c.trace.Len()-1))
	})
}

// SkipToEnd jumps to the terminal step.
func (c *Controller) SkipToEnd() View {
	c.mu.Lock()
	n := c.trace.Len()
	c.mu.Unlock()
	return c.Seek(n - 1)
}

// Play starts autoplay at speed (DefaultSpeed or the configured speed when
// speed <= 0). It is a no-op when idle, already finished or already playing.
func (c *Controller) Play(speed time.Duration) View {
	return c.mutate(func() {
		if c.trace == nil || c.playing || c.index >= c.trace.Len()-1 {
			return
		}
		if speed > 0 {
			c.speed = speed
		}
		c.playing = true
		c.arm()
	})
}

// Pause stops autoplay, keeping the position. Playing → Stepping.
func (c *Controller) Pause() View {
	return c.mutate(func() {
		if c.playing {
			c.stop()
		}
	})
}

// Cancel stops autoplay like Pause; it is also safe to call when not playing.
func (c *Controller) Cancel() View {
	return c.mutate(func() {
		c.stop()
	})
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.playing {
		c.mu.Unlock()
		return
	}
	before := c.view()
	c.index++
	if c.index >= c.trace.Len()-1 {
		c.index = c.trace.Len() - 1
		c.playing = false
		c.timer = nil
		c.gen++
	} else {
		c.arm()
	}
	after := c.view()
	c.mu.Unlock()

	c.notify(before, after)
}

// View returns the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// State returns the cursor as a PlaybackState.
func (c *Controller) State() domain.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.PlaybackState{
		Index:   c.index,
		Len:     c.trace.Len(),
		Status:  c.status(),
		Playing: c.playing,
		Speed:   c.speed,
	}
}

// Trace returns the loaded trace, or nil when idle.
func (c *Controller) Trace() *domain.Trace {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trace
}

// Done reports whether the cursor reached the terminal step.
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trace != nil && c.index == c.trace.Len()-1
}
