package playback_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock fires timers only when told to.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) playback.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// pending returns the armed timers.
func (c *manualClock) pending() []*manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the oldest armed timer. It reports false when nothing is armed.
func (c *manualClock) fire() bool {
	p := c.pending()
	if len(p) == 0 {
		return false
	}
	c.mu.Lock()
	p[0].fired = true
	c.mu.Unlock()
	p[0].f()
	return true
}

func sampleTrace(n int) domain.Trace {
	tr := domain.Trace{Family: "stack", Operation: domain.Operation{Family: "stack", Kind: domain.KindSearch, Value: 9}}
	for i := 0; i < n; i++ {
		tr.Steps = append(tr.Steps, domain.Step{
			Index:       i,
			Description: fmt.Sprintf("step %d", i),
			Highlight:   fmt.Sprint(i),
			Variables:   domain.Vars("i", i),
			Message:     fmt.Sprintf("m%d", i),
		})
	}
	tr.Steps[n-1].Terminal = true
	tr.Steps[n-1].Outcome = domain.OutcomeNotFound
	return tr
}

func TestController_LoadAndStep(t *testing.T) {
	c := playback.New(playback.WithClock(&manualClock{}))
	assert.Equal(t, domain.StatusIdle, c.View().Status)
	assert.Equal(t, domain.StatusIdle, c.StepForward().Status, "stepping while idle is a no-op")

	v := c.Load(sampleTrace(3))
	assert.Equal(t, domain.StatusReady, v.Status)
	assert.Equal(t, -1, v.Index)
	assert.Nil(t, v.Step)

	assert.Equal(t, domain.StatusReady, c.StepBackward().Status, "backward at -1 is a no-op")

	v = c.StepForward()
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, domain.StatusStepping, v.Status)
	assert.Equal(t, "m0", v.Message)

	assert.Equal(t, 0, c.StepBackward().Index, "backward at 0 is a no-op")

	c.StepForward()
	v = c.StepForward()
	assert.Equal(t, 2, v.Index)
	assert.Equal(t, domain.StatusFinished, v.Status)
	assert.True(t, c.Done())

	v = c.StepForward()
	assert.Equal(t, 2, v.Index, "forward at the last step is clamped")

	v = c.StepBackward()
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, domain.StatusStepping, v.Status)
}

func TestController_ViewIsPureFunctionOfIndex(t *testing.T) {
	const n = 6
	c := playback.New(playback.WithClock(&manualClock{}))
	c.Load(sampleTrace(n))

	walked := make([]playback.View, n)
	for i := 0; i < n; i++ {
		walked[i] = c.StepForward()
	}
	for i := n - 1; i >= 0; i-- {
		assert.Equal(t, walked[i], c.Seek(i), "seek %d", i)
	}

	// forward then backward returns to an identical view
	for i := 0; i < n-1; i++ {
		before := c.Seek(i)
		c.StepForward()
		after := c.StepBackward()
		assert.Equal(t, before, after, "index %d", i)
	}

	assert.Equal(t, -1, c.Seek(-10).Index)
	assert.Equal(t, n-1, c.Seek(100).Index)
	assert.Equal(t, n-1, c.SkipToEnd().Index)
}

func TestController_PlayRunsToFinish(t *testing.T) {
	clock := &manualClock{}
	var mu sync.Mutex
	var seen []int
	c := playback.New(
		playback.WithClock(clock),
		playback.WithOnChange(func(v playback.View) {
			mu.Lock()
			seen = append(seen, v.Index)
			mu.Unlock()
		}),
	)
	c.Load(sampleTrace(3))

	v := c.Play(250 * time.Millisecond)
	assert.Equal(t, domain.StatusPlaying, v.Status)
	require.Len(t, clock.pending(), 1)
	assert.Equal(t, 250*time.Millisecond, clock.pending()[0].d)

	for clock.fire() {
	}

	assert.Equal(t, domain.StatusFinished, c.View().Status)
	assert.Equal(t, 2, c.View().Index)
	assert.Empty(t, clock.pending(), "no timer may stay armed once finished")
	assert.False(t, c.State().Playing)

	mu.Lock()
	defer mu.Unlock()
	// Load(-1), Play(-1, playing), then three timer advances
	assert.Equal(t, []int{-1, -1, 0, 1, 2}, seen)
}

func TestController_PauseKeepsPosition(t *testing.T) {
	clock := &manualClock{}
	c := playback.New(playback.WithClock(clock))
	c.Load(sampleTrace(5))
	c.Play(time.Second)
	clock.fire()
	clock.fire()

	inflight := clock.pending()
	require.Len(t, inflight, 1)

	v := c.Pause()
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, domain.StatusStepping, v.Status)
	assert.Empty(t, clock.pending())

	// A callback that was already running when Pause took the lock must not advance.
	inflight[0].f()
	assert.Equal(t, 1, c.View().Index)

	// Play resumes from the paused position.
	c.Play(0)
	assert.Equal(t, time.Second, c.State().Speed)
	clock.fire()
	assert.Equal(t, 2, c.View().Index)
	c.Cancel()
	assert.Equal(t, domain.StatusStepping, c.View().Status)
}

func TestController_LoadCancelsAutoplay(t *testing.T) {
	clock := &manualClock{}
	c := playback.New(playback.WithClock(clock))
	c.Load(sampleTrace(4))
	c.Play(time.Second)
	stale := clock.pending()

	v := c.Load(sampleTrace(2))
	assert.Equal(t, domain.StatusReady, v.Status)
	assert.Equal(t, 2, v.Len)
	assert.Empty(t, clock.pending())

	stale[0].f()
	assert.Equal(t, -1, c.View().Index)
}

func TestController_ManualStepStopsAutoplay(t *testing.T) {
	clock := &manualClock{}
	c := playback.New(playback.WithClock(clock))
	c.Load(sampleTrace(4))
	c.Play(time.Second)

	v := c.StepForward()
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, domain.StatusStepping, v.Status)
	assert.Empty(t, clock.pending())
}

func TestController_PlayNoops(t *testing.T) {
	clock := &manualClock{}
	c := playback.New(playback.WithClock(clock))
	assert.Equal(t, domain.StatusIdle, c.Play(time.Second).Status)

	c.Load(sampleTrace(2))
	c.SkipToEnd()
	assert.Equal(t, domain.StatusFinished, c.Play(time.Second).Status)
	assert.Empty(t, clock.pending())

	c.Seek(0)
	c.Play(time.Second)
	c.Play(time.Second)
	assert.Len(t, clock.pending(), 1, "a second Play must not arm a second timer")
}

func TestController_PlaybackHooks(t *testing.T) {
	clock := &manualClock{}
	var events []domain.PlaybackEvent
	c := playback.New(
		playback.WithClock(clock),
		playback.WithSessionID("s1"),
		playback.WithLifecycleHooks(domain.LifecycleHooks{
			OnPlayback: func(_ context.Context, e *domain.PlaybackEvent) {
				events = append(events, *e)
			},
		}),
	)
	c.Load(sampleTrace(2))
	c.Play(time.Second)
	for clock.fire() {
	}

	require.Len(t, events, 3)
	assert.Equal(t, domain.StatusIdle, events[0].From)
	assert.Equal(t, domain.StatusReady, events[0].To)
	assert.Equal(t, domain.StatusPlaying, events[1].To)
	assert.Equal(t, domain.StatusFinished, events[2].To)
	assert.Equal(t, "s1", events[2].SessionID)
}

func TestController_RealClock(t *testing.T) {
	c := playback.New()
	c.Load(sampleTrace(4))
	c.Play(time.Millisecond)

	require.Eventually(t, c.Done, time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.StatusFinished, c.View().Status)
}
