package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/pkg/playback"
)

// DefaultInputBufferSize is the default number of lines to buffer for input handlers.
const DefaultInputBufferSize = 64

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the Stepwise engine to drive. Required.
func WithEngine(engine *stepwise.Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithIO sets the streams of the default text handler.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithHeadless suppresses the greeting and the prompt.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithSessionID selects the workspace the player operates on.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithRenderer configures the markdown renderer for help and system messages.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithFrameRenderer configures how playback frames are drawn.
func WithFrameRenderer(renderer FrameRenderer) Option {
	return func(r *Runner) {
		r.FrameRenderer = renderer
	}
}

// WithClock replaces the playback clock.
func WithClock(clock playback.Clock) Option {
	return func(r *Runner) {
		r.Clock = clock
	}
}

// WithSpeed overrides the engine's default autoplay delay.
func WithSpeed(d time.Duration) Option {
	return func(r *Runner) {
		r.Speed = d
	}
}
