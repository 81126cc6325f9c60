package runner

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
)

// Frame is one rendered moment of playback: the operation being replayed and
// the cursor over its trace.
type Frame struct {
	Operation domain.Operation `json:"operation"`
	View      playback.View    `json:"view"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
//
// Output may be called from the playback timer goroutine while Input is
// blocked, so implementations must serialize their writes.
type IOHandler interface {
	// Output presents a playback frame.
	Output(ctx context.Context, frame Frame) error

	// Input reads the next command line.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (help, commit results, errors).
	// Text handlers may render it as markdown.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is printed (e.g. glamour).
type ContentRenderer func(string) (string, error)

// FrameRenderer turns a frame into terminal text (e.g. a lipgloss card).
type FrameRenderer func(Frame) string
