package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
)

// DefaultSessionID is the workspace used when none is configured.
const DefaultSessionID = "default"

// Runner is the interactive player: it reads commands, starts operations on
// the engine and walks their traces with a playback controller.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Input/Output.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	SessionID     string
	Headless      bool
	Renderer      ContentRenderer
	FrameRenderer FrameRenderer
	Clock         playback.Clock
	Speed         time.Duration
	Input         io.Reader
	Output        io.Writer

	engine *stepwise.Engine
	player *playback.Controller
	last   string // family of the most recent operation
}

// NewRunner creates a Runner on Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:     os.Stdin,
		Output:    os.Stdout,
		Logger:    logging.NewNop(),
		SessionID: DefaultSessionID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command loop until quit, end of input or cancellation.
// An interrupt during autoplay pauses it; any other interrupt ends the loop.
// A trace still pending when the loop ends is aborted.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return errors.New("runner: no engine configured")
	}
	handler := r.resolveHandler()
	r.player = r.newPlayer(handler)
	defer r.player.Unload()
	defer r.abortPending()

	if !r.Headless {
		_ = handler.SystemOutput(ctx, fmt.Sprintf("Session `%s`. Type `help` for commands.", r.SessionID))
	}

	signals := NewSignalManager()
	defer signals.Stop()

	for {
		line, err := r.readLine(ctx, handler, signals)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			signals.CheckRace()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if signals.Interrupted() {
				if r.player.View().Status == domain.StatusPlaying {
					r.player.Pause()
					signals.Reset()
					continue
				}
				r.Logger.Debug("runner interrupted")
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			if err := handler.SystemOutput(ctx, err.Error()); err != nil {
				return err
			}
			continue
		}
		if cmd.Name == CmdQuit {
			return nil
		}
		if err := r.execute(ctx, handler, cmd); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// readLine waits for input, giving up when either ctx or an OS signal fires.
func (r *Runner) readLine(ctx context.Context, handler IOHandler, signals *SignalManager) (string, error) {
	inputCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(signals.Context(), cancel)
	defer stop()
	return handler.Input(inputCtx)
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	opts := []TextHandlerOption{
		WithTextHandlerRenderer(r.Renderer),
		WithTextHandlerFrameRenderer(r.FrameRenderer),
	}
	if r.Headless {
		opts = append(opts, WithPrompt(""))
	}
	// Memoize so repeated Run calls share one input pump.
	r.Handler = NewTextHandler(r.Input, r.Output, opts...)
	return r.Handler
}

func (r *Runner) newPlayer(handler IOHandler) *playback.Controller {
	opts := []playback.Option{
		playback.WithOnChange(func(v playback.View) {
			r.show(handler, v)
		}),
	}
	if r.Clock != nil {
		opts = append(opts, playback.WithClock(r.Clock))
	}
	if r.Speed > 0 {
		opts = append(opts, playback.WithSpeed(r.Speed))
	}
	return r.engine.NewPlayer(r.SessionID, opts...)
}

// show renders a view. It also runs on the playback timer goroutine.
func (r *Runner) show(handler IOHandler, v playback.View) {
	if v.Status == domain.StatusIdle {
		return
	}
	tr := r.player.Trace()
	if tr == nil {
		return
	}
	if err := handler.Output(context.Background(), Frame{Operation: tr.Operation, View: v}); err != nil {
		r.Logger.Error("frame output failed", "error", err)
	}
}

func (r *Runner) execute(ctx context.Context, handler IOHandler, cmd Command) error {
	say := func(format string, args ...any) error {
		return handler.SystemOutput(ctx, fmt.Sprintf(format, args...))
	}
	needsTrace := func() bool {
		return r.player.Trace() != nil
	}
	const noTrace = "No trace loaded. Start an operation first, e.g. `insert bst 5`."

	switch cmd.Name {
	case CmdNext, CmdPrev, CmdSkip, CmdGoto, CmdPlay, CmdPause:
		if !needsTrace() {
			return handler.SystemOutput(ctx, noTrace)
		}
		before := r.player.View()
		var after playback.View
		switch cmd.Name {
		case CmdNext:
			after = r.player.StepForward()
		case CmdPrev:
			after = r.player.StepBackward()
		case CmdSkip:
			after = r.player.SkipToEnd()
		case CmdGoto:
			after = r.player.Seek(cmd.Step() - 1)
		case CmdPlay:
			after = r.player.Play(cmd.Speed())
		case CmdPause:
			after = r.player.Pause()
		}
		if after.Index == before.Index && after.Status == before.Status {
			return say("Nothing to do at step %d of %d (%s).", after.Index+1, after.Len, after.Status)
		}
		return nil

	case CmdOperation:
		return r.begin(ctx, handler, cmd)

	case CmdCommit:
		if _, ok := r.engine.Pending(r.SessionID); !ok {
			return say("Nothing to commit.")
		}
		r.player.SkipToEnd()
		res, err := r.engine.Resolve(ctx, r.SessionID)
		family := r.last
		r.player.Unload()
		if err != nil {
			return say("Commit failed: %v", err)
		}
		if err := say("Committed: outcome `%s`, mutated %t.", res.Outcome, res.Mutated); err != nil {
			return err
		}
		return r.showStructure(ctx, handler, family)

	case CmdAbort:
		r.player.Cancel()
		if err := r.engine.Abort(ctx, r.SessionID); err != nil {
			return say("Abort failed: %v", err)
		}
		r.player.Unload()
		return say("Aborted; the structure is unchanged.")

	case CmdShow:
		family := r.last
		if len(cmd.Args) > 0 {
			family = strings.ToLower(cmd.Args[0])
		}
		if family == "" {
			return say("usage: show <family>")
		}
		return r.showStructure(ctx, handler, family)

	case CmdFamilies:
		return handler.SystemOutput(ctx, familiesText(r.engine.Families()))

	case CmdHelp:
		return handler.SystemOutput(ctx, helpText)
	}
	return nil
}

func (r *Runner) begin(ctx context.Context, handler IOHandler, cmd Command) error {
	req, err := cmd.Request(r.engine.Registry())
	if err != nil {
		return handler.SystemOutput(ctx, err.Error())
	}
	tr, err := r.engine.Begin(ctx, r.SessionID, req)
	if err != nil {
		if errors.Is(err, domain.ErrOperationInProgress) {
			return handler.SystemOutput(ctx, "An operation is still pending: `commit` or `abort` it first.")
		}
		return handler.SystemOutput(ctx, err.Error())
	}
	r.last = tr.Family
	r.Logger.Debug("trace loaded", "operation", tr.Operation.String(), "steps", tr.Len())
	r.player.Load(tr)
	return nil
}

func (r *Runner) showStructure(ctx context.Context, handler IOHandler, family string) error {
	snap, err := r.engine.Snapshot(ctx, r.SessionID, family)
	if err != nil {
		return handler.SystemOutput(ctx, err.Error())
	}
	return handler.SystemOutput(ctx, DescribeSnapshot(family, snap))
}

func (r *Runner) abortPending() {
	if _, ok := r.engine.Pending(r.SessionID); !ok {
		return
	}
	if err := r.engine.Abort(context.Background(), r.SessionID); err != nil {
		r.Logger.Warn("failed to discard pending operation", "error", err)
		return
	}
	r.Logger.Debug("pending operation discarded", "session_id", r.SessionID)
}

func familiesText(families []stepwise.FamilyInfo) string {
	var b strings.Builder
	b.WriteString("Families:\n")
	for _, f := range families {
		ops := make([]string, 0, len(f.Operations))
		for _, op := range f.Operations {
			s := string(op.Kind)
			if op.Operand != domain.OperandNone {
				s += " <" + string(op.Operand) + ">"
			}
			if op.NeedsVertex {
				s += " <vertex>"
			}
			if len(op.Algorithms) > 0 {
				s += " [" + strings.Join(op.Algorithms, "|") + "]"
			}
			ops = append(ops, s)
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, strings.Join(ops, ", "))
	}
	return b.String()
}

const helpText = `Commands:
- <kind> <family> [args]: start an operation, e.g. insert bst 5, traverse graph dfs A, sort sorting quick
- n, next (or Enter): step forward
- p, prev: step back
- play [ms]: autoplay; pause: stop it
- skip: jump to the last step
- goto <n>: jump to step n (0 rewinds)
- commit: apply the operation; abort: discard it
- show [family]: print a structure
- families: list families and operations
- q, quit: leave`
