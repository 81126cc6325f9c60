package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/committer"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/runner"
)

// TraceOptions configures a one-shot, non-interactive trace.
type TraceOptions struct {
	Config config.Config
	// Args is the operation as typed in the player: "<kind> <family> [args...]".
	Args   []string
	Commit bool
	JSON   bool
	Logger *slog.Logger
}

// TraceResult is the JSON document printed by `stepwise trace --json`.
type TraceResult struct {
	Trace  domain.Trace      `json:"trace"`
	Commit *committer.Result `json:"commit,omitempty"`
}

// Trace generates the trace of one operation and prints every step. With
// Commit the operation is applied to the session afterwards; otherwise it is
// discarded and the session is left untouched.
func Trace(ctx context.Context, w io.Writer, opts TraceOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = createPlayerLogger(false)
	}
	engine, backend, err := NewEngine(opts.Config, logger, observability.LogHooks(logger))
	if err != nil {
		return err
	}
	defer backend.Close()

	parsed, err := runner.ParseCommand(strings.Join(opts.Args, " "))
	if err != nil {
		return err
	}
	if parsed.Name != runner.CmdOperation {
		return fmt.Errorf("%q is a player command, not an operation", opts.Args[0])
	}
	req, err := parsed.Request(engine.Registry())
	if err != nil {
		return err
	}

	sessionID := opts.Config.Session
	tr, err := engine.Begin(ctx, sessionID, req)
	if err != nil {
		return err
	}

	var res *committer.Result
	if opts.Commit {
		r, err := engine.Resolve(ctx, sessionID)
		if err != nil {
			return err
		}
		res = &r
	} else if err := engine.Abort(ctx, sessionID); err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(TraceResult{Trace: tr, Commit: res})
	}

	for i := range tr.Steps {
		st := tr.Steps[i]
		status := domain.StatusStepping
		if i == len(tr.Steps)-1 {
			status = domain.StatusFinished
		}
		frame := runner.Frame{
			Operation: tr.Operation,
			View: playback.View{
				Index: i, Len: len(tr.Steps), Status: status,
				Step: &st, Highlight: st.Highlight, Variables: st.Variables, Message: st.Message,
			},
		}
		fmt.Fprintln(w, runner.FormatFrame(frame))
	}
	if res != nil {
		printSystemMessage(w, "Committed: outcome %s, mutated %t.", res.Outcome, res.Mutated)
	}
	return nil
}

// Diagram prints the Mermaid diagram of one family's structure in a session.
func Diagram(ctx context.Context, w io.Writer, cfg config.Config, family string) error {
	engine, backend, err := NewEngine(cfg, createPlayerLogger(false), domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer backend.Close()

	snap, err := engine.Snapshot(ctx, cfg.Session, family)
	if err != nil {
		return err
	}
	out, err := graph.GenerateMermaid(snap, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", family, err)
	}
	_, err = io.WriteString(w, out)
	return err
}
