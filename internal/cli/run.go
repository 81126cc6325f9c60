package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/aretw0/stepwise/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config   config.Config
	Headless bool
	JSON     bool
	Debug    bool
	Fresh    bool

	// Input and Output default to Stdin and Stdout.
	Input  io.Reader
	Output io.Writer
}

// Execute starts the interactive player on the configured session.
func Execute(ctx context.Context, opts RunOptions) error {
	logger := createPlayerLogger(opts.Debug)
	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	quiet := opts.JSON || opts.Headless
	stdout, tty := out.(*os.File)
	tty = tty && IsTerminal(stdout)

	hooks := observability.LogHooks(logger)
	engine, backend, err := NewEngine(opts.Config, logger, hooks)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessionID := opts.Config.Session
	if opts.Fresh {
		if err := engine.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		logger.Info("session reset", "session_id", sessionID)
	}

	if !quiet {
		if tty {
			tui.PrintBanner(out, stepwise.Version)
		}
		printSystemMessage(out, "Session '%s' on the %s store.", sessionID, opts.Config.Store.Backend)
	}

	runnerOpts := []runner.Option{
		runner.WithEngine(engine),
		runner.WithLogger(logger),
		runner.WithSessionID(sessionID),
		runner.WithHeadless(opts.Headless),
		runner.WithIO(in, out),
	}
	switch {
	case opts.JSON:
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(in, out)))
	case tty && !opts.Headless:
		runnerOpts = append(runnerOpts,
			runner.WithRenderer(tui.NewRenderer()),
			runner.WithFrameRenderer(tui.NewCardRenderer(min(terminalWidth(stdout)-2, 80))),
		)
	}

	// The runner handles SIGINT itself: it pauses autoplay before it quits.
	runErr := runner.NewRunner(runnerOpts...).Run(ctx)
	if !quiet {
		printSystemMessage(out, "Bye.")
	}
	return handleExecutionError(runErr)
}
