/*
Package runner implements the interactive player on top of the Stepwise engine.

It reads commands, starts operations, and replays their traces one frame at a
time through a playback.Controller. Nothing is mutated until the user commits.
Input and output go through pluggable handlers, so the same loop serves a
terminal and a JSON-lines host.

# Key Components

  - Runner: the command loop (step, play, pause, skip, goto, commit, abort, show).
  - IOHandler: decouples how frames are shown and commands are read.
  - TextHandler: interactive terminal usage, with optional glamour/lipgloss renderers.
  - JSONHandler: one JSON message per line for hosts driving the player.
  - SanitizeInput: size and control-character checks shared with the HTTP and MCP adapters.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithSessionID("demo"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

A session then reads like:

	> insert avl 30
	avl insert 30 [4 steps ready]
	> play 200
	...
	> commit
	Committed: outcome `inserted`, mutated true.
*/
package runner
