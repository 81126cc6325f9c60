package runner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/registry"
)

// CommandName is the canonical name of a player command.
type CommandName string

const (
	CmdNext      CommandName = "next"
	CmdPrev      CommandName = "prev"
	CmdPlay      CommandName = "play"
	CmdPause     CommandName = "pause"
	CmdSkip      CommandName = "skip"
	CmdGoto      CommandName = "goto"
	CmdCommit    CommandName = "commit"
	CmdAbort     CommandName = "abort"
	CmdShow      CommandName = "show"
	CmdFamilies  CommandName = "families"
	CmdHelp      CommandName = "help"
	CmdQuit      CommandName = "quit"
	CmdOperation CommandName = "operation"
)

var aliases = map[string]CommandName{
	"":         CmdNext,
	"n":        CmdNext,
	"next":     CmdNext,
	"p":        CmdPrev,
	"prev":     CmdPrev,
	"back":     CmdPrev,
	"play":     CmdPlay,
	"pause":    CmdPause,
	"s":        CmdSkip,
	"skip":     CmdSkip,
	"end":      CmdSkip,
	"g":        CmdGoto,
	"goto":     CmdGoto,
	"c":        CmdCommit,
	"commit":   CmdCommit,
	"a":        CmdAbort,
	"abort":    CmdAbort,
	"show":     CmdShow,
	"families": CmdFamilies,
	"ls":       CmdFamilies,
	"h":        CmdHelp,
	"?":        CmdHelp,
	"help":     CmdHelp,
	"q":        CmdQuit,
	"quit":     CmdQuit,
	"exit":     CmdQuit,
}

// Command is a parsed input line.
type Command struct {
	Name CommandName

	// Kind and Family are set for CmdOperation.
	Kind   domain.Kind
	Family string

	Args []string
}

// ParseCommand parses one line. An empty line steps forward.
// Operation lines read "<kind> <family> [args...]", e.g. "insert bst 5",
// "traverse graph dfs A" or "sort sorting quick".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	head := ""
	if len(fields) > 0 {
		head = strings.ToLower(fields[0])
	}

	if name, ok := aliases[head]; ok {
		cmd := Command{Name: name}
		if len(fields) > 1 {
			cmd.Args = fields[1:]
		}
		return cmd, validateArgs(cmd)
	}

	switch kind := domain.Kind(head); kind {
	case domain.KindInsert, domain.KindSearch, domain.KindExtract, domain.KindTraverse, domain.KindSort:
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("usage: %s <family> [operand]", kind)
		}
		return Command{
			Name:   CmdOperation,
			Kind:   kind,
			Family: strings.ToLower(fields[1]),
			Args:   fields[2:],
		}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q (type help)", fields[0])
}

func validateArgs(cmd Command) error {
	switch cmd.Name {
	case CmdGoto:
		if len(cmd.Args) != 1 {
			return fmt.Errorf("usage: goto <step>")
		}
		if _, err := strconv.Atoi(cmd.Args[0]); err != nil {
			return fmt.Errorf("goto: %q is not a step number", cmd.Args[0])
		}
	case CmdPlay:
		if len(cmd.Args) > 1 {
			return fmt.Errorf("usage: play [ms]")
		}
		if len(cmd.Args) == 1 {
			if ms, err := strconv.Atoi(cmd.Args[0]); err != nil || ms <= 0 {
				return fmt.Errorf("play: %q is not a positive delay in milliseconds", cmd.Args[0])
			}
		}
	}
	return nil
}

// Speed returns the delay given to play, or 0 for the player default.
func (c Command) Speed() time.Duration {
	if c.Name != CmdPlay || len(c.Args) == 0 {
		return 0
	}
	ms, _ := strconv.Atoi(c.Args[0])
	return time.Duration(ms) * time.Millisecond
}

// Step returns the 1-based step argument of goto.
func (c Command) Step() int {
	if len(c.Args) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(c.Args[0])
	return n
}

// Request builds the operation request, placing the arguments according to
// what the family declares for the kind:
//
//	insert bst 5           operand
//	insert graph A-B       operand
//	traverse graph A       start vertex, default algorithm
//	traverse graph dfs A   algorithm, start vertex
//	sort sorting quick     algorithm
func (c Command) Request(reg *registry.Registry) (domain.Request, error) {
	req := domain.Request{Family: c.Family, Kind: c.Kind}
	spec, err := reg.Spec(c.Family, c.Kind)
	if err != nil {
		return req, err
	}

	args := c.Args
	if spec.Operand != domain.OperandNone {
		if len(args) == 0 {
			return req, fmt.Errorf("usage: %s %s <%s>", c.Kind, c.Family, spec.Operand)
		}
		req.Operand, args = args[0], args[1:]
	}
	if spec.NeedsVertex {
		if len(args) == 0 {
			return req, fmt.Errorf("usage: %s %s [algorithm] <vertex>", c.Kind, c.Family)
		}
		req.StartVertex, args = args[len(args)-1], args[:len(args)-1]
	}
	if len(args) > 0 && len(spec.Algorithms) > 0 {
		req.Algorithm, args = strings.ToLower(args[0]), args[1:]
	}
	if len(args) > 0 {
		return req, fmt.Errorf("unexpected arguments %v", args)
	}
	return req, nil
}
