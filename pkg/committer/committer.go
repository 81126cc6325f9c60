// Package committer applies the effect of a resolved trace to the authoritative structure.
package committer

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/structure"
)

// Result describes what a commit did.
type Result struct {
	Outcome domain.Outcome `json:"outcome"`
	Mutated bool           `json:"mutated"`
}

// Commit re-runs the traced operation against s through the family's committer.
// Operations whose outcome leaves the structure unchanged (duplicate, not found,
// underflow, found, and traversals) skip the mutation. When the family is a
// ports.Verifier, the committed structure is checked against the terminal step.
func Commit(f ports.Family, s structure.Structure, tr domain.Trace) (Result, error) {
	last, ok := tr.Terminal()
	if !ok {
		return Result{}, fmt.Errorf("trace for %s has no terminal step", tr.Operation)
	}
	res := Result{Outcome: last.Outcome}
	if tr.Family != f.Name() {
		return res, fmt.Errorf("%w: trace of %s committed to %s", domain.ErrSnapshotMismatch, tr.Family, f.Name())
	}

	if tr.Operation.Kind.Mutating() && last.Outcome.Mutates() {
		if err := f.Commit(tr.Operation, s); err != nil {
			return res, fmt.Errorf("failed to commit %s: %w", tr.Operation, err)
		}
		res.Mutated = true
	}

	if v, ok := f.(ports.Verifier); ok {
		if err := v.Verify(s, last); err != nil {
			return res, err
		}
	}
	return res, nil
}
