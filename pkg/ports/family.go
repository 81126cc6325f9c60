package ports

import (
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// Family is one algorithm family registered under a tag ("bst", "heap", ...).
// Generate and Commit must agree: committing an operation leaves the structure in
// the state described by the terminal step of the trace Generate produced for it.
type Family interface {
	// Name returns the registry tag.
	Name() string

	// Operations lists the supported operation kinds and their operand shape.
	Operations() []domain.OperationSpec

	// New returns an empty authoritative structure for this family.
	New() structure.Structure

	// Generate records the trace of op against snap. It must not read clocks or
	// random sources and must never modify snap.
	Generate(op domain.Operation, snap structure.Snapshot) (domain.Trace, error)

	// Commit applies op to the authoritative structure without recording steps.
	Commit(op domain.Operation, s structure.Structure) error
}

// Verifier is implemented by families able to check a committed structure
// against the terminal step that was displayed.
type Verifier interface {
	Verify(s structure.Structure, terminal domain.Step) error
}
