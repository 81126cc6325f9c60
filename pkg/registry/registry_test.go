package registry_test

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFamily struct{ name string }

func (s stubFamily) Name() string { return s.name }
func (s stubFamily) Operations() []domain.OperationSpec {
	return []domain.OperationSpec{{Kind: domain.KindInsert, Operand: domain.OperandNumber}}
}
func (s stubFamily) New() structure.Structure { return structure.NewLinear(structure.Array) }
func (s stubFamily) Generate(op domain.Operation, _ structure.Snapshot) (domain.Trace, error) {
	return domain.Trace{Family: s.name, Operation: op}, nil
}
func (s stubFamily) Commit(domain.Operation, structure.Structure) error { return nil }

func TestRegistry(t *testing.T) {
	r := registry.NewRegistry()
	r.Register(stubFamily{name: "zeta"})
	r.Register(stubFamily{name: "alpha"})

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())

	f, err := r.Lookup("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", f.Name())

	_, err = r.Lookup("omega")
	assert.ErrorIs(t, err, domain.ErrUnknownFamily)

	spec, err := r.Spec("zeta", domain.KindInsert)
	require.NoError(t, err)
	assert.Equal(t, domain.OperandNumber, spec.Operand)

	_, err = r.Spec("zeta", domain.KindSort)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}
