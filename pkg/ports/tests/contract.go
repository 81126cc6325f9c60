package tests

import (
	"reflect"
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// FamilyCase is one operation run against a structure built by committing Seed.
type FamilyCase struct {
	Name string
	Seed []domain.Operation
	Op   domain.Operation
}

// FamilyContractTest is a reusable test suite that verifies if a generator/committer
// pair complies with ports.Family.
func FamilyContractTest(t *testing.T, family ports.Family, cases []FamilyCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			s := family.New()
			for _, op := range tc.Seed {
				if err := family.Commit(op, s); err != nil {
					t.Fatalf("seed %s: %v", op, err)
				}
			}

			snap := s.Snapshot()
			pristine := s.Snapshot()

			first, err := family.Generate(tc.Op, snap)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			second, err := family.Generate(tc.Op, snap)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}

			// 1. Determinism
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("traces differ for identical input")
			}

			// 2. Generation is read-only
			if !reflect.DeepEqual(snap, pristine) {
				t.Fatalf("snapshot modified by Generate")
			}

			// 3. Shape: dense indices, one terminal step, last
			if len(first.Steps) == 0 {
				t.Fatalf("empty trace")
			}
			for i, st := range first.Steps {
				if st.Index != i {
					t.Errorf("step %d has index %d", i, st.Index)
				}
				if st.Terminal != (i == len(first.Steps)-1) {
					t.Errorf("step %d terminal=%v", i, st.Terminal)
				}
				if !st.Terminal && st.Outcome != domain.OutcomeNone {
					t.Errorf("step %d carries outcome %q without being terminal", i, st.Outcome)
				}
			}
			if first.Family != family.Name() {
				t.Errorf("trace family %q, want %q", first.Family, family.Name())
			}

			// 4. Commit agrees with the terminal step
			terminal, _ := first.Terminal()
			if tc.Op.Kind.Mutating() && terminal.Outcome.Mutates() {
				if err := family.Commit(tc.Op, s); err != nil {
					t.Fatalf("commit: %v", err)
				}
			}
			if v, ok := family.(ports.Verifier); ok {
				if err := v.Verify(s, terminal); err != nil {
					t.Errorf("verify: %v", err)
				}
			}
		})
	}
}
