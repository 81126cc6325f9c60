package domain

// Trace is the ordered, immutable sequence of Steps produced for exactly one
// (operation, snapshot) pair. Generators never read clocks or random sources,
// so the same inputs always yield an identical Trace.
type Trace struct {
	Family    string    `json:"family"`
	Operation Operation `json:"operation"`
	Steps     []Step    `json:"steps"`
}

// Len returns the number of steps.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Steps)
}

// At returns the step at index i, or false when i is out of range.
func (t *Trace) At(i int) (Step, bool) {
	if t == nil || i < 0 || i >= len(t.Steps) {
		return Step{}, false
	}
	return t.Steps[i], true
}

// Terminal returns the step that decided the operation's outcome.
func (t *Trace) Terminal() (Step, bool) {
	if t == nil {
		return Step{}, false
	}
	for i := len(t.Steps) - 1; i >= 0; i-- {
		if t.Steps[i].Terminal {
			return t.Steps[i], true
		}
	}
	return Step{}, false
}

// Outcome returns the outcome of the terminal step, or OutcomeNone.
func (t *Trace) Outcome() Outcome {
	s, ok := t.Terminal()
	if !ok {
		return OutcomeNone
	}
	return s.Outcome
}
