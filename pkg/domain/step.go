package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Outcome is the decided result of an operation, carried by its terminal Step.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeInserted  Outcome = "inserted"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFound     Outcome = "found"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeRemoved   Outcome = "removed"
	OutcomeUnderflow Outcome = "underflow"
	OutcomeComplete  Outcome = "complete"
)

// Mutates reports whether committing an operation with this outcome changes the structure.
// A traversal ends in OutcomeComplete but is read-only; the committer consults the
// operation kind as well.
func (o Outcome) Mutates() bool {
	switch o {
	case OutcomeInserted, OutcomeRemoved, OutcomeComplete:
		return true
	}
	return false
}

// Var is a single named variable shown alongside a Step.
type Var struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Variables is an ordered mapping from name to value.
type Variables []Var

// Vars builds Variables from alternating name/value pairs.
// Vars("current", 7.0, "direction", "left")
func Vars(pairs ...any) Variables {
	vars := make(Variables, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			name = fmt.Sprint(pairs[i])
		}
		vars = append(vars, Var{Name: name, Value: pairs[i+1]})
	}
	return vars
}

// Get returns the value bound to name.
func (v Variables) Get(name string) (any, bool) {
	for _, kv := range v {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return nil, false
}

// String renders the variables as "a=1 b=left".
func (v Variables) String() string {
	parts := make([]string, 0, len(v))
	for _, kv := range v {
		parts = append(parts, kv.Name+"="+FormatAny(kv.Value))
	}
	return strings.Join(parts, " ")
}

// Step is one discrete, human-readable moment of an algorithm run.
type Step struct {
	Index       int       `json:"index"`
	Description string    `json:"description"`
	Highlight   string    `json:"highlight,omitempty"`
	Variables   Variables `json:"variables,omitempty"`
	Message     string    `json:"message,omitempty"`
	Terminal    bool      `json:"terminal,omitempty"`
	Outcome     Outcome   `json:"outcome,omitempty"`

	// Array is the full array frame at this moment for array-backed families
	// (heap, sorting, stack, queue). Nil for trees and graphs, encoded as null,
	// so an emptied structure still carries its empty frame.
	Array []float64 `json:"array"`
}

// FormatValue renders a numeric key without trailing zeros ("10", "2.5").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatValues renders a list of keys as "[1 2 3]".
func FormatValues(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatValue(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// FormatAny renders a variable value in the same style as FormatValue.
func FormatAny(v any) string {
	switch val := v.(type) {
	case float64:
		return FormatValue(val)
	case []float64:
		return FormatValues(val)
	case []string:
		return "[" + strings.Join(val, " ") + "]"
	case nil:
		return "none"
	default:
		return fmt.Sprint(val)
	}
}
