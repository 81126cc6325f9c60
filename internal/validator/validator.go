package validator

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/registry"
)

// Validate resolves the family and operation of req in reg and checks the
// operand against the declared shape. Input problems are reported together as
// *domain.InputError values joined with errors.Join; an unknown family or kind
// is reported with the registry's sentinel instead.
func Validate(reg *registry.Registry, req domain.Request) (domain.Operation, error) {
	family := normalize(req.Family)
	if family == "" {
		return domain.Operation{}, &domain.InputError{Field: "family", Reason: "is required"}
	}
	kind := domain.Kind(normalize(string(req.Kind)))
	if kind == "" {
		return domain.Operation{}, &domain.InputError{Field: "kind", Reason: "is required"}
	}
	spec, err := reg.Spec(family, kind)
	if err != nil {
		return domain.Operation{}, err
	}
	req.Family, req.Kind = family, kind
	return Check(spec, req)
}

// normalize folds names the way the command grammar does, so a request
// spelled "INSERT BST" reaches the same family as "insert bst".
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Check validates req against one operation declaration.
func Check(spec domain.OperationSpec, req domain.Request) (domain.Operation, error) {
	op := domain.Operation{Family: req.Family, Kind: spec.Kind}
	var errs []error

	operand := strings.TrimSpace(req.Operand)
	switch spec.Operand {
	case domain.OperandNumber:
		v, err := ParseNumber(operand)
		if err != nil {
			errs = append(errs, err)
		}
		op.Value = v
	case domain.OperandEdge:
		from, to, err := ParseEdge(operand)
		if err != nil {
			errs = append(errs, err)
		}
		op.From, op.To = from, to
	default:
		if operand != "" {
			errs = append(errs, &domain.InputError{Field: "operand", Value: operand, Reason: "operation takes no operand"})
		}
	}

	if spec.NeedsVertex {
		op.Vertex = strings.TrimSpace(req.StartVertex)
		if op.Vertex == "" {
			errs = append(errs, &domain.InputError{Field: "start_vertex", Reason: "is required"})
		}
	}

	algo := normalize(req.Algorithm)
	switch {
	case algo == "" && len(spec.Algorithms) > 0:
		op.Algorithm = spec.Algorithms[0]
	case algo == "":
	case slices.Contains(spec.Algorithms, algo):
		op.Algorithm = algo
	default:
		reason := "is not supported by this operation"
		if len(spec.Algorithms) > 0 {
			reason = "must be one of " + strings.Join(spec.Algorithms, ", ")
		}
		errs = append(errs, &domain.InputError{Field: "algorithm", Value: algo, Reason: reason})
	}

	if len(errs) > 0 {
		return domain.Operation{}, errors.Join(errs...)
	}
	return op, nil
}

// ParseNumber parses a finite numeric operand.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &domain.InputError{Field: "operand", Reason: "is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &domain.InputError{Field: "operand", Value: s, Reason: "is not a number"}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &domain.InputError{Field: "operand", Value: s, Reason: "must be finite"}
	}
	return v, nil
}

// ParseEdge parses an "A-B" edge operand.
func ParseEdge(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", &domain.InputError{Field: "operand", Reason: "is required"}
	}
	from, to, ok := strings.Cut(s, "-")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" || strings.Contains(to, "-") {
		return "", "", &domain.InputError{Field: "operand", Value: s, Reason: "must be an edge like A-B"}
	}
	return from, to, nil
}
