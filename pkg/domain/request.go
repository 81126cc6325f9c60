package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Kind identifies what an operation does to a structure.
type Kind string

const (
	KindInsert   Kind = "insert"
	KindSearch   Kind = "search"
	KindExtract  Kind = "extract"
	KindTraverse Kind = "traverse"
	KindSort     Kind = "sort"
)

// Mutating reports whether a successful operation of this kind changes the structure.
func (k Kind) Mutating() bool {
	switch k {
	case KindInsert, KindExtract, KindSort:
		return true
	}
	return false
}

// OperandKind describes what a family expects in Request.Operand for a kind.
type OperandKind string

const (
	OperandNone   OperandKind = "none"
	OperandNumber OperandKind = "number"
	OperandEdge   OperandKind = "edge" // "A-B"
)

// OperationSpec declares one operation a family supports.
type OperationSpec struct {
	Kind        Kind        `json:"kind"`
	Operand     OperandKind `json:"operand"`
	NeedsVertex bool        `json:"needs_vertex,omitempty"`
	Algorithms  []string    `json:"algorithms,omitempty"` // first entry is the default
}

// Request is an operation request as supplied by a UI shell, CLI or agent.
// Operand is kept raw; it is parsed and validated before any trace is generated.
type Request struct {
	Family      string `json:"family" mapstructure:"family"`
	Kind        Kind   `json:"kind" mapstructure:"kind"`
	Operand     string `json:"operand,omitempty" mapstructure:"operand"`
	StartVertex string `json:"start_vertex,omitempty" mapstructure:"start_vertex"`
	Algorithm   string `json:"algorithm,omitempty" mapstructure:"algorithm"`
}

// Operation is a validated Request.
type Operation struct {
	Family    string  `json:"family"`
	Kind      Kind    `json:"kind"`
	Value     float64 `json:"value,omitempty"`
	From      string  `json:"from,omitempty"` // edge endpoints for graph inserts
	To        string  `json:"to,omitempty"`
	Vertex    string  `json:"vertex,omitempty"`
	Algorithm string  `json:"algorithm,omitempty"`
}

// String renders the operation for logs and headers.
func (o Operation) String() string {
	switch {
	case o.From != "":
		return fmt.Sprintf("%s %s %s-%s", o.Family, o.Kind, o.From, o.To)
	case o.Vertex != "":
		return fmt.Sprintf("%s %s %s from %s", o.Family, o.Kind, o.Algorithm, o.Vertex)
	case o.Kind == KindInsert || o.Kind == KindSearch:
		return fmt.Sprintf("%s %s %s", o.Family, o.Kind, FormatValue(o.Value))
	case o.Algorithm != "":
		return fmt.Sprintf("%s %s %s", o.Family, o.Kind, o.Algorithm)
	}
	return fmt.Sprintf("%s %s", o.Family, o.Kind)
}

// DecodeRequest converts a loosely typed map (JSON-RPC arguments, form values)
// into a Request. Numbers are accepted for the operand and kept in their string form.
func DecodeRequest(raw map[string]any) (Request, error) {
	var req Request
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &req,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Request{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Request{}, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}
