package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// ErrNotDrawable is returned for structures without a node/edge shape (stack, queue, array).
var ErrNotDrawable = errors.New("structure has no diagram")

// Overlay contains playback data to visualize on the diagram.
// References use the same form as Step.Highlight: "n<id>" for tree nodes, the array
// index for heaps and the vertex name for graphs.
type Overlay struct {
	Visited []string
	Current string
}

// StepOverlay builds the overlay for one step: its highlight and, for traversals,
// the visited list.
func StepOverlay(st *domain.Step) *Overlay {
	if st == nil {
		return nil
	}
	o := &Overlay{Current: st.Highlight}
	if v, ok := st.Variables.Get(domain.VarVisited); ok {
		if visited, ok := v.([]string); ok {
			o.Visited = visited
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart for a snapshot.
// Trees and heaps are drawn top-down with circular nodes; graphs left-to-right.
func GenerateMermaid(snap structure.Snapshot, overlay *Overlay) (string, error) {
	switch s := snap.(type) {
	case structure.TreeSnapshot:
		return treeMermaid(s, overlay), nil
	case structure.HeapSnapshot:
		return heapMermaid(s, overlay), nil
	case structure.GraphSnapshot:
		return graphMermaid(s, overlay), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotDrawable, snap.Kind())
}

func treeMermaid(s structure.TreeSnapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	ids := make(map[string]string)

	// Preorder walk so the diagram lists parents before children.
	stack := []structure.NodeID{}
	if s.Root() != structure.Nil {
		stack = append(stack, s.Root())
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ref := "n" + strconv.Itoa(int(id))
		ids[ref] = ref
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", ref, domain.FormatValue(s.Value(id)))
		for _, child := range []structure.NodeID{s.Left(id), s.Right(id)} {
			if child != structure.Nil {
				fmt.Fprintf(&sb, "    %s --> n%d\n", ref, child)
			}
		}
		if r := s.Right(id); r != structure.Nil {
			stack = append(stack, r)
		}
		if l := s.Left(id); l != structure.Nil {
			stack = append(stack, l)
		}
	}

	writeOverlay(&sb, overlay, ids)
	return sb.String()
}

func heapMermaid(s structure.HeapSnapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	ids := make(map[string]string)

	for i := 0; i < s.Len(); i++ {
		ref := "h" + strconv.Itoa(i)
		ids[strconv.Itoa(i)] = ref
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", ref, domain.FormatValue(s.At(i)))
		if i > 0 {
			fmt.Fprintf(&sb, "    h%d --> %s\n", (i-1)/2, ref)
		}
	}

	writeOverlay(&sb, overlay, ids)
	return sb.String()
}

func graphMermaid(s structure.GraphSnapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	ids := make(map[string]string)

	for _, v := range s.Vertices() {
		ref := sanitizeMermaidID(v)
		ids[v] = ref
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", ref, strings.ReplaceAll(v, "\"", "'"))
	}
	arrow := "---"
	if s.Directed() {
		arrow = "-->"
	}
	for _, e := range s.Edges() {
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To))
	}

	writeOverlay(&sb, overlay, ids)
	return sb.String()
}

// writeOverlay styles overlay references that exist in the diagram; refs to nodes a
// pending trace has not committed yet are skipped.
func writeOverlay(sb *strings.Builder, overlay *Overlay, ids map[string]string) {
	if overlay == nil {
		return
	}
	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	seen := make(map[string]bool)
	for _, ref := range overlay.Visited {
		id, ok := ids[ref]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		fmt.Fprintf(sb, "    class %s visited;\n", id)
	}
	if id, ok := ids[overlay.Current]; ok {
		fmt.Fprintf(sb, "    class %s current;\n", id)
	}
}

// sanitizeMermaidID prefixes vertex names so that reserved words ("end") and
// leading digits stay valid identifiers.
func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", "\"", "_")
	return "v_" + r.Replace(id)
}
