package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// FormatFrame renders a frame as plain text:
//
//	avl insert 5 [3/7 stepping]
//	Compare 5 with 10: go left
//	  current=10 direction=left
func FormatFrame(f Frame) string {
	v := f.View
	var b strings.Builder
	if v.Index < 0 {
		fmt.Fprintf(&b, "%s [%d steps %s]", f.Operation, v.Len, v.Status)
		return b.String()
	}
	fmt.Fprintf(&b, "%s [%d/%d %s]", f.Operation, v.Index+1, v.Len, v.Status)
	if v.Step == nil {
		return b.String()
	}
	b.WriteString("\n" + v.Step.Description)
	if v.Message != "" {
		b.WriteString("\n  " + v.Message)
	}
	if len(v.Variables) > 0 {
		b.WriteString("\n  " + v.Variables.String())
	}
	if v.Step.Array != nil {
		b.WriteString("\n  array " + domain.FormatValues(v.Step.Array))
	}
	if v.Step.Terminal {
		b.WriteString("\n  outcome: " + string(v.Step.Outcome))
	}
	return b.String()
}

// DescribeSnapshot summarizes a structure on a few lines.
func DescribeSnapshot(family string, snap structure.Snapshot) string {
	switch s := snap.(type) {
	case structure.TreeSnapshot:
		if s.Root() == structure.Nil {
			return family + ": empty"
		}
		return fmt.Sprintf("%s: inorder %s preorder %s", family,
			domain.FormatValues(s.InOrder()), domain.FormatValues(s.PreOrder()))
	case structure.HeapSnapshot:
		return fmt.Sprintf("%s: %s-heap %s", family, s.HeapKind(), domain.FormatValues(s.Array()))
	case structure.LinearSnapshot:
		return fmt.Sprintf("%s: %s %s", family, s.LinearKind(), domain.FormatValues(s.Items()))
	case structure.GraphSnapshot:
		vertices := s.Vertices()
		if len(vertices) == 0 {
			return family + ": empty"
		}
		lines := []string{family + ":"}
		for _, v := range vertices {
			line := "  " + v + " ->"
			if n := s.Neighbors(v); len(n) > 0 {
				line += " " + strings.Join(n, " ")
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	}
	return fmt.Sprintf("%s: %v", family, snap)
}
