package algorithms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/structure"
)

// GraphFamily implements BFS/DFS traversal and edge insertion. Neighbours are
// always enumerated in edge insertion order.
type GraphFamily struct {
	directed bool
}

func NewGraph(directed bool) *GraphFamily { return &GraphFamily{directed: directed} }

func (f *GraphFamily) Name() string { return Graph }

func (f *GraphFamily) Operations() []domain.OperationSpec {
	return []domain.OperationSpec{
		{Kind: domain.KindTraverse, Operand: domain.OperandNone, NeedsVertex: true, Algorithms: []string{BFS, DFS}},
		{Kind: domain.KindInsert, Operand: domain.OperandEdge},
	}
}

func (f *GraphFamily) New() structure.Structure { return structure.NewGraph(f.directed) }

func (f *GraphFamily) Generate(op domain.Operation, snap structure.Snapshot) (domain.Trace, error) {
	gs, ok := snap.(structure.GraphSnapshot)
	if !ok {
		return domain.Trace{}, mismatch(Graph, structure.KindGraph, snap)
	}
	rec := newRecorder(Graph, op)
	switch op.Kind {
	case domain.KindTraverse:
		switch op.Algorithm {
		case "", BFS:
			return traceBFS(rec, gs, op.Vertex), nil
		case DFS:
			return traceDFS(rec, gs, op.Vertex), nil
		}
		return domain.Trace{}, fmt.Errorf("%w: traversal %q", domain.ErrUnsupportedOperation, op.Algorithm)
	case domain.KindInsert:
		return traceEdgeInsert(rec, gs, op.From, op.To), nil
	}
	return domain.Trace{}, unsupported(Graph, op.Kind)
}

func (f *GraphFamily) Commit(op domain.Operation, s structure.Structure) error {
	g, ok := s.(*structure.Graph)
	if !ok {
		return fmt.Errorf("%w: %s cannot commit to %T", domain.ErrSnapshotMismatch, Graph, s)
	}
	switch op.Kind {
	case domain.KindInsert:
		g.AddEdge(op.From, op.To)
		return nil
	case domain.KindTraverse:
		return nil
	}
	return unsupported(Graph, op.Kind)
}

func (f *GraphFamily) Verify(s structure.Structure, terminal domain.Step) error {
	g, ok := s.(*structure.Graph)
	if !ok {
		return fmt.Errorf("%w: %s cannot verify %T", domain.ErrSnapshotMismatch, Graph, s)
	}
	if terminal.Outcome != domain.OutcomeInserted {
		return nil
	}
	from, _ := terminal.Variables.Get("from")
	to, _ := terminal.Variables.Get("to")
	fs, _ := from.(string)
	ts, _ := to.(string)
	if !g.GraphSnapshot().HasEdge(fs, ts) {
		return fmt.Errorf("%w: edge %s-%s missing", domain.ErrInconsistentCommit, fs, ts)
	}
	return nil
}

func startMissing(rec *recorder, start string) domain.Trace {
	return rec.done(domain.Step{
		Description: fmt.Sprintf("Vertex %q is not in the graph: nothing to visit", start),
		Variables:   domain.Vars("start", start, domain.VarVisited, []string{}, "count", 0),
		Message:     "not found",
		Outcome:     domain.OutcomeNotFound,
	})
}

func traversalDone(rec *recorder, name string, visited []string) domain.Trace {
	return rec.done(domain.Step{
		Description: fmt.Sprintf("%s complete: visited %d vertices", name, len(visited)),
		Variables:   domain.Vars(domain.VarVisited, visited, "count", len(visited)),
		Message:     "complete",
		Outcome:     domain.OutcomeComplete,
	})
}

func traceBFS(rec *recorder, gs structure.GraphSnapshot, start string) domain.Trace {
	if !gs.HasVertex(start) {
		return startMissing(rec, start)
	}
	seen := map[string]bool{start: true}
	queue := []string{start}
	visited := []string{}
	rec.add(domain.Step{
		Description: fmt.Sprintf("Start BFS at %s", start),
		Highlight:   start,
		Variables:   domain.Vars("start", start, "queue", slices.Clone(queue)),
		Message:     "enqueue " + start,
	})

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		visited = append(visited, v)
		rec.add(domain.Step{
			Description: fmt.Sprintf("Dequeue and visit %s", v),
			Highlight:   v,
			Variables:   domain.Vars("vertex", v, domain.VarVisited, slices.Clone(visited), "queue", slices.Clone(queue)),
			Message:     "visit " + v,
		})

		discovered := []string{}
		for _, n := range gs.Neighbors(v) {
			if !seen[n] {
				seen[n] = true
				discovered = append(discovered, n)
			}
		}
		queue = append(queue, discovered...)
		rec.add(discoveryStep(v, discovered, "queue", queue))
	}
	return traversalDone(rec, "BFS", visited)
}

// traceDFS walks with an explicit LIFO stack. Neighbours are pushed in reverse
// so the first inserted edge is explored first.
func traceDFS(rec *recorder, gs structure.GraphSnapshot, start string) domain.Trace {
	if !gs.HasVertex(start) {
		return startMissing(rec, start)
	}
	done := map[string]bool{}
	stack := []string{start}
	visited := []string{}
	rec.add(domain.Step{
		Description: fmt.Sprintf("Start DFS at %s", start),
		Highlight:   start,
		Variables:   domain.Vars("start", start, "stack", slices.Clone(stack)),
		Message:     "push " + start,
	})

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if done[v] {
			rec.add(domain.Step{
				Description: fmt.Sprintf("Pop %s: already visited, skip", v),
				Highlight:   v,
				Variables:   domain.Vars("vertex", v, "stack", slices.Clone(stack)),
				Message:     "skip " + v,
			})
			continue
		}
		done[v] = true
		visited = append(visited, v)
		rec.add(domain.Step{
			Description: fmt.Sprintf("Pop and visit %s", v),
			Highlight:   v,
			Variables:   domain.Vars("vertex", v, domain.VarVisited, slices.Clone(visited), "stack", slices.Clone(stack)),
			Message:     "visit " + v,
		})

		discovered := []string{}
		for _, n := range gs.Neighbors(v) {
			if !done[n] {
				discovered = append(discovered, n)
			}
		}
		for i := len(discovered) - 1; i >= 0; i-- {
			stack = append(stack, discovered[i])
		}
		rec.add(discoveryStep(v, discovered, "stack", stack))
	}
	return traversalDone(rec, "DFS", visited)
}

func discoveryStep(v string, discovered []string, frontier string, pending []string) domain.Step {
	desc := fmt.Sprintf("%s has no unvisited neighbours", v)
	if len(discovered) > 0 {
		desc = fmt.Sprintf("Discover neighbours of %s: %s", v, strings.Join(discovered, ", "))
	}
	return domain.Step{
		Description: desc,
		Highlight:   v,
		Variables:   domain.Vars("vertex", v, "discovered", discovered, frontier, slices.Clone(pending)),
		Message:     fmt.Sprintf("%d discovered", len(discovered)),
	}
}

func traceEdgeInsert(rec *recorder, gs structure.GraphSnapshot, from, to string) domain.Trace {
	edge := from + "-" + to
	if gs.HasEdge(from, to) {
		return rec.done(domain.Step{
			Description: fmt.Sprintf("Edge %s already exists", edge),
			Highlight:   from,
			Variables:   domain.Vars("from", from, "to", to),
			Message:     "duplicate",
			Outcome:     domain.OutcomeDuplicate,
		})
	}
	for _, v := range slices.Compact([]string{from, to}) {
		if !gs.HasVertex(v) {
			rec.add(domain.Step{
				Description: fmt.Sprintf("Add vertex %s", v),
				Highlight:   v,
				Variables:   domain.Vars("vertex", v),
				Message:     "new vertex",
			})
		}
	}
	return rec.done(domain.Step{
		Description: fmt.Sprintf("Add edge %s", edge),
		Highlight:   to,
		Variables:   domain.Vars("from", from, "to", to, "directed", gs.Directed()),
		Message:     "inserted",
		Outcome:     domain.OutcomeInserted,
	})
}
