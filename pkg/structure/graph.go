package structure

import "slices"

// Edge connects two vertices. For undirected graphs the orientation is the
// one it was inserted with.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is an authoritative adjacency structure. Vertex and edge order is
// insertion order, and neighbour order follows edge insertion order.
type Graph struct {
	directed bool
	vertices []string
	edges    []Edge
}

func NewGraph(directed bool) *Graph {
	return &Graph{directed: directed}
}

func (g *Graph) Kind() Kind         { return KindGraph }
func (g *Graph) Directed() bool     { return g.directed }
func (g *Graph) Snapshot() Snapshot { return g.GraphSnapshot() }

func (g *Graph) GraphSnapshot() GraphSnapshot {
	return GraphSnapshot{
		directed: g.directed,
		vertices: slices.Clone(g.vertices),
		edges:    slices.Clone(g.edges),
	}
}

// AddVertex adds v if absent and reports whether it was added.
func (g *Graph) AddVertex(v string) bool {
	if slices.Contains(g.vertices, v) {
		return false
	}
	g.vertices = append(g.vertices, v)
	return true
}

// AddEdge adds an edge, creating missing endpoints. It reports false for an
// edge that already exists (in either orientation when undirected).
func (g *Graph) AddEdge(from, to string) bool {
	if hasEdge(g.edges, g.directed, from, to) {
		return false
	}
	g.AddVertex(from)
	g.AddVertex(to)
	g.edges = append(g.edges, Edge{From: from, To: to})
	return true
}

func hasEdge(edges []Edge, directed bool, from, to string) bool {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return true
		}
		if !directed && e.From == to && e.To == from {
			return true
		}
	}
	return false
}

// GraphSnapshot is a frozen copy of a graph.
type GraphSnapshot struct {
	directed bool
	vertices []string
	edges    []Edge
}

// NewGraphSnapshot builds a snapshot from edges; vertices not mentioned by any
// edge can be passed in vertices.
func NewGraphSnapshot(directed bool, vertices []string, edges []Edge) GraphSnapshot {
	g := NewGraph(directed)
	for _, v := range vertices {
		g.AddVertex(v)
	}
	for _, e := range edges {
		g.AddEdge(e.From, e.To)
	}
	return g.GraphSnapshot()
}

func (s GraphSnapshot) Kind() Kind         { return KindGraph }
func (s GraphSnapshot) Directed() bool     { return s.directed }
func (s GraphSnapshot) Vertices() []string { return slices.Clone(s.vertices) }
func (s GraphSnapshot) Edges() []Edge      { return slices.Clone(s.edges) }

func (s GraphSnapshot) HasVertex(v string) bool { return slices.Contains(s.vertices, v) }

func (s GraphSnapshot) HasEdge(from, to string) bool {
	return hasEdge(s.edges, s.directed, from, to)
}

// Neighbors returns the vertices adjacent to v in edge insertion order.
func (s GraphSnapshot) Neighbors(v string) []string {
	var out []string
	for _, e := range s.edges {
		switch {
		case e.From == v:
			out = append(out, e.To)
		case !s.directed && e.To == v:
			out = append(out, e.From)
		}
	}
	return out
}

// Adjacency returns the neighbour list of every vertex.
func (s GraphSnapshot) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(s.vertices))
	for _, v := range s.vertices {
		adj[v] = s.Neighbors(v)
	}
	return adj
}
