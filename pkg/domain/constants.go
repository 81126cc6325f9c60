package domain

// Variable names shared by generators, the committer and renderers.
const (
	// VarPreorder holds the preorder key sequence of a tree after an insert.
	// The committer checks the committed tree against it.
	VarPreorder = "preorder"

	// VarVisited holds the ordered vertex list of a traversal.
	VarVisited = "visited"
)
