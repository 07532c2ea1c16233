package graph

import "fmt"

// GraphError reports a structural violation: a duplicate node or an edge
// whose source node is missing.
type GraphError struct {
	Reason string
}

func (e *GraphError) Error() string { return fmt.Sprintf("graph: %s", e.Reason) }

func errDuplicateNode(id fmt.Stringer) error {
	return &GraphError{Reason: fmt.Sprintf("node %q already exists", id)}
}

func errDanglingEdgeSource(id fmt.Stringer) error {
	return &GraphError{Reason: fmt.Sprintf("edge source %q has no node", id)}
}

// CycleError reports that an operation requiring acyclicity (topological
// ordering) found a cycle among required edges.
type CycleError struct {
	Components [][]string // each member SCC of size > 1, in discovery order
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph: cycle detected among %d strongly connected component(s)", len(e.Components))
}
