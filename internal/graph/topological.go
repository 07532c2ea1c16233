package graph

import (
	"factorix/internal/dependency"
	"factorix/internal/version"
)

// visitState tracks DFS progress per node during topological sort and
// cycle detection, following the classic three-color scheme.
type visitState int

const (
	white visitState = iota
	gray
	black
)

// topoSorter holds the state for one TopologicalOrder traversal.
type topoSorter struct {
	g     *Graph
	state map[string]visitState
	order []version.ModID
}

// TopologicalOrder returns node identifiers ordered so that every
// required dependency precedes its dependent. The sort is stable with
// respect to node-insertion order: nodes are visited in insertion order,
// and a node's own required edges are visited in their edge-insertion
// order, so the same construction sequence always yields the same
// ordering.
//
// Returns a *CycleError if the required-edge subgraph contains a cycle.
func (g *Graph) TopologicalOrder() ([]version.ModID, error) {
	s := &topoSorter{
		g:     g,
		state: make(map[string]visitState, len(g.order)),
		order: make([]version.ModID, 0, len(g.order)),
	}

	for _, key := range g.order {
		if s.state[key] == white {
			if err := s.visit(key); err != nil {
				return nil, err
			}
		}
	}

	return s.order, nil
}

func (s *topoSorter) visit(key string) error {
	switch s.state[key] {
	case gray:
		// A back-edge to an in-progress node means the required-edge
		// subgraph has a cycle; report every offending SCC, not just
		// this one, so the caller can present them all at once.
		_, comps, _ := s.g.StronglyConnectedComponents()
		return &CycleError{Components: comps}
	case black:
		return nil
	}

	s.state[key] = gray
	for _, e := range s.g.outEdges[key] {
		if e.Kind != dependency.Required {
			continue
		}
		if !s.g.HasNode(e.To) {
			// Required edges to uninstalled targets do not participate in
			// ordering among existing nodes; the planner is responsible
			// for adding such targets as nodes before execution.
			continue
		}
		if err := s.visit(e.To.Key()); err != nil {
			return err
		}
	}
	s.state[key] = black
	s.order = append(s.order, s.g.nodes[key].ModID)

	return nil
}

// Cyclic reports whether the required-edge subgraph contains a cycle.
func (g *Graph) Cyclic() bool {
	cyclic, _, _ := g.StronglyConnectedComponents()
	return cyclic
}
