package graph

import "factorix/internal/dependency"

// tarjanState holds per-node bookkeeping for Tarjan's strongly-connected-
// components algorithm, restricted to required edges.
type tarjanState struct {
	g        *Graph
	index    map[string]int
	lowlink  map[string]int
	onStack  map[string]bool
	stack    []string
	counter  int
	comps    [][]string
}

// StronglyConnectedComponents computes the strongly connected components
// of the required-edge subgraph using Tarjan's algorithm, visiting nodes
// in insertion order for determinism. It returns only components with
// more than one member (a lone node is never itself a cycle, since
// dependency edges never target their own source). cyclic reports
// whether any such component exists.
func (g *Graph) StronglyConnectedComponents() (cyclic bool, components [][]string, err error) {
	s := &tarjanState{
		g:       g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}

	for _, key := range g.order {
		if _, visited := s.index[key]; !visited {
			s.strongConnect(key)
		}
	}

	for _, comp := range s.comps {
		if len(comp) > 1 {
			components = append(components, comp)
		}
	}

	return len(components) > 0, components, nil
}

func (s *tarjanState) strongConnect(key string) {
	s.index[key] = s.counter
	s.lowlink[key] = s.counter
	s.counter++
	s.stack = append(s.stack, key)
	s.onStack[key] = true

	for _, e := range s.g.outEdges[key] {
		if e.Kind != dependency.Required || !s.g.HasNode(e.To) {
			continue
		}
		toKey := e.To.Key()
		if _, visited := s.index[toKey]; !visited {
			s.strongConnect(toKey)
			if s.lowlink[toKey] < s.lowlink[key] {
				s.lowlink[key] = s.lowlink[toKey]
			}
		} else if s.onStack[toKey] {
			if s.index[toKey] < s.lowlink[key] {
				s.lowlink[key] = s.index[toKey]
			}
		}
	}

	if s.lowlink[key] == s.index[key] {
		var comp []string
		for {
			n := len(s.stack) - 1
			top := s.stack[n]
			s.stack = s.stack[:n]
			s.onStack[top] = false
			comp = append(comp, s.g.nodes[top].ModID.String())
			if top == key {
				break
			}
		}
		// comp was built by popping, i.e. in reverse discovery order;
		// reverse it back so members read in SCC discovery order.
		for i, j := 0, len(comp)-1; i < j; i, j = i+1, j-1 {
			comp[i], comp[j] = comp[j], comp[i]
		}
		s.comps = append(s.comps, comp)
	}
}
