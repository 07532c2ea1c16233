package graph

import (
	"factorix/internal/dependency"
	"factorix/internal/version"
)

// Graph is a mapping from ModID to Node plus a mapping from ModID to its
// outgoing edges. Insertion order is preserved for deterministic
// topological sort and CLI rendering.
type Graph struct {
	nodes     map[string]*Node
	order     []string // insertion order of node keys, for stable traversal
	outEdges  map[string][]Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outEdges: make(map[string][]Edge),
	}
}

// AddNode inserts node, failing with GraphError if a node for the same
// ModID already exists.
func (g *Graph) AddNode(n Node) error {
	key := n.ModID.Key()
	if _, exists := g.nodes[key]; exists {
		return errDuplicateNode(n.ModID)
	}
	cp := n
	g.nodes[key] = &cp
	g.order = append(g.order, key)
	return nil
}

// Node returns the node for id, or (Node{}, false) if absent.
func (g *Graph) Node(id version.ModID) (Node, bool) {
	n, ok := g.nodes[id.Key()]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// MutateNode applies fn to the stored node for id, if present.
func (g *Graph) MutateNode(id version.ModID, fn func(*Node)) bool {
	n, ok := g.nodes[id.Key()]
	if !ok {
		return false
	}
	fn(n)
	return true
}

// HasNode reports whether id has a node.
func (g *Graph) HasNode(id version.ModID) bool {
	_, ok := g.nodes[id.Key()]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, *g.nodes[key])
	}
	return out
}

// AddEdge inserts edge, requiring that its From node already exists. The
// To node may be absent (an edge may point at an uninstalled MOD).
func (g *Graph) AddEdge(e Edge) error {
	if !g.HasNode(e.From) {
		return errDanglingEdgeSource(e.From)
	}
	key := e.From.Key()
	g.outEdges[key] = append(g.outEdges[key], e)
	return nil
}

// EdgesFrom returns the outgoing edges of id in insertion order.
func (g *Graph) EdgesFrom(id version.ModID) []Edge {
	return append([]Edge(nil), g.outEdges[id.Key()]...)
}

// EdgesTo returns every edge across the graph whose To matches id, in
// graph-insertion order. This is a linear scan, acceptable per spec.
func (g *Graph) EdgesTo(id version.ModID) []Edge {
	var out []Edge
	for _, key := range g.order {
		for _, e := range g.outEdges[key] {
			if e.To.Equal(id) {
				out = append(out, e)
			}
		}
	}
	return out
}

// AddUninstalled adds a node for modID marked Installed=false with the
// given PlannedOp (normally PlanInstall) if one does not already exist,
// then adds one edge per entry in deps (skipping entries naming "base").
// It is a no-op if the node already exists.
func (g *Graph) AddUninstalled(modID version.ModID, ver version.ModVersion, deps *dependency.List, op PlannedOp) error {
	if g.HasNode(modID) {
		return nil
	}
	if err := g.AddNode(Node{ModID: modID, Version: ver, Installed: false, PlannedOp: op}); err != nil {
		return err
	}
	if deps == nil {
		return nil
	}
	for _, entry := range deps.All() {
		if entry.ModID.IsBase() {
			continue
		}
		if err := g.AddEdge(Edge{From: modID, To: entry.ModID, Kind: entry.Kind, Requirement: entry.Requirement}); err != nil {
			return err
		}
	}
	return nil
}

// FindEnabledDependents returns the MODs whose enabled node has a
// required outgoing edge to id.
func (g *Graph) FindEnabledDependents(id version.ModID) []version.ModID {
	var out []version.ModID
	for _, key := range g.order {
		n := g.nodes[key]
		if !n.Enabled {
			continue
		}
		for _, e := range g.outEdges[key] {
			if e.Kind == dependency.Required && e.To.Equal(id) {
				out = append(out, n.ModID)
				break
			}
		}
	}
	return out
}
