package multigraph

import "sort"

// AddEdge inserts a new directed edge from -> to identified by key, with
// flow coefficient fc. Both endpoints are created on demand. key must be
// unique across the entire graph, not just between from and to: this is
// what lets a component contribute two parallel edges ("valve1.fwd" and
// "valve1.back") between the same pair of nodes with independent FCs.
func (g *Graph) AddEdge(from, to, key string, fc float64) error {
	if key == "" {
		return ErrEmptyKey
	}
	if from == "" || to == "" {
		return ErrEmptyNode
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.edges[key]; exists {
		return ErrDuplicateKey
	}

	g.addNodeLocked(from)
	g.addNodeLocked(to)

	e := &Edge{From: from, To: to, Key: key, FC: fc}
	g.edges[key] = e
	g.out[from][key] = e
	g.in[to][key] = e
	return nil
}

// RemoveEdge deletes the edge with the given key. It is a no-op if the key
// does not exist (mirrors the engine's bulk remove-by-prefix usage, which
// does its own existence bookkeeping).
func (g *Graph) RemoveEdge(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeEdgeLocked(key)
}

func (g *Graph) removeEdgeLocked(key string) {
	e, ok := g.edges[key]
	if !ok {
		return
	}
	delete(g.edges, key)
	delete(g.out[e.From], key)
	delete(g.in[e.To], key)
}

// HasEdge reports whether an edge with the given key exists.
func (g *Graph) HasEdge(key string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.edges[key]
	return ok
}

// Edge returns the edge with the given key.
func (g *Graph) Edge(key string) (Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[key]
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}
	return *e, nil
}

// SetFC updates the flow coefficient of an existing edge.
func (g *Graph) SetFC(key string, fc float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.edges[key]
	if !ok {
		return ErrEdgeNotFound
	}
	e.FC = fc
	return nil
}

// OutEdges returns every edge whose From == node, sorted by key.
func (g *Graph) OutEdges(node string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedEdges(g.out[node])
}

// InEdges returns every edge whose To == node, sorted by key.
func (g *Graph) InEdges(node string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedEdges(g.in[node])
}

// Edges returns every edge in the graph, sorted by key.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedEdges(g.edges)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

func sortedEdges(m map[string]*Edge) []Edge {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Edge, 0, len(keys))
	for _, k := range keys {
		out = append(out, *m[k])
	}
	return out
}
