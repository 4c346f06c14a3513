// Package graph provides the in-memory containers the dataset loaders build:
// an unweighted graph linking owners to the breeds they keep, and a weighted
// graph counting dogs of each breed per district. Both are plain adjacency
// maps; the loading pipeline is single-threaded, so neither container takes
// locks. Accessors copy before returning and never expose internal maps.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// Vertex is anything that can sit in a graph. Domain entities satisfy it
// structurally; the kind discriminator lets consumers partition neighbours
// without type switches.
type Vertex interface {
	VertexID() string
	VertexKind() string
}

// ErrVertexNotFound indicates an edge endpoint that was never added.
var ErrVertexNotFound = errors.New("vertex not found")

// Edge is one undirected edge. A holds the endpoint with the smaller id.
type Edge struct {
	A, B Vertex
}

// WeightedEdge is one undirected edge with its weight. A holds the endpoint
// with the smaller id.
type WeightedEdge struct {
	A, B   Vertex
	Weight float64
}

// Graph is an undirected, unweighted graph. An edge can only be added once
// both endpoints exist, so every edge implies both of its vertices.
type Graph struct {
	vertices  map[string]Vertex
	adjacency map[string]map[string]struct{}
	edges     int
}

// NewGraph returns an empty unweighted graph.
func NewGraph() *Graph {
	return &Graph{
		vertices:  make(map[string]Vertex),
		adjacency: make(map[string]map[string]struct{}),
	}
}

// AddVertex registers the vertex if its key is not already present.
func (g *Graph) AddVertex(v Vertex) {
	id := v.VertexID()
	if _, ok := g.vertices[id]; ok {
		return
	}
	g.vertices[id] = v
	g.adjacency[id] = make(map[string]struct{})
}

// AddEdge connects two existing vertices. Re-adding an existing edge is a
// no-op; an unknown endpoint is an error.
func (g *Graph) AddEdge(a, b Vertex) error {
	aID, bID := a.VertexID(), b.VertexID()
	if _, ok := g.vertices[aID]; !ok {
		return fmt.Errorf("add edge %s -- %s: %w", aID, bID, ErrVertexNotFound)
	}
	if _, ok := g.vertices[bID]; !ok {
		return fmt.Errorf("add edge %s -- %s: %w", aID, bID, ErrVertexNotFound)
	}
	if _, ok := g.adjacency[aID][bID]; ok {
		return nil
	}
	g.adjacency[aID][bID] = struct{}{}
	g.adjacency[bID][aID] = struct{}{}
	g.edges++
	return nil
}

// HasVertex reports whether the key is present.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// HasEdge reports whether the two keys are connected.
func (g *Graph) HasEdge(aID, bID string) bool {
	_, ok := g.adjacency[aID][bID]
	return ok
}

// Vertex returns the stored vertex for the key.
func (g *Graph) Vertex(id string) (Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// Neighbors returns the vertices adjacent to the key, sorted by id. Unknown
// keys yield nil.
func (g *Graph) Neighbors(id string) []Vertex {
	adj, ok := g.adjacency[id]
	if !ok {
		return nil
	}
	out := make([]Vertex, 0, len(adj))
	for nid := range adj {
		out = append(out, g.vertices[nid])
	}
	sortVertices(out)
	return out
}

// Vertices returns every vertex, sorted by id.
func (g *Graph) Vertices() []Vertex {
	out := make([]Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		out = append(out, v)
	}
	sortVertices(out)
	return out
}

// Edges returns every undirected edge exactly once, ordered by endpoint ids.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for aID, adj := range g.adjacency {
		for bID := range adj {
			if aID < bID {
				out = append(out, Edge{A: g.vertices[aID], B: g.vertices[bID]})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A.VertexID() != out[j].A.VertexID() {
			return out[i].A.VertexID() < out[j].A.VertexID()
		}
		return out[i].B.VertexID() < out[j].B.VertexID()
	})
	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// WeightedGraph is an undirected graph with non-negative float64 edge
// weights. Absent edges weigh zero, which lets callers accumulate counts
// with Weight followed by SetWeight without probing first.
type WeightedGraph struct {
	vertices  map[string]Vertex
	adjacency map[string]map[string]float64
}

// NewWeightedGraph returns an empty weighted graph.
func NewWeightedGraph() *WeightedGraph {
	return &WeightedGraph{
		vertices:  make(map[string]Vertex),
		adjacency: make(map[string]map[string]float64),
	}
}

// AddVertex registers the vertex if its key is not already present.
func (g *WeightedGraph) AddVertex(v Vertex) {
	id := v.VertexID()
	if _, ok := g.vertices[id]; ok {
		return
	}
	g.vertices[id] = v
	g.adjacency[id] = make(map[string]float64)
}

// HasVertex reports whether the key is present.
func (g *WeightedGraph) HasVertex(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// Vertex returns the stored vertex for the key.
func (g *WeightedGraph) Vertex(id string) (Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// Weight returns the edge weight between two keys, zero when no edge exists.
func (g *WeightedGraph) Weight(aID, bID string) float64 {
	return g.adjacency[aID][bID]
}

// SetWeight connects two existing vertices with the given weight, replacing
// any previous value.
func (g *WeightedGraph) SetWeight(a, b Vertex, weight float64) error {
	aID, bID := a.VertexID(), b.VertexID()
	if _, ok := g.vertices[aID]; !ok {
		return fmt.Errorf("set weight %s -- %s: %w", aID, bID, ErrVertexNotFound)
	}
	if _, ok := g.vertices[bID]; !ok {
		return fmt.Errorf("set weight %s -- %s: %w", aID, bID, ErrVertexNotFound)
	}
	g.adjacency[aID][bID] = weight
	g.adjacency[bID][aID] = weight
	return nil
}

// AddWeight increments the edge weight between two existing vertices by
// delta, creating the edge at delta if it was absent.
func (g *WeightedGraph) AddWeight(a, b Vertex, delta float64) error {
	current := g.Weight(a.VertexID(), b.VertexID())
	return g.SetWeight(a, b, current+delta)
}

// Neighbors returns the adjacent vertices for the key, sorted by id.
func (g *WeightedGraph) Neighbors(id string) []Vertex {
	adj, ok := g.adjacency[id]
	if !ok {
		return nil
	}
	out := make([]Vertex, 0, len(adj))
	for nid := range adj {
		out = append(out, g.vertices[nid])
	}
	sortVertices(out)
	return out
}

// Vertices returns every vertex, sorted by id.
func (g *WeightedGraph) Vertices() []Vertex {
	out := make([]Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		out = append(out, v)
	}
	sortVertices(out)
	return out
}

// Edges returns every undirected edge exactly once, ordered by endpoint ids.
func (g *WeightedGraph) Edges() []WeightedEdge {
	var out []WeightedEdge
	for aID, adj := range g.adjacency {
		for bID, w := range adj {
			if aID < bID {
				out = append(out, WeightedEdge{A: g.vertices[aID], B: g.vertices[bID], Weight: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A.VertexID() != out[j].A.VertexID() {
			return out[i].A.VertexID() < out[j].A.VertexID()
		}
		return out[i].B.VertexID() < out[j].B.VertexID()
	})
	return out
}

// VertexCount returns the number of vertices.
func (g *WeightedGraph) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of undirected edges carrying a weight.
func (g *WeightedGraph) EdgeCount() int {
	total := 0
	for _, adj := range g.adjacency {
		total += len(adj)
	}
	return total / 2
}

func sortVertices(vs []Vertex) {
	sort.Slice(vs, func(i, j int) bool {
		return vs[i].VertexID() < vs[j].VertexID()
	})
}
