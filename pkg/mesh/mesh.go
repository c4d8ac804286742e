// Package mesh provides an in-memory triangle mesh that collects the output of
// the STL decoder.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/stlmesh/pkg/stl"
)

// Triangle holds three node indices.
type Triangle [3]int

// Mesh stores nodes and triangles. It implements stl.Sink and
// stl.BlockObserver.
type Mesh struct {
	Nodes     []r3.Vec
	Triangles []Triangle
	Blocks    []stl.BlockInfo
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// AddNode appends a node and returns its index.
func (m *Mesh) AddNode(x, y, z float64) stl.NodeIndex {
	m.Nodes = append(m.Nodes, r3.Vec{X: x, Y: y, Z: z})
	return stl.NodeIndex(len(m.Nodes) - 1)
}

// AddTriangle appends a triangle.
func (m *Mesh) AddTriangle(n1, n2, n3 stl.NodeIndex) {
	m.Triangles = append(m.Triangles, Triangle{int(n1), int(n2), int(n3)})
}

// BeginBlock records the block header.
func (m *Mesh) BeginBlock(info stl.BlockInfo) {
	m.Blocks = append(m.Blocks, info)
}

// Reset empties the mesh, keeping allocated storage.
func (m *Mesh) Reset() {
	m.Nodes = m.Nodes[:0]
	m.Triangles = m.Triangles[:0]
	m.Blocks = m.Blocks[:0]
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min r3.Vec
	Max r3.Vec
}

// Size returns the box extent along each axis.
func (b Bounds) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Bounds returns the bounding box of all nodes. An empty mesh has a zero box.
func (m *Mesh) Bounds() Bounds {
	if len(m.Nodes) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Nodes[0], Max: m.Nodes[0]}
	for _, p := range m.Nodes[1:] {
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// TriangleArea returns the area of triangle i.
func (m *Mesh) TriangleArea(i int) float64 {
	t := m.Triangles[i]
	a, b, c := m.Nodes[t[0]], m.Nodes[t[1]], m.Nodes[t[2]]
	return r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
}

// SurfaceArea returns the summed area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for i := range m.Triangles {
		area += m.TriangleArea(i)
	}
	return area
}

// Volume returns the signed volume enclosed by the triangles. It is only
// meaningful for closed, consistently oriented meshes.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, t := range m.Triangles {
		a, b, c := m.Nodes[t[0]], m.Nodes[t[1]], m.Nodes[t[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6
}

// Edge is an undirected edge between two nodes, smaller index first.
type Edge [2]int

func newEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// BoundaryEdges returns the edges used by exactly one triangle. A watertight
// mesh has none.
func (m *Mesh) BoundaryEdges() []Edge {
	counts := make(map[Edge]int, len(m.Triangles)*3/2)
	for _, t := range m.Triangles {
		counts[newEdge(t[0], t[1])]++
		counts[newEdge(t[1], t[2])]++
		counts[newEdge(t[2], t[0])]++
	}
	var edges []Edge
	for e, n := range counts {
		if n == 1 {
			edges = append(edges, e)
		}
	}
	return edges
}

// IsWatertight reports whether every edge is shared by at least two triangles.
func (m *Mesh) IsWatertight() bool {
	return len(m.Triangles) > 0 && len(m.BoundaryEdges()) == 0
}
