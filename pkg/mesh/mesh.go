// Package mesh provides the triangle mesh data model used by the exporter.
package mesh

import (
	"errors"
	"fmt"
	"math"
)

// Mesh errors.
var (
	ErrVertexIndex = errors.New("triangle vertex index out of range")
)

// Vertex is a point in 3D space, in millimeters.
type Vertex struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vertex) Add(other Vertex) Vertex {
	return Vertex{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vertex) Sub(other Vertex) Vertex {
	return Vertex{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v Vertex) Scale(s float64) Vertex {
	return Vertex{v.X * s, v.Y * s, v.Z * s}
}

// Cross returns the cross product.
func (v Vertex) Cross(other Vertex) Vertex {
	return Vertex{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vertex) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector, or the zero vector for zero input.
func (v Vertex) Normalize() Vertex {
	l := v.Length()
	if l == 0 {
		return Vertex{}
	}
	return Vertex{v.X / l, v.Y / l, v.Z / l}
}

// Triangle references three vertices by 0-based index into the owning mesh.
type Triangle struct {
	V1, V2, V3 uint32
}

// Mesh is an indexed triangle mesh. Construct with New and treat as
// immutable afterwards; the exporter relies on triangle order staying fixed.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
}

// New builds a mesh and validates that every triangle index is in range.
func New(vertices []Vertex, triangles []Triangle) (*Mesh, error) {
	n := uint32(len(vertices))
	for i, t := range triangles {
		if t.V1 >= n || t.V2 >= n || t.V3 >= n {
			return nil, fmt.Errorf("%w: triangle %d references (%d,%d,%d) with %d vertices",
				ErrVertexIndex, i, t.V1, t.V2, t.V3, n)
		}
	}
	return &Mesh{Vertices: vertices, Triangles: triangles}, nil
}

// CentroidZ returns the mean Z coordinate of triangle i's three vertices.
func (m *Mesh) CentroidZ(i int) float64 {
	t := m.Triangles[i]
	return (m.Vertices[t.V1].Z + m.Vertices[t.V2].Z + m.Vertices[t.V3].Z) / 3.0
}

// Normal returns the unit face normal of triangle i, or the zero vector
// for a degenerate triangle.
func (m *Mesh) Normal(i int) Vertex {
	t := m.Triangles[i]
	v0 := m.Vertices[t.V1]
	e1 := m.Vertices[t.V2].Sub(v0)
	e2 := m.Vertices[t.V3].Sub(v0)
	return e1.Cross(e2).Normalize()
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min, Max Vertex
}

// Bounds returns the bounding box over all vertices.
// The zero Bounds is returned for an empty mesh.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Min.Z = math.Min(b.Min.Z, v.Z)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
		b.Max.Z = math.Max(b.Max.Z, v.Z)
	}
	return b
}
