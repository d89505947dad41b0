package export

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lamina/pkg/mesh"
	"github.com/Faultbox/lamina/pkg/stl"
)

// ErrNoMesh reports a source that yielded no mesh geometry.
var ErrNoMesh = errors.New("no mesh found")

// Source yields the mesh to export.
type Source interface {
	Resolve() (*mesh.Mesh, error)
}

// Tessellator is the boundary to a CAD geometry producer: anything that can
// triangulate itself to a given tolerance.
type Tessellator interface {
	Tessellate(tolerance float64) ([]mesh.Vertex, []mesh.Triangle, error)
}

// FileSource resolves a mesh by reading an STL file from disk.
type FileSource struct {
	Path string
}

// Resolve reads and parses the STL file. An STL with zero triangles counts
// as no mesh found.
func (s FileSource) Resolve() (*mesh.Mesh, error) {
	m, err := stl.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	if len(m.Triangles) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMesh, s.Path)
	}
	return m, nil
}

// PartSource resolves a mesh by tessellating a CAD part.
type PartSource struct {
	Part      Tessellator
	Tolerance float64
}

// Resolve tessellates the part and validates the resulting mesh.
func (s PartSource) Resolve() (*mesh.Mesh, error) {
	vertices, triangles, err := s.Part.Tessellate(s.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("tessellating part: %w", err)
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%w: tessellation yielded no triangles", ErrNoMesh)
	}
	return mesh.New(vertices, triangles)
}
