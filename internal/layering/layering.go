// Package layering assigns each mesh triangle a color index from the print
// layer its Z centroid falls in.
package layering

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/lamina/pkg/mesh"
)

// Configuration errors.
var (
	ErrLayerHeight = errors.New("layer height must be positive")
	ErrColorCount  = errors.New("need at least two colors for alternating layers")
)

// Assignment holds one color index per triangle, in mesh triangle order.
type Assignment []int

// Assign computes the per-triangle color assignment. Layer k covers
// centroids in [k*layerHeight, (k+1)*layerHeight); a centroid exactly on a
// boundary belongs to the layer above it, for negative Z as well (floor,
// not truncation toward zero). Colors cycle through [0, numColors).
func Assign(m *mesh.Mesh, layerHeight float64, numColors int) (Assignment, error) {
	if layerHeight <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrLayerHeight, layerHeight)
	}
	if numColors < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrColorCount, numColors)
	}

	out := make(Assignment, len(m.Triangles))
	for i := range m.Triangles {
		layer := int(math.Floor(m.CentroidZ(i) / layerHeight))
		out[i] = ((layer % numColors) + numColors) % numColors
	}
	return out, nil
}
