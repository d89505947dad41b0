// Package material parses and validates color specifications for the
// exporter's material group.
package material

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/lamina/pkg/threemf"
)

// ErrInvalidColor reports a color string that is not "#RRGGBB" form.
var ErrInvalidColor = errors.New("invalid color")

// ColorSpec is a validated opaque color and its declaration order index.
type ColorSpec struct {
	R, G, B uint8
	Index   int
}

// Catalog is an ordered set of colors. Order mirrors the caller-supplied
// color list and is significant: color index N in a layer assignment refers
// to the Nth catalog entry.
type Catalog struct {
	colors []ColorSpec
}

// NewCatalog validates a list of "#RRGGBB" strings (leading '#' optional)
// and builds a catalog preserving their order.
func NewCatalog(specs []string) (*Catalog, error) {
	c := &Catalog{colors: make([]ColorSpec, 0, len(specs))}
	for i, s := range specs {
		r, g, b, err := parseHex(s)
		if err != nil {
			return nil, err
		}
		c.colors = append(c.colors, ColorSpec{R: r, G: g, B: b, Index: i})
	}
	return c, nil
}

// Len returns the number of colors.
func (c *Catalog) Len() int {
	return len(c.colors)
}

// Color returns the color at the given index. An out-of-range index means a
// layer assignment and catalog were built from different inputs, which the
// pipeline never does; it is reported as an internal error.
func (c *Catalog) Color(index int) (ColorSpec, error) {
	if index < 0 || index >= len(c.colors) {
		return ColorSpec{}, fmt.Errorf("internal: color index %d outside catalog of %d", index, len(c.colors))
	}
	return c.colors[index], nil
}

// BaseMaterials renders the catalog as 3MF base materials named Color0..N,
// all fully opaque.
func (c *Catalog) BaseMaterials() []threemf.BaseMaterial {
	out := make([]threemf.BaseMaterial, len(c.colors))
	for i, col := range c.colors {
		out[i] = threemf.BaseMaterial{
			Name: fmt.Sprintf("Color%d", i),
			R:    col.R, G: col.G, B: col.B, A: 255,
		}
	}
	return out
}

func parseHex(s string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q: want exactly six hex digits", ErrInvalidColor, s)
	}
	v, perr := strconv.ParseUint(h, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q: want exactly six hex digits", ErrInvalidColor, s)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
