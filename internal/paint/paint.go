// Package paint rewrites a 3MF package's model document to carry
// per-triangle filament painting attributes understood by slicers.
package paint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/Faultbox/lamina/internal/layering"
	"github.com/Faultbox/lamina/internal/logger"
	"github.com/Faultbox/lamina/pkg/threemf"
)

// Injection errors.
var (
	ErrMalformedPackage = errors.New("malformed package")
	ErrColorRange       = errors.New("color index not paintable")
)

const (
	// paintAttr is the per-triangle attribute slicers read for filament
	// slot assignment.
	paintAttr = "paint_color"
	// versionMetadata declares the painting format version in the model root.
	versionMetadata      = "PaintingVersion"
	versionMetadataValue = "0"

	// MaxColors is the number of distinct paint states a single-nibble
	// paint value can express.
	MaxColors = 4
)

// Encode renders a 0-based color index as a paint attribute value. The
// consuming format packs triangle state into 4-bit units: the low 2 bits
// are a leaf marker (00) and the high 2 bits hold the 1-based slot, so
// color 0 encodes as "4", 1 as "8", 2 as "C" and 3 as "10". Indices above
// 3 would need a multi-nibble bitstream and are rejected.
func Encode(colorIndex int) (string, error) {
	if colorIndex < 0 || colorIndex >= MaxColors {
		return "", fmt.Errorf("%w: index %d, single-nibble encoding covers 0-%d",
			ErrColorRange, colorIndex, MaxColors-1)
	}
	return strings.ToUpper(strconv.FormatInt(int64((colorIndex+1))<<2, 16)), nil
}

// Inject returns a new package whose model document's triangle elements
// carry a paint attribute from the assignment, matched by position: the
// Nth assignment entry paints the Nth triangle element in document order.
// If the assignment is shorter than the triangle list, remaining triangles
// are left unpainted. One metadata element declaring the painting format
// version is added to the model root. Every other package entry is copied
// unchanged, byte for byte.
func Inject(base *threemf.Package, assignment layering.Assignment) (*threemf.Package, error) {
	modelData, err := base.Read(threemf.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s missing", ErrMalformedPackage, threemf.ModelPath)
	}

	painted, err := rewriteModel(modelData, assignment)
	if err != nil {
		return nil, err
	}

	out := threemf.NewPackage()
	for _, e := range base.Entries() {
		if e.Name == threemf.ModelPath {
			out.Add(e.Name, painted)
		} else {
			out.Add(e.Name, e.Data)
		}
	}
	return out, nil
}

func rewriteModel(data []byte, assignment layering.Assignment) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPackage, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "model" {
		return nil, fmt.Errorf("%w: document root is not a model element", ErrMalformedPackage)
	}

	// Paint triangle elements in document order. The document keeps its own
	// namespace prefixes; nothing new is declared here.
	n := 0
	var walk func(el *etree.Element) error
	walk = func(el *etree.Element) error {
		if el.Tag == "triangle" {
			if n < len(assignment) {
				value, err := Encode(assignment[n])
				if err != nil {
					return err
				}
				el.CreateAttr(paintAttr, value)
			}
			n++
			return nil
		}
		for _, child := range el.ChildElements() {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	if n > len(assignment) {
		logger.Warn("assignment shorter than triangle list, remainder unpainted",
			zap.Int("triangles", n), zap.Int("assigned", len(assignment)))
	}

	addVersionMetadata(root)
	return doc.WriteToBytes()
}

// Stats reports how many triangle elements a package's model document has
// and how many of them carry a paint attribute.
func Stats(p *threemf.Package) (total, painted int, err error) {
	modelData, err := p.Read(threemf.ModelPath)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s missing", ErrMalformedPackage, threemf.ModelPath)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(modelData); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformedPackage, err)
	}
	root := doc.Root()
	if root == nil {
		return 0, 0, fmt.Errorf("%w: empty document", ErrMalformedPackage)
	}

	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == "triangle" {
			total++
			if el.SelectAttr(paintAttr) != nil {
				painted++
			}
			return
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(root)
	return total, painted, nil
}

// addVersionMetadata adds the painting version declaration to the model
// root. The 3MF schema wants metadata ahead of resources, so it is placed
// before the first resources child when one exists.
func addVersionMetadata(root *etree.Element) {
	meta := etree.NewElement("metadata")
	meta.CreateAttr("name", versionMetadata)
	meta.SetText(versionMetadataValue)

	for _, child := range root.ChildElements() {
		if child.Tag == "resources" {
			root.InsertChildAt(child.Index(), meta)
			return
		}
	}
	root.AddChild(meta)
}
