// Package stl provides reading and writing of STL triangle mesh files.
//
// Binary STL is read with vertex deduplication so that identical corner
// positions collapse to a single indexed vertex. ASCII STL ("solid ..."
// text files) is also accepted on the read path. Writing always produces
// binary STL.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/lamina/pkg/mesh"
)

// STL format errors.
var (
	ErrTruncated = errors.New("truncated STL data")
	ErrSyntax    = errors.New("malformed ASCII STL")
)

const (
	headerSize = 80
	// Normal + three vertices (12 floats) + attribute byte count.
	binTriangleSize = 12*4 + 2
)

// Parse parses STL data from raw bytes, detecting ASCII vs binary form.
func Parse(data []byte) (*mesh.Mesh, error) {
	if isASCII(data) {
		return parseASCII(data)
	}
	return parseBinary(data)
}

// ReadFile parses an STL file from disk.
func ReadFile(path string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// isASCII reports whether the data looks like an ASCII STL file. A binary
// file may legally begin with "solid", so the facet keyword is required too.
func isASCII(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("solid")) && bytes.Contains(head, []byte("facet"))
}

func parseBinary(data []byte) (*mesh.Mesh, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("%w: %d byte file", ErrTruncated, len(data))
	}
	count := binary.LittleEndian.Uint32(data[headerSize:])
	body := data[headerSize+4:]
	if uint64(len(body)) < uint64(count)*binTriangleSize {
		return nil, fmt.Errorf("%w: header declares %d triangles", ErrTruncated, count)
	}

	b := newBuilder()
	for i := uint32(0); i < count; i++ {
		tri := body[uint64(i)*binTriangleSize:]
		var corners [3]mesh.Vertex
		for v := 0; v < 3; v++ {
			const start = 3 * 4 // skip the stored normal
			off := start + 12*v
			corners[v] = mesh.Vertex{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(tri[off:]))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(tri[off+4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(tri[off+8:]))),
			}
		}
		b.addTriangle(corners)
	}
	return b.build()
}

func parseASCII(data []byte) (*mesh.Mesh, error) {
	b := newBuilder()
	var corners [3]mesh.Vertex
	nCorner := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %d: expected 3 coordinates", ErrSyntax, line)
		}
		var coords [3]float64
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not a number", ErrSyntax, line, f)
			}
			coords[i] = v
		}
		corners[nCorner] = mesh.Vertex{X: coords[0], Y: coords[1], Z: coords[2]}
		nCorner++
		if nCorner == 3 {
			b.addTriangle(corners)
			nCorner = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning ASCII STL: %w", err)
	}
	if nCorner != 0 {
		return nil, fmt.Errorf("%w: facet with %d vertices", ErrSyntax, nCorner)
	}
	return b.build()
}

// builder accumulates triangles, collapsing repeated vertex positions.
// Positions are keyed at float32 precision, matching what binary STL stores.
type builder struct {
	verts   []mesh.Vertex
	tris    []mesh.Triangle
	vertMap map[[3]float32]uint32
}

func newBuilder() *builder {
	return &builder{vertMap: make(map[[3]float32]uint32)}
}

func (b *builder) addTriangle(corners [3]mesh.Vertex) {
	var t mesh.Triangle
	idx := [3]*uint32{&t.V1, &t.V2, &t.V3}
	for i, c := range corners {
		key := [3]float32{float32(c.X), float32(c.Y), float32(c.Z)}
		vi, ok := b.vertMap[key]
		if !ok {
			vi = uint32(len(b.verts))
			b.verts = append(b.verts, c)
			b.vertMap[key] = vi
		}
		*idx[i] = vi
	}
	b.tris = append(b.tris, t)
}

func (b *builder) build() (*mesh.Mesh, error) {
	return mesh.New(b.verts, b.tris)
}

// Write writes m as binary STL.
func Write(w io.Writer, m *mesh.Mesh) error {
	var header [headerSize]byte
	copy(header[:], "lamina binary STL")
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("writing triangle count: %w", err)
	}

	buf := make([]byte, binTriangleSize)
	for i, t := range m.Triangles {
		n := m.Normal(i)
		putVec(buf[0:], n)
		putVec(buf[12:], m.Vertices[t.V1])
		putVec(buf[24:], m.Vertices[t.V2])
		putVec(buf[36:], m.Vertices[t.V3])
		buf[48], buf[49] = 0, 0
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("writing triangle %d: %w", i, err)
		}
	}
	return nil
}

// WriteFile writes m as binary STL to path.
func WriteFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func putVec(buf []byte, v mesh.Vertex) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(v.Z)))
}
