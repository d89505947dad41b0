// Package threemf provides reading and writing of 3MF packages: zip
// archives holding a structured 3D-model document plus OPC descriptors.
package threemf

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Canonical entry names inside a 3MF package.
const (
	ModelPath        = "3D/3dmodel.model"
	contentTypesPath = "[Content_Types].xml"
	relsPath         = "_rels/.rels"
)

// ErrEmptyMesh reports a mesh that cannot form a valid package.
var ErrEmptyMesh = errors.New("mesh has no vertices or triangles")

// Entry is a single named blob in a package.
type Entry struct {
	Name string
	Data []byte
}

// Package is an ordered collection of named byte blobs. Entry order is
// preserved through read/write round trips.
type Package struct {
	entries []Entry
	byName  map[string]int
}

// NewPackage returns an empty package.
func NewPackage() *Package {
	return &Package{byName: make(map[string]int)}
}

// Add appends an entry, replacing any existing entry with the same name
// in place.
func (p *Package) Add(name string, data []byte) {
	if i, ok := p.byName[name]; ok {
		p.entries[i].Data = data
		return
	}
	p.byName[name] = len(p.entries)
	p.entries = append(p.entries, Entry{Name: name, Data: data})
}

// Contains checks if an entry exists.
func (p *Package) Contains(name string) bool {
	_, ok := p.byName[name]
	return ok
}

// Read returns the contents of a named entry.
func (p *Package) Read(name string) ([]byte, error) {
	i, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("entry not found: %s", name)
	}
	return p.entries[i].Data, nil
}

// List returns all entry names in package order.
func (p *Package) List() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns the entries in package order. The returned slice is the
// package's own backing storage; callers must not mutate it.
func (p *Package) Entries() []Entry {
	return p.entries
}

// Len returns the number of entries.
func (p *Package) Len() int {
	return len(p.entries)
}

// Write serializes the package as a zip archive. Entry headers carry no
// modification time, so identical packages serialize to identical bytes.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range p.entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   e.Name,
			Method: zip.Deflate,
		})
		if err != nil {
			return fmt.Errorf("creating zip entry %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("writing zip entry %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing zip: %w", err)
	}
	return nil
}

// Bytes serializes the package to memory.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the package to a file on disk.
func (p *Package) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Parse reads a zip archive from raw bytes, preserving entry order.
func Parse(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}
	p := NewPackage()
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening zip entry %s: %w", f.Name, err)
		}
		blob, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading zip entry %s: %w", f.Name, err)
		}
		p.Add(f.Name, blob)
	}
	return p, nil
}

// Open reads a 3MF package from disk.
func Open(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}
