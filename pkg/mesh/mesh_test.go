package mesh

import (
	"errors"
	"math"
	"testing"
)

func TestVertexAdd(t *testing.T) {
	a := Vertex{1, 2, 3}
	b := Vertex{4, 5, 6}
	got := a.Add(b)
	want := Vertex{5, 7, 9}
	if got != want {
		t.Errorf("Vertex.Add() = %v, want %v", got, want)
	}
}

func TestVertexCross(t *testing.T) {
	x := Vertex{1, 0, 0}
	y := Vertex{0, 1, 0}
	got := x.Cross(y)
	want := Vertex{0, 0, 1}
	if got != want {
		t.Errorf("Vertex.Cross() = %v, want %v", got, want)
	}
}

func TestVertexNormalize(t *testing.T) {
	v := Vertex{3, 4, 0}
	l := v.Normalize().Length()
	if math.Abs(l-1) > 1e-12 {
		t.Errorf("Vertex.Normalize().Length() = %v, want 1", l)
	}

	zero := Vertex{}
	if zero.Normalize() != (Vertex{}) {
		t.Error("normalizing the zero vector should return the zero vector")
	}
}

func TestNewValidatesIndices(t *testing.T) {
	verts := []Vertex{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	if _, err := New(verts, []Triangle{{0, 1, 2}}); err != nil {
		t.Fatalf("New() with valid indices failed: %v", err)
	}

	_, err := New(verts, []Triangle{{0, 1, 3}})
	if !errors.Is(err, ErrVertexIndex) {
		t.Errorf("New() with out-of-range index: got %v, want ErrVertexIndex", err)
	}
}

func TestCentroidZ(t *testing.T) {
	m, err := New(
		[]Vertex{{0, 0, 0}, {1, 0, 0.3}, {0, 1, 0.6}},
		[]Triangle{{0, 1, 2}},
	)
	if err != nil {
		t.Fatal(err)
	}

	got := m.CentroidZ(0)
	if math.Abs(got-0.3) > 1e-12 {
		t.Errorf("CentroidZ(0) = %v, want 0.3", got)
	}
}

func TestNormal(t *testing.T) {
	m, err := New(
		[]Vertex{{0, 0, 5}, {1, 0, 5}, {0, 1, 5}},
		[]Triangle{{0, 1, 2}},
	)
	if err != nil {
		t.Fatal(err)
	}

	got := m.Normal(0)
	want := Vertex{0, 0, 1}
	if got != want {
		t.Errorf("Normal(0) = %v, want %v", got, want)
	}
}

func TestBounds(t *testing.T) {
	m, err := New(
		[]Vertex{{-1, 2, -3}, {4, -5, 6}, {0, 0, 0}},
		[]Triangle{{0, 1, 2}},
	)
	if err != nil {
		t.Fatal(err)
	}

	b := m.Bounds()
	if b.Min != (Vertex{-1, -5, -3}) {
		t.Errorf("Bounds().Min = %v, want {-1 -5 -3}", b.Min)
	}
	if b.Max != (Vertex{4, 2, 6}) {
		t.Errorf("Bounds().Max = %v, want {4 2 6}", b.Max)
	}

	empty := &Mesh{}
	if empty.Bounds() != (Bounds{}) {
		t.Error("empty mesh should have zero bounds")
	}
}
