package model

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
)

func TestNeighborhoodSizes(t *testing.T) {
	cases := []struct {
		n    Neighborhood
		want int
	}{
		{Neighborhood{Moore, 1}, 26},
		{Neighborhood{Moore, 2}, 124},
		{Neighborhood{VonNeumann, 1}, 6},
		{Neighborhood{VonNeumann, 2}, 24},
		{Neighborhood{Face, 1}, 6},
		{Neighborhood{FaceEdge, 1}, 18},
		{Neighborhood{Moore, MaxRadius}, 17*17*17 - 1},
	}
	for _, tc := range cases {
		if err := tc.n.Validate(); err != nil {
			t.Fatalf("%+v: %v", tc.n, err)
		}
		if got := tc.n.MaxCount(); got != tc.want {
			t.Fatalf("%s r=%d: %d offsets, want %d", tc.n.Shape, tc.n.Radius, got, tc.want)
		}
		for _, o := range tc.n.Offsets() {
			if o == (Offset{}) {
				t.Fatalf("%+v includes the center", tc.n)
			}
		}
	}
}

func TestNeighborhoodValidation(t *testing.T) {
	for _, n := range []Neighborhood{{Moore, 0}, {Face, 2}, {FaceEdge, 3}, {Shape(9), 1}, {Moore, MaxRadius + 1}, {VonNeumann, 120}} {
		if err := n.Validate(); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%+v: expected configuration error, got %v", n, err)
		}
		if got := n.MaxCount(); got != 0 {
			t.Fatalf("%+v: invalid neighborhood reports %d offsets", n, got)
		}
	}
	if _, err := NewCounter(Neighborhood{Moore, 120}, Dims{4, 4, 4}, 1); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("oversized radius: expected configuration error, got %v", err)
	}
}

func TestCountAliveBoundaryPolicy(t *testing.T) {
	d := Dims{5, 4, 3}
	for _, tc := range []struct {
		boundary Boundary
		want     int
	}{
		{Wrap, 1},
		{ClampDead, 0},
	} {
		g := mustGrid(t, d, tc.boundary)
		g.Set(0, 0, 0, 1)
		c, err := NewCounter(Neighborhood{Moore, 1}, d, 1)
		if err != nil {
			t.Fatal(err)
		}
		if got := c.CountAlive(g, d.X-1, 0, 0); got != tc.want {
			t.Fatalf("%s: (X-1,0,0) sees %d alive neighbors, want %d", tc.boundary, got, tc.want)
		}
	}
}

func TestCountAliveInteriorMatchesGet(t *testing.T) {
	d := Dims{9, 8, 7}
	g := mustGrid(t, d, Wrap)
	rng := rand.New(rand.NewPCG(7, 0))
	for i := range g.cur {
		g.cur[i] = rules.CellState(rng.IntN(3))
	}
	for _, n := range []Neighborhood{{Moore, 1}, {Moore, 2}, {VonNeumann, 2}, {FaceEdge, 1}} {
		c, err := NewCounter(n, d, 2)
		if err != nil {
			t.Fatal(err)
		}
		for i := range g.cur {
			x, y, z := d.Coord(i)
			want := 0
			for _, o := range n.Offsets() {
				if g.Get(x+o.X, y+o.Y, z+o.Z) >= 2 {
					want++
				}
			}
			if got := c.CountAlive(g, x, y, z); got != want {
				t.Fatalf("%s r=%d at (%d,%d,%d): got %d want %d", n.Shape, n.Radius, x, y, z, got, want)
			}
		}
	}
}

func TestCountAliveTinyWrappedAxis(t *testing.T) {
	// every offset on a 1-wide axis wraps onto the cell's own column
	d := Dims{1, 1, 1}
	g := mustGrid(t, d, Wrap)
	g.Set(0, 0, 0, 1)
	c, _ := NewCounter(Neighborhood{Moore, 1}, d, 1)
	if got := c.CountAlive(g, 0, 0, 0); got != 26 {
		t.Fatalf("got %d, want 26", got)
	}
}
