package model

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// Shape selects which offsets around a cell count as neighbors.
type Shape int

const (
	// Moore is the full cube {-r..r}^3 without the center (26 cells at r=1).
	Moore Shape = iota
	// VonNeumann keeps offsets within Manhattan distance r (6 cells at r=1).
	VonNeumann
	// Face is the 6 face-adjacent cells.
	Face
	// FaceEdge is the 18 face- and edge-adjacent cells.
	FaceEdge
)

func (s Shape) String() string {
	switch s {
	case Moore:
		return "moore"
	case VonNeumann:
		return "von_neumann"
	case Face:
		return "face"
	case FaceEdge:
		return "face_edge"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShape maps a config name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "moore", "":
		return Moore, nil
	case "von_neumann", "vonneumann":
		return VonNeumann, nil
	case "face":
		return Face, nil
	case "face_edge":
		return FaceEdge, nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "[ParseShape] unknown neighborhood %q", name)
}

// Offset is a relative neighbor position.
type Offset struct{ X, Y, Z int }

// MaxRadius bounds Neighborhood.Radius; a Moore cube of this radius has 4912 offsets.
const MaxRadius = 8

// Neighborhood is a shape and radius.
type Neighborhood struct {
	Shape  Shape
	Radius int
}

// Validate checks the radius against the shape.
func (n Neighborhood) Validate() error {
	if n.Radius < 1 || n.Radius > MaxRadius {
		return errors.Wrapf(ErrConfiguration, "[Neighborhood] radius %d outside [1,%d]", n.Radius, MaxRadius)
	}
	switch n.Shape {
	case Moore, VonNeumann:
	case Face, FaceEdge:
		if n.Radius != 1 {
			return errors.Wrapf(ErrConfiguration, "[Neighborhood] %s requires radius 1, got %d", n.Shape, n.Radius)
		}
	default:
		return errors.Wrapf(ErrConfiguration, "[Neighborhood] unknown shape %d", int(n.Shape))
	}
	return nil
}

// Offsets lists the neighbor offsets in z, y, x order. The center is never
// included. An invalid neighborhood has no offsets.
func (n Neighborhood) Offsets() []Offset {
	var out []Offset
	n.each(func(o Offset) { out = append(out, o) })
	return out
}

func (n Neighborhood) each(fn func(Offset)) {
	if n.Validate() != nil {
		return
	}
	r := n.Radius
	for dz := -r; dz <= r; dz++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if n.includes(dx, dy, dz) {
					fn(Offset{dx, dy, dz})
				}
			}
		}
	}
}

func (n Neighborhood) includes(dx, dy, dz int) bool {
	manhattan := abs(dx) + abs(dy) + abs(dz)
	switch n.Shape {
	case VonNeumann:
		return manhattan <= n.Radius
	case Face:
		return manhattan == 1
	case FaceEdge:
		return manhattan <= 2
	}
	return true
}

// MaxCount is the largest possible alive neighbor count.
func (n Neighborhood) MaxCount() int {
	count := 0
	n.each(func(Offset) { count++ })
	return count
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Counter counts alive neighbors for one grid shape. It holds no mutable
// state, so workers share a single Counter.
type Counter struct {
	offsets   []Offset
	deltas    []int
	radius    int
	dims      Dims
	threshold rules.CellState
}

// NewCounter precomputes offsets for dims. A cell counts as alive when its
// state is at least threshold.
func NewCounter(n Neighborhood, dims Dims, threshold rules.CellState) (*Counter, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if threshold == rules.Dead {
		threshold = 1
	}
	c := &Counter{
		offsets:   n.Offsets(),
		radius:    n.Radius,
		dims:      dims,
		threshold: threshold,
	}
	c.deltas = make([]int, len(c.offsets))
	for i, o := range c.offsets {
		c.deltas[i] = o.X + dims.X*(o.Y+dims.Y*o.Z)
	}
	return c, nil
}

// MaxCount is the number of offsets.
func (c *Counter) MaxCount() int { return len(c.offsets) }

// CountAlive returns the number of alive neighbors of (x, y, z).
func (c *Counter) CountAlive(g *Grid, x, y, z int) int {
	count := 0
	r := c.radius
	if x >= r && x < c.dims.X-r && y >= r && y < c.dims.Y-r && z >= r && z < c.dims.Z-r {
		// interior: every offset stays in bounds
		idx := c.dims.Index(x, y, z)
		for _, d := range c.deltas {
			if g.cur[idx+d] >= c.threshold {
				count++
			}
		}
		return count
	}
	for _, o := range c.offsets {
		if g.Get(x+o.X, y+o.Y, z+o.Z) >= c.threshold {
			count++
		}
	}
	return count
}
