package model

import (
	"crypto/md5"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// DefaultMaxCells caps grid allocation when a Config leaves MaxCells unset.
const DefaultMaxCells = 1 << 28

// Boundary resolves coordinates outside the grid.
type Boundary int

const (
	// Wrap treats every axis as toroidal.
	Wrap Boundary = iota
	// ClampDead treats everything outside the grid as permanently Dead.
	ClampDead
)

func (b Boundary) String() string {
	switch b {
	case Wrap:
		return "wrap"
	case ClampDead:
		return "clamp_dead"
	}
	return fmt.Sprintf("boundary(%d)", int(b))
}

// ParseBoundary maps a config name to a Boundary.
func ParseBoundary(name string) (Boundary, error) {
	switch name {
	case "wrap", "":
		return Wrap, nil
	case "clamp_dead", "clamp":
		return ClampDead, nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "[ParseBoundary] unknown boundary %q", name)
}

// Dims is the size of the grid along each axis.
type Dims struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Cells returns X*Y*Z.
func (d Dims) Cells() int { return d.X * d.Y * d.Z }

// Contains reports whether (x, y, z) lies inside the grid.
func (d Dims) Contains(x, y, z int) bool {
	return x >= 0 && x < d.X && y >= 0 && y < d.Y && z >= 0 && z < d.Z
}

// Index returns the linear index of an in-bounds coordinate.
func (d Dims) Index(x, y, z int) int { return x + d.X*(y+d.Y*z) }

// Coord is the inverse of Index.
func (d Dims) Coord(i int) (x, y, z int) {
	return i % d.X, i / d.X % d.Y, i / (d.X * d.Y)
}

func (d Dims) validate(maxCells int) error {
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
		return errors.Wrapf(ErrConfiguration, "[Dims] dimensions %dx%dx%d must be positive", d.X, d.Y, d.Z)
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	if d.X > math.MaxInt/d.Y || d.X*d.Y > math.MaxInt/d.Z || d.Cells() > maxCells {
		return errors.Wrapf(ErrResource, "[Dims] %dx%dx%d exceeds %d cells", d.X, d.Y, d.Z, maxCells)
	}
	return nil
}

// Grid is a fixed-size voxel volume with a current and a next buffer.
// Readers only see current; a tick writes next and then swaps the two.
type Grid struct {
	dims     Dims
	boundary Boundary
	cur      []rules.CellState
	nxt      []rules.CellState
}

// NewGrid allocates both buffers. Dimensions never change afterwards.
func NewGrid(dims Dims, boundary Boundary) (*Grid, error) {
	return newGrid(dims, boundary, DefaultMaxCells)
}

func newGrid(dims Dims, boundary Boundary, maxCells int) (*Grid, error) {
	if err := dims.validate(maxCells); err != nil {
		return nil, err
	}
	if boundary != Wrap && boundary != ClampDead {
		return nil, errors.Wrapf(ErrConfiguration, "[NewGrid] unknown boundary %d", int(boundary))
	}
	n := dims.Cells()
	return &Grid{
		dims:     dims,
		boundary: boundary,
		cur:      make([]rules.CellState, n),
		nxt:      make([]rules.CellState, n),
	}, nil
}

// Dims returns the grid dimensions.
func (g *Grid) Dims() Dims { return g.dims }

// Boundary returns the boundary policy fixed at construction.
func (g *Grid) Boundary() Boundary { return g.boundary }

// Get reads current, resolving out-of-range coordinates by the boundary policy.
func (g *Grid) Get(x, y, z int) rules.CellState {
	if !g.dims.Contains(x, y, z) {
		if g.boundary == ClampDead {
			return rules.Dead
		}
		x, y, z = wrap(x, g.dims.X), wrap(y, g.dims.Y), wrap(z, g.dims.Z)
	}
	return g.cur[g.dims.Index(x, y, z)]
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Set writes a cell of current. It is only meant for seeding between ticks;
// out-of-range coordinates are ignored.
func (g *Grid) Set(x, y, z int, state rules.CellState) {
	if g.dims.Contains(x, y, z) {
		g.cur[g.dims.Index(x, y, z)] = state
	}
}

// SetNext writes a cell of next. Callers only write cells they own, so an
// out-of-range coordinate is an engine defect and panics.
func (g *Grid) SetNext(x, y, z int, state rules.CellState) {
	if !g.dims.Contains(x, y, z) {
		panic(fmt.Sprintf("SetNext(%d,%d,%d) outside %dx%dx%d grid", x, y, z, g.dims.X, g.dims.Y, g.dims.Z))
	}
	g.nxt[g.dims.Index(x, y, z)] = state
}

// Swap exchanges the current and next buffers.
func (g *Grid) Swap() {
	g.cur, g.nxt = g.nxt, g.cur
}

// Clear kills every cell in both buffers.
func (g *Grid) Clear() {
	clear(g.cur)
	clear(g.nxt)
}

// Load replaces current with cells, which must match the grid size.
func (g *Grid) Load(cells []rules.CellState) error {
	if len(cells) != len(g.cur) {
		return errors.Wrapf(ErrConfiguration, "[Grid.Load] got %d cells, grid holds %d", len(cells), len(g.cur))
	}
	copy(g.cur, cells)
	return nil
}

// View returns a read-only view of current.
func (g *Grid) View() View {
	return View{dims: g.dims, boundary: g.boundary, cells: g.cur}
}

// Population returns the number of non-Dead cells in current.
func (g *Grid) Population() int { return g.View().Population() }

// Hash returns an MD5 digest of current.
func (g *Grid) Hash() string { return g.View().Hash() }

// View is a read-only window onto a grid's current buffer. It is only valid
// until the next tick; use Snapshot.Copy to keep the state longer.
type View struct {
	dims     Dims
	boundary Boundary
	cells    []rules.CellState
}

// Dims returns the viewed grid's dimensions.
func (v View) Dims() Dims { return v.dims }

// At returns the state at (x, y, z) using the grid's boundary policy.
func (v View) At(x, y, z int) rules.CellState {
	if !v.dims.Contains(x, y, z) {
		if v.boundary == ClampDead || len(v.cells) == 0 {
			return rules.Dead
		}
		x, y, z = wrap(x, v.dims.X), wrap(y, v.dims.Y), wrap(z, v.dims.Z)
	}
	return v.cells[v.dims.Index(x, y, z)]
}

// Len returns the number of cells.
func (v View) Len() int { return len(v.cells) }

// CopyCells appends the flattened cells (x fastest, then y, then z) to dst.
func (v View) CopyCells(dst []rules.CellState) []rules.CellState {
	return append(dst, v.cells...)
}

// Population returns the number of non-Dead cells.
func (v View) Population() (count int) {
	for _, c := range v.cells {
		if c != rules.Dead {
			count++
		}
	}
	return
}

// Hash returns an MD5 digest of the cell states.
func (v View) Hash() string {
	h := md5.New()
	buf := make([]byte, len(v.cells))
	for i, c := range v.cells {
		buf[i] = byte(c)
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}
