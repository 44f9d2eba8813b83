package model

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// Seeder initializes a cleared grid's current buffer. fresh is the rule's
// freshly alive state.
type Seeder interface {
	Seed(g *Grid, fresh rules.CellState) error
}

// Coord is an absolute grid position.
type Coord struct{ X, Y, Z int }

// Cell assigns a state to one position.
type Cell struct {
	Coord
	State rules.CellState
}

// ExplicitSeed sets Alive cells to the fresh state and Cells to their given
// states. Every coordinate must lie inside the grid.
type ExplicitSeed struct {
	Alive []Coord
	Cells []Cell
}

// Seed applies the explicit assignment.
func (s ExplicitSeed) Seed(g *Grid, fresh rules.CellState) error {
	for _, c := range s.Alive {
		if !g.dims.Contains(c.X, c.Y, c.Z) {
			return errors.Wrapf(ErrConfiguration, "[ExplicitSeed] cell %+v outside grid", c)
		}
		g.Set(c.X, c.Y, c.Z, fresh)
	}
	for _, c := range s.Cells {
		if !g.dims.Contains(c.X, c.Y, c.Z) {
			return errors.Wrapf(ErrConfiguration, "[ExplicitSeed] cell %+v outside grid", c.Coord)
		}
		if c.State > fresh {
			return errors.Wrapf(ErrConfiguration, "[ExplicitSeed] state %d above fresh state %d", c.State, fresh)
		}
		g.Set(c.X, c.Y, c.Z, c.State)
	}
	return nil
}

// CellsSeed loads a flattened buffer (x fastest, then y, then z).
type CellsSeed struct {
	Cells []rules.CellState
}

// Seed copies the buffer into the grid.
func (s CellsSeed) Seed(g *Grid, fresh rules.CellState) error {
	for i, c := range s.Cells {
		if c > fresh {
			return errors.Wrapf(ErrConfiguration, "[CellsSeed] cell %d has state %d above fresh state %d", i, c, fresh)
		}
	}
	return g.Load(s.Cells)
}

// RandomSeed makes each cell alive with probability Density.
type RandomSeed struct {
	Density float64
	RNGSeed int64
}

// Seed fills the grid deterministically from the seed.
func (s RandomSeed) Seed(g *Grid, fresh rules.CellState) error {
	if s.Density < 0 || s.Density > 1 {
		return errors.Wrapf(ErrConfiguration, "[RandomSeed] density %v outside [0,1]", s.Density)
	}
	rng := rand.New(rand.NewPCG(uint64(s.RNGSeed), 0))
	for i := range g.cur {
		if rng.Float64() < s.Density {
			g.cur[i] = fresh
		}
	}
	return nil
}

// NoiseSeed scatters Amount alive cells uniformly inside the cube of the
// given Radius around Center. Positions off the grid follow the grid's
// boundary policy: Wrap folds them back, ClampDead drops them. A nil Center
// means the middle of the grid.
type NoiseSeed struct {
	Center  *Coord
	Radius  int
	Amount  int
	RNGSeed int64
}

// Seed scatters the noise.
func (s NoiseSeed) Seed(g *Grid, fresh rules.CellState) error {
	if s.Radius < 0 || s.Amount < 0 {
		return errors.Wrapf(ErrConfiguration, "[NoiseSeed] radius %d and amount %d must not be negative", s.Radius, s.Amount)
	}
	d := g.dims
	center := Coord{d.X / 2, d.Y / 2, d.Z / 2}
	if s.Center != nil {
		center = *s.Center
	}
	var (
		rng  = rand.New(rand.NewPCG(uint64(s.RNGSeed), 0))
		span = 2*s.Radius + 1
	)
	for range s.Amount {
		x := center.X + rng.IntN(span) - s.Radius
		y := center.Y + rng.IntN(span) - s.Radius
		z := center.Z + rng.IntN(span) - s.Radius
		if g.Boundary() == Wrap {
			x, y, z = wrap(x, d.X), wrap(y, d.Y), wrap(z, d.Z)
		}
		g.Set(x, y, z, fresh)
	}
	return nil
}

// GliderSeed stamps the classic glider into layers At.Z and At.Z+1.
// Cells falling outside the grid are dropped.
type GliderSeed struct {
	At Coord
}

// Seed stamps the pattern.
func (s GliderSeed) Seed(g *Grid, fresh rules.CellState) error {
	pattern := [][]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}

	for dz := range 2 {
		for y, row := range pattern {
			for x, cell := range row {
				if cell {
					g.Set(s.At.X+x, s.At.Y+y, s.At.Z+dz, fresh)
				}
			}
		}
	}
	return nil
}
