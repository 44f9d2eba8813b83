package model

import (
	"github.com/pkg/errors"
)

// Axis names a grid axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

func (a Axis) length(d Dims) int {
	switch a {
	case AxisX:
		return d.X
	case AxisY:
		return d.Y
	}
	return d.Z
}

// Partition is the slab [Start, End) of one axis, spanning the full extent
// of the other two.
type Partition struct {
	Axis       Axis
	Start, End int
}

// Contains reports whether (x, y, z) lies inside the slab.
func (p Partition) Contains(x, y, z int) bool {
	v := [...]int{x, y, z}[p.Axis]
	return v >= p.Start && v < p.End
}

// Bounds returns the half-open x, y and z ranges covered by the slab.
func (p Partition) Bounds(d Dims) (lo, hi [3]int) {
	hi = [3]int{d.X, d.Y, d.Z}
	lo[p.Axis], hi[p.Axis] = p.Start, p.End
	return lo, hi
}

// Cells returns the number of cells in the slab.
func (p Partition) Cells(d Dims) int {
	lo, hi := p.Bounds(d)
	return (hi[0] - lo[0]) * (hi[1] - lo[1]) * (hi[2] - lo[2])
}

// wholeGrid is the single partition covering d.
func wholeGrid(d Dims) Partition {
	return Partition{Axis: AxisZ, Start: 0, End: d.Z}
}

// splitAxis picks the longest axis, preferring z then y on ties.
func splitAxis(d Dims) Axis {
	axis := AxisZ
	if d.Y > axis.length(d) {
		axis = AxisY
	}
	if d.X > axis.length(d) {
		axis = AxisX
	}
	return axis
}

// Partitions splits d into at most workers disjoint slabs along its longest
// axis. Slabs are equal-sized with the remainder given to the first slabs.
func Partitions(d Dims, workers int) ([]Partition, error) {
	if workers <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "[Partitions] worker count %d must be positive", workers)
	}
	var (
		axis  = splitAxis(d)
		n     = axis.length(d)
		slabs = min(workers, n)
		size  = n / slabs
		rem   = n % slabs
		parts = make([]Partition, 0, slabs)
		start = 0
	)
	for i := range slabs {
		end := start + size
		if i < rem {
			end++
		}
		parts = append(parts, Partition{Axis: axis, Start: start, End: end})
		start = end
	}
	if err := validatePartitions(d, parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// validatePartitions checks that parts are disjoint and cover d exactly.
func validatePartitions(d Dims, parts []Partition) error {
	if len(parts) == 0 {
		return errors.Wrap(ErrInternal, "[validatePartitions] no partitions")
	}
	axis := parts[0].Axis
	next := 0
	for i, p := range parts {
		if p.Axis != axis || p.Start != next || p.End <= p.Start {
			return errors.Wrapf(ErrInternal, "[validatePartitions] partition %d %+v breaks coverage at %d", i, p, next)
		}
		next = p.End
	}
	if next != axis.length(d) {
		return errors.Wrapf(ErrInternal, "[validatePartitions] partitions end at %d, axis %s has %d", next, axis, axis.length(d))
	}
	return nil
}
