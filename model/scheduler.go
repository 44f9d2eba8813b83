package model

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// Kernel is the per-cell update shared by every scheduler: count alive
// neighbors in current, apply the rule, write next.
type Kernel struct {
	rule    *rules.Rule
	counter *Counter
}

// NewKernel pairs a rule with a counter. The rule must have been validated
// against the counter's neighborhood size.
func NewKernel(rule *rules.Rule, counter *Counter) (*Kernel, error) {
	if rule == nil || counter == nil {
		return nil, errors.Wrap(ErrConfiguration, "[NewKernel] rule and counter are required")
	}
	if rule.MaxNeighbors() != counter.MaxCount() {
		return nil, errors.Wrapf(ErrConfiguration, "[NewKernel] rule validated for %d neighbors, neighborhood has %d",
			rule.MaxNeighbors(), counter.MaxCount())
	}
	return &Kernel{rule: rule, counter: counter}, nil
}

// Fill computes every cell of p into g's next buffer.
func (k *Kernel) Fill(g *Grid, p Partition) {
	d := g.dims
	if d != k.counter.dims {
		panic(fmt.Sprintf("kernel built for %+v, grid is %+v", k.counter.dims, d))
	}
	lo, hi := p.Bounds(d)
	for z := lo[2]; z < hi[2]; z++ {
		for y := lo[1]; y < hi[1]; y++ {
			for x := lo[0]; x < hi[0]; x++ {
				// SetNext panics before the first write outside the grid
				g.SetNext(x, y, z, k.rule.NextState(g.Get(x, y, z), k.counter.CountAlive(g, x, y, z)))
			}
		}
	}
}

// run is Fill with engine panics turned into ErrInternal.
func (k *Kernel) run(g *Grid, p Partition) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrInternal, "[Kernel] filling %s[%d,%d): %v", p.Axis, p.Start, p.End, r)
		}
	}()
	k.Fill(g, p)
	return nil
}

// Scheduler advances a grid by one tick: it fills next completely and swaps.
// On error the grid is left unswapped.
type Scheduler interface {
	Name() string
	Step(g *Grid, k *Kernel) error
}

// Sequential steps the whole grid on the calling goroutine in raster order.
type Sequential struct{}

// Name returns the scheduler identifier.
func (Sequential) Name() string { return "sequential" }

// Step fills next and swaps.
func (Sequential) Step(g *Grid, k *Kernel) error {
	if err := k.run(g, wholeGrid(g.dims)); err != nil {
		return errors.Wrap(err, "[Sequential.Step]")
	}
	g.Swap()
	return nil
}

// Parallel splits the grid into slabs and fills each on its own goroutine.
// Workers only read current and only write their own slab of next, so no
// locking is involved; Wait is the barrier before the swap.
type Parallel struct {
	workers int

	// partitions cached for dims
	dims  Dims
	parts []Partition
}

// NewParallel returns a scheduler fanning out to at most workers goroutines.
func NewParallel(workers int) (*Parallel, error) {
	if workers <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "[NewParallel] worker count %d must be positive", workers)
	}
	return &Parallel{workers: workers}, nil
}

// Name returns the scheduler identifier.
func (p *Parallel) Name() string { return fmt.Sprintf("parallel(%d)", p.workers) }

// Workers returns the configured worker count.
func (p *Parallel) Workers() int { return p.workers }

// Partitions returns the slabs used for d, computing them once per dims.
func (p *Parallel) Partitions(d Dims) ([]Partition, error) {
	if p.parts != nil && p.dims == d {
		return p.parts, nil
	}
	parts, err := Partitions(d, p.workers)
	if err != nil {
		return nil, err
	}
	p.dims, p.parts = d, parts
	return parts, nil
}

// Step fills next across all slabs, waits for every worker, then swaps.
func (p *Parallel) Step(g *Grid, k *Kernel) error {
	parts, err := p.Partitions(g.dims)
	if err != nil {
		return errors.Wrap(err, "[Parallel.Step]")
	}

	var eg errgroup.Group
	for _, part := range parts {
		eg.Go(func() error {
			return k.run(g, part)
		})
	}
	if err = eg.Wait(); err != nil {
		return errors.Wrap(err, "[Parallel.Step]")
	}

	g.Swap()
	return nil
}

// Auto steps small grids sequentially and large grids in parallel.
type Auto struct {
	threshold int
	parallel  *Parallel
}

// NewAuto switches to parallel at threshold cells.
func NewAuto(threshold, workers int) (*Auto, error) {
	if threshold < 0 {
		return nil, errors.Wrapf(ErrConfiguration, "[NewAuto] threshold %d must not be negative", threshold)
	}
	par, err := NewParallel(workers)
	if err != nil {
		return nil, err
	}
	return &Auto{threshold: threshold, parallel: par}, nil
}

// Name returns the scheduler identifier.
func (a *Auto) Name() string {
	return fmt.Sprintf("auto(%d,%d)", a.threshold, a.parallel.Workers())
}

// Pick returns the scheduler used for d.
func (a *Auto) Pick(d Dims) Scheduler {
	if d.Cells() < a.threshold {
		return Sequential{}
	}
	return a.parallel
}

// Step delegates to the scheduler picked for g.
func (a *Auto) Step(g *Grid, k *Kernel) error {
	return a.Pick(g.dims).Step(g, k)
}

// StrategyKind selects a Scheduler implementation.
type StrategyKind int

const (
	StrategySequential StrategyKind = iota
	StrategyParallel
	StrategyAuto
)

// DefaultAutoThreshold is where Auto switches to parallel when unset.
const DefaultAutoThreshold = 32 * 32 * 32

func (s StrategyKind) String() string {
	switch s {
	case StrategySequential:
		return "sequential"
	case StrategyParallel:
		return "parallel"
	case StrategyAuto:
		return "auto"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a config name to a StrategyKind.
func ParseStrategy(name string) (StrategyKind, error) {
	switch name {
	case "sequential", "":
		return StrategySequential, nil
	case "parallel":
		return StrategyParallel, nil
	case "auto":
		return StrategyAuto, nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "[ParseStrategy] unknown strategy %q", name)
}

// Strategy configures which scheduler steps the grid.
type Strategy struct {
	Kind StrategyKind
	// Workers is required for StrategyParallel. StrategyAuto falls back to
	// DefaultWorkers when it is zero.
	Workers int
	// Threshold is the cell count at which StrategyAuto goes parallel.
	Threshold int
}

// DefaultWorkers is one worker per CPU.
func DefaultWorkers() int { return runtime.NumCPU() }

// NewScheduler builds the scheduler described by s.
func NewScheduler(s Strategy) (Scheduler, error) {
	switch s.Kind {
	case StrategySequential:
		return Sequential{}, nil
	case StrategyParallel:
		return NewParallel(s.Workers)
	case StrategyAuto:
		workers, threshold := s.Workers, s.Threshold
		if workers == 0 {
			workers = DefaultWorkers()
		}
		if threshold == 0 {
			threshold = DefaultAutoThreshold
		}
		return NewAuto(threshold, workers)
	}
	return nil, errors.Wrapf(ErrConfiguration, "[NewScheduler] unknown strategy %d", int(s.Kind))
}
