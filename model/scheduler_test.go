package model

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
)

func mustKernel(t *testing.T, n Neighborhood, d Dims, p rules.Params) *Kernel {
	t.Helper()
	rule, err := rules.New(p, n.MaxCount())
	if err != nil {
		t.Fatal(err)
	}
	counter, err := NewCounter(n, d, rule.AliveThreshold())
	if err != nil {
		t.Fatal(err)
	}
	k, err := NewKernel(rule, counter)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func randomGrid(t *testing.T, d Dims, b Boundary, states int, seed uint64) *Grid {
	t.Helper()
	g := mustGrid(t, d, b)
	rng := rand.New(rand.NewPCG(seed, 0))
	for i := range g.cur {
		if rng.IntN(3) == 0 {
			g.cur[i] = rules.CellState(1 + rng.IntN(states))
		}
	}
	return g
}

func TestPartitionsCoverAndBalance(t *testing.T) {
	cases := []struct {
		d       Dims
		workers int
		axis    Axis
		sizes   []int
	}{
		{Dims{4, 4, 10}, 4, AxisZ, []int{3, 3, 2, 2}},
		{Dims{4, 4, 8}, 4, AxisZ, []int{2, 2, 2, 2}},
		{Dims{11, 3, 3}, 3, AxisX, []int{4, 4, 3}},
		{Dims{2, 7, 7}, 2, AxisZ, []int{4, 3}},
		{Dims{5, 5, 3}, 8, AxisY, []int{1, 1, 1, 1, 1}},
		{Dims{3, 3, 3}, 1, AxisZ, []int{3}},
	}
	for _, tc := range cases {
		parts, err := Partitions(tc.d, tc.workers)
		if err != nil {
			t.Fatalf("%+v/%d: %v", tc.d, tc.workers, err)
		}
		var sizes []int
		total := 0
		for _, p := range parts {
			if p.Axis != tc.axis {
				t.Fatalf("%+v/%d: split %s, want %s", tc.d, tc.workers, p.Axis, tc.axis)
			}
			sizes = append(sizes, p.End-p.Start)
			total += p.Cells(tc.d)
		}
		if !slices.Equal(sizes, tc.sizes) {
			t.Fatalf("%+v/%d: slab sizes %v, want %v", tc.d, tc.workers, sizes, tc.sizes)
		}
		if total != tc.d.Cells() {
			t.Fatalf("%+v/%d: slabs hold %d cells, grid has %d", tc.d, tc.workers, total, tc.d.Cells())
		}
		for i := range tc.d.Cells() {
			x, y, z := tc.d.Coord(i)
			owners := 0
			for _, p := range parts {
				if p.Contains(x, y, z) {
					owners++
				}
			}
			if owners != 1 {
				t.Fatalf("%+v/%d: cell (%d,%d,%d) owned by %d slabs", tc.d, tc.workers, x, y, z, owners)
			}
		}
	}
	if _, err := Partitions(Dims{2, 2, 2}, 0); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("zero workers: %v", err)
	}
}

func TestValidatePartitionsRejectsOverlap(t *testing.T) {
	d := Dims{4, 4, 4}
	bad := [][]Partition{
		{{AxisZ, 0, 2}, {AxisZ, 1, 4}},
		{{AxisZ, 0, 2}, {AxisZ, 3, 4}},
		{{AxisZ, 0, 2}, {AxisY, 2, 4}},
		{{AxisZ, 0, 3}},
	}
	for _, parts := range bad {
		if err := validatePartitions(d, parts); !errors.Is(err, ErrInternal) {
			t.Fatalf("%+v accepted: %v", parts, err)
		}
	}
}

func TestSequentialParallelEquivalence(t *testing.T) {
	// every ruleset is valid for the neighborhood it is paired with
	cases := []struct {
		n        Neighborhood
		rulesets []rules.Params
	}{
		{Neighborhood{Moore, 1}, []rules.Params{
			{Survive: []int{2, 3}, Birth: []int{3}, States: 1},
			{Survive: []int{4, 5}, Birth: []int{5}, States: 1},
			{Survive: []int{2, 6, 9}, Birth: []int{4, 6, 8, 9, 10}, States: 10},
			{Survive: []int{4}, Birth: []int{4}, States: 5, CountFreshOnly: true},
		}},
		{Neighborhood{VonNeumann, 1}, []rules.Params{
			{Survive: []int{1, 3}, Birth: []int{1, 4}, States: 1},
			{Survive: []int{0, 1, 2}, Birth: []int{1, 3}, States: 4},
			{Survive: []int{1}, Birth: []int{1}, States: 3, CountFreshOnly: true},
		}},
		{Neighborhood{Face, 1}, []rules.Params{
			{Survive: []int{2}, Birth: []int{2, 3}, States: 1},
			{Survive: []int{1, 2, 3}, Birth: []int{2}, States: 6},
		}},
		{Neighborhood{FaceEdge, 1}, []rules.Params{
			{Survive: []int{2, 3}, Birth: []int{3}, States: 1},
			{Survive: []int{2, 6, 9}, Birth: []int{4, 6, 8, 9, 10}, States: 10},
			{Survive: []int{4}, Birth: []int{4}, States: 5, CountFreshOnly: true},
		}},
	}
	dims := []Dims{{7, 5, 9}, {16, 3, 4}, {3, 3, 3}, {1, 6, 2}}
	var seed uint64
	checked := map[Shape]int{}
	for _, tc := range cases {
		for _, p := range tc.rulesets {
			for _, d := range dims {
				for _, b := range []Boundary{Wrap, ClampDead} {
					seed++
					name := fmt.Sprintf("%+v/%s/%s/S%v", d, b, tc.n.Shape, p.Survive)
					k := mustKernel(t, tc.n, d, p)
					ref := randomGrid(t, d, b, p.States, seed)
					initial := ref.View().CopyCells(nil)
					if err := (Sequential{}).Step(ref, k); err != nil {
						t.Fatalf("%s: %v", name, err)
					}
					want := ref.View().CopyCells(nil)

					for workers := 1; workers <= 9; workers++ {
						g := mustGrid(t, d, b)
						if err := g.Load(initial); err != nil {
							t.Fatal(err)
						}
						par, _ := NewParallel(workers)
						if err := par.Step(g, k); err != nil {
							t.Fatalf("%s workers=%d: %v", name, workers, err)
						}
						if !slices.Equal(want, g.View().CopyCells(nil)) {
							t.Fatalf("%s: parallel(%d) diverged from sequential", name, workers)
						}
						checked[tc.n.Shape]++
					}
				}
			}
		}
	}
	for _, tc := range cases {
		if want := len(tc.rulesets) * len(dims) * 2 * 9; checked[tc.n.Shape] != want {
			t.Fatalf("%s: compared %d parallel steps, want %d", tc.n.Shape, checked[tc.n.Shape], want)
		}
	}
}

func TestRadiusTwoEquivalence(t *testing.T) {
	d := Dims{8, 9, 10}
	n := Neighborhood{Moore, 2}
	k := mustKernel(t, n, d, rules.Params{Survive: []int{10, 11, 12, 13}, Birth: []int{12, 13}, States: 3})
	for _, b := range []Boundary{Wrap, ClampDead} {
		seq := randomGrid(t, d, b, 3, 42)
		par := mustGrid(t, d, b)
		_ = par.Load(seq.View().CopyCells(nil))
		p, _ := NewParallel(4)
		for tick := range 3 {
			if err := (Sequential{}).Step(seq, k); err != nil {
				t.Fatal(err)
			}
			if err := p.Step(par, k); err != nil {
				t.Fatal(err)
			}
			if seq.Hash() != par.Hash() {
				t.Fatalf("%s: diverged at tick %d", b, tick+1)
			}
		}
	}
}

func TestQuiescentGridStaysDead(t *testing.T) {
	d := Dims{6, 6, 6}
	k := mustKernel(t, Neighborhood{Moore, 1}, d, rules.Params{Survive: []int{2, 3}, Birth: []int{3}, States: 1})
	for _, s := range []Scheduler{Sequential{}, &Parallel{workers: 3}} {
		g := mustGrid(t, d, Wrap)
		for range 10 {
			if err := s.Step(g, k); err != nil {
				t.Fatal(err)
			}
		}
		if g.Population() != 0 {
			t.Fatalf("%s: empty grid spawned %d cells", s.Name(), g.Population())
		}
	}
}

func TestStepFailureDoesNotSwap(t *testing.T) {
	k := mustKernel(t, Neighborhood{Moore, 1}, Dims{4, 4, 4}, rules.Params{Survive: []int{2, 3}, Birth: []int{3}, States: 1})
	for _, s := range []Scheduler{Sequential{}, &Parallel{workers: 2}} {
		// kernel built for a different grid shape is an engine defect
		g := mustGrid(t, Dims{4, 4, 5}, Wrap)
		g.Set(1, 1, 1, 1)
		cur := &g.cur[0]
		err := s.Step(g, k)
		if !errors.Is(err, ErrInternal) {
			t.Fatalf("%s: expected internal error, got %v", s.Name(), err)
		}
		if &g.cur[0] != cur || g.Get(1, 1, 1) != 1 {
			t.Fatalf("%s: failed step must not swap", s.Name())
		}
	}
}

func TestKernelRejectsPartitionOutsideGrid(t *testing.T) {
	d := Dims{4, 4, 4}
	k := mustKernel(t, Neighborhood{Moore, 1}, d, rules.Params{Survive: []int{2, 3}, Birth: []int{3}, States: 1})
	g := mustGrid(t, d, Wrap)
	if err := k.run(g, Partition{Axis: AxisZ, Start: 2, End: 6}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if err := k.run(g, wholeGrid(d)); err != nil {
		t.Fatal(err)
	}
}

func TestNewKernelRejectsMismatchedRule(t *testing.T) {
	rule, _ := rules.New(rules.Params{Survive: []int{2}, Birth: []int{3}, States: 1}, 26)
	counter, _ := NewCounter(Neighborhood{VonNeumann, 1}, Dims{3, 3, 3}, 1)
	if _, err := NewKernel(rule, counter); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewScheduler(t *testing.T) {
	if _, err := NewScheduler(Strategy{Kind: StrategyParallel}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("parallel without workers: %v", err)
	}
	if _, err := NewScheduler(Strategy{Kind: StrategyParallel, Workers: -2}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("parallel with negative workers: %v", err)
	}
	s, err := NewScheduler(Strategy{Kind: StrategyAuto, Workers: 3, Threshold: 100})
	if err != nil {
		t.Fatal(err)
	}
	auto := s.(*Auto)
	if auto.Name() != "auto(100,3)" {
		t.Fatalf("auto name %q", auto.Name())
	}
	if _, ok := auto.Pick(Dims{4, 4, 4}).(Sequential); !ok {
		t.Fatal("auto should step small grids sequentially")
	}
	if _, ok := auto.Pick(Dims{5, 5, 5}).(*Parallel); !ok {
		t.Fatal("auto should step large grids in parallel")
	}
	if _, err = NewScheduler(Strategy{Kind: StrategyKind(9)}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("unknown strategy: %v", err)
	}
}

func TestParallelCachesPartitions(t *testing.T) {
	p, _ := NewParallel(3)
	a, _ := p.Partitions(Dims{6, 6, 6})
	b, _ := p.Partitions(Dims{6, 6, 6})
	if &a[0] != &b[0] {
		t.Fatal("partitions should be cached for stable dims")
	}
	c, _ := p.Partitions(Dims{6, 6, 9})
	if c[0].End != 3 || len(c) != 3 {
		t.Fatalf("partitions not recomputed for new dims: %+v", c)
	}
}
