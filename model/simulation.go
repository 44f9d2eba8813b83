package model

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// State is the controller lifecycle state.
type State int32

const (
	Unconfigured State = iota
	Idle
	Stepping
	Aborted
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Idle:
		return "idle"
	case Stepping:
		return "stepping"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// RuleSpec selects the rule by ranges or by explicit count sets. Exactly
// one must be set.
type RuleSpec struct {
	Range *rules.RangeParams
	Sets  *rules.Params
}

// Config is everything a run needs. It is validated as a whole by Configure.
type Config struct {
	Dims         Dims
	Boundary     Boundary
	Neighborhood Neighborhood
	Rule         RuleSpec
	Strategy     Strategy
	// MaxCells caps allocation; zero means DefaultMaxCells.
	MaxCells int
}

func (cfg Config) build() (*Grid, *rules.Rule, *Kernel, Scheduler, error) {
	counter, err := NewCounter(cfg.Neighborhood, cfg.Dims, 0)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	var rule *rules.Rule
	switch {
	case cfg.Rule.Range != nil && cfg.Rule.Sets != nil:
		err = errors.Wrap(ErrConfiguration, "[Config] rule has both ranges and sets")
	case cfg.Rule.Range != nil:
		rule, err = rules.NewRange(*cfg.Rule.Range, counter.MaxCount())
	case cfg.Rule.Sets != nil:
		rule, err = rules.New(*cfg.Rule.Sets, counter.MaxCount())
	default:
		err = errors.Wrap(ErrConfiguration, "[Config] rule is missing")
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}
	// rebuild with the rule's alive predicate
	if counter, err = NewCounter(cfg.Neighborhood, cfg.Dims, rule.AliveThreshold()); err != nil {
		return nil, nil, nil, nil, err
	}
	kernel, err := NewKernel(rule, counter)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	scheduler, err := NewScheduler(cfg.Strategy)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	// allocate last so invalid configs never pay for the buffers
	grid, err := newGrid(cfg.Dims, cfg.Boundary, cfg.MaxCells)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return grid, rule, kernel, scheduler, nil
}

// Snapshot is the state after tick Tick. View is invalidated by the next
// Step; call Copy to keep it.
type Snapshot struct {
	Tick  uint64
	Fresh rules.CellState
	View  View
}

// Copy returns an owned frame of the snapshot. A nil pool allocates.
func (s Snapshot) Copy(pool *FramePool) *Frame {
	var f *Frame
	if pool != nil {
		f = pool.Get(s.View.Dims())
	} else {
		f = &Frame{Dims: s.View.Dims(), Cells: make([]rules.CellState, s.View.Len())}
	}
	copy(f.Cells, s.View.cells)
	f.Tick = s.Tick
	return f
}

// Controller owns a grid, its rule and a scheduler, and drives ticks. All
// methods are safe for concurrent use; Configure, Reset and Snapshot wait
// for an in-flight Step to finish.
type Controller struct {
	mu    sync.Mutex
	state atomic.Int32
	tick  atomic.Uint64

	cfg       Config
	grid      *Grid
	rule      *rules.Rule
	kernel    *Kernel
	scheduler Scheduler
}

// NewController returns an unconfigured controller.
func NewController() *Controller {
	return &Controller{}
}

// NewConfiguredController is NewController followed by Configure.
func NewConfiguredController(cfg Config) (*Controller, error) {
	c := NewController()
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure validates cfg and starts a new run with an all-Dead grid at
// tick 0. On error the previous run is left untouched.
func (c *Controller) Configure(cfg Config) error {
	grid, rule, kernel, scheduler, err := cfg.build()
	if err != nil {
		return errors.Wrap(err, "[Controller.Configure]")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.grid, c.rule, c.kernel, c.scheduler = grid, rule, kernel, scheduler
	c.tick.Store(0)
	c.state.Store(int32(Idle))
	return nil
}

func (c *Controller) ready() error {
	switch State(c.state.Load()) {
	case Unconfigured:
		return errors.Wrap(ErrConfiguration, "controller is not configured")
	case Aborted:
		return ErrAborted
	}
	return nil
}

// Step advances one tick and returns the new tick number. It returns only
// after every worker has finished and the buffers have been swapped.
func (c *Controller) Step() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step()
}

func (c *Controller) step() (uint64, error) {
	if err := c.ready(); err != nil {
		return c.tick.Load(), errors.Wrap(err, "[Controller.Step]")
	}
	c.state.Store(int32(Stepping))
	if err := c.scheduler.Step(c.grid, c.kernel); err != nil {
		c.abort()
		return c.tick.Load(), errors.Wrap(err, "[Controller.Step]")
	}
	c.state.Store(int32(Idle))
	return c.tick.Add(1), nil
}

// abort tears the run down so no partially written grid is ever observed.
func (c *Controller) abort() {
	c.grid, c.kernel, c.scheduler = nil, nil, nil
	c.state.Store(int32(Aborted))
}

// StepN runs n ticks, stopping at the first error.
func (c *Controller) StepN(n int) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tick := c.tick.Load()
	for range n {
		var err error
		if tick, err = c.step(); err != nil {
			return tick, err
		}
	}
	return tick, nil
}

// Reset clears the grid, seeds it and rewinds the tick counter to 0. On a
// seeding error the grid and tick are left as they were.
func (c *Controller) Reset(seeder Seeder) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return errors.Wrap(err, "[Controller.Reset]")
	}
	if err := c.reseed(seeder); err != nil {
		return errors.Wrap(err, "[Controller.Reset]")
	}
	c.tick.Store(0)
	return nil
}

// Restore loads a saved flattened buffer and resumes at tick.
func (c *Controller) Restore(cells []rules.CellState, tick uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return errors.Wrap(err, "[Controller.Restore]")
	}
	if err := c.reseed(CellsSeed{Cells: cells}); err != nil {
		return errors.Wrap(err, "[Controller.Restore]")
	}
	c.tick.Store(tick)
	return nil
}

func (c *Controller) reseed(seeder Seeder) error {
	if seeder == nil {
		return errors.Wrap(ErrConfiguration, "seeder is nil")
	}
	backup := c.grid.View().CopyCells(nil)
	c.grid.Clear()
	if err := seeder.Seed(c.grid, c.rule.States()); err != nil {
		copy(c.grid.cur, backup)
		return err
	}
	return nil
}

// Snapshot returns a read-only view of the current state.
func (c *Controller) Snapshot() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return Snapshot{}, errors.Wrap(err, "[Controller.Snapshot]")
	}
	return Snapshot{
		Tick:  c.tick.Load(),
		Fresh: c.rule.States(),
		View:  c.grid.View(),
	}, nil
}

// CopySnapshot copies the current state into an owned frame while holding
// the controller lock, so it is safe to call while another goroutine steps.
func (c *Controller) CopySnapshot(pool *FramePool) (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return nil, errors.Wrap(err, "[Controller.CopySnapshot]")
	}
	snap := Snapshot{Tick: c.tick.Load(), Fresh: c.rule.States(), View: c.grid.View()}
	return snap.Copy(pool), nil
}

// Tick returns the number of completed ticks in the current run.
func (c *Controller) Tick() uint64 { return c.tick.Load() }

// State returns the lifecycle state without waiting for a Step.
func (c *Controller) State() State { return State(c.state.Load()) }

// Config returns the configuration of the current run.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SchedulerName identifies the scheduler of the current run.
func (c *Controller) SchedulerName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scheduler == nil {
		return ""
	}
	return c.scheduler.Name()
}

// RuleName describes the rule of the current run.
func (c *Controller) RuleName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rule == nil {
		return ""
	}
	return c.rule.String()
}

// Close tears the controller down. It must be configured again before use.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grid, c.rule, c.kernel, c.scheduler = nil, nil, nil, nil
	c.cfg = Config{}
	c.tick.Store(0)
	c.state.Store(int32(Unconfigured))
}
