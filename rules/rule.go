package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CellState is the value held by one voxel. Dead is zero; a rule with
// States = S treats S as freshly alive and 1..S-1 as decaying.
type CellState uint8

const (
	// Dead is the empty cell state.
	Dead CellState = 0

	// MaxStates bounds Params.States so every state fits in a CellState.
	MaxStates = 255
)

// ErrConfiguration marks invalid rule, grid or strategy parameters.
var ErrConfiguration = errors.New("configuration error")

// Params describes a rule by explicit neighbor-count sets.
type Params struct {
	Survive []int `json:"survive"`
	Birth   []int `json:"birth"`
	States  int   `json:"states"`

	// CountFreshOnly restricts the alive predicate to cells holding States,
	// so decaying cells no longer count as neighbors.
	CountFreshOnly bool `json:"count_fresh_only"`
}

// RangeParams describes a rule by inclusive survive and birth ranges.
type RangeParams struct {
	SurviveMin int `json:"survive_min"`
	SurviveMax int `json:"survive_max"`
	BirthMin   int `json:"birth_min"`
	BirthMax   int `json:"birth_max"`
	States     int `json:"states"`

	CountFreshOnly bool `json:"count_fresh_only"`
}

// Rule maps (state, alive neighbor count) to the next state. A Rule is
// immutable after construction and safe for concurrent use.
type Rule struct {
	survive []bool
	birth   []bool
	states  CellState
	alive   CellState
}

// New builds a Rule from explicit count sets. Every count must lie in
// [0, maxNeighbors].
func New(p Params, maxNeighbors int) (*Rule, error) {
	r, err := newRule(p.States, p.CountFreshOnly, maxNeighbors)
	if err != nil {
		return nil, err
	}
	if err = fillSet(r.survive, p.Survive, maxNeighbors); err != nil {
		return nil, errors.Wrap(err, "[rules.New] survive")
	}
	if err = fillSet(r.birth, p.Birth, maxNeighbors); err != nil {
		return nil, errors.Wrap(err, "[rules.New] birth")
	}
	return r, nil
}

// NewRange builds a Rule from inclusive ranges, validating
// 0 <= min <= max <= maxNeighbors for both.
func NewRange(p RangeParams, maxNeighbors int) (*Rule, error) {
	r, err := newRule(p.States, p.CountFreshOnly, maxNeighbors)
	if err != nil {
		return nil, err
	}
	if err = fillRange(r.survive, p.SurviveMin, p.SurviveMax, maxNeighbors); err != nil {
		return nil, errors.Wrap(err, "[rules.NewRange] survive")
	}
	if err = fillRange(r.birth, p.BirthMin, p.BirthMax, maxNeighbors); err != nil {
		return nil, errors.Wrap(err, "[rules.NewRange] birth")
	}
	return r, nil
}

func newRule(states int, freshOnly bool, maxNeighbors int) (*Rule, error) {
	if maxNeighbors <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "max neighbor count %d must be positive", maxNeighbors)
	}
	if states < 1 || states > MaxStates {
		return nil, errors.Wrapf(ErrConfiguration, "states %d outside [1,%d]", states, MaxStates)
	}
	r := &Rule{
		survive: make([]bool, maxNeighbors+1),
		birth:   make([]bool, maxNeighbors+1),
		states:  CellState(states),
		alive:   1,
	}
	if freshOnly {
		r.alive = r.states
	}
	return r, nil
}

func fillRange(set []bool, lo, hi, maxNeighbors int) error {
	if lo < 0 || lo > hi || hi > maxNeighbors {
		return errors.Wrapf(ErrConfiguration, "range [%d,%d] outside 0 <= min <= max <= %d", lo, hi, maxNeighbors)
	}
	for n := lo; n <= hi; n++ {
		set[n] = true
	}
	return nil
}

func fillSet(set []bool, counts []int, maxNeighbors int) error {
	for _, n := range counts {
		if n < 0 || n > maxNeighbors {
			return errors.Wrapf(ErrConfiguration, "count %d outside [0,%d]", n, maxNeighbors)
		}
		set[n] = true
	}
	return nil
}

// NextState returns the state a cell takes on the following tick.
func (r *Rule) NextState(state CellState, aliveNeighbors int) CellState {
	switch {
	case state == Dead:
		if r.contains(r.birth, aliveNeighbors) {
			return r.states
		}
		return Dead
	case state >= r.states:
		if r.contains(r.survive, aliveNeighbors) {
			return r.states
		}
		return r.states - 1
	default:
		return state - 1
	}
}

func (r *Rule) contains(set []bool, n int) bool {
	return n >= 0 && n < len(set) && set[n]
}

// States returns the freshly alive state value.
func (r *Rule) States() CellState { return r.states }

// AliveThreshold is the lowest state counted as an alive neighbor.
func (r *Rule) AliveThreshold() CellState { return r.alive }

// MaxNeighbors is the neighbor count the rule was validated against.
func (r *Rule) MaxNeighbors() int { return len(r.survive) - 1 }

// Survives reports whether a fresh cell with n alive neighbors stays fresh.
func (r *Rule) Survives(n int) bool { return r.contains(r.survive, n) }

// Births reports whether a dead cell with n alive neighbors is born.
func (r *Rule) Births(n int) bool { return r.contains(r.birth, n) }

// String formats the rule as survive/birth/states, e.g. "2-3/3/1".
func (r *Rule) String() string {
	return fmt.Sprintf("%s/%s/%d", countList(r.Survives, r.MaxNeighbors()), countList(r.Births, r.MaxNeighbors()), r.states)
}

// countList joins the counts in [0, maxN] accepted by in, collapsing runs into ranges.
func countList(in func(int) bool, maxN int) string {
	var parts []string
	for n := 0; n <= maxN; n++ {
		if !in(n) {
			continue
		}
		end := n
		for end < maxN && in(end+1) {
			end++
		}
		if end == n {
			parts = append(parts, strconv.Itoa(n))
		} else {
			parts = append(parts, strconv.Itoa(n)+"-"+strconv.Itoa(end))
		}
		n = end
	}
	return strings.Join(parts, ",")
}
