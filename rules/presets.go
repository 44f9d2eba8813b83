package rules

import (
	"sort"

	"github.com/pkg/errors"
)

// Preset is a named rule along with the neighborhood shape it was tuned for.
type Preset struct {
	Name         string
	Params       Params
	Neighborhood string
}

/*
presets holds the named rules available to configuration.

conway lifts Conway's Game of Life rules into three dimensions unchanged:
(alive && neighbors == 2) || neighbors == 3
*/
var presets = map[string]Preset{
	"conway": {
		Params:       Params{Survive: []int{2, 3}, Birth: []int{3}, States: 1},
		Neighborhood: "moore",
	},
	"builder": {
		Params:       Params{Survive: []int{2, 6, 9}, Birth: []int{4, 6, 8, 9, 10}, States: 10},
		Neighborhood: "moore",
	},
	"pyramid": {
		Params:       Params{Survive: []int{0, 1, 2, 3, 4, 5, 6}, Birth: []int{1, 3}, States: 2},
		Neighborhood: "von_neumann",
	},
	"fancy": {
		Params: Params{
			Survive: []int{0, 1, 2, 3, 7, 8, 9, 11, 13, 18, 21, 22, 24, 26},
			Birth:   []int{4, 13, 17, 20, 21, 22, 23, 24, 26},
			States:  4,
		},
		Neighborhood: "moore",
	},
	"crystals": {
		Params:       Params{Survive: []int{5, 6, 7, 8}, Birth: []int{6, 7, 9}, States: 10},
		Neighborhood: "moore",
	},
	"swapping": {
		Params:       Params{Survive: []int{3, 6, 9}, Birth: []int{4, 8, 10}, States: 20},
		Neighborhood: "moore",
	},
	"blob": {
		Params: Params{
			Survive: []int{9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26},
			Birth:   []int{5, 6, 7, 12, 13, 15},
			States:  20,
		},
		Neighborhood: "moore",
	},
	"445": {
		Params:       Params{Survive: []int{4}, Birth: []int{4}, States: 5},
		Neighborhood: "moore",
	},
	"expand-die": {
		Params:       Params{Survive: []int{4}, Birth: []int{3}, States: 20},
		Neighborhood: "moore",
	},
	"large-lines": {
		Params: Params{
			Survive: []int{5},
			Birth:   []int{4, 6, 9, 10, 11, 16, 17, 18, 19, 20, 21, 22, 23, 24},
			States:  35,
		},
		Neighborhood: "moore",
	},
}

// LookupPreset returns the named preset.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, errors.Wrapf(ErrConfiguration, "[LookupPreset] unknown preset %q", name)
	}
	p.Name = name
	// copy so callers can't alter the table
	p.Params.Survive = append([]int(nil), p.Params.Survive...)
	p.Params.Birth = append([]int(nil), p.Params.Birth...)
	return p, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
