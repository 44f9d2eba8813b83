package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/model"
	"github.com/sheikhrachel/go-gol3d/rules"
)

// SeedConfig picks the initial-state pattern
type SeedConfig struct {
	Pattern string  `json:"pattern"` // random, noise, glider or empty
	Density float64 `json:"density"`
	Seed    int64   `json:"seed"`
	Radius  int     `json:"radius"`
	Amount  int     `json:"amount"`
}

// Config holds the configuration for a run
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`

	Boundary     string `json:"boundary"`
	Neighborhood string `json:"neighborhood"`
	Radius       int    `json:"radius"`

	// Preset wins over Survive/Birth, which win over the ranges. The preset's
	// neighborhood applies when Neighborhood is empty.
	Preset         string `json:"preset"`
	Survive        []int  `json:"survive"`
	Birth          []int  `json:"birth"`
	SurviveRange   [2]int `json:"survive_range"`
	BirthRange     [2]int `json:"birth_range"`
	States         int    `json:"states"`
	CountFreshOnly bool   `json:"count_fresh_only"`

	Strategy      string `json:"strategy"`
	Workers       int    `json:"workers"`
	AutoThreshold int    `json:"auto_threshold"`
	MaxCells      int    `json:"max_cells"`

	Seed SeedConfig `json:"seed"`

	FrameRate           time.Duration `json:"frame_rate"`
	MaxGenerations      int           `json:"max_generations"`
	AutoRestart         bool          `json:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	RenderLayer         int           `json:"render_layer"` // -1 renders the middle layer
	Headless            bool          `json:"headless"`
	SavePath            string        `json:"save_path"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               32,
		Height:              32,
		Depth:               32,
		Boundary:            "wrap",
		Neighborhood:        "", // moore unless the preset names its own
		Radius:              1,
		SurviveRange:        [2]int{4, 5},
		BirthRange:          [2]int{5, 5},
		States:              1,
		Strategy:            "auto",
		Seed:                SeedConfig{Pattern: "noise", Seed: 1337, Radius: 6, Amount: 12 * 12 * 12, Density: 0.15},
		FrameRate:           150 * time.Millisecond,
		MaxGenerations:      1000,
		AutoRestart:         true,
		StagnationThreshold: 5,
		RenderLayer:         -1,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// SimulationConfig translates the file configuration into an engine configuration
func (c Config) SimulationConfig() (model.Config, error) {
	var (
		cfg = model.Config{
			Dims:     model.Dims{X: c.Width, Y: c.Height, Z: c.Depth},
			MaxCells: c.MaxCells,
		}
		neighborhood = c.Neighborhood
		err          error
	)

	switch {
	case c.Preset != "":
		preset, err := rules.LookupPreset(c.Preset)
		if err != nil {
			return cfg, errors.Wrap(err, "[SimulationConfig]")
		}
		params := preset.Params
		params.CountFreshOnly = c.CountFreshOnly
		cfg.Rule.Sets = &params
		if neighborhood == "" {
			neighborhood = preset.Neighborhood
		}
	case c.Survive != nil || c.Birth != nil:
		cfg.Rule.Sets = &rules.Params{
			Survive:        c.Survive,
			Birth:          c.Birth,
			States:         c.States,
			CountFreshOnly: c.CountFreshOnly,
		}
	default:
		cfg.Rule.Range = &rules.RangeParams{
			SurviveMin:     c.SurviveRange[0],
			SurviveMax:     c.SurviveRange[1],
			BirthMin:       c.BirthRange[0],
			BirthMax:       c.BirthRange[1],
			States:         c.States,
			CountFreshOnly: c.CountFreshOnly,
		}
	}

	if cfg.Boundary, err = model.ParseBoundary(c.Boundary); err != nil {
		return cfg, errors.Wrap(err, "[SimulationConfig]")
	}
	cfg.Neighborhood.Radius = c.Radius
	if cfg.Neighborhood.Shape, err = model.ParseShape(neighborhood); err != nil {
		return cfg, errors.Wrap(err, "[SimulationConfig]")
	}
	cfg.Strategy = model.Strategy{Workers: c.Workers, Threshold: c.AutoThreshold}
	if cfg.Strategy.Kind, err = model.ParseStrategy(c.Strategy); err != nil {
		return cfg, errors.Wrap(err, "[SimulationConfig]")
	}
	if cfg.Strategy.Kind == model.StrategyParallel && c.Workers == 0 {
		cfg.Strategy.Workers = model.DefaultWorkers()
	}
	return cfg, nil
}

// Seeder builds the initial-state generator. offset shifts the seed so
// restarts get new patterns while staying reproducible.
func (c Config) Seeder(offset int64) (model.Seeder, error) {
	s := c.Seed
	switch s.Pattern {
	case "random":
		return model.RandomSeed{Density: s.Density, RNGSeed: s.Seed + offset}, nil
	case "noise", "":
		return model.NoiseSeed{Radius: s.Radius, Amount: s.Amount, RNGSeed: s.Seed + offset}, nil
	case "glider":
		return model.GliderSeed{At: model.Coord{X: c.Width / 2, Y: c.Height / 2, Z: c.Depth / 2}}, nil
	case "empty":
		return model.ExplicitSeed{}, nil
	}
	return nil, errors.Wrapf(model.ErrConfiguration, "[Seeder] unknown seed pattern %q", s.Pattern)
}
