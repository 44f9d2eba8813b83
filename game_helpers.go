package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/model"
	"github.com/sheikhrachel/go-gol3d/utils"
)

// initializeGame configures the controller and seeds (or resumes) the first run
func initializeGame(config utils.Config, resumePath string) (
	*model.Controller,
	*model.FramePool,
	*model.TerminalRenderer,
	*utils.Stats,
	error,
) {
	simConfig, err := config.SimulationConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctrl, err := model.NewConfiguredController(simConfig)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if resumePath != "" {
		frame, err := utils.LoadSnapshot(resumePath)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if frame.Dims != simConfig.Dims {
			return nil, nil, nil, nil, errors.Errorf("[initializeGame] snapshot %+v does not match grid %+v", frame.Dims, simConfig.Dims)
		}
		if err = ctrl.Restore(frame.Cells, frame.Tick); err != nil {
			return nil, nil, nil, nil, err
		}
	} else if err = seedGame(ctrl, config, 0); err != nil {
		return nil, nil, nil, nil, err
	}

	renderer := &model.TerminalRenderer{}
	stats := utils.NewStats()

	return ctrl, model.NewFramePool(), renderer, stats, nil
}

func seedGame(ctrl *model.Controller, config utils.Config, restarts int) error {
	seeder, err := config.Seeder(int64(restarts))
	if err != nil {
		return err
	}
	return ctrl.Reset(seeder)
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, ctrl *model.Controller) {
	snap, err := ctrl.Snapshot()
	if err != nil {
		fmt.Println("Error reading snapshot:", err)
		return
	}
	d := snap.View.Dims()
	cfg := ctrl.Config()
	fmt.Printf("Scheduler: %s | Rule: %s | Boundary: %s | Neighborhood: %s r=%d\n",
		ctrl.SchedulerName(), ctrl.RuleName(), cfg.Boundary, cfg.Neighborhood.Shape, cfg.Neighborhood.Radius)
	fmt.Printf("Grid: %dx%dx%d | Initial living cells: %d | Tick: %d\n",
		d.X, d.Y, d.Z, snap.View.Population(), snap.Tick)
	if !config.Headless {
		fmt.Println("Press Ctrl+C to exit gracefully")
		fmt.Println()
		time.Sleep(2 * time.Second)
	}
}

// updateGameState updates stats and history and returns status information
func updateGameState(
	snap model.Snapshot,
	history *model.History,
	lastFrameTime time.Time,
	stats *utils.Stats,
) (int, float64, string, bool) {
	livingCells := snap.View.Population()
	density := float64(livingCells) / float64(snap.View.Len()) * 100

	// Update performance stats
	frameDuration := time.Since(lastFrameTime)
	stats.Update(snap.Tick, livingCells, frameDuration)

	// Check for stagnation before recording this state
	hash := snap.View.Hash()
	isStagnant := history.IsStagnant(hash)
	history.Update(hash)

	status := "Active"
	if isStagnant {
		status = fmt.Sprintf("Stagnant (%d)", snap.Tick)
	}
	if livingCells == 0 {
		status = "Extinct"
	}

	return livingCells, density, status, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(
	generation int,
	tick uint64,
	livingCells int,
	density float64,
	status string,
	stats *utils.Stats,
) {
	fmt.Printf("Gen: %d | Tick: %d | Living: %d | Density: %.2f%% | Status: %s\n",
		generation, tick, livingCells, density, status)
	fmt.Printf("Performance: %.1f ticks/sec | Avg Pop: %.1f | Peak: %d | Runtime: %.1fs\n",
		stats.TicksPerSecond, stats.AveragePopulation, stats.PeakPopulation, stats.Runtime().Seconds())

	if stats.Restarts > 0 {
		fmt.Printf("Restarts: %d\n", stats.Restarts)
	}
	fmt.Println()
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(
	livingCells, stagnantCount int,
	tick uint64,
	config utils.Config,
) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if tick > 0 && tick%200 == 0 {
		return true, "periodic refresh"
	}
	return false, ""
}

// restartGame reseeds the grid with a shifted seed
func restartGame(ctrl *model.Controller, config utils.Config, stats *utils.Stats) error {
	stats.Restarts++
	if err := seedGame(ctrl, config, stats.Restarts); err != nil {
		return err
	}
	snap, err := ctrl.Snapshot()
	if err != nil {
		return err
	}
	fmt.Printf("✨ New patterns loaded! Living cells: %d\n", snap.View.Population())
	return nil
}

// renderLayer picks the z-slice shown by the terminal renderer
func renderLayer(config utils.Config, d model.Dims) int {
	if config.RenderLayer < 0 || config.RenderLayer >= d.Z {
		return d.Z / 2
	}
	return config.RenderLayer
}

// saveGame copies the current snapshot and writes it to path
func saveGame(ctrl *model.Controller, pool *model.FramePool, path string) error {
	frame, err := ctrl.CopySnapshot(pool)
	if err != nil {
		return err
	}
	defer model.FrameToPool(frame, pool)
	return utils.SaveSnapshot(path, frame)
}
