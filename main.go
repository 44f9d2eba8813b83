package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikhrachel/go-gol3d/model"
	"github.com/sheikhrachel/go-gol3d/utils"
)

func main() {
	var (
		configPath = flag.String("config", "config.json", "path to the JSON configuration")
		ticks      = flag.Int("ticks", -1, "override max_generations (0 runs forever)")
		headless   = flag.Bool("headless", false, "skip terminal rendering and frame delays")
		savePath   = flag.String("save", "", "write the final snapshot to this file")
		resumePath = flag.String("resume", "", "resume from a snapshot written by -save")
	)
	flag.Parse()

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Using default configuration (%v)\n", err)
		config = utils.DefaultConfig()
	}
	if *ticks >= 0 {
		config.MaxGenerations = *ticks
	}
	if *headless {
		config.Headless = true
	}
	if *savePath != "" {
		config.SavePath = *savePath
	}

	ctrl, pool, renderer, stats, err := initializeGame(config, *resumePath)
	if err != nil {
		log.Fatalf("failed to start simulation: %+v", err)
	}
	defer ctrl.Close()
	displayGameInfo(config, ctrl)

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var (
		history       model.History
		generation    = 0
		stagnantCount = 0
		lastFrameTime = time.Now()
	)

loop:
	for {
		select {
		case <-sigChan:
			fmt.Println("\n🛑 Shutting down gracefully...")
			break loop
		default:
		}

		frameStart := time.Now()
		snap, err := ctrl.Snapshot()
		if err != nil {
			log.Fatalf("snapshot failed: %+v", err)
		}

		livingCells, density, status, isStagnant := updateGameState(snap, &history, lastFrameTime, stats)
		lastFrameTime = frameStart

		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		if !config.Headless {
			renderer.Clear()
			displayGameStatus(generation, snap.Tick, livingCells, density, status, stats)
			renderer.Display(snap.View, renderLayer(config, snap.View.Dims()), snap.Fresh)
		}

		if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
			fmt.Printf("\n🏁 Reached maximum generations limit (%d)\n", config.MaxGenerations)
			break
		}

		shouldRestart, restartReason := checkRestartConditions(livingCells, stagnantCount, snap.Tick, config)
		if shouldRestart && config.AutoRestart {
			fmt.Printf("🔄 Restarting due to %s...\n", restartReason)
			if err = restartGame(ctrl, config, stats); err != nil {
				log.Fatalf("restart failed: %+v", err)
			}
			history.Reset()
			stagnantCount = 0
		}

		if _, err = ctrl.Step(); err != nil {
			log.Fatalf("step failed: %+v", err)
		}
		generation++

		if !config.Headless {
			time.Sleep(config.FrameRate)
		}
	}

	fmt.Printf("Final stats: %d ticks in %.1f seconds, %d restarts\n",
		generation, stats.Runtime().Seconds(), stats.Restarts)
	fmt.Printf("Average: %.1f ticks/sec, %.1f avg population\n",
		stats.TicksPerSecond, stats.AveragePopulation)

	if config.SavePath != "" {
		if err = saveGame(ctrl, pool, config.SavePath); err != nil {
			log.Fatalf("save failed: %+v", err)
		}
		fmt.Printf("Saved snapshot to %s\n", config.SavePath)
	}
}
