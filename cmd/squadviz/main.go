package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"squad-formation-sim/internal/config"
	"squad-formation-sim/internal/scenario"
	"squad-formation-sim/internal/simulation"
	"squad-formation-sim/internal/visualization"
)

func main() {
	var configPath, scenarioFn string
	flag.StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	flag.StringVar(&scenarioFn, "scenario", "", "scenario file or builtin scenario name; files on disk are reloaded on change")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if scenarioFn != "" {
		cfg.Scenario = scenarioFn
	}
	logger := config.NewLogger(cfg.LogLevel, os.Stdout)

	load := func() (visualization.Scene, error) {
		return loadScene(cfg, logger)
	}
	scene, err := load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load scenario")
	}

	r := visualization.NewRenderer(scene, cfg.Dt, logger)
	if _, err := os.Stat(cfg.Scenario); err == nil {
		watcher, err := scenario.NewWatcher(cfg.Scenario)
		if err != nil {
			logger.Warn().Err(err).Msg("scenario hot reload disabled")
			r.WatchReload(nil, load)
		} else {
			defer watcher.Close()
			go func() {
				for err := range watcher.Errors {
					logger.Warn().Err(err).Msg("scenario watcher")
				}
			}()
			r.WatchReload(watcher.Events, load)
			logger.Info().Str("file", cfg.Scenario).Msg("watching scenario for changes")
		}
	} else {
		r.WatchReload(nil, load)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	if err := ebiten.RunGame(r); err != nil {
		logger.Fatal().Err(err).Msg("viewer stopped")
	}
}

func loadScene(cfg config.Config, logger zerolog.Logger) (visualization.Scene, error) {
	sc, err := scenario.Load(cfg.Scenario)
	if err != nil {
		return visualization.Scene{}, err
	}
	world, err := simulation.NewWorld(cfg.Tuning, logger)
	if err != nil {
		return visualization.Scene{}, err
	}
	if _, err := scenario.Instantiate(sc, world); err != nil {
		return visualization.Scene{}, err
	}
	return visualization.Scene{World: world, Area: sc.Area.Rect()}, nil
}
