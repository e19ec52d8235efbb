package main

import (
	"flag"
	"fmt"
	"os"

	"squad-formation-sim/internal/config"
	"squad-formation-sim/internal/scenario"
	"squad-formation-sim/internal/simulation"
)

func main() {
	var (
		configPath string
		scenarioFn string
		steps      int
		dt         float64
		seed       int64
		logLevel   string
		list       bool
	)
	flag.StringVar(&configPath, "config", "", "config file (yaml, json or toml); defaults and SIMSQUAD_ env vars otherwise")
	flag.StringVar(&scenarioFn, "scenario", "", "scenario file or builtin scenario name")
	flag.IntVar(&steps, "steps", 0, "number of fixed steps to run")
	flag.Float64Var(&dt, "dt", 0, "step length in seconds")
	flag.Int64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	flag.StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")
	flag.BoolVar(&list, "list", false, "list builtin scenarios and exit")
	flag.Parse()

	if list {
		for _, name := range scenario.Builtin() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scenario":
			cfg.Scenario = scenarioFn
		case "steps":
			cfg.Steps = steps
		case "dt":
			cfg.Dt = dt
		case "seed":
			cfg.Tuning.Seed = seed
		case "log-level":
			cfg.LogLevel = logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.LogLevel, os.Stdout)

	world, err := simulation.NewWorld(cfg.Tuning, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not create world")
	}
	sc, err := scenario.Load(cfg.Scenario)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load scenario")
	}
	if _, err := scenario.Instantiate(sc, world); err != nil {
		logger.Fatal().Err(err).Msg("could not instantiate scenario")
	}

	world.Run(cfg.Steps, cfg.Dt)

	fmt.Printf("\n=== Squad Report ===\n")
	fmt.Printf("scenario=%s steps=%d dt=%.4f time=%.2fs\n\n", sc.Name, world.Steps(), cfg.Dt, world.SimulationTime())
	for _, sum := range world.Summary() {
		fmt.Println(sum)
	}
}
