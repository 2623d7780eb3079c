package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"bitopt/internal/config"
	"bitopt/internal/engine"
	"bitopt/internal/logging"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/memetic.yaml", "path to config file (empty uses built-in defaults)")
	generations := flag.Int("generations", 0, "override max generations")
	seed := flag.Int64("seed", 0, "override random seed (0 keeps config)")
	variant := flag.String("variant", "", "override variant: ga|ga-mutation|memetic")
	quiet := flag.Bool("quiet", false, "suppress per-generation output")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *generations > 0 {
		cfg.GA.MaxGenerations = *generations
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}
	cfg.Seed = pickSeed(cfg.Seed, time.Now())

	ecfg, err := cfg.EngineConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}
	obj, err := cfg.BuildObjective()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building objective: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Bit-string optimizer - Variant: %s\n", ecfg.Variant)
	fmt.Printf("Objective: %s, Length: %d, Population: %d, Generations: %d\n",
		cfg.Objective.Name, ecfg.ChromosomeLength, ecfg.PopulationSize, ecfg.MaxGenerations)
	fmt.Printf("Seed: %d\n", cfg.Seed)
	fmt.Println("---")

	// Initialize RNG once for the whole run
	rng := rand.New(rand.NewSource(cfg.Seed))

	// Create logger
	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logger.SetPrintPopulation(cfg.Logging.PrintGenerations && !*quiet)
	logger.SetSummary(cfg.Logging.EveryGenSummary)
	if *quiet {
		logger.SetConsole(nil)
	}

	eng, err := engine.New(ecfg, obj, rng, engine.WithObserver(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}
	startPop := eng.Population()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	res, err := eng.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run stopped after %d generations: %v\n", res.Generations, err)
	}

	elapsed := time.Since(startTime)
	fmt.Println("---")
	fmt.Printf("Run complete! %d generations in %v (%s)\n", res.Generations, elapsed, res.Reason)
	fmt.Printf("Initial Pop: %v\n", startPop)
	fmt.Printf("Final Pop:   %v\n", res.Population)
	if res.Best.Found {
		fmt.Printf("Best Chrom: %s (x=%d, fitness=%.4f)\n", res.Best.Chromosome, res.Best.Value, res.Best.Fitness)
	}
	if ecfg.Variant == engine.VariantGA {
		fmt.Printf("Converged: %t\n", res.Converged)
	}
	fmt.Printf("Seed: %d\n", cfg.Seed)

	// Save best record
	if cfg.Logging.BestPath != "" && res.Best.Found {
		data := logging.NewBestData(logger.RunID, cfg.Seed, ecfg, cfg.Objective, res)
		if err := logging.SaveBest(cfg.Logging.BestPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save best record: %v\n", err)
		}
	}

	if err != nil {
		os.Exit(1)
	}
}

// pickSeed keeps a configured seed and otherwise derives one in [1, 1000]
// from now. 0 means "pick one", so it is never returned.
func pickSeed(seed int64, now time.Time) int64 {
	if seed != 0 {
		return seed
	}
	if s := now.UnixNano() % 1000; s != 0 {
		return s
	}
	return 1000
}
