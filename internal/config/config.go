package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bitopt/internal/engine"
	"bitopt/internal/objective"
)

// Config is the root configuration structure
type Config struct {
	Seed      int64          `yaml:"seed"`    // 0 picks one from the clock
	Variant   string         `yaml:"variant"` // ga|ga-mutation|memetic
	GA        GAConfig       `yaml:"ga"`
	Memetic   MemeticConfig  `yaml:"memetic"`
	Eval      EvalConfig     `yaml:"eval"`
	Objective objective.Spec `yaml:"objective"`
	Logging   LogConfig      `yaml:"logging"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population       int     `yaml:"population"`
	ChromosomeLength int     `yaml:"chromosome_length"`
	MaxGenerations   int     `yaml:"max_generations"`
	CrossoverRate    float64 `yaml:"crossover_rate"`
	MutationRate     float64 `yaml:"mutation_rate"`
}

// MemeticConfig defines the local search applied by the memetic variant
type MemeticConfig struct {
	MaxJump       int `yaml:"max_jump"`
	NeighbourSize int `yaml:"neighbour_size"`
	Iterations    int `yaml:"iterations"`
}

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	PrintGenerations bool   `yaml:"print_generations"`
	EveryGenSummary  bool   `yaml:"every_gen_summary"`
	CSVPath          string `yaml:"csv_path"`
	JSONPath         string `yaml:"json_path"`
	BestPath         string `yaml:"best_path"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	return &Config{
		Variant: "memetic",
		GA: GAConfig{
			Population:       4,
			ChromosomeLength: 5,
			MaxGenerations:   60,
			CrossoverRate:    0.5,
			MutationRate:     0.3,
		},
		Memetic: MemeticConfig{
			MaxJump:       2,
			NeighbourSize: 2,
			Iterations:    10,
		},
		Eval: EvalConfig{
			Workers: 1,
		},
		Objective: objective.Spec{
			Name: "quadratic",
		},
		Logging: LogConfig{
			PrintGenerations: true,
			EveryGenSummary:  true,
			CSVPath:          "runs/run.csv",
			JSONPath:         "runs/run.jsonl",
			BestPath:         "artifacts/best.json",
		},
	}
}

// Load reads a YAML config file over the defaults and validates it.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the run parameters and the objective.
func (c *Config) Validate() error {
	ec, err := c.EngineConfig()
	if err != nil {
		return err
	}
	if err := ec.Validate(); err != nil {
		return err
	}
	_, err = c.BuildObjective()
	return err
}

// EngineConfig maps the file layout onto the engine's parameters
func (c *Config) EngineConfig() (engine.Config, error) {
	variant, err := engine.ParseVariant(c.Variant)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Variant:               variant,
		CrossoverRate:         c.GA.CrossoverRate,
		MutationRate:          c.GA.MutationRate,
		MaxGenerations:        c.GA.MaxGenerations,
		ChromosomeLength:      c.GA.ChromosomeLength,
		PopulationSize:        c.GA.Population,
		MaxLocalSearchJump:    c.Memetic.MaxJump,
		NeighbourSize:         c.Memetic.NeighbourSize,
		LocalSearchIterations: c.Memetic.Iterations,
		Workers:               c.Eval.Workers,
	}, nil
}

// BuildObjective constructs the configured objective
func (c *Config) BuildObjective() (objective.Objective, error) {
	return objective.New(c.Objective, c.GA.ChromosomeLength)
}
