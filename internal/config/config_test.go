package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitopt/internal/engine"
	"bitopt/internal/ga"
	"bitopt/internal/objective"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, engine.Config{
		Variant:               engine.VariantMemetic,
		CrossoverRate:         0.5,
		MutationRate:          0.3,
		MaxGenerations:        60,
		ChromosomeLength:      5,
		PopulationSize:        4,
		MaxLocalSearchJump:    2,
		NeighbourSize:         2,
		LocalSearchIterations: 10,
		Workers:               1,
	}, ec)

	assert.Empty(t, cfg.Objective.Coefficients)
	obj, err := cfg.BuildObjective()
	require.NoError(t, err)
	f, err := obj.Evaluate(4)
	require.NoError(t, err)
	assert.Equal(t, 31.0, f)
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
seed: 42
variant: ga
ga:
  population: 10
  crossover_rate: 0
objective:
  name: onemax
logging:
  print_generations: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "ga", cfg.Variant)
	assert.Equal(t, 10, cfg.GA.Population)
	assert.Equal(t, 0.0, cfg.GA.CrossoverRate, "explicit zero must not be replaced by the default")
	assert.Equal(t, 5, cfg.GA.ChromosomeLength)
	assert.Equal(t, 60, cfg.GA.MaxGenerations)
	assert.False(t, cfg.Logging.PrintGenerations)
	assert.Equal(t, "runs/run.csv", cfg.Logging.CSVPath)

	obj, err := cfg.BuildObjective()
	require.NoError(t, err)
	f, err := obj.Evaluate(31)
	require.NoError(t, err)
	assert.Equal(t, 5.0, f)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"population": "ga:\n  population: 0\n",
		"length":     "ga:\n  chromosome_length: 70\n",
		"rate":       "ga:\n  crossover_rate: 1.5\n",
		"variant":    "variant: swarm\n",
		"jump":       "memetic:\n  max_jump: 0\n",
	}
	for name, body := range tests {
		_, err := Load(writeConfig(t, body))
		assert.ErrorIs(t, err, ga.ErrInvalidArgument, name)
	}

	_, err := Load(writeConfig(t, "objective:\n  name: sphere\n"))
	assert.ErrorIs(t, err, objective.ErrUnknownObjective)

	_, err = Load(writeConfig(t, "objective:\n  name: polynomial\n"))
	assert.ErrorIs(t, err, objective.ErrInvalidObjective, "polynomial without coefficients")

	_, err = Load(writeConfig(t, "ga: [1, 2"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMemeticParamsIgnoredForGA(t *testing.T) {
	cfg, err := Load(writeConfig(t, "variant: ga\nmemetic:\n  max_jump: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Memetic.MaxJump)
}

func TestShippedConfigs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "configs", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		cfg, err := Load(p)
		require.NoError(t, err, p)
		_, err = cfg.BuildObjective()
		assert.NoError(t, err, p)
	}
}
