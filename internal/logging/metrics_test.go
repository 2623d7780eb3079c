package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitopt/internal/engine"
	"bitopt/internal/eval"
	"bitopt/internal/ga"
	"bitopt/internal/objective"
)

func TestSummarize(t *testing.T) {
	s := engine.Snapshot{
		Generation: 3,
		Population: []ga.Chromosome{"00100", "00100", "00001"},
		Fitness:    []float64{31, 15, 22},
		Best:       eval.BestRecord{Chromosome: "00100", Value: 4, Fitness: 31, Found: true},
	}
	sum := Summarize("run", s)

	assert.Equal(t, 3, sum.Generation)
	assert.Equal(t, 2, sum.Distinct)
	assert.InDelta(t, 68.0/3, sum.MeanFitness, 1e-12)
	assert.Greater(t, sum.StdFitness, 0.0)
	assert.Equal(t, 15.0, sum.MinFitness)
	assert.Equal(t, 31.0, sum.MaxFitness)
	assert.Equal(t, "00100", sum.BestChromosome)
	assert.Equal(t, []string{"00100", "00100", "00001"}, sum.Population)
}

func TestSummarizeSingleIndividual(t *testing.T) {
	sum := Summarize("run", engine.Snapshot{
		Generation: 1,
		Population: []ga.Chromosome{"1"},
		Fitness:    []float64{-2},
	})
	assert.Equal(t, 0.0, sum.StdFitness)
	assert.Equal(t, -2.0, sum.MeanFitness)

	_, err := json.Marshal(sum)
	require.NoError(t, err)
}

func TestLoggerWritesEveryGeneration(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "runs", "run.csv")
	jsonPath := filepath.Join(dir, "runs", "run.jsonl")

	logger, err := NewLogger(csvPath, jsonPath)
	require.NoError(t, err)
	require.NoError(t, logger.Init())

	var console bytes.Buffer
	logger.SetConsole(&console)
	logger.SetPrintPopulation(true)

	cfg := engine.Config{
		Variant:          engine.VariantGAMutation,
		CrossoverRate:    0.5,
		MutationRate:     0.3,
		MaxGenerations:   8,
		ChromosomeLength: 5,
		PopulationSize:   4,
	}
	e, err := engine.New(cfg, objective.Quadratic, rand.New(rand.NewSource(1)), engine.WithObserver(logger))
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	logger.Close()

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, res.Generations+1)
	assert.Equal(t, "run_id", rows[0][0])
	assert.Equal(t, logger.RunID, rows[1][0])

	jf, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer jf.Close()
	lines := 0
	sc := bufio.NewScanner(jf)
	for sc.Scan() {
		var sum GenerationSummary
		require.NoError(t, json.Unmarshal(sc.Bytes(), &sum))
		lines++
		assert.Equal(t, lines, sum.Generation)
		assert.Len(t, sum.Population, 4)
	}
	assert.Equal(t, res.Generations, lines)

	out := console.String()
	assert.Contains(t, out, "Gen 0:\n")
	assert.Equal(t, res.Generations, strings.Count(out, "| Best:"))
}

func TestLoggerWithoutFiles(t *testing.T) {
	logger, err := NewLogger("", "")
	require.NoError(t, err)
	require.NoError(t, logger.Init())
	logger.SetConsole(nil)

	logger.ObserveGeneration(engine.Snapshot{Generation: 1, Population: []ga.Chromosome{"0"}, Fitness: []float64{1}})
	logger.Close()
}

func TestSaveAndLoadBest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts", "best.json")
	res := &engine.Result{
		Population:  []ga.Chromosome{"00100", "00101"},
		Best:        eval.BestRecord{Chromosome: "00100", Value: 4, Fitness: 31, Found: true},
		Generations: 60,
		Reason:      engine.ReasonMaxGenerations,
	}
	cfg := engine.Config{Variant: engine.VariantMemetic, ChromosomeLength: 5}
	data := NewBestData("abc", 12, cfg, objective.Spec{Name: "quadratic"}, res)
	require.NoError(t, SaveBest(path, data))

	loaded, err := LoadBest(path)
	require.NoError(t, err)
	assert.Equal(t, "memetic", loaded.Variant)
	assert.Equal(t, "max_generations", loaded.Reason)
	assert.Equal(t, "00100", loaded.Chromosome)
	assert.Equal(t, 31.0, loaded.Fitness)
	assert.Equal(t, []string{"00100", "00101"}, loaded.Population)
}
