package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"bitopt/internal/engine"
	"bitopt/internal/ga"
)

// Logger handles per-generation output and artifact saving. It implements
// engine.Observer.
type Logger struct {
	RunID string

	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	console     io.Writer
	printPop    bool
	summary     bool
	initialized bool
}

// NewLogger creates a new logger. Empty paths disable the matching file.
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		RunID:    uuid.NewString(),
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  os.Stdout,
		summary:  true,
	}

	// Ensure directories exist
	for _, p := range []string{csvPath, jsonPath} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// SetConsole redirects console output; nil silences it
func (l *Logger) SetConsole(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.console = w
}

// SetPrintPopulation toggles the raw "Gen N:" population dump
func (l *Logger) SetPrintPopulation(on bool) { l.printPop = on }

// SetSummary toggles the per-generation summary line and file rows
func (l *Logger) SetSummary(on bool) { l.summary = on }

// Init initializes the log files
func (l *Logger) Init() error {
	var err error

	if l.csvPath != "" {
		l.csvFile, err = os.Create(l.csvPath)
		if err != nil {
			return err
		}
		l.csvWriter = csv.NewWriter(l.csvFile)

		header := []string{
			"run_id", "generation", "best_fitness", "best_value", "best_chromosome",
			"mean_fitness", "std_fitness", "min_fitness", "max_fitness", "distinct",
		}
		if err := l.csvWriter.Write(header); err != nil {
			return err
		}
	}

	if l.jsonPath != "" {
		l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
	}

	l.initialized = true
	return nil
}

// Close closes all log files
func (l *Logger) Close() {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
	}
	if l.csvFile != nil {
		l.csvFile.Close()
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
	}
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	RunID          string   `json:"run_id"`
	Generation     int      `json:"generation"`
	BestFitness    float64  `json:"best_fitness"`
	BestValue      int64    `json:"best_value"`
	BestChromosome string   `json:"best_chromosome"`
	MeanFitness    float64  `json:"mean_fitness"`
	StdFitness     float64  `json:"std_fitness"`
	MinFitness     float64  `json:"min_fitness"`
	MaxFitness     float64  `json:"max_fitness"`
	Distinct       int      `json:"distinct"`
	Population     []string `json:"population"`
}

// Summarize computes the statistics of a snapshot
func Summarize(runID string, s engine.Snapshot) GenerationSummary {
	pop := &ga.Population{Chromosomes: s.Population}
	summary := GenerationSummary{
		RunID:          runID,
		Generation:     s.Generation,
		BestFitness:    s.Best.Fitness,
		BestValue:      s.Best.Value,
		BestChromosome: string(s.Best.Chromosome),
		Distinct:       pop.Distinct(),
		Population:     make([]string, len(s.Population)),
	}
	for i, c := range s.Population {
		summary.Population[i] = string(c)
	}

	if len(s.Fitness) > 0 {
		summary.MeanFitness = stat.Mean(s.Fitness, nil)
		if len(s.Fitness) > 1 {
			summary.StdFitness = stat.StdDev(s.Fitness, nil)
		}
		summary.MinFitness, summary.MaxFitness = s.Fitness[0], s.Fitness[0]
		for _, f := range s.Fitness[1:] {
			if f < summary.MinFitness {
				summary.MinFitness = f
			}
			if f > summary.MaxFitness {
				summary.MaxFitness = f
			}
		}
	}
	return summary
}

// ObserveGeneration logs a generation
func (l *Logger) ObserveGeneration(s engine.Snapshot) {
	if l.printPop {
		fmt.Fprintf(l.console, "Gen %d:\n", s.Generation)
		fmt.Fprintln(l.console, (&ga.Population{Chromosomes: s.Population}).String())
	}

	// generation 0 has not been evaluated yet
	if !l.summary || s.Fitness == nil {
		return
	}
	summary := Summarize(l.RunID, s)

	if l.initialized {
		l.writeCSV(summary)
		l.writeJSON(summary)
	}

	fmt.Fprintf(l.console, "Gen %4d | Best: %10.3f (%s=%d) | Mean: %10.3f | Std: %8.3f | Distinct: %d\n",
		summary.Generation, summary.BestFitness, summary.BestChromosome, summary.BestValue,
		summary.MeanFitness, summary.StdFitness, summary.Distinct)
}

func (l *Logger) writeCSV(summary GenerationSummary) {
	if l.csvWriter == nil {
		return
	}
	row := []string{
		summary.RunID,
		strconv.Itoa(summary.Generation),
		fmt.Sprintf("%.6f", summary.BestFitness),
		strconv.FormatInt(summary.BestValue, 10),
		summary.BestChromosome,
		fmt.Sprintf("%.6f", summary.MeanFitness),
		fmt.Sprintf("%.6f", summary.StdFitness),
		fmt.Sprintf("%.6f", summary.MinFitness),
		fmt.Sprintf("%.6f", summary.MaxFitness),
		strconv.Itoa(summary.Distinct),
	}
	l.csvWriter.Write(row)
	l.csvWriter.Flush()
}

func (l *Logger) writeJSON(summary GenerationSummary) {
	if l.jsonFile == nil {
		return
	}
	jsonLine, _ := json.Marshal(summary)
	l.jsonFile.WriteString(string(jsonLine) + "\n")
}

var _ engine.Observer = (*Logger)(nil)
