package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"bitopt/internal/ga"
	"bitopt/internal/logging"
	"bitopt/internal/objective"
)

// maxRows caps the landscape chart; longer domains are sampled.
const maxRows = 64

func main() {
	// Parse flags
	bestPath := flag.String("best", "artifacts/best.json", "path to best-record JSON")
	width := flag.Int("width", 40, "bar width in characters")
	noChart := flag.Bool("no-chart", false, "print the record without the landscape chart")
	flag.Parse()

	best, err := logging.LoadBest(*bestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading best record: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded best record from run %s (variant=%s, seed=%d)\n", best.RunID, best.Variant, best.Seed)
	fmt.Printf("Generations: %d, Reason: %s, Converged: %t\n", best.Generations, best.Reason, best.Converged)
	fmt.Printf("Best: %s = %d, fitness %.4f\n", best.Chromosome, best.Value, best.Fitness)
	fmt.Printf("Final population: %v\n", best.Population)

	// Re-check the record against its objective
	obj, err := objective.New(best.Objective, best.Length)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building objective: %v\n", err)
		os.Exit(1)
	}
	value, err := ga.Decode(ga.Chromosome(best.Chromosome), best.Length)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding best chromosome: %v\n", err)
		os.Exit(1)
	}
	fit, err := obj.Evaluate(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating best chromosome: %v\n", err)
		os.Exit(1)
	}
	if fit != best.Fitness {
		fmt.Printf("  Warning: objective now gives %.4f for x=%d\n", fit, value)
	}

	if *noChart {
		return
	}
	fmt.Println()
	if err := NewChart(best.Length, *width).Render(os.Stdout, obj, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
		os.Exit(1)
	}
}

// Chart renders an objective over the chromosome domain as text bars
type Chart struct {
	length int
	width  int
}

// NewChart creates a new chart
func NewChart(length, width int) *Chart {
	if width < 1 {
		width = 1
	}
	return &Chart{length: length, width: width}
}

// Points returns the domain values plotted, at most maxRows of them
func (c *Chart) Points() []int64 {
	max := ga.MaxValue(c.length)
	n := max + 1
	step := int64(1)
	if n > maxRows {
		step = (n + maxRows - 1) / maxRows
	}
	var pts []int64
	for x := int64(0); x <= max; x += step {
		pts = append(pts, x)
		if x > max-step {
			break
		}
	}
	return pts
}

// Render draws one bar per point and marks mark
func (c *Chart) Render(w io.Writer, obj objective.Objective, mark int64) error {
	pts := c.Points()
	fits := make([]float64, len(pts))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, x := range pts {
		f, err := obj.Evaluate(x)
		if err != nil {
			return err
		}
		fits[i] = f
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}

	span := hi - lo
	for i, x := range pts {
		n := c.width
		if span > 0 {
			n = int(math.Round((fits[i] - lo) / span * float64(c.width)))
		}
		marker := " "
		if x == mark || (i+1 < len(pts) && x < mark && mark < pts[i+1]) {
			marker = "◀"
		}
		fmt.Fprintf(w, "%s %6d │%s%s %10.3f %s\n",
			ga.Encode(x, c.length), x, strings.Repeat("█", n), strings.Repeat(" ", c.width-n), fits[i], marker)
	}
	return nil
}
