package logging

import (
	"encoding/json"
	"os"
	"path/filepath"

	"bitopt/internal/engine"
	"bitopt/internal/objective"
)

// BestData is the saved best-record format
type BestData struct {
	RunID       string         `json:"run_id"`
	Seed        int64          `json:"seed"`
	Variant     string         `json:"variant"`
	Length      int            `json:"chromosome_length"`
	Objective   objective.Spec `json:"objective"`
	Generations int            `json:"generations"`
	Converged   bool           `json:"converged"`
	Reason      string         `json:"reason"`
	Chromosome  string         `json:"chromosome"`
	Value       int64          `json:"value"`
	Fitness     float64        `json:"fitness"`
	Population  []string       `json:"final_population"`
}

// NewBestData collects the artifact fields from a finished run
func NewBestData(runID string, seed int64, cfg engine.Config, spec objective.Spec, res *engine.Result) BestData {
	data := BestData{
		RunID:       runID,
		Seed:        seed,
		Variant:     cfg.Variant.String(),
		Length:      cfg.ChromosomeLength,
		Objective:   spec,
		Generations: res.Generations,
		Converged:   res.Converged,
		Reason:      res.Reason.String(),
		Chromosome:  string(res.Best.Chromosome),
		Value:       res.Best.Value,
		Fitness:     res.Best.Fitness,
		Population:  make([]string, len(res.Population)),
	}
	for i, c := range res.Population {
		data.Population[i] = string(c)
	}
	return data
}

// SaveBest saves the best record to a file
func SaveBest(path string, data BestData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonData, 0644)
}

// LoadBest loads a best record from a file
func LoadBest(path string) (*BestData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var saved BestData
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
