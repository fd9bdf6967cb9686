package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-audio/internal/model"
)

// Report is the machine readable record of one run
type Report struct {
	RunID      string                 `yaml:"run_id"`
	StartedAt  time.Time              `yaml:"started_at"`
	FinishedAt time.Time              `yaml:"finished_at"`
	OutputDir  string                 `yaml:"output_dir"`
	Summary    model.BatchSummary     `yaml:"summary"`
	Results    []model.DownloadResult `yaml:"results"`
}

// Write stores the report as YAML at path, replacing any existing file
func Write(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Read loads a report previously written with Write
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}
