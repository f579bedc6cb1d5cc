package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshharrison/ganttcast/internal/activity"
)

// Scenario is the simulation configuration surface. Zero values are filled
// in by defaults, flags may override file values at the CLI layer.
type Scenario struct {
	Table           string  `yaml:"table"`
	Replications    int     `yaml:"replications"`
	Seed            int64   `yaml:"seed"`
	Confidence      float64 `yaml:"confidence"`
	Threshold       float64 `yaml:"threshold"`
	LowerPercentile float64 `yaml:"lower_percentile"`
	UpperPercentile float64 `yaml:"upper_percentile"`
	MaxPredecessors int     `yaml:"max_predecessors"`
	Workers         int     `yaml:"workers"`
}

// Default returns a scenario with every option at its default.
func Default() Scenario {
	var s Scenario
	s.applyDefaults()
	return s
}

// Load reads a scenario YAML file and applies defaults for omitted fields.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	s.applyDefaults()
	return s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Replications == 0 {
		s.Replications = 1000
	}
	if s.Confidence == 0 {
		s.Confidence = 0.95
	}
	if s.Threshold == 0 {
		s.Threshold = 40
	}
	if s.LowerPercentile == 0 {
		s.LowerPercentile = 5
	}
	if s.UpperPercentile == 0 {
		s.UpperPercentile = 5
	}
	if s.MaxPredecessors == 0 {
		s.MaxPredecessors = activity.DefaultMaxPredecessors
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
}

// Validate rejects unusable option values.
func (s Scenario) Validate() error {
	if s.Replications <= 0 {
		return fmt.Errorf("replications must be > 0")
	}
	if s.Confidence <= 0 || s.Confidence >= 1 {
		return fmt.Errorf("confidence must be in (0, 1)")
	}
	if s.LowerPercentile < 0 || s.LowerPercentile > 100 {
		return fmt.Errorf("lower_percentile must be in [0, 100]")
	}
	if s.UpperPercentile < 0 || s.UpperPercentile > 100 {
		return fmt.Errorf("upper_percentile must be in [0, 100]")
	}
	if s.MaxPredecessors < 1 {
		return fmt.Errorf("max_predecessors must be >= 1")
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	return nil
}

// SampleScenario is written by the `sample` command alongside the example
// activity table.
const SampleScenario = `table: activities.csv
replications: 1000
seed: 42
confidence: 0.95
threshold: 40
lower_percentile: 5
upper_percentile: 5
max_predecessors: 3
workers: 1
`
