package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.Equal(t, 1000, s.Replications)
	require.Equal(t, 0.95, s.Confidence)
	require.Equal(t, 40.0, s.Threshold)
	require.Equal(t, 5.0, s.LowerPercentile)
	require.Equal(t, 5.0, s.UpperPercentile)
	require.Equal(t, 3, s.MaxPredecessors)
	require.Equal(t, 1, s.Workers)
	require.NoError(t, s.Validate())
}

func TestLoad(t *testing.T) {
	body := `table: network.csv
replications: 250
seed: 99
confidence: 0.9
workers: 4
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "network.csv", s.Table)
	require.Equal(t, 250, s.Replications)
	require.Equal(t, int64(99), s.Seed)
	require.Equal(t, 0.9, s.Confidence)
	require.Equal(t, 4, s.Workers)

	// Omitted fields get defaults.
	require.Equal(t, 40.0, s.Threshold)
	require.Equal(t, 3, s.MaxPredecessors)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("replications: [not an int"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"negative reps", func(s *Scenario) { s.Replications = -1 }},
		{"confidence too high", func(s *Scenario) { s.Confidence = 1 }},
		{"confidence too low", func(s *Scenario) { s.Confidence = -0.1 }},
		{"lower percentile", func(s *Scenario) { s.LowerPercentile = 101 }},
		{"upper percentile", func(s *Scenario) { s.UpperPercentile = -1 }},
		{"max predecessors", func(s *Scenario) { s.MaxPredecessors = 0 }},
		{"workers", func(s *Scenario) { s.Workers = -2 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := Default()
			c.mutate(&s)
			require.Error(t, s.Validate())
		})
	}
}

func TestSampleScenario_Parses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(SampleScenario), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	require.Equal(t, "activities.csv", s.Table)
	require.Equal(t, int64(42), s.Seed)
}
