package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joshharrison/ganttcast/internal/config"
	"github.com/joshharrison/ganttcast/internal/schedule"
	"github.com/joshharrison/ganttcast/internal/sim"
	"github.com/joshharrison/ganttcast/internal/stats"
	"github.com/joshharrison/ganttcast/internal/ui"
)

// Reporter renders a finished simulation run. Analysis is optional: a run
// reloaded from disk has samples but no activity table to re-analyze.
type Reporter struct {
	Scenario config.Scenario
	Analysis *schedule.Analysis
	Result   *sim.ResultSet
}

// New creates a Reporter.
func New(scn config.Scenario, analysis *schedule.Analysis, result *sim.ResultSet) *Reporter {
	return &Reporter{Scenario: scn, Analysis: analysis, Result: result}
}

// Summary is the machine-readable digest of a run.
type Summary struct {
	RunID           string         `json:"run_id"`
	Seed            int64          `json:"seed"`
	Replications    int            `json:"replications"`
	Mean            float64        `json:"mean"`
	StdDev          float64        `json:"std_dev"`
	Confidence      float64        `json:"confidence"`
	Interval        stats.Interval `json:"confidence_interval"`
	Threshold       float64        `json:"threshold"`
	Exceedance      float64        `json:"exceedance_probability"`
	LowerPercentile float64        `json:"lower_percentile"`
	LowerCutoff     float64        `json:"lower_cutoff"`
	UpperPercentile float64        `json:"upper_percentile"`
	UpperCutoff     float64        `json:"upper_cutoff"`
	NegativeDraws   int            `json:"negative_draws"`

	// Deterministic baseline, present when the table was analyzed.
	Baseline     float64 `json:"baseline,omitempty"`
	CriticalPath []int   `json:"critical_path,omitempty"`

	Samples []float64 `json:"samples"`
}

// Summarize computes the statistics queries over the result set.
func (r *Reporter) Summarize() (*Summary, error) {
	samples := r.Result.Samples

	interval, err := stats.ConfidenceInterval(samples, r.Scenario.Confidence)
	if err != nil {
		return nil, fmt.Errorf("confidence interval: %w", err)
	}
	lowerCut, err := stats.Percentile(samples, r.Scenario.LowerPercentile)
	if err != nil {
		return nil, fmt.Errorf("lower percentile: %w", err)
	}
	upperCut, err := stats.Percentile(samples, 100-r.Scenario.UpperPercentile)
	if err != nil {
		return nil, fmt.Errorf("upper percentile: %w", err)
	}

	s := &Summary{
		RunID:           r.Result.RunID,
		Seed:            r.Result.Seed,
		Replications:    r.Result.Replications,
		Mean:            stats.Mean(samples),
		StdDev:          stats.StdDev(samples),
		Confidence:      r.Scenario.Confidence,
		Interval:        interval,
		Threshold:       r.Scenario.Threshold,
		Exceedance:      stats.Exceedance(samples, r.Scenario.Threshold),
		LowerPercentile: r.Scenario.LowerPercentile,
		LowerCutoff:     lowerCut,
		UpperPercentile: r.Scenario.UpperPercentile,
		UpperCutoff:     upperCut,
		NegativeDraws:   r.Result.NegativeDraws,
		Samples:         samples,
	}
	if r.Analysis != nil {
		s.Baseline = r.Analysis.TotalDuration
		s.CriticalPath = r.Analysis.CriticalPath
	}
	return s, nil
}

// JSON returns the machine-readable report.
func (r *Reporter) JSON() ([]byte, error) {
	s, err := r.Summarize()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

// PrintReport writes the terminal report.
func (r *Reporter) PrintReport(w io.Writer) error {
	s, err := r.Summarize()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n📊 %s\n", ui.BoldCyan("Project Duration Forecast"))
	fmt.Fprintf(w, "%s\n", ui.Cyan("═══════════════════════════"))
	fmt.Fprintf(w, "Run:           %s\n", ui.Dim(s.RunID))
	fmt.Fprintf(w, "Replications:  %s (seed %d)\n", ui.Bold(strconv.Itoa(s.Replications)), s.Seed)
	fmt.Fprintf(w, "Mean duration: %s weeks\n", ui.Bold(fmt.Sprintf("%.2f", s.Mean)))
	fmt.Fprintf(w, "%.0f%% interval:  %.2f – %.2f weeks (±%.2f)\n",
		s.Confidence*100, s.Interval.Lower, s.Interval.Upper, s.Interval.HalfWidth)
	fmt.Fprintf(w, "P(> %.0f weeks): %s (risk %s)\n",
		s.Threshold, ui.Bold(fmt.Sprintf("%.1f%%", s.Exceedance*100)), ui.RiskLevel(s.Exceedance))
	fmt.Fprintf(w, "Percentiles:   p%.0f = %.2f, p%.0f = %.2f weeks\n",
		s.LowerPercentile, s.LowerCutoff, 100-s.UpperPercentile, s.UpperCutoff)

	if r.Analysis != nil {
		fmt.Fprintf(w, "\nAverage-only baseline: %s weeks\n", ui.Bold(fmt.Sprintf("%.2f", s.Baseline)))
		fmt.Fprintf(w, "⚡ Critical path: %s\n", ui.BoldYellow(joinPath(s.CriticalPath)))
		if s.Mean > s.Baseline {
			fmt.Fprintf(w, "%s\n", ui.Dim(fmt.Sprintf(
				"Simulated mean exceeds the baseline by %.2f weeks (Flaw of Averages).", s.Mean-s.Baseline)))
		}
	}

	if s.NegativeDraws > 0 {
		fmt.Fprintf(w, "\n%s %d sampled durations were negative (uncertainty above 100%%); check the table.\n",
			ui.Yellow("⚠"), s.NegativeDraws)
	}

	fmt.Fprintf(w, "\n%s\n", ui.BoldWhite("Distribution"))
	printHistogram(w, s.Samples, 16)
	return nil
}

// PrintAnalysis writes the deterministic schedule table for the `plan`
// command.
func PrintAnalysis(w io.Writer, a *schedule.Analysis) {
	fmt.Fprintf(w, "\n🗓  %s\n", ui.BoldCyan("Deterministic Schedule (average durations)"))
	fmt.Fprintf(w, "%s\n", ui.Cyan("══════════════════════════════════════════"))
	fmt.Fprintf(w, "%-4s %-18s %8s %8s %8s %8s %8s\n", "ID", "Name", "ES", "EF", "LS", "LF", "Slack")
	for _, as := range a.Activities {
		crit := " "
		if as.IsCritical {
			crit = ui.BoldYellow("⚡")
		}
		name := as.Name
		if len(name) > 18 {
			name = name[:15] + "..."
		}
		fmt.Fprintf(w, "%-4d %-18s %8.2f %8.2f %8.2f %8.2f %8.2f %s\n",
			as.ID, name, as.ES, as.EF, as.LS, as.LF, as.Slack, crit)
	}
	fmt.Fprintf(w, "\nProject duration: %s weeks\n", ui.Bold(fmt.Sprintf("%.2f", a.TotalDuration)))
	fmt.Fprintf(w, "⚡ Critical path: %s\n", ui.BoldYellow(joinPath(a.CriticalPath)))
}

// printHistogram renders an ASCII histogram of the samples.
func printHistogram(w io.Writer, samples []float64, bins int) {
	if len(samples) == 0 || bins < 1 {
		return
	}

	min, max := samples[0], samples[0]
	for _, v := range samples {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		fmt.Fprintf(w, "  all %d samples at %.2f\n", len(samples), min)
		return
	}

	counts := make([]int, bins)
	width := (max - min) / float64(bins)
	for _, v := range samples {
		b := int((v - min) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}

	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}

	const barWidth = 40
	for b, c := range counts {
		lo := min + float64(b)*width
		bar := strings.Repeat("█", int(math.Round(float64(c)/float64(peak)*barWidth)))
		fmt.Fprintf(w, "  %7.2f │%s %d\n", lo, ui.Cyan(bar), c)
	}
}

func joinPath(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " → ")
}

// Save persists a result set so a run can be re-rendered later.
func Save(path string, rs *sim.ResultSet) error {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result set: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result set: %w", err)
	}
	return nil
}

// LoadResultSet reads a saved result set back.
func LoadResultSet(path string) (*sim.ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result set: %w", err)
	}
	rs := &sim.ResultSet{}
	if err := json.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("parse result set %s: %w", path, err)
	}
	if len(rs.Samples) == 0 {
		return nil, fmt.Errorf("result set %s has no samples", path)
	}
	return rs, nil
}
