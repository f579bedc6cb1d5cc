package sim

import (
	"reflect"
	"testing"

	"github.com/joshharrison/ganttcast/internal/activity"
	"github.com/joshharrison/ganttcast/internal/sampler"
	"github.com/joshharrison/ganttcast/internal/schedule"
	"github.com/joshharrison/ganttcast/internal/stats"
)

// referenceTable is the 7-activity example network: 5 and 6 both gate the
// finishing activity. Deterministic average-only duration is 39 weeks.
func referenceTable(t *testing.T) *activity.Table {
	t.Helper()
	tbl := &activity.Table{
		Activities: []activity.Activity{
			{ID: 1, Name: "Foundation", AvgDuration: 12, UncertaintyPct: 25},
			{ID: 2, Name: "Framing", AvgDuration: 9, UncertaintyPct: 30, Predecessors: []int{1}},
			{ID: 3, Name: "Plumbing", AvgDuration: 8, UncertaintyPct: 40, Predecessors: []int{2}},
			{ID: 4, Name: "Electrical", AvgDuration: 7, UncertaintyPct: 35, Predecessors: []int{2}},
			{ID: 5, Name: "Drywall", AvgDuration: 6, UncertaintyPct: 25, Predecessors: []int{3, 4}},
			{ID: 6, Name: "Landscaping", AvgDuration: 5, UncertaintyPct: 50, Predecessors: []int{1}},
			{ID: 7, Name: "Finishing", AvgDuration: 4, UncertaintyPct: 20, Predecessors: []int{5, 6}},
		},
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("reference table invalid: %v", err)
	}
	return tbl
}

func TestRun_Length(t *testing.T) {
	r := &Runner{Table: referenceTable(t), Replications: 250, Seed: 1}
	rs, err := r.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs.Samples) != 250 {
		t.Errorf("expected 250 samples, got %d", len(rs.Samples))
	}
	if rs.Replications != 250 || rs.Seed != 1 {
		t.Errorf("result metadata wrong: %+v", rs)
	}
	if rs.RunID == "" {
		t.Error("expected a run ID")
	}
}

func TestRun_SeedDeterminism(t *testing.T) {
	// Same seed, same samples — byte identical.
	r1 := &Runner{Table: referenceTable(t), Replications: 500, Seed: 42}
	r2 := &Runner{Table: referenceTable(t), Replications: 500, Seed: 42}

	a, err := r1.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := r2.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a.Samples, b.Samples) {
		t.Fatal("identical seeds produced different result sets")
	}

	r3 := &Runner{Table: referenceTable(t), Replications: 500, Seed: 43}
	c, err := r3.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reflect.DeepEqual(a.Samples, c.Samples) {
		t.Fatal("different seeds produced identical result sets")
	}
}

func TestRun_ParallelDeterminism(t *testing.T) {
	run := func() *ResultSet {
		r := &Runner{Table: referenceTable(t), Replications: 400, Seed: 7, Workers: 4}
		rs, err := r.Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return rs
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a.Samples, b.Samples) {
		t.Fatal("parallel runs with identical seed and workers diverged")
	}
	if len(a.Samples) != 400 {
		t.Errorf("expected 400 samples, got %d", len(a.Samples))
	}
}

func TestRun_Validation(t *testing.T) {
	r := &Runner{Table: referenceTable(t), Replications: 0}
	if _, err := r.Run(); err == nil {
		t.Error("expected error for zero replications")
	}

	r = &Runner{Replications: 10}
	if _, err := r.Run(); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestRun_CountsNegativeDraws(t *testing.T) {
	tbl := &activity.Table{
		Activities: []activity.Activity{
			{ID: 1, AvgDuration: 1, UncertaintyPct: 500},
		},
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("table invalid: %v", err)
	}

	r := &Runner{Table: tbl, Replications: 2000, Seed: 3}
	rs, err := r.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Interval is [-4, 6]: roughly 40% of draws land below zero.
	if rs.NegativeDraws == 0 {
		t.Error("expected negative draws at 500% uncertainty")
	}
}

func TestRun_FlawOfAverages(t *testing.T) {
	// Two identical noisy paths race into the final activity. The average-only
	// baseline is 21, but E[max] of the two paths pushes the simulated mean
	// strictly higher.
	tbl := &activity.Table{
		Activities: []activity.Activity{
			{ID: 1, AvgDuration: 10, UncertaintyPct: 0},
			{ID: 2, AvgDuration: 10, UncertaintyPct: 50, Predecessors: []int{1}},
			{ID: 3, AvgDuration: 10, UncertaintyPct: 50, Predecessors: []int{1}},
			{ID: 4, AvgDuration: 1, UncertaintyPct: 0, Predecessors: []int{2, 3}},
		},
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("table invalid: %v", err)
	}

	analysis, err := schedule.Analyze(tbl)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.TotalDuration != 21 {
		t.Fatalf("expected baseline 21, got %g", analysis.TotalDuration)
	}

	r := &Runner{Table: tbl, Replications: 1000, Seed: 11}
	rs, err := r.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mean := stats.Mean(rs.Samples)
	// E[max of two U(5,15)] ≈ 11.67, so the true mean is near 22.67.
	if mean <= analysis.TotalDuration+0.5 {
		t.Errorf("expected simulated mean well above the 21-week baseline, got %.3f", mean)
	}
}

func TestRun_ReferenceRegression(t *testing.T) {
	tbl := referenceTable(t)

	analysis, err := schedule.Analyze(tbl)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.TotalDuration != 39 {
		t.Fatalf("expected deterministic duration 39, got %g", analysis.TotalDuration)
	}
	want := []int{1, 2, 3, 5, 7}
	if !reflect.DeepEqual(analysis.CriticalPath, want) {
		t.Fatalf("expected critical path %v, got %v", want, analysis.CriticalPath)
	}

	r := &Runner{
		Table:        tbl,
		Sampler:      sampler.Uniform{},
		Replications: 1000,
		Seed:         42,
	}
	rs, err := r.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The Plumbing/Electrical race adds a little on top of the baseline; the
	// standard error at 1000 replications is about 0.1 weeks.
	mean := stats.Mean(rs.Samples)
	if mean < 38.6 || mean > 40.4 {
		t.Errorf("mean project duration %.3f outside the regression band [38.6, 40.4]", mean)
	}

	// P(duration > 40): z is roughly 0.2 on a ~3.1-week spread.
	p := stats.Exceedance(rs.Samples, 40)
	if p < 0.15 || p > 0.70 {
		t.Errorf("P(>40) = %.3f outside the plausible band [0.15, 0.70]", p)
	}

	if rs.NegativeDraws != 0 {
		t.Errorf("reference network should never draw negative durations, got %d", rs.NegativeDraws)
	}
}
