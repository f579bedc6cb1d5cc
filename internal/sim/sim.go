package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshharrison/ganttcast/internal/activity"
	"github.com/joshharrison/ganttcast/internal/sampler"
	"github.com/joshharrison/ganttcast/internal/schedule"
)

// Runner drives independent replications of the activity network.
type Runner struct {
	Table        *activity.Table
	Sampler      sampler.Sampler
	Replications int
	Seed         int64
	// Workers splits replications across goroutines when > 1. Each worker
	// gets a seed derived from Seed and its index, and worker outputs are
	// concatenated in worker order, so results stay deterministic for a
	// fixed (seed, workers) pair.
	Workers int
}

// ResultSet is the finalized simulation output: one project-duration sample
// per replication, in replication order. Immutable once returned.
type ResultSet struct {
	RunID         string    `json:"run_id"`
	Seed          int64     `json:"seed"`
	Replications  int       `json:"replications"`
	Samples       []float64 `json:"samples"`
	NegativeDraws int       `json:"negative_draws"`
	CreatedAt     time.Time `json:"created_at"`
}

// Run executes all replications and collects the project durations.
func (r *Runner) Run() (*ResultSet, error) {
	if r.Table == nil || r.Table.Len() == 0 {
		return nil, fmt.Errorf("no activity table configured")
	}
	if r.Replications <= 0 {
		return nil, fmt.Errorf("replications must be positive, got %d", r.Replications)
	}
	smp := r.Sampler
	if smp == nil {
		smp = sampler.Uniform{}
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > r.Replications {
		workers = r.Replications
	}

	rs := &ResultSet{
		RunID:        uuid.NewString(),
		Seed:         r.Seed,
		Replications: r.Replications,
		CreatedAt:    time.Now(),
	}

	if workers == 1 {
		samples, neg, err := r.replicate(smp, r.Replications, r.Seed)
		if err != nil {
			return nil, err
		}
		rs.Samples = samples
		rs.NegativeDraws = neg
		return rs, nil
	}

	// Fixed split: every worker gets reps/workers, the last takes the
	// remainder.
	per := r.Replications / workers
	results := make([][]float64, workers)
	negs := make([]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		reps := per
		if w == workers-1 {
			reps += r.Replications % workers
		}
		wg.Add(1)
		go func(w, reps int) {
			defer wg.Done()
			results[w], negs[w], errs[w] = r.replicate(smp, reps, workerSeed(r.Seed, w))
		}(w, reps)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			return nil, fmt.Errorf("worker %d: %w", w, errs[w])
		}
		rs.Samples = append(rs.Samples, results[w]...)
		rs.NegativeDraws += negs[w]
	}
	return rs, nil
}

// replicate runs reps replications with its own rng. Duration vectors are
// created fresh each replication; nothing is shared across runs except the
// read-only table.
func (r *Runner) replicate(smp sampler.Sampler, reps int, seed int64) ([]float64, int, error) {
	rng := rand.New(rand.NewSource(seed))
	n := r.Table.Len()

	samples := make([]float64, 0, reps)
	negatives := 0

	for rep := 0; rep < reps; rep++ {
		durations := make([]float64, n)
		for i, a := range r.Table.Activities {
			d := smp.Sample(rng, a)
			if d < 0 {
				negatives++
			}
			durations[i] = d
		}

		sched, err := schedule.Forward(r.Table, durations)
		if err != nil {
			return nil, 0, fmt.Errorf("replication %d: %w", rep, err)
		}
		samples = append(samples, sched.ProjectDuration)
	}
	return samples, negatives, nil
}

// workerSeed derives a per-worker seed. The multiplier is the 64-bit golden
// ratio constant, which keeps adjacent worker streams well separated.
func workerSeed(seed int64, worker int) int64 {
	return seed + int64(worker+1)*-7046029254386353131
}
