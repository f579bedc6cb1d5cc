package schedule

import (
	"fmt"

	"github.com/joshharrison/ganttcast/internal/activity"
)

// slackEpsilon absorbs float round-off when classifying critical activities.
const slackEpsilon = 1e-9

// Forward computes one replication's schedule in a single pass over the
// table. Because every predecessor is strictly lower-indexed (enforced by
// Table.Validate at load time), each activity's predecessors are already
// scheduled when it is reached: start = max predecessor finish (0 with no
// predecessors), finish = start + duration. No topological sort is needed.
func Forward(t *activity.Table, durations []float64) (*Schedule, error) {
	n := t.Len()
	if len(durations) != n {
		return nil, fmt.Errorf("got %d durations for %d activities", len(durations), n)
	}

	s := &Schedule{
		Start:  make([]float64, n),
		Finish: make([]float64, n),
	}

	for i, a := range t.Activities {
		start := 0.0
		for _, p := range a.Predecessors {
			if f := s.Finish[p-1]; f > start {
				start = f
			}
		}
		s.Start[i] = start
		s.Finish[i] = start + durations[i]
	}

	s.ProjectDuration = s.Finish[n-1]
	return s, nil
}

// Analyze runs the deterministic critical path analysis using average
// durations: forward pass for ES/EF, backward pass for LS/LF, slack, and the
// critical path. This is the average-only baseline — with stochastic
// durations the simulated mean will sit at or above TotalDuration whenever
// parallel paths compete (the Flaw of Averages).
func Analyze(t *activity.Table) (*Analysis, error) {
	n := t.Len()
	if n == 0 {
		return nil, fmt.Errorf("activity table is empty")
	}

	durations := make([]float64, n)
	for i, a := range t.Activities {
		durations[i] = a.AvgDuration
	}
	fw, err := Forward(t, durations)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, f := range fw.Finish {
		if f > total {
			total = f
		}
	}

	// Successor lists, derived from the predecessor table.
	succ := make([][]int, n)
	for i, a := range t.Activities {
		for _, p := range a.Predecessors {
			succ[p-1] = append(succ[p-1], i+1)
		}
	}

	result := &Analysis{
		Activities:    make([]ActivitySchedule, n),
		TotalDuration: total,
	}

	// Backward pass in reverse index order: activities with no successors
	// finish no later than the project itself.
	ls := make([]float64, n)
	lf := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if len(succ[i]) == 0 {
			lf[i] = total
		} else {
			minLS := total
			for _, sid := range succ[i] {
				if ls[sid-1] < minLS {
					minLS = ls[sid-1]
				}
			}
			lf[i] = minLS
		}
		ls[i] = lf[i] - durations[i]
	}

	for i, a := range t.Activities {
		slack := ls[i] - fw.Start[i]
		as := ActivitySchedule{
			ID:         a.ID,
			Name:       a.Name,
			ES:         fw.Start[i],
			EF:         fw.Finish[i],
			LS:         ls[i],
			LF:         lf[i],
			Slack:      slack,
			IsCritical: slack < slackEpsilon,
		}
		result.Activities[i] = as
		if as.IsCritical {
			result.CriticalPath = append(result.CriticalPath, a.ID)
		}
	}

	return result, nil
}
