package activity

import "fmt"

// NoPredecessor is the sentinel used in input files for an empty predecessor slot.
const NoPredecessor = -1

// DefaultMaxPredecessors caps the predecessor list length unless overridden.
const DefaultMaxPredecessors = 3

// Activity is one project task: an average duration in weeks, a symmetric
// uncertainty expressed as a percentage of that average, and the activities
// that must finish before it can start.
type Activity struct {
	ID             int
	Name           string
	AvgDuration    float64
	UncertaintyPct float64
	Predecessors   []int
}

// Table is the activity network. Activities are kept in ID order, and every
// predecessor of activity j has an ID strictly less than j. That ordering is
// what lets the scheduler run a single forward pass with no topological sort;
// Validate enforces it so nothing downstream has to.
type Table struct {
	Activities      []Activity
	MaxPredecessors int
}

// Len returns the number of activities.
func (t *Table) Len() int { return len(t.Activities) }

// Last returns the final (highest-ID) activity. The project duration is its
// finish time.
func (t *Table) Last() Activity {
	return t.Activities[len(t.Activities)-1]
}

// Validate checks the table invariants and fails fast on the first violation:
// IDs contiguous from 1, positive average durations, non-negative uncertainty,
// every predecessor in range and strictly lower-indexed, and predecessor
// lists within the configured cap.
func (t *Table) Validate() error {
	if len(t.Activities) == 0 {
		return fmt.Errorf("activity table is empty")
	}
	maxPreds := t.MaxPredecessors
	if maxPreds <= 0 {
		maxPreds = DefaultMaxPredecessors
	}

	for i, a := range t.Activities {
		want := i + 1
		if a.ID != want {
			return fmt.Errorf("activity %d: expected ID %d at position %d (IDs must be contiguous from 1)", a.ID, want, i)
		}
		if a.AvgDuration <= 0 {
			return fmt.Errorf("activity %d: average duration must be positive, got %g", a.ID, a.AvgDuration)
		}
		if a.UncertaintyPct < 0 {
			return fmt.Errorf("activity %d: uncertainty percent must be non-negative, got %g", a.ID, a.UncertaintyPct)
		}
		if len(a.Predecessors) > maxPreds {
			return fmt.Errorf("activity %d: %d predecessors exceeds the maximum of %d", a.ID, len(a.Predecessors), maxPreds)
		}
		for _, p := range a.Predecessors {
			if p < 1 || p > len(t.Activities) {
				return fmt.Errorf("activity %d: predecessor %d is out of range [1, %d]", a.ID, p, len(t.Activities))
			}
			if p >= a.ID {
				return fmt.Errorf("activity %d: predecessor %d is not strictly lower-indexed (table must be listed in precedence order)", a.ID, p)
			}
		}
	}
	return nil
}

// Warnings reports non-fatal data-quality issues: activities whose uncertainty
// exceeds 100% can draw negative durations, which the sampler deliberately
// does not clamp.
func (t *Table) Warnings() []string {
	var warnings []string
	for _, a := range t.Activities {
		if a.UncertaintyPct > 100 {
			warnings = append(warnings,
				fmt.Sprintf("activity %d (%s): uncertainty %.1f%% exceeds 100%%, sampled durations can be negative", a.ID, a.Name, a.UncertaintyPct))
		}
	}
	return warnings
}
