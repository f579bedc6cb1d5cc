package schedule

// Schedule holds one replication's start and finish times, indexed by
// activity position (activity ID - 1).
type Schedule struct {
	Start  []float64
	Finish []float64
	// ProjectDuration is the finish time of the last activity.
	ProjectDuration float64
}

// ActivitySchedule holds the deterministic critical-path figures for a single
// activity, computed from average durations.
type ActivitySchedule struct {
	ID         int     `json:"id"`
	Name       string  `json:"name,omitempty"`
	ES         float64 `json:"es"` // earliest start
	EF         float64 `json:"ef"` // earliest finish
	LS         float64 `json:"ls"` // latest start
	LF         float64 `json:"lf"` // latest finish
	Slack      float64 `json:"slack"`
	IsCritical bool    `json:"is_critical"`
}

// Analysis is the full average-duration critical path analysis. Its
// TotalDuration is the deterministic baseline the simulated mean is compared
// against in the report.
type Analysis struct {
	Activities    []ActivitySchedule `json:"activities"`
	CriticalPath  []int              `json:"critical_path"`
	TotalDuration float64            `json:"total_duration"`
}
