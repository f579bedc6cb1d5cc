package sampler

import (
	"math/rand"

	"github.com/joshharrison/ganttcast/internal/activity"
)

// Sampler draws one random duration for an activity. Implementations must be
// stateless apart from the rng passed in, so a single sampler can serve every
// activity of every replication.
type Sampler interface {
	Sample(rng *rand.Rand, a activity.Activity) float64
}

// Uniform draws from the symmetric interval [avg-d, avg+d] where
// d = avg * uncertainty / 100. When uncertainty exceeds 100% the draw can be
// negative; that is left unclamped on purpose — the schedule stays
// mathematically well-defined and the driver reports the count upstream.
type Uniform struct{}

func (Uniform) Sample(rng *rand.Rand, a activity.Activity) float64 {
	d := a.AvgDuration * a.UncertaintyPct / 100
	return a.AvgDuration - d + rng.Float64()*2*d
}
