package newsvendor

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/joshharrison/ganttcast/internal/stats"
)

// Config describes a single-order-quantity simulation: buy Q units up front,
// sell what demand takes, salvage the rest.
type Config struct {
	OrderQuantity int     `json:"order_quantity"`
	UnitCost      float64 `json:"unit_cost"`
	UnitPrice     float64 `json:"unit_price"`
	UnitSalvage   float64 `json:"unit_salvage"`
	DemandMin     int     `json:"demand_min"`
	DemandMax     int     `json:"demand_max"`
	Replications  int     `json:"replications"`
	Seed          int64   `json:"seed"`
	Confidence    float64 `json:"confidence"`
}

// Result is the finished newsvendor run.
type Result struct {
	RunID        string         `json:"run_id"`
	Config       Config         `json:"config"`
	Profits      []float64      `json:"profits"`
	MeanProfit   float64        `json:"mean_profit"`
	Interval     stats.Interval `json:"confidence_interval"`
	LossRate     float64        `json:"loss_rate"`     // fraction of runs with negative profit
	StockoutRate float64        `json:"stockout_rate"` // fraction of runs where demand exceeded Q
}

// Validate rejects unusable configurations.
func (c Config) Validate() error {
	if c.OrderQuantity <= 0 {
		return fmt.Errorf("order quantity must be > 0")
	}
	if c.UnitPrice < c.UnitSalvage {
		return fmt.Errorf("unit price below salvage value makes selling pointless")
	}
	if c.DemandMin < 0 || c.DemandMax < c.DemandMin {
		return fmt.Errorf("demand range [%d, %d] is invalid", c.DemandMin, c.DemandMax)
	}
	if c.Replications <= 0 {
		return fmt.Errorf("replications must be > 0")
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("confidence must be in (0, 1)")
	}
	return nil
}

// Simulate runs the replication loop. Demand is uniform on
// [DemandMin, DemandMax]; profit per run is revenue on sold units minus the
// up-front order cost plus salvage on leftovers.
func Simulate(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	profits := make([]float64, 0, cfg.Replications)
	losses := 0
	stockouts := 0

	for rep := 0; rep < cfg.Replications; rep++ {
		demand := cfg.DemandMin + rng.Intn(cfg.DemandMax-cfg.DemandMin+1)

		sold := demand
		if sold > cfg.OrderQuantity {
			sold = cfg.OrderQuantity
			stockouts++
		}
		leftover := cfg.OrderQuantity - sold

		profit := cfg.UnitPrice*float64(sold) -
			cfg.UnitCost*float64(cfg.OrderQuantity) +
			cfg.UnitSalvage*float64(leftover)
		if profit < 0 {
			losses++
		}
		profits = append(profits, profit)
	}

	interval, err := stats.ConfidenceInterval(profits, cfg.Confidence)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:        uuid.NewString(),
		Config:       cfg,
		Profits:      profits,
		MeanProfit:   stats.Mean(profits),
		Interval:     interval,
		LossRate:     float64(losses) / float64(cfg.Replications),
		StockoutRate: float64(stockouts) / float64(cfg.Replications),
	}, nil
}
