package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshharrison/ganttcast/internal/activity"
	"github.com/joshharrison/ganttcast/internal/config"
	"github.com/joshharrison/ganttcast/internal/newsvendor"
	"github.com/joshharrison/ganttcast/internal/report"
	"github.com/joshharrison/ganttcast/internal/sampler"
	"github.com/joshharrison/ganttcast/internal/schedule"
	"github.com/joshharrison/ganttcast/internal/sim"
	"github.com/joshharrison/ganttcast/internal/ui"
)

var (
	flagScenario string
	flagTable    string
	flagJSON     bool
	flagSeed     int64
	flagReps     int
	flagWorkers  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ganttcast",
		Short: "Monte Carlo duration forecasts for activity networks",
		Long: `Ganttcast simulates a project activity network with stochastic task
durations and precedence constraints, estimating the distribution of total
completion time along with confidence intervals, deadline risk, and
percentile cutoffs.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagScenario, "scenario", "", "Scenario YAML path")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(newsvendorCmd())
	rootCmd.AddCommand(sampleCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario merges the scenario file (if any) with flag overrides.
func loadScenario(cmd *cobra.Command) (config.Scenario, error) {
	scn := config.Default()
	if flagScenario != "" {
		var err error
		scn, err = config.Load(flagScenario)
		if err != nil {
			return scn, err
		}
	}

	if cmd.Flags().Changed("table") {
		scn.Table = flagTable
	}
	if cmd.Flags().Changed("reps") {
		scn.Replications = flagReps
	}
	if cmd.Flags().Changed("seed") {
		scn.Seed = flagSeed
	}
	if cmd.Flags().Changed("workers") {
		scn.Workers = flagWorkers
	}
	if f := cmd.Flags().Lookup("threshold"); f != nil && f.Changed {
		v, err := cmd.Flags().GetFloat64("threshold")
		if err != nil {
			return scn, err
		}
		scn.Threshold = v
	}

	if scn.Seed == 0 {
		scn.Seed = time.Now().UnixNano()
	}
	if err := scn.Validate(); err != nil {
		return scn, err
	}
	return scn, nil
}

func loadTable(scn config.Scenario) (*activity.Table, error) {
	if scn.Table == "" {
		return nil, fmt.Errorf("no activity table given (use --table or the scenario file)")
	}
	return activity.Load(scn.Table, scn.MaxPredecessors)
}

func runCmd() *cobra.Command {
	var flagOutput string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate the activity network and report duration statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			table, err := loadTable(scn)
			if err != nil {
				return err
			}

			analysis, err := schedule.Analyze(table)
			if err != nil {
				return fmt.Errorf("analyze network: %w", err)
			}

			runner := &sim.Runner{
				Table:        table,
				Sampler:      sampler.Uniform{},
				Replications: scn.Replications,
				Seed:         scn.Seed,
				Workers:      scn.Workers,
			}
			result, err := runner.Run()
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}

			if flagOutput != "" {
				if err := report.Save(flagOutput, result); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "💾 Saved result set to %s\n", ui.Dim(flagOutput))
			}

			rpt := report.New(scn, analysis, result)
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			return rpt.PrintReport(os.Stdout)
		},
	}

	cmd.Flags().StringVar(&flagTable, "table", "", "Activity table path (CSV or JSON)")
	cmd.Flags().IntVar(&flagReps, "reps", 1000, "Replication count")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "Random seed (0 = time-based)")
	cmd.Flags().IntVar(&flagWorkers, "workers", 1, "Parallel replication workers")
	cmd.Flags().Float64("threshold", 40, "Exceedance threshold in weeks")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Save the result set to a JSON file")

	return cmd
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the deterministic average-duration schedule and critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			table, err := loadTable(scn)
			if err != nil {
				return err
			}

			analysis, err := schedule.Analyze(table)
			if err != nil {
				return fmt.Errorf("analyze network: %w", err)
			}

			if flagJSON {
				return outputJSON(analysis)
			}
			report.PrintAnalysis(os.Stdout, analysis)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagTable, "table", "", "Activity table path (CSV or JSON)")

	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an activity table against the precedence-ordering invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			table, err := loadTable(scn)
			if err != nil {
				return err
			}

			warnings := table.Warnings()
			if flagJSON {
				return outputJSON(map[string]interface{}{
					"valid":      true,
					"activities": table.Len(),
					"warnings":   warnings,
				})
			}

			fmt.Printf("%s %d activities, precedence ordering holds\n", ui.Green("✓"), table.Len())
			for _, w := range warnings {
				fmt.Printf("%s %s\n", ui.Yellow("⚠"), w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagTable, "table", "", "Activity table path (CSV or JSON)")

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <result-set.json>",
		Short: "Re-render a saved result set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			result, err := report.LoadResultSet(args[0])
			if err != nil {
				return err
			}

			// No table on reload, so no deterministic baseline section.
			rpt := report.New(scn, nil, result)
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			return rpt.PrintReport(os.Stdout)
		},
	}

	cmd.Flags().Float64("threshold", 40, "Exceedance threshold in weeks")

	return cmd
}

func newsvendorCmd() *cobra.Command {
	cfg := newsvendor.Config{}

	cmd := &cobra.Command{
		Use:   "newsvendor",
		Short: "Simulate the single-order-quantity profit model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Seed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}

			result, err := newsvendor.Simulate(cfg)
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(result)
			}

			fmt.Printf("\n📰 %s\n", ui.BoldCyan("Newsvendor Simulation"))
			fmt.Printf("%s\n", ui.Cyan("═════════════════════"))
			fmt.Printf("Order quantity: %d, demand %d–%d, %d replications (seed %d)\n",
				cfg.OrderQuantity, cfg.DemandMin, cfg.DemandMax, cfg.Replications, cfg.Seed)
			fmt.Printf("Mean profit:    %s\n", ui.Bold(fmt.Sprintf("%.2f", result.MeanProfit)))
			fmt.Printf("%.0f%% interval:   %.2f – %.2f (±%.2f)\n",
				cfg.Confidence*100, result.Interval.Lower, result.Interval.Upper, result.Interval.HalfWidth)
			fmt.Printf("Loss rate:      %.1f%%\n", result.LossRate*100)
			fmt.Printf("Stockout rate:  %.1f%%\n", result.StockoutRate*100)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.OrderQuantity, "quantity", 200, "Units ordered up front")
	cmd.Flags().Float64Var(&cfg.UnitCost, "cost", 6, "Cost per unit")
	cmd.Flags().Float64Var(&cfg.UnitPrice, "price", 10, "Sale price per unit")
	cmd.Flags().Float64Var(&cfg.UnitSalvage, "salvage", 2, "Salvage value per leftover unit")
	cmd.Flags().IntVar(&cfg.DemandMin, "demand-min", 100, "Minimum demand")
	cmd.Flags().IntVar(&cfg.DemandMax, "demand-max", 300, "Maximum demand")
	cmd.Flags().IntVar(&cfg.Replications, "reps", 1000, "Replication count")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "Random seed (0 = time-based)")
	cmd.Flags().Float64Var(&cfg.Confidence, "confidence", 0.95, "Confidence level")

	return cmd
}

// sampleTable is the 7-activity reference network (weeks).
const sampleTable = `Activity,Name,Average_Duration,Percent_Uncertainty,Predecessor_1,Predecessor_2,Predecessor_3
1,Foundation,12,25,-1,-1,-1
2,Framing,9,30,1,-1,-1
3,Plumbing,8,40,2,-1,-1
4,Electrical,7,35,2,-1,-1
5,Drywall,6,25,3,4,-1
6,Landscaping,5,50,1,-1,-1
7,Finishing,4,20,5,6,-1
`

func sampleCmd() *cobra.Command {
	var flagDir string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the example activity table and scenario to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			tablePath := filepath.Join(flagDir, "activities.csv")
			scenarioPath := filepath.Join(flagDir, "scenario.yaml")

			if err := os.WriteFile(tablePath, []byte(sampleTable), 0644); err != nil {
				return fmt.Errorf("write sample table: %w", err)
			}
			if err := os.WriteFile(scenarioPath, []byte(config.SampleScenario), 0644); err != nil {
				return fmt.Errorf("write sample scenario: %w", err)
			}

			fmt.Printf("Wrote %s and %s\n", tablePath, scenarioPath)
			fmt.Printf("Try: %s\n", ui.Bold("ganttcast run --scenario "+scenarioPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagDir, "dir", ".", "Directory to write the sample files into")

	return cmd
}

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
