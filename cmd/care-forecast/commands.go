package main

import (
	"fmt"

	"github.com/iwvelando/care-forecast/internal/optimizer"
	"github.com/iwvelando/care-forecast/internal/savings"
	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/iwvelando/care-forecast/pkg/mathutil"
	"github.com/iwvelando/care-forecast/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// requireFinite rejects NaN and infinite flag values, which pflag accepts.
func requireFinite(name string, v float64) error {
	if !mathutil.IsFinite(v) {
		return fmt.Errorf("invalid --%s: %v is not a finite number", name, v)
	}
	return nil
}

func newSimulateCommand(c *cli) *cobra.Command {
	var increase float64
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project the impact of one diversion increase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFinite("increase", increase); err != nil {
				return err
			}
			outputFormat, err := c.resolveOutputFormat()
			if err != nil {
				return err
			}
			sim, err := c.conf.NewSimulator()
			if err != nil {
				return err
			}

			res := sim.ComputeImpact(increase)
			capacity := sim.Capacity(increase, c.conf.Capacity)
			c.logger.Debug("computed impact",
				zap.String("op", "simulate"),
				zap.Float64("increase", res.AppliedIncrease),
				zap.Int64("balance", res.NetFinancialBalance),
			)
			return output.Rows(c.out, outputFormat, []output.Row{{Result: res, Capacity: &capacity}}, c.conf.Output.CurrencySuffix)
		},
	}
	cmd.Flags().Float64Var(&increase, "increase", 0, "diversion increase in percentage points")
	return cmd
}

func newSweepCommand(c *cli) *cobra.Command {
	var rng simulation.Range
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Project every slider position in a range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := c.resolveOutputFormat()
			if err != nil {
				return err
			}
			sim, err := c.conf.NewSimulator()
			if err != nil {
				return err
			}

			for name, v := range map[string]float64{"min": rng.Min, "max": rng.Max, "step": rng.Step} {
				if err := requireFinite(name, v); err != nil {
					return err
				}
			}

			r := c.conf.Slider
			if cmd.Flags().Changed("min") {
				r.Min = rng.Min
			}
			if cmd.Flags().Changed("max") {
				r.Max = rng.Max
			}
			if cmd.Flags().Changed("step") {
				r.Step = rng.Step
			}

			points, err := sim.Sweep(r)
			if err != nil {
				return err
			}
			rows := make([]output.Row, 0, len(points))
			for _, p := range points {
				capacity := sim.Capacity(p.Increase, c.conf.Capacity)
				rows = append(rows, output.Row{Result: p.Result, Capacity: &capacity})
			}
			c.logger.Debug("swept range",
				zap.String("op", "sweep"),
				zap.Int("points", len(rows)),
			)
			return output.Rows(c.out, outputFormat, rows, c.conf.Output.CurrencySuffix)
		},
	}
	cmd.Flags().Float64Var(&rng.Min, "min", constants.DefaultSliderMin, "lowest increase in percentage points")
	cmd.Flags().Float64Var(&rng.Max, "max", constants.DefaultSliderMax, "highest increase in percentage points")
	cmd.Flags().Float64Var(&rng.Step, "step", constants.DefaultSliderStep, "increment between scenarios")
	return cmd
}

func newOptimizeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Find the most favourable increase and the break-even point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := c.resolveOutputFormat()
			if err != nil {
				return err
			}
			sim, err := c.conf.NewSimulator()
			if err != nil {
				return err
			}
			runner, err := optimizer.NewRunner(c.logger, sim, optimizer.BoundsFromRange(c.conf.Slider))
			if err != nil {
				return err
			}
			summary, err := runner.WithCurrencySuffix(c.conf.Output.CurrencySuffix).Run()
			if err != nil {
				return err
			}
			return output.Optimization(c.out, outputFormat, summary)
		},
	}
}

func newSavingsCommand(c *cli) *cobra.Command {
	var (
		efficiency float64
		schedule   bool
		step       float64
	)
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Estimate yearly savings from starting follow-up care sooner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFinite("efficiency", efficiency); err != nil {
				return err
			}
			outputFormat, err := c.resolveOutputFormat()
			if err != nil {
				return err
			}

			estimates := []savings.Estimate{c.conf.Savings.Compute(efficiency)}
			if schedule {
				if estimates, err = c.conf.Savings.Schedule(step); err != nil {
					return err
				}
			}
			return output.Savings(c.out, outputFormat, estimates, c.conf.Output.CurrencySuffix)
		},
	}
	cmd.Flags().Float64Var(&efficiency, "efficiency", 0, "efficiency gain in percent")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "estimate every efficiency gain up to the configured maximum")
	cmd.Flags().Float64Var(&step, "step", constants.DefaultEfficiencyStep, "efficiency increment used with --schedule")
	return cmd
}
