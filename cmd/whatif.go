package cmd

import (
	"github.com/spf13/cobra"

	"github.com/guimove/greendc/internal/orchestrator"
)

var whatifCmd = &cobra.Command{
	Use:   "what-if",
	Short: "Compare data center configurations under one policy",
	Long: `Runs the same policy and seeds against the configured data center and
against variants with a different battery, solar or wind capacity, and ranks
them with carbon compared to the unmodified configuration.`,
	Example: `  greendc what-if --policy carbon-aware --battery-capacities 0,400 --solar-capacities 250`,
	RunE:    runWhatIf,
}

func init() {
	f := whatifCmd.Flags()
	f.String("policy", "", "dispatch policy (default from config)")
	f.Float64Slice("battery-capacities", nil, "battery capacities to compare, kWh")
	f.Float64Slice("solar-capacities", nil, "solar capacities to compare, kW")
	f.Float64Slice("wind-capacities", nil, "wind capacities to compare, kW")
	f.Int("episodes", 10, "episodes per configuration")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(whatifCmd)
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	name := cfg.Policy.Name
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		name = p
	}
	if n, _ := cmd.Flags().GetInt("episodes"); cmd.Flags().Changed("episodes") {
		cfg.Evaluation.Episodes = n
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var v orchestrator.Variants
	v.BatteryCapacities, _ = cmd.Flags().GetFloat64Slice("battery-capacities")
	v.SolarCapacities, _ = cmd.Flags().GetFloat64Slice("solar-capacities")
	v.WindCapacities, _ = cmd.Flags().GetFloat64Slice("wind-capacities")

	w, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	orch := orchestrator.New(cfg)
	orch.Writer = w

	_, err = orch.WhatIf(cmd.Context(), name, v)
	return err
}
