package cmd

import (
	"github.com/spf13/cobra"

	"github.com/guimove/greendc/internal/orchestrator"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Rank dispatch policies over many seeded episodes",
	Long: `Runs every policy for the same list of seeds, each episode on its own
simulator, and ranks the policies by mean reward, carbon emitted, throughput
and reliability.`,
	RunE: runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.Int("episodes", 10, "episodes per policy")
	f.StringSlice("policies", nil, "policies to evaluate (default: all)")
	f.Int("parallelism", 0, "concurrent scenarios (0 = one per CPU)")
	f.String("cache-dir", "", "cache evaluation results in this directory")
	f.Int("top", 5, "number of policies to show")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	// Apply flag overrides
	if n, _ := cmd.Flags().GetInt("episodes"); cmd.Flags().Changed("episodes") {
		cfg.Evaluation.Episodes = n
	}
	if p, _ := cmd.Flags().GetStringSlice("policies"); len(p) > 0 {
		cfg.Evaluation.Policies = p
	}
	if n, _ := cmd.Flags().GetInt("parallelism"); cmd.Flags().Changed("parallelism") {
		cfg.Evaluation.Parallelism = n
	}
	if d, _ := cmd.Flags().GetString("cache-dir"); d != "" {
		cfg.Evaluation.CacheDir = d
	}
	if n, _ := cmd.Flags().GetInt("top"); cmd.Flags().Changed("top") {
		cfg.Output.TopN = n
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	w, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	orch := orchestrator.New(cfg)
	orch.Writer = w

	_, err = orch.Evaluate(cmd.Context())
	return err
}
