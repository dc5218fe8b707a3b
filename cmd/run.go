package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guimove/greendc/internal/orchestrator"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one 24-hour episode under a dispatch policy",
	Long: `Resets the simulator and drives it hour by hour with the chosen policy,
then prints the trajectory: action, renewable supply, tasks processed, queue,
battery, grid energy and carbon for every hour, followed by the day's totals.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.String("policy", "", "dispatch policy (default from config)")
	f.Duration("pace", 0, "wall-clock delay between hours, e.g. 500ms")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	name := cfg.Policy.Name
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		name = p
	}

	w, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	orch := orchestrator.New(cfg)
	orch.Writer = w
	orch.Pace, _ = cmd.Flags().GetDuration("pace")

	_, err = orch.Run(cmd.Context(), name)
	return err
}

// outputWriter returns stdout or the file named by --output-file.
func outputWriter(cmd *cobra.Command) (*os.File, func(), error) {
	outFile, _ := cmd.Flags().GetString("output-file")
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
