package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/guimove/greendc/internal/model"
)

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Describe the observation and action spaces",
	Long: `Prints the seven observation components with their units and declared
ranges, and the three dispatch actions, for the configured data center.`,
	RunE: runSpaces,
}

func init() {
	spacesCmd.Flags().String("format", "", "table, json or yaml (default from --output)")
	rootCmd.AddCommand(spacesCmd)
}

type spacesDoc struct {
	Observation []model.SpaceEntry `json:"observation" yaml:"observation"`
	Actions     []model.ActionInfo `json:"actions" yaml:"actions"`
}

func runSpaces(cmd *cobra.Command, args []string) error {
	obs := model.NewObservationSpace(cfg.Simulation.MaxQueueSize, cfg.Simulation.BatteryCapacityKWh)
	doc := spacesDoc{
		Observation: obs.Entries[:],
		Actions:     model.NewActionSpace().Actions,
	}

	format := cfg.Output.Format
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format = f
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(doc)
	}

	fmt.Printf("\nObservation space (%d components)\n", len(doc.Observation))
	fmt.Printf("%s\n", strings.Repeat("=", 72))
	fmt.Printf("%-3s %-18s %-8s %8s %8s  %s\n", "#", "Name", "Unit", "Low", "High", "Description")
	for i, e := range doc.Observation {
		fmt.Printf("%-3d %-18s %-8s %8.0f %8.0f  %s\n", i, e.Name, e.Unit, e.Low, e.High, e.Description)
	}

	fmt.Printf("\nAction space (%d actions)\n", len(doc.Actions))
	fmt.Printf("%s\n", strings.Repeat("=", 72))
	for _, a := range doc.Actions {
		fmt.Printf("%-3d %-14s %s\n", a.Ordinal, a.Name, a.Description)
	}
	fmt.Println()
	return nil
}
