package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimove/greendc/internal/model"
)

// TableReporter outputs results as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) header(title string, meta ReportMeta) {
	sim := meta.Simulation
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "%s\n", title)
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Run:         %s\n", meta.RunID)
	fmt.Fprintf(r.w, "Renewables:  %.0f kW solar, %.0f kW wind\n", sim.SolarCapacityKW, sim.WindCapacityKW)
	fmt.Fprintf(r.w, "Battery:     %.0f kWh\n", sim.BatteryCapacityKWh)
	fmt.Fprintf(r.w, "Queue:       %d tasks max, %d arrivals/h max\n", sim.MaxQueueSize, sim.MaxTasksPerHour)
	if meta.Episodes > 0 {
		fmt.Fprintf(r.w, "Episodes:    %d from seed %d\n", meta.Episodes, meta.Seed)
	} else {
		fmt.Fprintf(r.w, "Seed:        %d\n", meta.Seed)
	}
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))
}

func (r *TableReporter) ReportEpisode(ctx context.Context, ep *model.EpisodeResult, meta ReportMeta) error {
	r.header(fmt.Sprintf("Episode: %s", ep.Policy), meta)

	fmt.Fprintf(r.w, "%4s  %-13s %7s %7s %6s %5s %5s %8s %8s %8s\n",
		"Hour", "Action", "Solar", "Wind", "gCO2", "Tasks", "Queue", "Battery", "Grid kWh", "Carbon g")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 90))

	for _, s := range ep.Steps {
		rec := s.Record
		fmt.Fprintf(r.w, "%4d  %-13s %7.1f %7.1f %6.0f %5d %5d %8.1f %8.2f %8.1f\n",
			rec.Hour, rec.Action, rec.Solar, rec.Wind, rec.CarbonIntensity,
			rec.TasksProcessed, rec.QueueLength, rec.Battery, rec.GridUsed, rec.CarbonEmitted)
	}
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 90))

	t := ep.Totals
	fmt.Fprintf(r.w, "\nTotal reward:    %.2f\n", t.Reward)
	fmt.Fprintf(r.w, "Total carbon:    %.2f g\n", t.CarbonEmitted)
	fmt.Fprintf(r.w, "Total tasks:     %d of %d arrived\n", t.TasksProcessed, t.Arrivals)
	fmt.Fprintf(r.w, "Dropped tasks:   %d\n", t.DroppedTasks)
	fmt.Fprintf(r.w, "Grid share:      %.1f%%\n", t.GridShare()*100)
	fmt.Fprintf(r.w, "Final queue:     %d\n", t.FinalQueue)
	fmt.Fprintf(r.w, "\n")
	return nil
}

func (r *TableReporter) ReportRanking(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	title := meta.Title
	if title == "" {
		title = "greendc Policy Ranking"
	}
	r.header(title, meta)

	if len(recs) == 0 {
		fmt.Fprintf(r.w, "No results available.\n")
		return nil
	}

	fmt.Fprintf(r.w, "%-4s %-30s %9s %10s %8s %6s %6s %s\n",
		"Rank", "Scenario", "Reward", "Carbon g", "Tasks", "Grid%", "Score", "Notes")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 100))

	for _, rec := range recs {
		res := rec.Result
		label := res.Label()
		if len(label) > 30 {
			label = label[:27] + "..."
		}

		notes := ""
		if rec.CarbonVsBaseline < 0 {
			notes = fmt.Sprintf("%.1f%% less carbon", -rec.CarbonVsBaseline)
		} else if rec.CarbonVsBaseline > 0 {
			notes = fmt.Sprintf("+%.1f%% carbon", rec.CarbonVsBaseline)
		}
		if res.MeanDropped > 0 {
			notes += fmt.Sprintf(" [%.0f dropped]", res.MeanDropped)
		}
		if res.Cached {
			notes += " (cached)"
		}

		fmt.Fprintf(r.w, "#%-3d %-30s %9.1f %10.0f %8.0f %5.1f%% %6.1f %s\n",
			rec.Rank,
			label,
			res.MeanReward,
			res.MeanCarbon,
			res.MeanTasks,
			res.MeanGridShare*100,
			rec.OverallScore,
			strings.TrimSpace(notes),
		)
	}

	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 100))

	top := recs[0]
	fmt.Fprintf(r.w, "\nRecommended: %s\n", top.Result.Label())
	fmt.Fprintf(r.w, "  Mean reward:    %.2f (std %.2f)\n", top.Result.MeanReward, top.Result.StdReward)
	fmt.Fprintf(r.w, "  Mean carbon:    %.0f g (std %.0f)\n", top.Result.MeanCarbon, top.Result.StdCarbon)
	fmt.Fprintf(r.w, "  Service level:  %.1f%%\n", top.Result.ServiceLevel()*100)

	if len(top.Warnings) > 0 {
		fmt.Fprintf(r.w, "\n  Warnings:\n")
		for _, w := range top.Warnings {
			fmt.Fprintf(r.w, "    - %s\n", w)
		}
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}
