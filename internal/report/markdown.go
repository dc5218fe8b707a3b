package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimove/greendc/internal/model"
)

// MarkdownReporter outputs results as GitHub-flavored markdown.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) meta(meta ReportMeta) {
	sim := meta.Simulation
	fmt.Fprintf(r.w, "| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(r.w, "| Run | `%s` |\n", meta.RunID)
	fmt.Fprintf(r.w, "| Solar / wind | %.0f kW / %.0f kW |\n", sim.SolarCapacityKW, sim.WindCapacityKW)
	fmt.Fprintf(r.w, "| Battery | %.0f kWh |\n", sim.BatteryCapacityKWh)
	fmt.Fprintf(r.w, "| Max queue | %d |\n", sim.MaxQueueSize)
	fmt.Fprintf(r.w, "| Seed | %d |\n", meta.Seed)
	if meta.Episodes > 0 {
		fmt.Fprintf(r.w, "| Episodes | %d |\n", meta.Episodes)
	}
	fmt.Fprintf(r.w, "\n")
}

func (r *MarkdownReporter) ReportEpisode(ctx context.Context, ep *model.EpisodeResult, meta ReportMeta) error {
	fmt.Fprintf(r.w, "# Episode: %s\n\n", ep.Policy)
	r.meta(meta)

	fmt.Fprintf(r.w, "| Hour | Action | Solar kW | Wind kW | Tasks | Queue | Battery kWh | Grid kWh | Carbon g | Reward |\n")
	fmt.Fprintf(r.w, "|---:|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, s := range ep.Steps {
		rec := s.Record
		fmt.Fprintf(r.w, "| %d | %s | %.1f | %.1f | %d | %d | %.1f | %.2f | %.1f | %.2f |\n",
			rec.Hour, rec.Action, rec.Solar, rec.Wind, rec.TasksProcessed, rec.QueueLength,
			rec.Battery, rec.GridUsed, rec.CarbonEmitted, s.Reward)
	}

	t := ep.Totals
	fmt.Fprintf(r.w, "\n**Total reward:** %.2f  \n", t.Reward)
	fmt.Fprintf(r.w, "**Total carbon:** %.2f g  \n", t.CarbonEmitted)
	fmt.Fprintf(r.w, "**Total tasks:** %d of %d (%d dropped)\n", t.TasksProcessed, t.Arrivals, t.DroppedTasks)
	return nil
}

func (r *MarkdownReporter) ReportRanking(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	title := meta.Title
	if title == "" {
		title = "Policy Ranking"
	}
	fmt.Fprintf(r.w, "# %s\n\n", title)
	r.meta(meta)

	if len(recs) == 0 {
		fmt.Fprintf(r.w, "_No results available._\n")
		return nil
	}

	fmt.Fprintf(r.w, "| Rank | Scenario | Reward | Carbon g | Tasks | Grid %% | Score |\n")
	fmt.Fprintf(r.w, "|---:|---|---:|---:|---:|---:|---:|\n")
	for _, rec := range recs {
		res := rec.Result
		fmt.Fprintf(r.w, "| %d | %s | %.1f ± %.1f | %.0f | %.0f | %.1f | %.1f |\n",
			rec.Rank, res.Label(), res.MeanReward, res.StdReward, res.MeanCarbon,
			res.MeanTasks, res.MeanGridShare*100, rec.OverallScore)
	}

	var notes []string
	for _, rec := range recs {
		for _, w := range rec.Warnings {
			notes = append(notes, fmt.Sprintf("- **%s**: %s", rec.Result.Label(), w))
		}
	}
	if len(notes) > 0 {
		fmt.Fprintf(r.w, "\n## Warnings\n\n%s\n", strings.Join(notes, "\n"))
	}
	return nil
}
