package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/guimove/greendc/internal/model"
)

// CSVReporter outputs one row per step or per ranked scenario.
type CSVReporter struct {
	w io.Writer
}

var episodeColumns = []string{
	"hour", "action", "solar", "wind", "carbon_intensity", "arrivals", "tasks_processed",
	"dropped_tasks", "queue_length", "battery", "energy_consumed", "green_used",
	"grid_used", "carbon_emitted", "reward",
}

var rankingColumns = []string{
	"rank", "scenario", "policy", "variant", "episodes", "mean_reward", "std_reward",
	"mean_carbon", "std_carbon", "mean_tasks", "mean_dropped", "mean_grid_share",
	"overall_score",
}

func (r *CSVReporter) ReportEpisode(ctx context.Context, ep *model.EpisodeResult, meta ReportMeta) error {
	rows := make([][]string, 0, len(ep.Steps)+1)
	rows = append(rows, episodeColumns)
	for _, s := range ep.Steps {
		rec := s.Record
		rows = append(rows, []string{
			strconv.Itoa(rec.Hour),
			rec.Action,
			formatFloat(rec.Solar),
			formatFloat(rec.Wind),
			formatFloat(rec.CarbonIntensity),
			strconv.Itoa(rec.Arrivals),
			strconv.Itoa(rec.TasksProcessed),
			strconv.Itoa(rec.DroppedTasks),
			strconv.Itoa(rec.QueueLength),
			formatFloat(rec.Battery),
			formatFloat(rec.EnergyConsumed),
			formatFloat(rec.GreenUsed),
			formatFloat(rec.GridUsed),
			formatFloat(rec.CarbonEmitted),
			formatFloat(s.Reward),
		})
	}
	return r.write(rows)
}

func (r *CSVReporter) ReportRanking(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	rows := make([][]string, 0, len(recs)+1)
	rows = append(rows, rankingColumns)
	for _, rec := range recs {
		res := rec.Result
		rows = append(rows, []string{
			strconv.Itoa(rec.Rank),
			res.Scenario,
			res.Policy,
			res.Variant,
			strconv.Itoa(res.Episodes),
			formatFloat(res.MeanReward),
			formatFloat(res.StdReward),
			formatFloat(res.MeanCarbon),
			formatFloat(res.StdCarbon),
			formatFloat(res.MeanTasks),
			formatFloat(res.MeanDropped),
			formatFloat(res.MeanGridShare),
			formatFloat(rec.OverallScore),
		})
	}
	return r.write(rows)
}

func (r *CSVReporter) write(rows [][]string) error {
	cw := csv.NewWriter(r.w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing CSV output: %w", err)
	}
	return nil
}

// formatFloat keeps full precision so the output round-trips exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
