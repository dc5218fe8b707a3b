package report

import (
	"context"
	"io"
	"time"

	"github.com/guimove/greendc/internal/config"
	"github.com/guimove/greendc/internal/model"
)

// Reporter formats and writes results to an output destination.
type Reporter interface {
	// ReportEpisode writes a single 24-hour trajectory.
	ReportEpisode(ctx context.Context, ep *model.EpisodeResult, meta ReportMeta) error
	// ReportRanking writes ranked scenario results.
	ReportRanking(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	RunID       string                  `json:"run_id"`
	Title       string                  `json:"title"`
	GeneratedAt time.Time               `json:"generated_at"`
	Seed        uint64                  `json:"seed"`
	Episodes    int                     `json:"episodes,omitempty"`
	Simulation  config.SimulationConfig `json:"simulation"`
	Weather     config.WeatherConfig    `json:"weather"`
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	case "csv":
		return &CSVReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
