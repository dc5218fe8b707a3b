package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guimove/greendc/internal/model"
)

// JSONReporter outputs results as JSON.
type JSONReporter struct {
	w io.Writer
}

type jsonEpisode struct {
	Meta    ReportMeta           `json:"meta"`
	Episode *model.EpisodeResult `json:"episode"`
}

type jsonRanking struct {
	Meta            ReportMeta             `json:"meta"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

func (r *JSONReporter) ReportEpisode(ctx context.Context, ep *model.EpisodeResult, meta ReportMeta) error {
	return r.encode(jsonEpisode{Meta: meta, Episode: ep})
}

func (r *JSONReporter) ReportRanking(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	return r.encode(jsonRanking{Meta: meta, Recommendations: recs})
}

func (r *JSONReporter) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
