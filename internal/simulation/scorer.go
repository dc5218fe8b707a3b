package simulation

import (
	"fmt"
	"math"
	"sort"

	"github.com/guimove/greendc/internal/model"
)

// Warning thresholds.
const (
	HighGridShare     = 0.80
	LowServiceLevel   = 0.50
	HighResidualQueue = 0.50 // fraction of max queue left at end of day
	MaxQueuePenalty   = 25.0
	MaxDroppedPenalty = 50.0
)

// Scorer computes composite scores for scenario results and ranks them.
type Scorer struct {
	Weights      model.ScoringWeights
	MaxQueueSize int // used to scale the residual-queue penalty
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights model.ScoringWeights) *Scorer {
	return &Scorer{Weights: weights}
}

// RankResults scores and ranks a set of scenario results.
// If baseline is non-nil, carbon comparisons are made against it.
func (s *Scorer) RankResults(results []model.ScenarioResult, baseline *model.ScenarioResult) []model.Recommendation {
	if len(results) == 0 {
		return nil
	}

	minReward, maxReward := results[0].MeanReward, results[0].MeanReward
	minCarbon, maxCarbon := results[0].MeanCarbon, results[0].MeanCarbon
	for _, r := range results[1:] {
		minReward = math.Min(minReward, r.MeanReward)
		maxReward = math.Max(maxReward, r.MeanReward)
		minCarbon = math.Min(minCarbon, r.MeanCarbon)
		maxCarbon = math.Max(maxCarbon, r.MeanCarbon)
	}

	recs := make([]model.Recommendation, len(results))
	for i, r := range results {
		recs[i] = s.score(r, baseline, minReward, maxReward, minCarbon, maxCarbon)
	}

	// Sort by overall score descending
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].OverallScore > recs[j].OverallScore
	})

	for i := range recs {
		recs[i].Rank = i + 1
	}

	return recs
}

func (s *Scorer) score(
	r model.ScenarioResult,
	baseline *model.ScenarioResult,
	minReward, maxReward, minCarbon, maxCarbon float64,
) model.Recommendation {
	rec := model.Recommendation{Result: r}

	// Reward score: 100 = best mean reward
	if span := maxReward - minReward; span > 0 {
		rec.RewardScore = (r.MeanReward - minReward) / span * 100
	} else {
		rec.RewardScore = 100
	}

	// Carbon score: 100 = cleanest
	if span := maxCarbon - minCarbon; span > 0 {
		rec.CarbonScore = (1.0 - (r.MeanCarbon-minCarbon)/span) * 100
	} else {
		rec.CarbonScore = 100
	}

	if baseline != nil && baseline.MeanCarbon > 0 {
		rec.CarbonVsBaseline = (r.MeanCarbon - baseline.MeanCarbon) / baseline.MeanCarbon * 100
	}

	rec.ThroughputScore = math.Min(1, r.ServiceLevel()) * 100

	// Reliability: penalize drops first, then work left queued at end of day
	rec.ReliabilityScore = 100
	if r.MeanArrivals > 0 && r.MeanDropped > 0 {
		penalty := math.Min(r.MeanDropped/r.MeanArrivals*100*2, MaxDroppedPenalty)
		rec.ReliabilityScore -= penalty
	}
	if s.MaxQueueSize > 0 && r.MeanQueue > 0 {
		penalty := r.MeanQueue / float64(s.MaxQueueSize) * MaxQueuePenalty
		rec.ReliabilityScore -= math.Min(penalty, MaxQueuePenalty)
	}
	rec.ReliabilityScore = math.Max(0, rec.ReliabilityScore)

	rec.OverallScore = s.Weights.Reward*rec.RewardScore +
		s.Weights.Carbon*rec.CarbonScore +
		s.Weights.Throughput*rec.ThroughputScore +
		s.Weights.Reliability*rec.ReliabilityScore

	rec.Rationale = generateRationale(rec)
	rec.Warnings = s.generateWarnings(r)

	return rec
}

func generateRationale(rec model.Recommendation) string {
	r := rec.Result
	rationale := fmt.Sprintf("%s: reward %.1f, %.0f gCO2, %.0f tasks, grid %.0f%%",
		r.Label(), r.MeanReward, r.MeanCarbon, r.MeanTasks, r.MeanGridShare*100)

	if rec.CarbonVsBaseline < 0 {
		rationale += fmt.Sprintf(" (%.1f%% less carbon)", -rec.CarbonVsBaseline)
	}
	return rationale
}

func (s *Scorer) generateWarnings(r model.ScenarioResult) []string {
	var warnings []string

	if r.MeanDropped > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%.1f tasks dropped per episode on queue overflow", r.MeanDropped))
	}
	if r.MeanGridShare > HighGridShare {
		warnings = append(warnings,
			fmt.Sprintf("%.0f%% of energy drawn from the grid", r.MeanGridShare*100))
	}
	if r.MeanArrivals > 0 && r.ServiceLevel() < LowServiceLevel {
		warnings = append(warnings,
			fmt.Sprintf("Only %.0f%% of arriving tasks processed", r.ServiceLevel()*100))
	}
	if s.MaxQueueSize > 0 && r.MeanQueue > HighResidualQueue*float64(s.MaxQueueSize) {
		warnings = append(warnings,
			fmt.Sprintf("Queue ends the day with %.0f tasks pending", r.MeanQueue))
	}

	return warnings
}
