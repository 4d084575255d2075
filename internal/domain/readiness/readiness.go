// Package readiness derives a single 0..100 readiness score from raw
// engagement aggregates. Everything here is pure: no I/O, deterministic, and
// defined for every input, so both dashboard read paths can share it.
package readiness

import (
	"database/sql"
	"math"
)

// Weights of the composite score: 40% completion, 40% reflection quality,
// 20% observed behavior.
const (
	completionWeight = 0.4
	qualityWeight    = 0.4
	behaviorWeight   = 0.2
)

// Input carries the aggregates one score is computed from.
//
// CompletionPercent is already a percentage (reflections/lessons sent * 100),
// computed by the caller because its missing-data default differs between the
// learner progress view (0) and the cohort listing (absent).
type Input struct {
	CompletionPercent    float64
	AvgQuality           sql.NullFloat64
	ReflectionsSubmitted int
	BehaviorsObserved    int
}

// clamp bounds a value to [0,100]; any NaN collapses to 0 so a bad input
// contributes nothing rather than poisoning the score.
func clamp(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return math.Max(0, math.Min(100, n))
}

// QualityPercent maps an average quality score (1..3) onto 0..100. An absent
// average scores 0, not neutral: a period with no scored reflections is
// treated as contributing zero quality.
func QualityPercent(avgQuality sql.NullFloat64) float64 {
	if !avgQuality.Valid {
		return 0
	}
	return clamp(math.Round(avgQuality.Float64 / 3 * 100))
}

// BehaviorPercent is the share of reflections with an observed behavior,
// 0 when no reflections exist.
func BehaviorPercent(behaviorsObserved, reflectionsSubmitted int) float64 {
	if reflectionsSubmitted <= 0 {
		return 0
	}
	return clamp(math.Round(float64(behaviorsObserved) / float64(reflectionsSubmitted) * 100))
}

// Compute returns the weighted readiness score. Each percentage is rounded
// before the weighted sum, and the sum is rounded again; the double rounding
// is intentional and load-bearing for numeric parity across views.
func Compute(in Input) int {
	completion := clamp(in.CompletionPercent)
	quality := QualityPercent(in.AvgQuality)
	behavior := BehaviorPercent(in.BehaviorsObserved, in.ReflectionsSubmitted)

	score := math.Round(completionWeight*completion + qualityWeight*quality + behaviorWeight*behavior)
	return int(clamp(score))
}
