// internal/app/analytics_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	"github.com/aqsa08/training-mvp-backend/internal/domain/readiness"
)

// CohortSummary is the dashboard header for one cohort. CompletionRate is
// absent until at least one message was sent.
type CohortSummary struct {
	Cohort           *engagement.CohortOverview
	Metrics          *engagement.CohortMetrics
	CompletionRate   sql.NullInt64
	DailyReflections []engagement.DailyReflectionPoint
}

// LearnerStats are the per-learner numbers on the detail view. Here a
// learner with nothing sent yet reports CompletionPercent 0 (the cohort
// listing reports absent instead; the two views intentionally differ).
type LearnerStats struct {
	LessonsSent          int
	ReflectionsSubmitted int
	CompletionPercent    int
	AvgQuality           sql.NullFloat64
	BehaviorsObserved    int
	BehaviorPercent      int
	ReadinessScore       int
}

// LearnerProgress is the full detail view payload.
type LearnerProgress struct {
	Learner         *engagement.LearnerInfo
	Stats           LearnerStats
	EngagementByDay []engagement.EngagementDay
}

// ScoredLearnerRow is one line of the cohort listing. ReadinessScore is
// absent for learners with no sends, no reflections and no quality data.
type ScoredLearnerRow struct {
	engagement.LearnerRow
	ReadinessScore sql.NullInt64
}

// AnalyticsService derives dashboard payloads from stored aggregates. Both
// scoring call sites go through readiness.Compute; any divergence between
// them is a correctness bug.
type AnalyticsService struct {
	analyticsRepo engagement.AnalyticsRepository
}

func NewAnalyticsService(ar engagement.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: ar}
}

func (s *AnalyticsService) CohortSummary(ctx context.Context, cohortID int64) (*CohortSummary, error) {
	overview, err := s.analyticsRepo.CohortOverview(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.analyticsRepo.CohortMetrics(ctx, cohortID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cohort metrics: %w", err)
	}

	var completionRate sql.NullInt64
	if metrics.MessagesSent > 0 {
		rate := math.Round(float64(metrics.ReflectionsCount) / float64(metrics.MessagesSent) * 100)
		completionRate = sql.NullInt64{Int64: int64(rate), Valid: true}
	}

	daily, err := s.analyticsRepo.DailyReflections(ctx, cohortID)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily reflections: %w", err)
	}

	return &CohortSummary{
		Cohort:           overview,
		Metrics:          metrics,
		CompletionRate:   completionRate,
		DailyReflections: daily,
	}, nil
}

func (s *AnalyticsService) LearnerProgress(ctx context.Context, cohortUserID int64) (*LearnerProgress, error) {
	info, err := s.analyticsRepo.LearnerInfo(ctx, cohortUserID)
	if err != nil {
		return nil, err
	}

	counts, err := s.analyticsRepo.LearnerCounts(ctx, cohortUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load learner counts: %w", err)
	}

	// Per-learner view: no sends yet means 0% completion, not "absent".
	completionPercent := 0
	if counts.LessonsSent > 0 {
		completionPercent = int(math.Round(float64(counts.ReflectionsSubmitted) / float64(counts.LessonsSent) * 100))
	}

	score := readiness.Compute(readiness.Input{
		CompletionPercent:    float64(completionPercent),
		AvgQuality:           counts.AvgQuality,
		ReflectionsSubmitted: counts.ReflectionsSubmitted,
		BehaviorsObserved:    counts.BehaviorsObserved,
	})

	days, err := s.analyticsRepo.EngagementByDay(ctx, cohortUserID, info.RoleLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement by day: %w", err)
	}

	return &LearnerProgress{
		Learner: info,
		Stats: LearnerStats{
			LessonsSent:          counts.LessonsSent,
			ReflectionsSubmitted: counts.ReflectionsSubmitted,
			CompletionPercent:    completionPercent,
			AvgQuality:           counts.AvgQuality,
			BehaviorsObserved:    counts.BehaviorsObserved,
			BehaviorPercent:      int(readiness.BehaviorPercent(counts.BehaviorsObserved, counts.ReflectionsSubmitted)),
			ReadinessScore:       score,
		},
		EngagementByDay: days,
	}, nil
}

func (s *AnalyticsService) CohortLearners(ctx context.Context, cohortID int64) ([]ScoredLearnerRow, error) {
	rows, err := s.analyticsRepo.CohortLearners(ctx, cohortID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cohort learners: %w", err)
	}

	scored := make([]ScoredLearnerRow, 0, len(rows))
	for _, row := range rows {
		score := readiness.Compute(readiness.Input{
			CompletionPercent:    float64(row.CompletionPercent),
			AvgQuality:           row.AvgQuality,
			ReflectionsSubmitted: row.ReflectionsReceived,
			BehaviorsObserved:    row.BehaviorsObserved,
		})

		// Cohort listing: a completely untouched learner has no score at
		// all, signalling "not yet started" rather than 0.
		var readinessScore sql.NullInt64
		if !(row.MessagesSent == 0 && row.ReflectionsReceived == 0 && !row.AvgQuality.Valid) {
			readinessScore = sql.NullInt64{Int64: int64(score), Valid: true}
		}

		scored = append(scored, ScoredLearnerRow{
			LearnerRow:     row,
			ReadinessScore: readinessScore,
		})
	}
	return scored, nil
}
