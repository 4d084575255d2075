package app

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aqsa08/training-mvp-backend/internal/domain/cohort"
	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsRepo struct {
	overview *engagement.CohortOverview
	metrics  *engagement.CohortMetrics
	daily    []engagement.DailyReflectionPoint
	learners []engagement.LearnerRow
	info     *engagement.LearnerInfo
	counts   *engagement.LearnerCounts
	days     []engagement.EngagementDay
}

func (f *fakeAnalyticsRepo) CohortOverview(ctx context.Context, cohortID int64) (*engagement.CohortOverview, error) {
	return f.overview, nil
}

func (f *fakeAnalyticsRepo) CohortMetrics(ctx context.Context, cohortID int64) (*engagement.CohortMetrics, error) {
	return f.metrics, nil
}

func (f *fakeAnalyticsRepo) DailyReflections(ctx context.Context, cohortID int64) ([]engagement.DailyReflectionPoint, error) {
	return f.daily, nil
}

func (f *fakeAnalyticsRepo) CohortLearners(ctx context.Context, cohortID int64) ([]engagement.LearnerRow, error) {
	return f.learners, nil
}

func (f *fakeAnalyticsRepo) LearnerInfo(ctx context.Context, cohortUserID int64) (*engagement.LearnerInfo, error) {
	return f.info, nil
}

func (f *fakeAnalyticsRepo) LearnerCounts(ctx context.Context, cohortUserID int64) (*engagement.LearnerCounts, error) {
	return f.counts, nil
}

func (f *fakeAnalyticsRepo) EngagementByDay(ctx context.Context, cohortUserID int64, role lesson.RoleLevel) ([]engagement.EngagementDay, error) {
	return f.days, nil
}

func TestCohortSummary_CompletionRateAbsentBeforeFirstSend(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		overview: &engagement.CohortOverview{Cohort: cohort.Cohort{ID: 1, Name: "Pilot", RoleLevel: lesson.RoleAgent}},
		metrics:  &engagement.CohortMetrics{LearnerCount: 8, MessagesSent: 0, ReflectionsCount: 0},
	}
	svc := NewAnalyticsService(repo)

	summary, err := svc.CohortSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, summary.CompletionRate.Valid, "no sends yet renders as absent, not 0%")
}

func TestCohortSummary_CompletionRateRounds(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		overview: &engagement.CohortOverview{Cohort: cohort.Cohort{ID: 1}},
		metrics:  &engagement.CohortMetrics{LearnerCount: 8, MessagesSent: 3, ReflectionsCount: 1},
	}
	svc := NewAnalyticsService(repo)

	summary, err := svc.CohortSummary(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, summary.CompletionRate.Valid)
	assert.Equal(t, int64(33), summary.CompletionRate.Int64)
}

func TestLearnerProgress_ScoresFromCounts(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		info: &engagement.LearnerInfo{CohortUserID: 5, RoleLevel: lesson.RoleAgent},
		counts: &engagement.LearnerCounts{
			LessonsSent:          4,
			ReflectionsSubmitted: 2,
			AvgQuality:           sql.NullFloat64{Float64: 2, Valid: true},
			BehaviorsObserved:    1,
		},
	}
	svc := NewAnalyticsService(repo)

	progress, err := svc.LearnerProgress(context.Background(), 5)
	require.NoError(t, err)

	// completion 50%, quality 67%, behavior 50% -> 0.4*50 + 0.4*67 + 0.2*50 = 57
	assert.Equal(t, 50, progress.Stats.CompletionPercent)
	assert.Equal(t, 50, progress.Stats.BehaviorPercent)
	assert.Equal(t, 57, progress.Stats.ReadinessScore)
}

func TestLearnerProgress_NoSendsReportsZeroCompletion(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		info:   &engagement.LearnerInfo{CohortUserID: 5, RoleLevel: lesson.RoleAgent},
		counts: &engagement.LearnerCounts{},
	}
	svc := NewAnalyticsService(repo)

	progress, err := svc.LearnerProgress(context.Background(), 5)
	require.NoError(t, err)

	// The detail view shows 0, unlike the cohort listing which shows "absent".
	assert.Equal(t, 0, progress.Stats.CompletionPercent)
	assert.Equal(t, 0, progress.Stats.ReadinessScore)
}

func TestCohortLearners_UntouchedLearnerHasNoScore(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		learners: []engagement.LearnerRow{
			{CohortUserID: 1, Name: "Started", MessagesSent: 2, ReflectionsReceived: 1,
				CompletionPercent: 50, AvgQuality: sql.NullFloat64{Float64: 2, Valid: true}},
			{CohortUserID: 2, Name: "Untouched"},
		},
	}
	svc := NewAnalyticsService(repo)

	rows, err := svc.CohortLearners(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].ReadinessScore.Valid)
	assert.False(t, rows[1].ReadinessScore.Valid, "not-yet-started learners have no score, not a zero score")
}

func TestCohortLearners_MatchesDetailViewArithmetic(t *testing.T) {
	// The listing and the detail view must produce the same score for the
	// same underlying numbers.
	row := engagement.LearnerRow{
		CohortUserID:        1,
		MessagesSent:        4,
		ReflectionsReceived: 2,
		CompletionPercent:   50,
		AvgQuality:          sql.NullFloat64{Float64: 2, Valid: true},
		BehaviorsObserved:   1,
	}
	listRepo := &fakeAnalyticsRepo{learners: []engagement.LearnerRow{row}}
	detailRepo := &fakeAnalyticsRepo{
		info: &engagement.LearnerInfo{CohortUserID: 1, RoleLevel: lesson.RoleAgent},
		counts: &engagement.LearnerCounts{
			LessonsSent:          4,
			ReflectionsSubmitted: 2,
			AvgQuality:           sql.NullFloat64{Float64: 2, Valid: true},
			BehaviorsObserved:    1,
		},
	}
	svc := NewAnalyticsService(listRepo)

	rows, err := svc.CohortLearners(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].ReadinessScore.Valid)

	detail, err := NewAnalyticsService(detailRepo).LearnerProgress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(detail.Stats.ReadinessScore), rows[0].ReadinessScore.Int64)
}
