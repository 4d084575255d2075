// internal/domain/engagement/analytics.go
package engagement

import (
	"context"
	"database/sql"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/domain/cohort"
	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
)

// CohortOverview is a cohort plus its day number as of today, null when the
// schedule has not started or has already ended.
type CohortOverview struct {
	cohort.Cohort
	TodayDayNumber sql.NullInt64
}

// CohortMetrics are whole-cohort engagement aggregates.
type CohortMetrics struct {
	LearnerCount     int
	MessagesSent     int
	ReflectionsCount int
	AvgQuality       sql.NullFloat64
}

// DailyReflectionPoint is one bar of the cohort reflections-per-day chart.
type DailyReflectionPoint struct {
	DayNumber        int
	Date             time.Time
	ReflectionsCount int
}

// LearnerInfo identifies one enrollment together with its learner and cohort.
type LearnerInfo struct {
	CohortUserID int64
	CohortID     int64
	UserID       int64
	Name         string
	PhoneNumber  string
	CohortName   string
	RoleLevel    lesson.RoleLevel
	StartDate    time.Time
	DurationDays int
}

// LearnerCounts are the per-enrollment aggregates the readiness score is
// derived from.
type LearnerCounts struct {
	LessonsSent          int
	ReflectionsSubmitted int
	AvgQuality           sql.NullFloat64
	BehaviorsObserved    int
}

// EngagementDay is one row of the day-by-day trend on the learner detail
// view. ReflectionSnippet is capped at 160 characters in the query.
type EngagementDay struct {
	DayNumber           int
	Title               string
	Sent                bool
	SentAt              sql.NullTime
	ReflectionSubmitted bool
	ReflectionAt        sql.NullTime
	QualityScore        sql.NullInt64
	BehaviorObserved    bool
	ReflectionSnippet   sql.NullString
}

// LearnerRow is one learner line of the cohort listing, aggregated in SQL.
// CompletionPercent is 0 when nothing was sent yet; the service layer decides
// whether that renders as 0 or as "not yet started".
type LearnerRow struct {
	CohortUserID        int64
	UserID              int64
	Name                string
	RoleLevel           lesson.RoleLevel
	MessagesSent        int
	ReflectionsReceived int
	CompletionPercent   int
	AvgQuality          sql.NullFloat64
	BehaviorsObserved   int
	LastReflectionAt    sql.NullTime
}

// AnalyticsRepository is the read surface behind the dashboard endpoints.
type AnalyticsRepository interface {
	CohortOverview(ctx context.Context, cohortID int64) (*CohortOverview, error)
	CohortMetrics(ctx context.Context, cohortID int64) (*CohortMetrics, error)
	DailyReflections(ctx context.Context, cohortID int64) ([]DailyReflectionPoint, error)
	CohortLearners(ctx context.Context, cohortID int64) ([]LearnerRow, error)
	LearnerInfo(ctx context.Context, cohortUserID int64) (*LearnerInfo, error)
	LearnerCounts(ctx context.Context, cohortUserID int64) (*LearnerCounts, error)
	EngagementByDay(ctx context.Context, cohortUserID int64, role lesson.RoleLevel) ([]EngagementDay, error)
}
