// internal/infra/database/postgres_analytics_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqsa08/training-mvp-backend/internal/domain/cohort"
	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
)

var ErrCohortNotFound = fmt.Errorf("cohort not found")
var ErrLearnerNotFound = fmt.Errorf("learner not found")

type PostgresAnalyticsRepository struct {
	db *sql.DB
}

func NewPostgresAnalyticsRepository(db *sql.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func (r *PostgresAnalyticsRepository) CohortOverview(ctx context.Context, cohortID int64) (*engagement.CohortOverview, error) {
	query := `SELECT
                 id,
                 name,
                 role_level,
                 start_date,
                 duration_days,
                 CASE
                   WHEN CURRENT_DATE < start_date
                     OR CURRENT_DATE > (start_date + (duration_days - 1))
                   THEN NULL
                   ELSE (CURRENT_DATE - start_date + 1)::int
                 END AS today_day_number
               FROM cohorts
               WHERE id = $1`
	ov := engagement.CohortOverview{}
	err := r.db.QueryRowContext(ctx, query, cohortID).Scan(
		&ov.ID, &ov.Name, &ov.RoleLevel, &ov.StartDate, &ov.DurationDays, &ov.TodayDayNumber,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCohortNotFound
		}
		return nil, fmt.Errorf("error getting cohort overview: %w", err)
	}
	return &ov, nil
}

func (r *PostgresAnalyticsRepository) CohortMetrics(ctx context.Context, cohortID int64) (*engagement.CohortMetrics, error) {
	query := `SELECT
                 (SELECT COUNT(*)::int
                  FROM cohort_users cu
                  WHERE cu.cohort_id = $1) AS learner_count,

                 (SELECT COUNT(*)::int
                  FROM sent_messages sm
                  JOIN cohort_users cu ON cu.id = sm.cohort_user_id
                  WHERE cu.cohort_id = $1) AS messages_sent,

                 (SELECT COUNT(*)::int
                  FROM reflections r
                  JOIN cohort_users cu ON cu.id = r.cohort_user_id
                  WHERE cu.cohort_id = $1) AS reflections_count,

                 (SELECT AVG(r.quality_score)::float
                  FROM reflections r
                  JOIN cohort_users cu ON cu.id = r.cohort_user_id
                  WHERE cu.cohort_id = $1
                    AND r.quality_score IS NOT NULL) AS avg_quality`
	m := engagement.CohortMetrics{}
	err := r.db.QueryRowContext(ctx, query, cohortID).Scan(
		&m.LearnerCount, &m.MessagesSent, &m.ReflectionsCount, &m.AvgQuality,
	)
	if err != nil {
		return nil, fmt.Errorf("error getting cohort metrics: %w", err)
	}
	return &m, nil
}

func (r *PostgresAnalyticsRepository) DailyReflections(ctx context.Context, cohortID int64) ([]engagement.DailyReflectionPoint, error) {
	query := `SELECT
                 l.day_number,
                 (r.received_at::date) AS day,
                 COUNT(*)::int AS reflections_count
               FROM reflections r
               JOIN cohort_users cu ON cu.id = r.cohort_user_id
               JOIN lessons l       ON l.id = r.lesson_id
               WHERE cu.cohort_id = $1
               GROUP BY l.day_number, day
               ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, query, cohortID)
	if err != nil {
		return nil, fmt.Errorf("error querying daily reflections: %w", err)
	}
	defer rows.Close()

	points := make([]engagement.DailyReflectionPoint, 0)
	for rows.Next() {
		var p engagement.DailyReflectionPoint
		if err := rows.Scan(&p.DayNumber, &p.Date, &p.ReflectionsCount); err != nil {
			return nil, fmt.Errorf("error scanning daily reflection row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily reflection rows: %w", err)
	}
	return points, nil
}

func (r *PostgresAnalyticsRepository) CohortLearners(ctx context.Context, cohortID int64) ([]engagement.LearnerRow, error) {
	query := `SELECT
                 cu.id AS cohort_user_id,
                 u.id AS user_id,
                 u.name,
                 u.role_level,
                 COUNT(DISTINCT sm.id) AS messages_sent,
                 COUNT(DISTINCT rf.id) AS reflections_received,
                 CASE
                   WHEN COUNT(DISTINCT sm.id) = 0 THEN 0
                   ELSE ROUND(100.0 * COUNT(DISTINCT rf.id) / COUNT(DISTINCT sm.id))::int
                 END AS completion_percent,
                 AVG(rf.quality_score)::float AS avg_quality_score,
                 COALESCE(SUM(CASE WHEN rf.behavior_observed THEN 1 ELSE 0 END), 0)::int AS behaviors_observed,
                 MAX(rf.received_at) AS last_reflection_at
               FROM cohort_users cu
               JOIN users u ON u.id = cu.user_id
               LEFT JOIN sent_messages sm ON sm.cohort_user_id = cu.id
               LEFT JOIN reflections rf ON rf.cohort_user_id = cu.id
               WHERE cu.cohort_id = $1
               GROUP BY cu.id, u.id, u.name, u.role_level
               ORDER BY u.name`
	rows, err := r.db.QueryContext(ctx, query, cohortID)
	if err != nil {
		return nil, fmt.Errorf("error querying cohort learners: %w", err)
	}
	defer rows.Close()

	learners := make([]engagement.LearnerRow, 0)
	for rows.Next() {
		var lr engagement.LearnerRow
		if err := rows.Scan(
			&lr.CohortUserID, &lr.UserID, &lr.Name, &lr.RoleLevel,
			&lr.MessagesSent, &lr.ReflectionsReceived, &lr.CompletionPercent,
			&lr.AvgQuality, &lr.BehaviorsObserved, &lr.LastReflectionAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning learner row: %w", err)
		}
		learners = append(learners, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learner rows: %w", err)
	}
	return learners, nil
}

func (r *PostgresAnalyticsRepository) LearnerInfo(ctx context.Context, cohortUserID int64) (*engagement.LearnerInfo, error) {
	query := `SELECT
                 cu.id           AS cohort_user_id,
                 cu.cohort_id    AS cohort_id,
                 u.id            AS user_id,
                 u.name          AS learner_name,
                 u.phone_number,
                 c.name          AS cohort_name,
                 c.role_level,
                 c.start_date,
                 c.duration_days
               FROM cohort_users cu
               JOIN users   u ON u.id = cu.user_id
               JOIN cohorts c ON c.id = cu.cohort_id
               WHERE cu.id = $1`
	info := engagement.LearnerInfo{}
	err := r.db.QueryRowContext(ctx, query, cohortUserID).Scan(
		&info.CohortUserID, &info.CohortID, &info.UserID, &info.Name, &info.PhoneNumber,
		&info.CohortName, &info.RoleLevel, &info.StartDate, &info.DurationDays,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLearnerNotFound
		}
		return nil, fmt.Errorf("error getting learner info: %w", err)
	}
	return &info, nil
}

func (r *PostgresAnalyticsRepository) LearnerCounts(ctx context.Context, cohortUserID int64) (*engagement.LearnerCounts, error) {
	query := `SELECT
                 (SELECT COUNT(*)::int
                  FROM sent_messages sm
                  WHERE sm.cohort_user_id = $1) AS lessons_sent,

                 (SELECT COUNT(*)::int
                  FROM reflections r
                  WHERE r.cohort_user_id = $1) AS reflections_submitted,

                 (SELECT AVG(r.quality_score)::float
                  FROM reflections r
                  WHERE r.cohort_user_id = $1
                    AND r.quality_score IS NOT NULL) AS avg_quality,

                 (SELECT COUNT(*)::int
                  FROM reflections r
                  WHERE r.cohort_user_id = $1
                    AND r.behavior_observed = TRUE) AS behaviors_observed`
	c := engagement.LearnerCounts{}
	err := r.db.QueryRowContext(ctx, query, cohortUserID).Scan(
		&c.LessonsSent, &c.ReflectionsSubmitted, &c.AvgQuality, &c.BehaviorsObserved,
	)
	if err != nil {
		return nil, fmt.Errorf("error getting learner counts: %w", err)
	}
	return &c, nil
}

// EngagementByDay walks every lesson of the learner's role track and left
// joins the send and reflection state. The response preview is capped at 160
// characters in SQL, one SMS segment.
func (r *PostgresAnalyticsRepository) EngagementByDay(ctx context.Context, cohortUserID int64, role lesson.RoleLevel) ([]engagement.EngagementDay, error) {
	query := `SELECT
                 l.day_number,
                 l.title,
                 sm.id IS NOT NULL AS sent,
                 sm.sent_at,
                 rf.id IS NOT NULL AS reflected,
                 rf.received_at AS reflection_at,
                 rf.quality_score,
                 COALESCE(rf.behavior_observed, FALSE) AS behavior_observed,
                 CASE
                   WHEN rf.response_text IS NULL THEN NULL
                   ELSE SUBSTRING(rf.response_text FROM 1 FOR 160)
                 END AS reflection_snippet
               FROM lessons l
               LEFT JOIN sent_messages sm
                 ON sm.lesson_id = l.id
                AND sm.cohort_user_id = $1
               LEFT JOIN reflections rf
                 ON rf.lesson_id = l.id
                AND rf.cohort_user_id = $1
               WHERE l.role_level = $2
               ORDER BY l.day_number ASC`
	rows, err := r.db.QueryContext(ctx, query, cohortUserID, role)
	if err != nil {
		return nil, fmt.Errorf("error querying engagement by day: %w", err)
	}
	defer rows.Close()

	days := make([]engagement.EngagementDay, 0)
	for rows.Next() {
		var d engagement.EngagementDay
		if err := rows.Scan(
			&d.DayNumber, &d.Title, &d.Sent, &d.SentAt,
			&d.ReflectionSubmitted, &d.ReflectionAt, &d.QualityScore,
			&d.BehaviorObserved, &d.ReflectionSnippet,
		); err != nil {
			return nil, fmt.Errorf("error scanning engagement day row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating engagement day rows: %w", err)
	}
	return days, nil
}

// PostgresCohortRepository implements cohort.Repository.
type PostgresCohortRepository struct {
	db *sql.DB
}

func NewPostgresCohortRepository(db *sql.DB) *PostgresCohortRepository {
	return &PostgresCohortRepository{db: db}
}

func (r *PostgresCohortRepository) List(ctx context.Context) ([]*cohort.Cohort, error) {
	query := `SELECT id, name, role_level, start_date, duration_days
               FROM cohorts
               ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing cohorts: %w", err)
	}
	defer rows.Close()

	cohorts := make([]*cohort.Cohort, 0)
	for rows.Next() {
		c := &cohort.Cohort{}
		if err := rows.Scan(&c.ID, &c.Name, &c.RoleLevel, &c.StartDate, &c.DurationDays); err != nil {
			return nil, fmt.Errorf("error scanning cohort row: %w", err)
		}
		cohorts = append(cohorts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cohort rows: %w", err)
	}
	return cohorts, nil
}

func (r *PostgresCohortRepository) GetByID(ctx context.Context, id int64) (*cohort.Cohort, error) {
	query := `SELECT id, name, role_level, start_date, duration_days
               FROM cohorts WHERE id = $1`
	c := cohort.Cohort{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.RoleLevel, &c.StartDate, &c.DurationDays)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCohortNotFound
		}
		return nil, fmt.Errorf("error getting cohort by ID: %w", err)
	}
	return &c, nil
}
