// internal/infra/database/postgres_dispatch_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
)

// Custom errors specific to the dispatch store
var ErrLessonNotFound = fmt.Errorf("lesson not found")
var ErrReservationNotFound = fmt.Errorf("sent message reservation not found")

// PostgresDispatchStore hands out single-connection sessions for dispatch
// runs against the engagement schema.
type PostgresDispatchStore struct {
	db *sql.DB
}

func NewPostgresDispatchStore(db *sql.DB) *PostgresDispatchStore {
	return &PostgresDispatchStore{db: db}
}

// Acquire pins one connection from the pool for the duration of a dispatch
// run. The caller must Close the session on every exit path.
func (s *PostgresDispatchStore) Acquire(ctx context.Context) (engagement.DispatchSession, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire dispatch connection: %w", err)
	}
	return &postgresDispatchSession{conn: conn}, nil
}

type postgresDispatchSession struct {
	conn *sql.Conn
}

// ListDueEnrollments selects every enrollment whose learner is active and
// whose cohort schedule covers today. day_number is computed in SQL against
// CURRENT_DATE so every row of one run observes the same "today", regardless
// of process-local clock skew.
func (s *postgresDispatchSession) ListDueEnrollments(ctx context.Context) ([]engagement.DueEnrollment, error) {
	query := `SELECT
                 cu.id AS cohort_user_id,
                 u.phone_number,
                 c.role_level,
                 c.duration_days,
                 (CURRENT_DATE - c.start_date + 1)::int AS day_number
               FROM cohort_users cu
               JOIN users u ON u.id = cu.user_id
               JOIN cohorts c ON c.id = cu.cohort_id
               WHERE u.status = 'active'
                 AND CURRENT_DATE >= c.start_date
                 AND CURRENT_DATE <= (c.start_date + (c.duration_days - 1))`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying due enrollments: %w", err)
	}
	defer rows.Close()

	due := make([]engagement.DueEnrollment, 0)
	for rows.Next() {
		var e engagement.DueEnrollment
		if err := rows.Scan(&e.CohortUserID, &e.PhoneNumber, &e.RoleLevel, &e.DurationDays, &e.DayNumber); err != nil {
			return nil, fmt.Errorf("error scanning due enrollment row: %w", err)
		}
		due = append(due, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due enrollment rows: %w", err)
	}
	return due, nil
}

func (s *postgresDispatchSession) FindLesson(ctx context.Context, role lesson.RoleLevel, dayNumber int) (*lesson.Lesson, error) {
	query := `SELECT id, role_level, day_number, title, lesson_text, action_text, reflection_question
               FROM lessons
               WHERE role_level = $1 AND day_number = $2`
	l := lesson.Lesson{}
	err := s.conn.QueryRowContext(ctx, query, role, dayNumber).Scan(
		&l.ID, &l.RoleLevel, &l.DayNumber, &l.Title, &l.LessonText, &l.ActionText, &l.ReflectionQuestion,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("error getting lesson by role and day: %w", err)
	}
	return &l, nil
}

// Reserve claims the (cohort_user_id, lesson_id) pair by inserting the
// reservation row. ON CONFLICT DO NOTHING makes the insert a no-op when the
// unique constraint already holds a row for the pair, in which case RETURNING
// yields no row and created is false. The constraint is enforced atomically
// by Postgres itself, which is what makes this safe under concurrent runs.
func (s *postgresDispatchSession) Reserve(ctx context.Context, cohortUserID, lessonID int64) (int64, bool, error) {
	query := `INSERT INTO sent_messages (cohort_user_id, lesson_id)
               VALUES ($1, $2)
               ON CONFLICT (cohort_user_id, lesson_id) DO NOTHING
               RETURNING id`
	var id int64
	err := s.conn.QueryRowContext(ctx, query, cohortUserID, lessonID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			// Already sent: the pair lost the claim, not an error.
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("error reserving sent message for cohort_user %d, lesson %d: %w", cohortUserID, lessonID, err)
	}
	return id, true, nil
}

func (s *postgresDispatchSession) Confirm(ctx context.Context, reservationID int64, messageSID sql.NullString) error {
	query := `UPDATE sent_messages SET message_sid = $1 WHERE id = $2`
	res, err := s.conn.ExecContext(ctx, query, messageSID, reservationID)
	if err != nil {
		return fmt.Errorf("error confirming sent message %d: %w", reservationID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (s *postgresDispatchSession) Release(ctx context.Context, reservationID int64) error {
	query := `DELETE FROM sent_messages WHERE id = $1`
	if _, err := s.conn.ExecContext(ctx, query, reservationID); err != nil {
		return fmt.Errorf("error releasing sent message reservation %d: %w", reservationID, err)
	}
	return nil
}

func (s *postgresDispatchSession) Close() error {
	return s.conn.Close()
}
