// internal/infra/database/postgres_lesson_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
)

type PostgresLessonRepository struct {
	db *sql.DB
}

func NewPostgresLessonRepository(db *sql.DB) *PostgresLessonRepository {
	return &PostgresLessonRepository{db: db}
}

func (r *PostgresLessonRepository) GetByRoleAndDay(ctx context.Context, role lesson.RoleLevel, dayNumber int) (*lesson.Lesson, error) {
	query := `SELECT id, role_level, day_number, title, lesson_text, action_text, reflection_question
               FROM lessons
               WHERE role_level = $1 AND day_number = $2`
	l := lesson.Lesson{}
	err := r.db.QueryRowContext(ctx, query, role, dayNumber).Scan(
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

func (r *PostgresLessonRepository) ListByRole(ctx context.Context, role lesson.RoleLevel) ([]*lesson.Lesson, error) {
	query := `SELECT id, role_level, day_number, title, lesson_text, action_text, reflection_question
               FROM lessons
               WHERE role_level = $1
               ORDER BY day_number ASC`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons by role: %w", err)
	}
	defer rows.Close()

	lessons := make([]*lesson.Lesson, 0)
	for rows.Next() {
		l := &lesson.Lesson{}
		if err := rows.Scan(&l.ID, &l.RoleLevel, &l.DayNumber, &l.Title, &l.LessonText, &l.ActionText, &l.ReflectionQuestion); err != nil {
			return nil, fmt.Errorf("error scanning lesson row: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson rows: %w", err)
	}
	return lessons, nil
}

// Upsert overwrites content for an existing (role_level, day_number) pair.
// The xmax = 0 trick distinguishes a fresh insert from an overwrite.
func (r *PostgresLessonRepository) Upsert(ctx context.Context, l *lesson.Lesson) (bool, error) {
	query := `INSERT INTO lessons (role_level, day_number, title, lesson_text, action_text, reflection_question)
               VALUES ($1, $2, $3, $4, $5, $6)
               ON CONFLICT (role_level, day_number)
               DO UPDATE SET
                 title = EXCLUDED.title,
                 lesson_text = EXCLUDED.lesson_text,
                 action_text = EXCLUDED.action_text,
                 reflection_question = EXCLUDED.reflection_question
               RETURNING id, (xmax = 0) AS inserted`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		l.RoleLevel, l.DayNumber, l.Title, l.LessonText, l.ActionText, l.ReflectionQuestion,
	).Scan(&l.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("error upserting lesson %s/%d: %w", l.RoleLevel, l.DayNumber, err)
	}
	return inserted, nil
}

func (r *PostgresLessonRepository) InsertIfAbsent(ctx context.Context, l *lesson.Lesson) (bool, error) {
	query := `INSERT INTO lessons (role_level, day_number, title, lesson_text, action_text, reflection_question)
               VALUES ($1, $2, $3, $4, $5, $6)
               ON CONFLICT (role_level, day_number) DO NOTHING
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		l.RoleLevel, l.DayNumber, l.Title, l.LessonText, l.ActionText, l.ReflectionQuestion,
	).Scan(&l.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error inserting lesson %s/%d: %w", l.RoleLevel, l.DayNumber, err)
	}
	return true, nil
}
