// internal/infra/database/postgres_reflection_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
)

// Custom errors for the reflection write path
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrNoSentMessages = fmt.Errorf("no sent messages for user")
var ErrReflectionNotFound = fmt.Errorf("reflection not found")

type PostgresReflectionRepository struct {
	db *sql.DB
}

func NewPostgresReflectionRepository(db *sql.DB) *PostgresReflectionRepository {
	return &PostgresReflectionRepository{db: db}
}

func (r *PostgresReflectionRepository) FindUserIDByPhone(ctx context.Context, phone string) (int64, error) {
	query := `SELECT id FROM users WHERE phone_number = $1 LIMIT 1`
	var id int64
	err := r.db.QueryRowContext(ctx, query, phone).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("error finding user by phone: %w", err)
	}
	return id, nil
}

// LatestSentMessage picks the reservation with the latest send timestamp
// across all of the learner's enrollments. An inbound reply always attaches
// there, even if an older lesson already has a reflection.
func (r *PostgresReflectionRepository) LatestSentMessage(ctx context.Context, userID int64) (*engagement.SentRef, error) {
	query := `SELECT sm.id AS sent_message_id,
                      sm.cohort_user_id,
                      sm.lesson_id
               FROM sent_messages sm
               JOIN cohort_users cu ON cu.id = sm.cohort_user_id
               WHERE cu.user_id = $1
               ORDER BY sm.sent_at DESC
               LIMIT 1`
	ref := engagement.SentRef{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&ref.SentMessageID, &ref.CohortUserID, &ref.LessonID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoSentMessages
		}
		return nil, fmt.Errorf("error finding latest sent message for user %d: %w", userID, err)
	}
	return &ref, nil
}

// UpsertReflection keeps at most one reflection per (cohort_user_id,
// lesson_id): a repeat reply overwrites text and score and refreshes
// received_at. behavior_observed is deliberately left alone here.
func (r *PostgresReflectionRepository) UpsertReflection(ctx context.Context, cohortUserID, lessonID int64, responseText string, qualityScore int) error {
	query := `INSERT INTO reflections (cohort_user_id, lesson_id, response_text, quality_score)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (cohort_user_id, lesson_id)
               DO UPDATE SET
                 response_text = EXCLUDED.response_text,
                 quality_score = EXCLUDED.quality_score,
                 received_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, cohortUserID, lessonID, responseText, qualityScore); err != nil {
		return fmt.Errorf("error upserting reflection for cohort_user %d, lesson %d: %w", cohortUserID, lessonID, err)
	}
	return nil
}

// SetBehaviorObserved updates the admin flag, joining through cohorts to
// enforce that the reflection belongs to the caller's organization.
func (r *PostgresReflectionRepository) SetBehaviorObserved(ctx context.Context, reflectionID, organizationID int64, observed bool) (*engagement.Reflection, error) {
	query := `UPDATE reflections r
               SET behavior_observed = $2
               FROM cohort_users cu
               JOIN cohorts c ON c.id = cu.cohort_id
               WHERE r.id = $1
                 AND r.cohort_user_id = cu.id
                 AND c.organization_id = $3
               RETURNING r.id, r.cohort_user_id, r.lesson_id, r.response_text, r.quality_score, r.behavior_observed, r.received_at`
	refl := engagement.Reflection{}
	err := r.db.QueryRowContext(ctx, query, reflectionID, observed, organizationID).Scan(
		&refl.ID, &refl.CohortUserID, &refl.LessonID, &refl.ResponseText,
		&refl.QualityScore, &refl.BehaviorObserved, &refl.ReceivedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReflectionNotFound
		}
		return nil, fmt.Errorf("error updating behavior_observed on reflection %d: %w", reflectionID, err)
	}
	return &refl, nil
}
