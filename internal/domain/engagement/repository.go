// internal/domain/engagement/repository.go
package engagement

import (
	"context"
	"database/sql"

	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
)

// DispatchStore hands out sessions for dispatch runs. A session pins one
// store connection for the whole run and must be closed on every exit path.
type DispatchStore interface {
	Acquire(ctx context.Context) (DispatchSession, error)
}

// DispatchSession is the query surface one dispatch run needs. Reserve must
// be an atomic insert-if-absent enforced by the store itself: two concurrent
// runs claiming the same (cohortUserID, lessonID) see exactly one
// created=true result between them.
type DispatchSession interface {
	ListDueEnrollments(ctx context.Context) ([]DueEnrollment, error)
	FindLesson(ctx context.Context, role lesson.RoleLevel, dayNumber int) (*lesson.Lesson, error)
	Reserve(ctx context.Context, cohortUserID, lessonID int64) (reservationID int64, created bool, err error)
	Confirm(ctx context.Context, reservationID int64, messageSID sql.NullString) error
	Release(ctx context.Context, reservationID int64) error
	Close() error
}

// SentRef locates the reservation an inbound reflection attaches to.
type SentRef struct {
	SentMessageID int64
	CohortUserID  int64
	LessonID      int64
}

// ReflectionRepository covers the inbound-reply write path and the admin
// behavior flag.
type ReflectionRepository interface {
	// FindUserIDByPhone resolves a learner by phone number.
	FindUserIDByPhone(ctx context.Context, phone string) (int64, error)
	// LatestSentMessage returns the learner's reservation with the most
	// recent send timestamp, across all of their enrollments.
	LatestSentMessage(ctx context.Context, userID int64) (*SentRef, error)
	// UpsertReflection creates the reflection for (cohortUserID, lessonID)
	// or overwrites text/score and refreshes received_at on the existing row.
	UpsertReflection(ctx context.Context, cohortUserID, lessonID int64, responseText string, qualityScore int) error
	// SetBehaviorObserved flips the admin-observed flag on a reflection,
	// enforcing that the reflection belongs to the given organization.
	SetBehaviorObserved(ctx context.Context, reflectionID, organizationID int64, observed bool) (*Reflection, error)
}
