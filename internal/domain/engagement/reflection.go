// internal/domain/engagement/reflection.go
package engagement

import (
	"database/sql"
	"time"
)

// Reflection is a learner's free-text reply to one lesson. At most one row
// exists per (cohort_user_id, lesson_id): a second reply for the same lesson
// overwrites the text and score and refreshes ReceivedAt.
//
// QualityScore is the classifier's 1..3 rating, null when unscored.
// BehaviorObserved is set only by admin action; inbound writes never touch it.
type Reflection struct {
	ID               int64
	CohortUserID     int64
	LessonID         int64
	ResponseText     string
	QualityScore     sql.NullInt64
	BehaviorObserved bool
	ReceivedAt       time.Time
}
