// internal/domain/engagement/sent_message.go
package engagement

import (
	"database/sql"
	"time"
)

// SentMessage is the reservation record the dispatch job claims before it
// attempts delivery. At most one row exists per (cohort_user_id, lesson_id);
// the unique constraint on that pair is the mutual-exclusion primitive the
// whole dispatch protocol relies on.
//
// A row starts unconfirmed (MessageSID null), gets its sid set when the
// gateway accepts the message, and is deleted outright if delivery fails so
// a later run can try again.
type SentMessage struct {
	ID           int64
	CohortUserID int64
	LessonID     int64
	MessageSID   sql.NullString
	SentAt       time.Time
}
