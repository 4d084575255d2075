// internal/domain/engagement/enrollment.go
package engagement

import "github.com/aqsa08/training-mvp-backend/internal/domain/lesson"

// DueEnrollment is one cohort_users row whose learner is due a lesson today.
// DayNumber is computed in the same query that selects the row, against the
// database CURRENT_DATE, so every row in one run observes the same "today".
type DueEnrollment struct {
	CohortUserID int64
	PhoneNumber  string
	RoleLevel    lesson.RoleLevel
	DurationDays int
	DayNumber    int
}
