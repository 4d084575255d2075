package cohort

import (
	"database/sql"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
)

// Cohort is a named group of learners on a fixed daily schedule.
type Cohort struct {
	ID             int64
	OrganizationID sql.NullInt64
	Name           string
	RoleLevel      lesson.RoleLevel
	StartDate      time.Time
	DurationDays   int
	CreatedAt      time.Time
}

// ActiveOn reports whether the cohort schedule covers the given date,
// i.e. start_date <= date <= start_date + duration_days - 1.
func (c *Cohort) ActiveOn(date time.Time) bool {
	day := c.DayNumberOn(date)
	return day >= 1 && day <= c.DurationDays
}

// DayNumberOn returns the 1-based day number of the given date within the
// cohort schedule. Values outside [1, DurationDays] mean the cohort is not
// active on that date.
func (c *Cohort) DayNumberOn(date time.Time) int {
	start := time.Date(c.StartDate.Year(), c.StartDate.Month(), c.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(start).Hours()/24) + 1
}
