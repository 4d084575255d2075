package cohort

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayNumberOn(t *testing.T) {
	c := Cohort{StartDate: date(2026, time.March, 1), DurationDays: 30}

	assert.Equal(t, 1, c.DayNumberOn(date(2026, time.March, 1)))
	assert.Equal(t, 15, c.DayNumberOn(date(2026, time.March, 15)))
	assert.Equal(t, 30, c.DayNumberOn(date(2026, time.March, 30)))
	assert.Equal(t, 0, c.DayNumberOn(date(2026, time.February, 28)))
	assert.Equal(t, 31, c.DayNumberOn(date(2026, time.March, 31)))
}

func TestActiveOn_ScheduleBoundaries(t *testing.T) {
	c := Cohort{StartDate: date(2026, time.March, 1), DurationDays: 30}

	assert.False(t, c.ActiveOn(date(2026, time.February, 28)), "day before start")
	assert.True(t, c.ActiveOn(date(2026, time.March, 1)), "first day")
	assert.True(t, c.ActiveOn(date(2026, time.March, 30)), "last day is still covered")
	assert.False(t, c.ActiveOn(date(2026, time.March, 31)), "one day past the schedule")
}
