package utils

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/es"
)

// TimeSlot buckets an hour of day into one of six four-hour windows anchored
// at 23:00: 23-02 -> 0, 03-06 -> 1, ... 19-22 -> 5.
func TimeSlot(hour int) int {
	return ((hour-23)%24 + 24) % 24 / 4
}

// DayOfWeek returns the weekday with Monday as 0
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsWeekend reports whether a Monday-based weekday is Saturday or Sunday
func IsWeekend(dow int) bool {
	return dow >= 5
}

// CivilDate drops the clock and zone of t, keeping its calendar day
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b (negative when b is earlier)
func DaysBetween(a, b time.Time) int {
	return int(CivilDate(b).Sub(CivilDate(a)).Hours() / 24)
}

// HolidayCalendar answers whether a day is a public holiday
type HolidayCalendar struct {
	cal *cal.BusinessCalendar
}

// NewSpanishHolidayCalendar builds a calendar with the Spanish national holidays
func NewSpanishHolidayCalendar() *HolidayCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(es.Holidays...)
	return &HolidayCalendar{cal: c}
}

// IsHoliday reports whether the calendar day of t is a holiday
func (h *HolidayCalendar) IsHoliday(t time.Time) bool {
	actual, _, _ := h.cal.IsHoliday(CivilDate(t))
	return actual
}
