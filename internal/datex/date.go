// Package datex provides calendar helpers for day- and month-bucketed usage
// data. All functions operate in UTC: usage dates are stored as plain
// calendar dates, so any time-of-day or zone component is discarded.
package datex

import "time"

// DayStart truncates t to midnight UTC of a calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns midnight UTC of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns midnight UTC of the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in t's month (28–31),
// leap years included.
func DaysInMonth(t time.Time) int {
	return MonthEnd(t).Day()
}

// WeekStart returns midnight UTC of the Monday of t's week.
// Sunday belongs to the preceding week.
func WeekStart(t time.Time) time.Time {
	d := DayStart(t)
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return d.AddDate(0, 0, -offset)
}
