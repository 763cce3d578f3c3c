package core

import "time"

// Period is the inclusive calendar-month window every aggregation is
// scoped to.
type Period struct {
	Start Date
	End   Date
}

// ResolvePeriod computes the window for a 1-based month of a year: Start is
// the first day of the month and End the last (28-31, leap years included).
// Returns ErrInvalidPeriod for months outside 1-12 or years before 1900.
func ResolvePeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 || year < 1900 {
		return Period{}, ErrInvalidPeriod
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Period{Start: Date{Time: start}, End: Date{Time: end}}, nil
}

// Year returns the period's year.
func (p Period) Year() int { return p.Start.Time.Year() }

// Month returns the period's 1-based month.
func (p Period) Month() int { return int(p.Start.Time.Month()) }

// Contains reports whether the date falls inside the window.
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start.Time) && !d.After(p.End.Time)
}
