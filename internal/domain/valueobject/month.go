// Package valueobject defines immutable domain values shared across layers.
package valueobject

import (
	"fmt"
	"time"
)

// monthLayout is the wire and storage form of a calendar month.
const monthLayout = "2006-01"

// Month is a calendar month in "YYYY-MM" form. It keys the monthly aggregate
// table and filters event listings.
type Month string

// ParseMonth validates and normalizes a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return Month(t.Format(monthLayout)), nil
}

// MonthOf returns the calendar month containing the given time, in UTC.
func MonthOf(t time.Time) Month {
	return Month(t.UTC().Format(monthLayout))
}

// Range returns the half-open interval [start, end) covering the month.
func (m Month) Range() (time.Time, time.Time) {
	start, _ := time.Parse(monthLayout, string(m))
	return start, start.AddDate(0, 1, 0)
}

// String returns the "YYYY-MM" form.
func (m Month) String() string {
	return string(m)
}
