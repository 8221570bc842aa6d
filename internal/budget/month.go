package budget

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// ParseMonth validates a YYYY-MM month key and returns the first day of that month.
func ParseMonth(month string) (time.Time, error) {
	if len(month) != len(monthLayout) {
		return time.Time{}, fmt.Errorf("month %q must use the YYYY-MM format", month)
	}
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("month %q must use the YYYY-MM format", month)
	}
	return t, nil
}

// ValidMonth reports whether month is a well-formed YYYY-MM key.
func ValidMonth(month string) bool {
	_, err := ParseMonth(month)
	return err == nil
}

// MonthOf returns the YYYY-MM key of t in t's location.
func MonthOf(t time.Time) string {
	return t.Format(monthLayout)
}

// AddMonths shifts a month key by n calendar months.
func AddMonths(month string, n int) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return MonthOf(t.AddDate(0, n, 0)), nil
}

// CreationWindow returns the first and last month (inclusive) for which an
// overall budget may be created at time now.
func CreationWindow(now time.Time, months int) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return MonthOf(first), MonthOf(first.AddDate(0, months, 0))
}
