// Package dateutils provides the month-granular date arithmetic used by the budgeting engine.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutMonth = "2006-01"
)

// CommonFormats is the list of layouts accepted when parsing a date or month argument
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutMonth,
	"02.01.2006",
	"01.2006",
}

// ParseDate parses a date or month string using the accepted layouts.
// Month-only inputs resolve to the first day of that month.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseMonth parses a date or month string and normalizes it to the first of its month
func ParseMonth(monthStr string) (time.Time, error) {
	t, err := ParseDate(monthStr)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfMonth(t), nil
}

// StartOfMonth returns the first day of the month for a given date, at midnight UTC
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the first day of the month following date
func NextMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, 0)
}

// DaysInMonth returns the number of days in the given year and month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds n calendar months keeping the day of month. When the target month is
// shorter the day is clamped to its last day (Jan 31 + 1 month = Feb 28/29), unlike
// time.AddDate which overflows into the following month.
func AddMonths(date time.Time, n int) time.Time {
	total := int(date.Month()) - 1 + n
	year := date.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	day := date.Day()
	if last := DaysInMonth(year, time.Month(month+1)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month+1), day,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// AddYears adds n calendar years; Feb 29 becomes Feb 28 in non-leap target years
func AddYears(date time.Time, n int) time.Time {
	return AddMonths(date, 12*n)
}

// MonthsBetween returns the number of whole calendar months from `from` to `to`,
// ignoring the day of month. It is negative when `to` lies in an earlier month.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// SameMonth reports whether both dates fall in the same year and month
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// FormatMonth formats a date as yyyy-MM
func FormatMonth(date time.Time) string {
	return date.Format(DateLayoutMonth)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
