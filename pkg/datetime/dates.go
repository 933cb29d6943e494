// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/previsio/previsio/pkg/constants"
)

const (
	// MonthLayout is the format expected in plan files and is also the output
	// date format.
	MonthLayout = constants.MonthLayout

	// DateLayout is the format for full dates such as acquisition dates.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseMonth parses a "2006-01" month string.
func ParseMonth(month string) (time.Time, error) {
	return time.Parse(MonthLayout, month)
}

// OffsetMonth returns the string-formatted month offset by the given number
// of months relative to the given month.
func OffsetMonth(month string, months int) (string, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return month, err
	}
	return t.AddDate(0, months, 0).Format(MonthLayout), nil
}

// MonthBeforeMonth returns true if first is strictly before second.
func MonthBeforeMonth(first, second string) (bool, error) {
	firstT, err := time.Parse(MonthLayout, first)
	if err != nil {
		return false, err
	}
	secondT, err := time.Parse(MonthLayout, second)
	if err != nil {
		return false, err
	}
	return firstT.Before(secondT), nil
}

// MonthsBetween returns the number of whole months from first to second.
// The result is negative when second precedes first.
func MonthsBetween(first, second string) (int, error) {
	firstT, err := time.Parse(MonthLayout, first)
	if err != nil {
		return 0, err
	}
	secondT, err := time.Parse(MonthLayout, second)
	if err != nil {
		return 0, err
	}
	years := secondT.Year() - firstT.Year()
	months := int(secondT.Month()) - int(firstT.Month())
	return years*constants.MonthsPerYear + months, nil
}

// FiscalYearEnd returns December 31st of the given date's calendar year.
// Fiscal years are assumed to coincide with calendar years.
func FiscalYearEnd(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, t.Location())
}

// DaysUntilYearEnd returns the number of days from the given date to the end
// of its fiscal year, counting the starting day itself.
func DaysUntilYearEnd(t time.Time) float64 {
	end := FiscalYearEnd(t)
	return end.Sub(t).Hours()/24 + 1
}

// MonthsRemainingInYear returns the number of whole months from the given
// date's month to the end of its fiscal year, counting the starting month.
func MonthsRemainingInYear(t time.Time) int {
	return constants.MonthsPerYear - int(t.Month()) + 1
}
