// Package utils provides utility functions for the sunrise application.
package utils //nolint:revive // utils is a common and acceptable package name

import "time"

// GetDateString formats the calendar date of t in its own location as YYYY-MM-DD.
func GetDateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// GetOffsetString formats the UTC offset of t as +HH:MM.
func GetOffsetString(t time.Time) string {
	return t.Format("-07:00")
}

// NoonUTC returns 12:00 UTC on the calendar day of t in t's location.
func NoonUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}
