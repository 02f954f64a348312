// Package julian converts between Unix timestamps and Julian dates.
package julian

import (
	"math"
	"time"
)

const (
	SecondsPerDay = 86400.0   // seconds in a day, leap seconds ignored
	UnixEpoch     = 2440587.5 // Julian date of 1970-01-01T00:00:00Z
	J2000         = 2451545.0 // Julian date of 2000-01-01T12:00:00 TT
)

// FromTimestamp converts Unix seconds (UTC, may be fractional) to a Julian date
func FromTimestamp(ts float64) float64 {
	return ts/SecondsPerDay + UnixEpoch
}

// ToTimestamp converts a Julian date to Unix seconds (UTC)
func ToTimestamp(j float64) float64 {
	return (j - UnixEpoch) * SecondsPerDay
}

// FromTime converts t to a Julian date
func FromTime(t time.Time) float64 {
	return FromTimestamp(Timestamp(t))
}

// ToTime converts a Julian date to a UTC time rounded to the nearest nanosecond
func ToTime(j float64) time.Time {
	return FromSeconds(ToTimestamp(j))
}

// Timestamp returns t as fractional Unix seconds
func Timestamp(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// FromSeconds converts fractional Unix seconds to a UTC time
func FromSeconds(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	nsec := math.Round(frac * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}
