package reference

import (
	"time"

	"github.com/montanaflynn/stats"
)

// Summary aggregates the drifts of the providers that produced a sunrise and sunset
type Summary struct {
	Providers     int           `json:"providers"`
	Failed        int           `json:"failed"`
	MeanSunrise   time.Duration `json:"mean_sunrise"`
	MeanSunset    time.Duration `json:"mean_sunset"`
	MedianSunrise time.Duration `json:"median_sunrise"`
	MedianSunset  time.Duration `json:"median_sunset"`
	StdDevSunrise time.Duration `json:"stddev_sunrise"`
	StdDevSunset  time.Duration `json:"stddev_sunset"`
	MaxAbs        time.Duration `json:"max_abs"`
}

// Summarize computes drift statistics. Failed and polar drifts are counted
// but do not contribute to the statistics.
func Summarize(drifts []Drift) Summary {
	var (
		summary   Summary
		rise, set stats.Float64Data
	)

	for _, d := range drifts {
		if d.Err != nil {
			summary.Failed++
			continue
		}
		if d.Polar {
			continue
		}
		summary.Providers++
		rise = append(rise, d.Sunrise.Seconds())
		set = append(set, d.Sunset.Seconds())
		if m := d.MaxAbs(); m > summary.MaxAbs {
			summary.MaxAbs = m
		}
	}

	if summary.Providers == 0 {
		return summary
	}

	summary.MeanSunrise = seconds(rise.Mean())
	summary.MeanSunset = seconds(set.Mean())
	summary.MedianSunrise = seconds(rise.Median())
	summary.MedianSunset = seconds(set.Median())
	summary.StdDevSunrise = seconds(rise.StandardDeviation())
	summary.StdDevSunset = seconds(set.StandardDeviation())

	return summary
}

// seconds converts a stats result in seconds to a duration; errors only occur
// on empty input, which Summarize rules out
func seconds(v float64, _ error) time.Duration {
	return time.Duration(v * float64(time.Second))
}
