package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devskill-org/sunrise/display"
	"github.com/devskill-org/sunrise/julian"
	"github.com/devskill-org/sunrise/reference"
	"github.com/devskill-org/sunrise/sun"
	"github.com/devskill-org/sunrise/utils"
)

// driftWarning is the provider drift above which a reference check logs a warning
const driftWarning = 5 * time.Minute

// SunEvent is the outcome of the calculation for one day
type SunEvent struct {
	Day            string       `json:"day"`
	Observer       sun.Observer `json:"observer"`
	Sunrise        *time.Time   `json:"sunrise,omitempty"`
	Sunset         *time.Time   `json:"sunset,omitempty"`
	Transit        *time.Time   `json:"transit,omitempty"`
	DayLengthHours float64      `json:"day_length_hours"`
	Polar          bool         `json:"polar"`
	AlwaysUp       bool         `json:"always_up,omitempty"`
	ComputedAt     time.Time    `json:"computed_at"`
}

// NewSunEvent builds the event for day from a calculation result
func NewSunEvent(day time.Time, obs sun.Observer, result sun.Result, computedAt time.Time) SunEvent {
	event := SunEvent{
		Day:        utils.GetDateString(day),
		Observer:   obs,
		ComputedAt: computedAt,
	}

	switch r := result.(type) {
	case sun.RiseSet:
		rise, set, transit := r.SunriseTime(), r.SunsetTime(), r.TransitTime()
		event.Sunrise = &rise
		event.Sunset = &set
		event.Transit = &transit
		event.DayLengthHours = r.DayLengthHours()
	case sun.Polar:
		event.Polar = true
		event.AlwaysUp = r.AlwaysAboveHorizon
		if r.AlwaysAboveHorizon {
			event.DayLengthHours = 24
		}
	}

	return event
}

// Format renders the event with times in loc
func (e SunEvent) Format(loc *time.Location) string {
	if e.Polar {
		return fmt.Sprintf("%s: %s", e.Day, sun.Polar{AlwaysAboveHorizon: e.AlwaysUp})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: sunrise %s", e.Day, display.Timestamp(julian.Timestamp(*e.Sunrise), loc))
	fmt.Fprintf(&sb, ", sunset %s", display.Timestamp(julian.Timestamp(*e.Sunset), loc))
	fmt.Fprintf(&sb, ", day length %s", display.Hours(e.DayLengthHours))
	return sb.String()
}

// RunCalculation computes today's events in the configured timezone
func (s *SunScheduler) RunCalculation(ctx context.Context) (SunEvent, error) {
	config := s.GetConfig()
	obs := config.Observer()

	now := s.now()
	today := now.In(s.location)

	result, err := s.calculator.Calculate(julian.Timestamp(utils.NoonUTC(today)), obs)
	if err != nil {
		return SunEvent{}, fmt.Errorf("failed to calculate sun events: %w", err)
	}

	event := NewSunEvent(today, obs, result, now.UTC())

	s.mu.Lock()
	s.latestEvent = &event
	s.lastCalculation = event.ComputedAt
	s.calculations++
	s.mu.Unlock()

	s.logger.Printf("%s", event.Format(s.location))

	if !config.DryRun && s.database() != nil {
		if err := s.saveSunEvent(ctx, event); err != nil {
			s.logger.Printf("Failed to save sun event: %v", err)
		}
	}

	s.webServer.publish(map[string]any{
		"type":  "sun_event",
		"event": event,
	})

	return event, nil
}

// RunReferenceCheck compares today's events with the reference providers
func (s *SunScheduler) RunReferenceCheck(ctx context.Context) ([]reference.Drift, error) {
	config := s.GetConfig()

	s.mu.RLock()
	providers := s.providers
	s.mu.RUnlock()

	if len(providers) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.APITimeout)
	defer cancel()

	now := s.now()
	today := now.In(s.location)

	drifts, err := reference.Compare(ctx, today, config.Observer(), providers...)
	if err != nil {
		return nil, fmt.Errorf("failed to compare with references: %w", err)
	}

	for _, d := range drifts {
		switch {
		case d.Err != nil:
			s.logger.Printf("Reference %s: %v", d.Provider, d.Err)
		case d.Polar:
			s.logger.Printf("Reference %s: agrees on polar condition", d.Provider)
		case d.MaxAbs() > driftWarning:
			s.logger.Printf("WARNING: reference %s drifts by sunrise %v, sunset %v", d.Provider, d.Sunrise, d.Sunset)
		default:
			s.logger.Printf("Reference %s: sunrise %v, sunset %v", d.Provider, d.Sunrise, d.Sunset)
		}
	}

	summary := reference.Summarize(drifts)
	if summary.Providers > 1 {
		s.logger.Printf("Reference spread: sunrise stddev %v, sunset stddev %v, max %v",
			summary.StdDevSunrise, summary.StdDevSunset, summary.MaxAbs)
	}

	s.mu.Lock()
	s.lastDrifts = drifts
	s.lastReferenceCheck = now.UTC()
	s.mu.Unlock()

	if !config.DryRun && s.database() != nil {
		if err := s.saveReferenceDrifts(ctx, utils.GetDateString(today), config.Observer(), drifts); err != nil {
			s.logger.Printf("Failed to save reference drifts: %v", err)
		}
	}

	s.webServer.publish(map[string]any{
		"type":    "reference_check",
		"drifts":  driftRows(drifts),
		"summary": summary,
	})

	return drifts, nil
}

// driftRow is the JSON form of a reference drift
type driftRow struct {
	Provider     string  `json:"provider"`
	SunriseDrift float64 `json:"sunrise_drift_seconds"`
	SunsetDrift  float64 `json:"sunset_drift_seconds"`
	Polar        bool    `json:"polar"`
	Error        string  `json:"error,omitempty"`
	Warning      bool    `json:"warning"`
}

func driftRows(drifts []reference.Drift) []driftRow {
	rows := make([]driftRow, 0, len(drifts))
	for _, d := range drifts {
		rows = append(rows, driftRow{
			Provider:     d.Provider,
			SunriseDrift: d.Sunrise.Seconds(),
			SunsetDrift:  d.Sunset.Seconds(),
			Polar:        d.Polar,
			Error:        d.Error(),
			Warning:      d.MaxAbs() > driftWarning,
		})
	}
	return rows
}
