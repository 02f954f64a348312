package reference

import (
	"context"
	"time"

	"github.com/devskill-org/sunrise/meteo"
	"github.com/devskill-org/sunrise/sun"
	"github.com/devskill-org/sunrise/utils"
)

const (
	// metCacheDuration bounds how long a MET answer is reused
	metCacheDuration = 6 * time.Hour

	metRetryDelay = 2 * time.Second
)

// MET asks the MET Norway Sunrise API. Answers are cached per day and position
// until the server's Expires deadline. Throttling, server and network
// failures are retried once.
type MET struct {
	Client *meteo.Client

	cache      *eventCache
	retryDelay time.Duration
}

// NewMET creates a MET provider with a client using userAgent
func NewMET(userAgent string) *MET {
	return &MET{
		Client:     meteo.NewClient(userAgent),
		cache:      newEventCache(metCacheDuration),
		retryDelay: metRetryDelay,
	}
}

// Name returns the provider name
func (m *MET) Name() string { return "met" }

// RiseSet returns sunrise and sunset from the MET API
func (m *MET) RiseSet(ctx context.Context, day time.Time, obs sun.Observer) (Event, error) {
	key := cacheKey(day, obs)
	if m.cache != nil {
		if event, ok := m.cache.Get(key); ok {
			return event, nil
		}
	}

	event, expires, err := m.fetch(ctx, day, obs)
	if meteo.IsRetryable(err) {
		select {
		case <-ctx.Done():
			return Event{Provider: "met"}, ctx.Err()
		case <-time.After(m.retryDelay):
		}
		event, expires, err = m.fetch(ctx, day, obs)
	}

	if err == nil && m.cache != nil {
		m.cache.SetUntil(key, event, expires)
	}
	return event, err
}

func (m *MET) fetch(ctx context.Context, day time.Time, obs sun.Observer) (Event, time.Time, error) {
	zone := solarZone(obs.Longitude)
	date := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, zone)

	resp, err := m.Client.GetSun(ctx, meteo.SunParams{
		Location: meteo.Location{Latitude: obs.Latitude, Longitude: obs.Longitude},
		Date:     date,
		Offset:   utils.GetOffsetString(date),
	})
	if err != nil {
		return Event{Provider: "met"}, time.Time{}, err
	}

	if rise, set, ok := resp.RiseSet(); ok {
		return Event{Provider: "met", Sunrise: rise.UTC(), Sunset: set.UTC()}, resp.Expires, nil
	}
	if alwaysUp, ok := resp.Polar(); ok {
		return Event{Provider: "met", Polar: true, AlwaysUp: alwaysUp}, resp.Expires, nil
	}
	return Event{Provider: "met"}, time.Time{}, ErrNoEvent
}
