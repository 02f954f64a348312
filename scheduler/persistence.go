package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devskill-org/sunrise/reference"
	"github.com/devskill-org/sunrise/sun"
)

const schema = `
CREATE TABLE IF NOT EXISTS sun_events (
	day              DATE             NOT NULL,
	latitude         DOUBLE PRECISION NOT NULL,
	longitude        DOUBLE PRECISION NOT NULL,
	elevation        DOUBLE PRECISION NOT NULL,
	sunrise          TIMESTAMPTZ,
	sunset           TIMESTAMPTZ,
	transit          TIMESTAMPTZ,
	day_length_hours DOUBLE PRECISION NOT NULL,
	polar            BOOLEAN          NOT NULL,
	always_up        BOOLEAN          NOT NULL,
	computed_at      TIMESTAMPTZ      NOT NULL,
	PRIMARY KEY (day, latitude, longitude, elevation)
);
CREATE TABLE IF NOT EXISTS sun_reference_drifts (
	day                   DATE             NOT NULL,
	latitude              DOUBLE PRECISION NOT NULL,
	longitude             DOUBLE PRECISION NOT NULL,
	elevation             DOUBLE PRECISION NOT NULL,
	provider              TEXT             NOT NULL,
	sunrise_drift_seconds DOUBLE PRECISION,
	sunset_drift_seconds  DOUBLE PRECISION,
	polar                 BOOLEAN          NOT NULL,
	error                 TEXT,
	checked_at            TIMESTAMPTZ      NOT NULL,
	PRIMARY KEY (day, latitude, longitude, elevation, provider)
);
`

// ensureSchema creates the tables used by the scheduler
func ensureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// saveSunEvent upserts one day's event for the event's observer
func (s *SunScheduler) saveSunEvent(ctx context.Context, event SunEvent) error {
	db := s.database()
	if db == nil {
		return fmt.Errorf("database connection not available")
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO sun_events (
			day,
			latitude,
			longitude,
			elevation,
			sunrise,
			sunset,
			transit,
			day_length_hours,
			polar,
			always_up,
			computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (day, latitude, longitude, elevation) DO UPDATE SET
			sunrise = EXCLUDED.sunrise,
			sunset = EXCLUDED.sunset,
			transit = EXCLUDED.transit,
			day_length_hours = EXCLUDED.day_length_hours,
			polar = EXCLUDED.polar,
			always_up = EXCLUDED.always_up,
			computed_at = EXCLUDED.computed_at
	`,
		event.Day,
		event.Observer.Latitude,
		event.Observer.Longitude,
		event.Observer.Elevation,
		nullTime(event.Sunrise),
		nullTime(event.Sunset),
		nullTime(event.Transit),
		event.DayLengthHours,
		event.Polar,
		event.AlwaysUp,
		event.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save sun event for %s: %w", event.Day, err)
	}

	s.logger.Printf("Saved sun event for %s to database", event.Day)
	return nil
}

// saveReferenceDrifts replaces the drifts recorded for day and observer
func (s *SunScheduler) saveReferenceDrifts(ctx context.Context, day string, obs sun.Observer, drifts []reference.Drift) error {
	db := s.database()
	if db == nil {
		return fmt.Errorf("database connection not available")
	}

	if len(drifts) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM sun_reference_drifts
		WHERE day = $1 AND latitude = $2 AND longitude = $3 AND elevation = $4
	`, day, obs.Latitude, obs.Longitude, obs.Elevation)
	if err != nil {
		return fmt.Errorf("failed to delete existing drifts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sun_reference_drifts (
			day,
			latitude,
			longitude,
			elevation,
			provider,
			sunrise_drift_seconds,
			sunset_drift_seconds,
			polar,
			error,
			checked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	checkedAt := time.Now().UTC()
	for _, d := range drifts {
		var rise, set sql.NullFloat64
		if d.Err == nil && !d.Polar {
			rise = sql.NullFloat64{Float64: d.Sunrise.Seconds(), Valid: true}
			set = sql.NullFloat64{Float64: d.Sunset.Seconds(), Valid: true}
		}
		var errText sql.NullString
		if d.Err != nil {
			errText = sql.NullString{String: d.Error(), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			day,
			obs.Latitude,
			obs.Longitude,
			obs.Elevation,
			d.Provider,
			rise,
			set,
			d.Polar,
			errText,
			checkedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert drift for %s: %w", d.Provider, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Printf("Saved %d reference drifts to database", len(drifts))
	return nil
}

// loadSunEvents loads the stored events of obs with day in [from, to], ordered by day
func (s *SunScheduler) loadSunEvents(ctx context.Context, obs sun.Observer, from, to time.Time) ([]SunEvent, error) {
	db := s.database()
	if db == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			day,
			sunrise,
			sunset,
			transit,
			day_length_hours,
			polar,
			always_up,
			computed_at
		FROM sun_events
		WHERE latitude = $1 AND longitude = $2 AND elevation = $3
			AND day >= $4 AND day <= $5
		ORDER BY day
	`, obs.Latitude, obs.Longitude, obs.Elevation, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query sun events: %w", err)
	}
	defer rows.Close()

	var events []SunEvent
	for rows.Next() {
		var (
			day                    time.Time
			sunrise, sunset, trans sql.NullTime
			event                  = SunEvent{Observer: obs}
		)

		if err := rows.Scan(
			&day,
			&sunrise,
			&sunset,
			&trans,
			&event.DayLengthHours,
			&event.Polar,
			&event.AlwaysUp,
			&event.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sun event: %w", err)
		}

		event.Day = day.Format("2006-01-02")
		event.Sunrise = timePtr(sunrise)
		event.Sunset = timePtr(sunset)
		event.Transit = timePtr(trans)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sun events: %w", err)
	}

	return events, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
