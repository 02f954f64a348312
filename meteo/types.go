package meteo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Location represents a geographic position
type Location struct {
	Latitude  float64 // degrees, positive north
	Longitude float64 // degrees, positive east
}

// SunParams represents query parameters for the sun endpoint
type SunParams struct {
	Location Location
	// Date selects the calendar day. Its location also sets the offset
	// of the returned times unless Offset is given.
	Date time.Time
	// Offset overrides the UTC offset, formatted as +HH:MM
	Offset string
}

// SunResponse is the GeoJSON feature returned by the sun endpoint
type SunResponse struct {
	Copyright  string         `json:"copyright,omitempty"`
	LicenseURL string         `json:"licenseURL,omitempty"`
	Type       string         `json:"type"`
	Geometry   *PointGeometry `json:"geometry,omitempty"`
	When       *Interval      `json:"when,omitempty"`
	Properties *SunProperties `json:"properties,omitempty"`

	// Expires is taken from the HTTP Expires header, zero when absent
	Expires time.Time `json:"-"`
}

// PointGeometry represents a GeoJSON point as [longitude, latitude]
type PointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Interval is the UTC time span the response covers
type Interval struct {
	Interval []time.Time `json:"interval"`
}

// SunProperties holds the solar events of the day
type SunProperties struct {
	Body          string         `json:"body"`
	Sunrise       *HorizonEvent  `json:"sunrise,omitempty"`
	Sunset        *HorizonEvent  `json:"sunset,omitempty"`
	SolarNoon     *MeridianEvent `json:"solarnoon,omitempty"`
	SolarMidnight *MeridianEvent `json:"solarmidnight,omitempty"`
}

// HorizonEvent is a sunrise or sunset. Time and Azimuth are nil when the
// event does not happen that day.
type HorizonEvent struct {
	Time    *EventTime `json:"time"`
	Azimuth *float64   `json:"azimuth"`
}

// MeridianEvent is a solar noon or midnight
type MeridianEvent struct {
	Time                *EventTime `json:"time"`
	DiscCentreElevation *float64   `json:"disc_centre_elevation"`
	Visible             *bool      `json:"visible"`
}

// EventTime is a timestamp in the API's minute-precision format
type EventTime struct {
	time.Time
}

// eventTimeLayouts lists the formats the API uses for event times
var eventTimeLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

// UnmarshalJSON parses minute-precision timestamps such as 2023-06-21T03:54+02:00
func (t *EventTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	for _, layout := range eventTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid event time %q", s)
}

// MarshalJSON writes the time in the API's format
func (t EventTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02T15:04Z07:00"))
}
