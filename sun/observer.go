package sun

import (
	"fmt"
	"math"
)

// Observer is a position on Earth.
//
// Longitude is the l_w term of the sunrise equation. The equation subtracts
// l_w/360 from the mean solar time, so standard signed longitudes go in
// unchanged: Hamilton, Ontario (79.77° W) is -79.774549.
type Observer struct {
	Latitude  float64 `json:"latitude"`  // degrees, -90..90, positive north
	Longitude float64 `json:"longitude"` // degrees, l_w term
	Elevation float64 `json:"elevation"` // meters above sea level
}

// Validate checks the observer for values the sunrise equation cannot handle
func (o Observer) Validate() error {
	if math.IsNaN(o.Latitude) || math.IsInf(o.Latitude, 0) {
		return &ValidationError{Field: "latitude", Message: "must be a finite number"}
	}
	if o.Latitude < -90 || o.Latitude > 90 {
		return &ValidationError{Field: "latitude", Message: fmt.Sprintf("must be between -90 and 90, got %f", o.Latitude)}
	}
	if math.IsNaN(o.Longitude) || math.IsInf(o.Longitude, 0) {
		return &ValidationError{Field: "longitude", Message: "must be a finite number"}
	}
	if math.IsNaN(o.Elevation) || math.IsInf(o.Elevation, 0) {
		return &ValidationError{Field: "elevation", Message: "must be a finite number"}
	}
	// sqrt(elevation) drives the horizon dip
	if o.Elevation < 0 {
		return &ValidationError{
			Field:   "elevation",
			Message: fmt.Sprintf("must be non-negative, got %f", o.Elevation),
			Err:     ErrInvalidElevation,
		}
	}
	return nil
}
