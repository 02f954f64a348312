package sun

import (
	"log"
	"math"
	"time"

	"github.com/devskill-org/sunrise/display"
	"github.com/devskill-org/sunrise/julian"
)

// Constants of the sunrise equation
const (
	transitOffset     = 0.0009       // days, J2000 transit correction
	terrestrialOffset = 69.184       // seconds, TT - UT1 at the epoch
	meanAnomalyBase   = 357.5291     // degrees
	meanAnomalyRate   = 0.98560028   // degrees per day
	perihelion        = 102.9372     // argument of perihelion, degrees
	obliquity         = 23.4397      // obliquity of the ecliptic, degrees
	horizonAltitude   = -0.833       // refraction plus solar disc radius, degrees
	horizonDipFactor  = 2.076        // degrees per sqrt(meter), divided by 60
	hoursPerDegree    = 24.0 / 180.0 // day length per degree of hour angle
	degToRad          = math.Pi / 180.0
)

// angles holds every intermediate value of one calculation
type angles struct {
	julianDate        float64 // days
	julianDay         float64 // days since J2000
	meanSolarTime     float64 // days since J2000
	meanAnomaly       float64 // degrees, [0, 360)
	center            float64 // degrees
	eclipticLongitude float64 // degrees, [0, 360)
	transit           float64 // Julian date
	sinDeclination    float64
	cosDeclination    float64
	cosHourAngle      float64
}

// solve runs the sunrise equation up to the hour angle argument
func solve(ts float64, obs Observer) angles {
	var a angles

	a.julianDate = julian.FromTimestamp(ts)

	a.julianDay = math.Ceil(a.julianDate - (julian.J2000 + transitOffset) + terrestrialOffset/julian.SecondsPerDay)

	a.meanSolarTime = a.julianDay + transitOffset - obs.Longitude/360.0

	a.meanAnomaly = normalizeDegrees(meanAnomalyBase + meanAnomalyRate*a.meanSolarTime)
	m := a.meanAnomaly * degToRad

	a.center = 1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m)

	a.eclipticLongitude = normalizeDegrees(a.meanAnomaly + a.center + 180.0 + perihelion)
	lambda := a.eclipticLongitude * degToRad

	a.transit = julian.J2000 + a.meanSolarTime + 0.0053*math.Sin(m) - 0.0069*math.Sin(2*lambda)

	a.sinDeclination = math.Sin(lambda) * math.Sin(obliquity*degToRad)
	a.cosDeclination = math.Cos(math.Asin(a.sinDeclination))

	phi := obs.Latitude * degToRad
	altitude := (horizonAltitude - horizonDipFactor*math.Sqrt(obs.Elevation)/60.0) * degToRad
	a.cosHourAngle = (math.Sin(altitude) - math.Sin(phi)*a.sinDeclination) / (math.Cos(phi) * a.cosDeclination)

	return a
}

// result turns the solved angles into the final outcome
func (a angles) result() Result {
	switch {
	case a.cosHourAngle > 1:
		return Polar{AlwaysAboveHorizon: false}
	case a.cosHourAngle < -1:
		return Polar{AlwaysAboveHorizon: true}
	}

	w0 := math.Acos(a.cosHourAngle) / degToRad

	return RiseSet{
		Sunrise:   julian.ToTimestamp(a.transit - w0/360.0),
		Sunset:    julian.ToTimestamp(a.transit + w0/360.0),
		Transit:   julian.ToTimestamp(a.transit),
		HourAngle: w0,
	}
}

// normalizeDegrees maps deg into [0, 360)
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Calculate returns the sunrise and sunset of the day containing currentTimestamp
// (Unix seconds, UTC) for an observer at latitude, longitude (see Observer) and
// elevation in meters. A sun that does not cross the horizon yields Polar.
func Calculate(currentTimestamp, latitude, longitude, elevation float64) (Result, error) {
	return CalculateFor(currentTimestamp, Observer{
		Latitude:  latitude,
		Longitude: longitude,
		Elevation: elevation,
	})
}

// CalculateFor is Calculate with an Observer
func CalculateFor(currentTimestamp float64, obs Observer) (Result, error) {
	if err := validateTimestamp(currentTimestamp); err != nil {
		return nil, err
	}
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	return solve(currentTimestamp, obs).result(), nil
}

// CalculateTime is CalculateFor with a time.Time
func CalculateTime(t time.Time, obs Observer) (Result, error) {
	return CalculateFor(julian.Timestamp(t), obs)
}

func validateTimestamp(ts float64) error {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return &ValidationError{Field: "timestamp", Message: "must be a finite number"}
	}
	return nil
}

// Calculator runs the calculation and traces intermediate values
type Calculator struct {
	logger *log.Logger
	format *display.Formatter
	debug  bool
}

// NewCalculator creates a calculator logging to logger.
// debugLocation sets the timezone used for times in the trace; nil means UTC.
func NewCalculator(logger *log.Logger, debugLocation *time.Location) *Calculator {
	if logger == nil {
		logger = log.Default()
	}
	return &Calculator{
		logger: logger,
		format: &display.Formatter{Location: debugLocation},
	}
}

// SetDebug enables or disables tracing of intermediate values
func (c *Calculator) SetDebug(debug bool) {
	c.debug = debug
}

// Calculate is CalculateFor with tracing
func (c *Calculator) Calculate(currentTimestamp float64, obs Observer) (Result, error) {
	if err := validateTimestamp(currentTimestamp); err != nil {
		return nil, err
	}
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	c.tracef("Latitude               f       = %s", c.format.Degrees(obs.Latitude))
	c.tracef("Longitude              l_w     = %s", c.format.Degrees(obs.Longitude))
	c.tracef("Elevation              h       = %.1f m", obs.Elevation)
	c.tracef("Now                    ts      = %s", c.format.Timestamp(currentTimestamp))

	a := solve(currentTimestamp, obs)

	c.tracef("Julian date            j_date  = %.3f days", a.julianDate)
	c.tracef("Julian day             n       = %.3f days", a.julianDay)
	c.tracef("Mean solar time        J_      = %.9f days", a.meanSolarTime)
	c.tracef("Solar mean anomaly     M       = %s", c.format.Degrees(a.meanAnomaly))
	c.tracef("Equation of the center C       = %s", c.format.Degrees(a.center))
	c.tracef("Ecliptic longitude     L       = %s", c.format.Degrees(a.eclipticLongitude))
	c.tracef("Solar transit time     J_trans = %s", c.format.Julian(a.transit))
	c.tracef("Declination            d       = %s", c.format.Degrees(math.Asin(a.sinDeclination)/degToRad))

	result := a.result()
	switch r := result.(type) {
	case RiseSet:
		c.tracef("Hour angle             w0      = %s", c.format.Degrees(r.HourAngle))
		c.tracef("Sunrise                j_rise  = %s", c.format.Timestamp(r.Sunrise))
		c.tracef("Sunset                 j_set   = %s", c.format.Timestamp(r.Sunset))
		c.tracef("Day length                       %s", display.Hours(r.DayLengthHours()))
	case Polar:
		c.tracef("Hour angle             cos(w0) = %.6f out of range: %s", a.cosHourAngle, r)
	}

	return result, nil
}

func (c *Calculator) tracef(format string, args ...any) {
	if !c.debug {
		return
	}
	c.logger.Printf("DEBUG "+format, args...)
}
