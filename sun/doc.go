// Package sun computes sunrise and sunset instants with the closed-form
// sunrise equation.
//
// The calculation takes a Unix timestamp and an observer position and
// returns either a pair of instants or a polar condition when the sun does
// not cross the horizon that day:
//
//	obs := sun.Observer{
//		Latitude:  43.268399,
//		Longitude: -79.774549,
//		Elevation: 74,
//	}
//
//	result, err := sun.CalculateFor(float64(time.Now().Unix()), obs)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	switch r := result.(type) {
//	case sun.RiseSet:
//		fmt.Println("Sunrise:", r.SunriseTime(), "Sunset:", r.SunsetTime())
//	case sun.Polar:
//		fmt.Println("Always above horizon:", r.AlwaysAboveHorizon)
//	}
//
// The computation is pure and safe for concurrent use. Calculator adds
// debug tracing of every intermediate value through a log.Logger.
package sun
