// Package main compares the sunrise equation with suncalc for a few cities.
package main

import (
	"fmt"
	"math"
	"time"

	"github.com/devskill-org/sunrise/sun"
	"github.com/sixdouglas/suncalc"
)

func main() {
	now := time.Now()

	cities := []struct {
		name string
		obs  sun.Observer
	}{
		{"Hamilton", sun.Observer{Latitude: 43.268399, Longitude: -79.774549, Elevation: 74}},
		{"Riga", sun.Observer{Latitude: 56.9496, Longitude: 24.1052, Elevation: 6}},
		{"Tromso", sun.Observer{Latitude: 69.6492, Longitude: 18.9553, Elevation: 10}},
	}

	for _, city := range cities {
		result, err := sun.CalculateTime(now, city.obs)
		if err != nil {
			fmt.Printf("%s: %v\n", city.name, err)
			continue
		}

		switch r := result.(type) {
		case sun.RiseSet:
			fmt.Printf("%-8s Sunrise: %s Sunset: %s (%.2f h)\n",
				city.name,
				r.SunriseTime().Format(time.RFC3339),
				r.SunsetTime().Format(time.RFC3339),
				r.DayLengthHours())
		case sun.Polar:
			fmt.Printf("%-8s %s\n", city.name, r)
		}

		// suncalc takes the standard east-positive longitude
		times := suncalc.GetTimes(now, city.obs.Latitude, city.obs.Longitude)
		fmt.Printf("%-8s suncalc: %s - %s\n", "",
			times["sunrise"].Value.UTC().Format(time.RFC3339),
			times["sunset"].Value.UTC().Format(time.RFC3339))

		pos := suncalc.GetPosition(now, city.obs.Latitude, city.obs.Longitude)
		fmt.Printf("%-8s Azimuth: %.2f°, Altitude: %.2f°\n", "",
			pos.Azimuth*180/math.Pi,
			pos.Altitude*180/math.Pi)
	}
}
