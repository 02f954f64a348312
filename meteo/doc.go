// Package meteo provides a Go client library for the MET Norway Sunrise API.
//
// The Sunrise 3.0 service publishes sunrise, sunset and solar noon for any
// position on Earth. It is used here as an independent reference for the
// sunrise equation.
//
// Basic Usage:
//
//	client := meteo.NewClient("YourApp/1.0 (your-email@example.com)")
//
//	params := meteo.SunParams{
//		Location: meteo.Location{
//			Latitude:  59.9139, // Oslo
//			Longitude: 10.7522,
//		},
//		Date: time.Now(),
//	}
//
//	resp, err := client.GetSun(context.Background(), params)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if rise, set, ok := resp.RiseSet(); ok {
//		fmt.Println("Sunrise:", rise, "Sunset:", set)
//	}
//
// Sunrise and sunset are null in the response when the sun stays above or
// below the horizon for the whole day. Polar reports which case applies.
//
// For more information about the API, visit: https://api.met.no/weatherapi/sunrise/3.0/documentation
package meteo
