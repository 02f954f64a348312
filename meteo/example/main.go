// Package main provides an example of using the meteo client to fetch sunrise and sunset.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/devskill-org/sunrise/meteo"
)

func main() {
	// Create a client with proper User-Agent (required by MET API)
	client := meteo.NewClient("MyApp/1.0 (username@example.com)", meteo.WithTimeout(10*time.Second))

	// Define location (Riga, Latvia)
	location := meteo.Location{
		Latitude:  56.9496,
		Longitude: 24.1052,
	}

	// Validate location before making request
	if err := meteo.ValidateLocation(location); err != nil {
		log.Fatalf("Invalid location: %v", err)
	}

	fmt.Printf("Getting sun events for Riga (%.4f, %.4f)\n\n",
		location.Latitude, location.Longitude)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.GetSun(ctx, meteo.SunParams{
		Location: location,
		Date:     time.Now(),
	})
	if err != nil {
		var apiErr *meteo.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Retryable():
			log.Fatalf("MET is unavailable (status %d), try again later", apiErr.StatusCode)
		case meteo.IsRetryable(err):
			log.Fatalf("Network error, try again later: %v", err)
		default:
			log.Fatalf("Request failed: %v", err)
		}
	}

	if rise, set, ok := resp.RiseSet(); ok {
		fmt.Printf("Sunrise: %s\n", rise.Format(time.RFC3339))
		fmt.Printf("Sunset:  %s\n", set.Format(time.RFC3339))
		if length, ok := resp.DayLength(); ok {
			fmt.Printf("Day length: %s\n", length)
		}
	} else if alwaysUp, ok := resp.Polar(); ok {
		if alwaysUp {
			fmt.Println("The sun does not set today")
		} else {
			fmt.Println("The sun does not rise today")
		}
	}

	if noon := resp.GetSolarNoon(); noon != nil {
		fmt.Printf("Solar noon: %s\n", noon.Format(time.RFC3339))
	}
}
