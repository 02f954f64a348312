// Package main provides the sunrise calculator entry point and CLI interface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devskill-org/sunrise/display"
	"github.com/devskill-org/sunrise/julian"
	"github.com/devskill-org/sunrise/scheduler"
	"github.com/devskill-org/sunrise/sun"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "config.json", "Configuration file path (defaults are used when it does not exist)")
		help       = flag.Bool("help", false, "Show help message")
		serverOnly = flag.Bool("serverOnly", false, "Run only web server without periodic calculations")
		once       = flag.Bool("once", false, "Calculate sunrise and sunset once and exit")
		lat        = flag.Float64("lat", 0, "Observer latitude in degrees, north positive (overrides config)")
		lon        = flag.Float64("lon", 0, "Observer longitude in degrees, east positive (overrides config)")
		elevation  = flag.Float64("elevation", 0, "Observer elevation in meters (overrides config)")
		tz         = flag.String("tz", "", "Timezone for displayed times (overrides config location)")
		debug      = flag.Bool("debug", false, "Log every intermediate value of the calculation")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	config, err := loadConfig(*configFile)
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}

	// Flags win over the config file and the environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			config.Latitude = *lat
		case "lon":
			config.Longitude = *lon
		case "elevation":
			config.Elevation = *elevation
		case "tz":
			config.Location = *tz
		case "debug":
			if *debug {
				config.LogLevel = "debug"
			}
		}
	})

	if err := config.Validate(); err != nil {
		fmt.Println("Invalid configuration:", err)
		os.Exit(1)
	}

	if *once {
		if err := runOnce(config); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Starting sunrise service with the following configuration:\n")
	fmt.Printf("  Observer: %.6f, %.6f, %.1f m\n", config.Latitude, config.Longitude, config.Elevation)
	fmt.Printf("  Location: %s\n", config.Location)
	fmt.Printf("  Recalc Interval: %s\n", config.RecalcInterval)
	if config.ReferenceCheckInterval > 0 {
		fmt.Printf("  Reference Check Interval: %s %v\n", config.ReferenceCheckInterval, config.References)
	}
	if config.HTTPPort > 0 {
		fmt.Printf("  HTTP Port: %d\n", config.HTTPPort)
	}
	if config.DryRun {
		fmt.Printf("  Mode: DRY-RUN (events will not be persisted)\n")
	}
	fmt.Println()

	// Create logger
	logger := log.New(os.Stdout, "[SCHEDULER] ", log.LstdFlags)

	sunScheduler := scheduler.NewSunSchedulerWithWebServer(config, logger)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := sunScheduler.Start(ctx, *serverOnly); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Printf("Scheduler error: %v", err)
			}
		}
	}()

	logger.Printf("Scheduler started. Press Ctrl+C to stop...")

	<-sigChan
	logger.Printf("Shutdown signal received, stopping scheduler...")

	cancel()
	sunScheduler.Stop()

	logger.Printf("Scheduler stopped successfully")
}

// loadConfig reads the config file when present, then applies .env and
// SUNRISE_* environment overrides
func loadConfig(filename string) (*scheduler.Config, error) {
	config, err := scheduler.LoadConfig(filename)
	if errors.Is(err, fs.ErrNotExist) {
		config, err = scheduler.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func runOnce(config *scheduler.Config) error {
	format, err := display.NewFormatter(config.Location)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "[SUN] ", log.LstdFlags)
	calculator := sun.NewCalculator(logger, format.Location)
	calculator.SetDebug(config.Debug())

	current := time.Now()
	now := julian.Timestamp(current)
	result, err := calculator.Calculate(now, config.Observer())
	if err != nil {
		return err
	}

	fmt.Printf("Observer:   %s, %s, %.1f m\n",
		display.DMS(config.Latitude), display.DMS(config.Longitude), config.Elevation)

	switch r := result.(type) {
	case sun.RiseSet:
		fmt.Printf("Sunrise:    %s (%s)\n", format.Timestamp(r.Sunrise), display.Relative(r.Sunrise, current))
		fmt.Printf("Transit:    %s (%s)\n", format.Timestamp(r.Transit), display.Relative(r.Transit, current))
		fmt.Printf("Sunset:     %s (%s)\n", format.Timestamp(r.Sunset), display.Relative(r.Sunset, current))
		fmt.Printf("Day length: %s\n", display.Hours(r.DayLengthHours()))
	case sun.Polar:
		fmt.Printf("Polar:      %s\n", r)
	}

	return nil
}

func showHelp() {
	fmt.Println("sunrise - Sunrise and sunset calculator")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Computes sunrise and sunset times with the sunrise equation for an observer")
	fmt.Println("  at a given latitude, longitude and elevation. Runs once from the command line")
	fmt.Println("  or as a service that recomputes the day's events, compares them with other")
	fmt.Println("  algorithms and the MET Norway Sunrise API, and serves them over HTTP.")
	fmt.Println()
	fmt.Println("  Key Features:")
	fmt.Println("  - Sunrise, solar transit and sunset in Unix time")
	fmt.Println("  - Polar day and polar night detection")
	fmt.Println("  - Elevation-corrected horizon")
	fmt.Println("  - Reference drift checks against suncalc, astral, sunrisesunset, go-sunrise and MET")
	fmt.Println("  - PostgreSQL history and a WebSocket status feed")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  sunrise [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("ENVIRONMENT:")
	fmt.Println("  SUNRISE_LATITUDE, SUNRISE_LONGITUDE, SUNRISE_ELEVATION, SUNRISE_LOCATION,")
	fmt.Println("  SUNRISE_RECALC_INTERVAL, SUNRISE_REFERENCE_CHECK_INTERVAL, SUNRISE_REFERENCES,")
	fmt.Println("  SUNRISE_API_TIMEOUT, SUNRISE_USER_AGENT, SUNRISE_HTTP_PORT, SUNRISE_POSTGRES_CONN,")
	fmt.Println("  SUNRISE_DRY_RUN, SUNRISE_LOG_LEVEL (also read from a .env file)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Today's sunrise and sunset for the configured observer")
	fmt.Println("  sunrise -once")
	fmt.Println()
	fmt.Println("  # Hamilton, Ontario with the full calculation trace")
	fmt.Println("  sunrise -once -lat=43.268399 -lon=-79.774549 -elevation=74 -tz=America/Toronto -debug")
	fmt.Println()
	fmt.Println("  # Run the service with a custom configuration")
	fmt.Println("  sunrise --config=config.json")
	fmt.Println()
	fmt.Println("  # Run only web server without periodic calculations")
	fmt.Println("  sunrise -serverOnly")
	fmt.Println()
	fmt.Println("  # Show this help")
	fmt.Println("  sunrise -help")
}
