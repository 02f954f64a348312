package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/devskill-org/sunrise/reference"
	"github.com/devskill-org/sunrise/sun"
	_ "github.com/lib/pq"
)

// PeriodicTask represents a task that runs periodically with an optional initial delay
type PeriodicTask struct {
	name         string
	initialDelay time.Duration
	interval     time.Duration
	runFunc      func()
}

// run executes the periodic task in a loop, respecting the initial delay and context cancellation
func (pt *PeriodicTask) run(ctx context.Context, stopChan <-chan struct{}, logger *log.Logger) {
	if pt.initialDelay > 0 {
		logger.Printf("[%s] Waiting for initial delay: %v", pt.name, pt.initialDelay)
		select {
		case <-time.After(pt.initialDelay):
			logger.Printf("[%s] Initial delay passed, running first iteration", pt.name)
			pt.runFunc()
		case <-ctx.Done():
			logger.Printf("[%s] Stopped during initial delay due to context cancellation", pt.name)
			return
		case <-stopChan:
			logger.Printf("[%s] Stopped during initial delay due to stop signal", pt.name)
			return
		}
	} else {
		logger.Printf("[%s] Running immediately (no initial delay)", pt.name)
		pt.runFunc()
	}

	ticker := time.NewTicker(pt.interval)
	defer ticker.Stop()

	logger.Printf("[%s] Started with interval: %v", pt.name, pt.interval)

	for {
		select {
		case <-ticker.C:
			pt.runFunc()
		case <-ctx.Done():
			logger.Printf("[%s] Stopped due to context cancellation", pt.name)
			return
		case <-stopChan:
			logger.Printf("[%s] Stopped due to stop signal", pt.name)
			return
		}
	}
}

// SunScheduler recomputes the configured observer's solar events and
// checks them against reference providers.
type SunScheduler struct {
	// Configuration
	config     *Config
	location   *time.Location
	calculator *sun.Calculator
	providers  []reference.Provider

	// State
	latestEvent        *SunEvent
	lastDrifts         []reference.Drift
	lastCalculation    time.Time
	lastReferenceCheck time.Time
	calculations       int
	isRunning          bool
	stopChan           chan struct{}
	mu                 sync.RWMutex

	// Web server
	webServer *WebServer

	// Database connection
	db *sql.DB

	// Logging
	logger *log.Logger

	// Test hook for the current time
	now func() time.Time
}

// NewSunScheduler creates a new scheduler instance.
// An unknown timezone in config falls back to UTC; Validate reports it.
func NewSunScheduler(config *Config, logger *log.Logger) *SunScheduler {
	if logger == nil {
		logger = log.Default()
	}

	location, err := config.TimeLocation()
	if err != nil {
		logger.Printf("%v, using UTC", err)
		location = time.UTC
	}

	calculator := sun.NewCalculator(logger, location)
	calculator.SetDebug(config.Debug())

	return &SunScheduler{
		config:     config,
		location:   location,
		calculator: calculator,
		providers:  newProviders(config),
		stopChan:   make(chan struct{}),
		logger:     logger,
		now:        time.Now,
	}
}

// NewSunSchedulerWithWebServer creates a new scheduler instance with the web server
func NewSunSchedulerWithWebServer(config *Config, logger *log.Logger) *SunScheduler {
	scheduler := NewSunScheduler(config, logger)
	scheduler.webServer = NewWebServer(scheduler, config.HTTPPort)
	return scheduler
}

func newProviders(config *Config) []reference.Provider {
	providers := make([]reference.Provider, 0, len(config.References))
	for _, name := range config.References {
		switch name {
		case ReferenceSunCalc:
			providers = append(providers, reference.SunCalc{})
		case ReferenceAstral:
			providers = append(providers, reference.Astral{})
		case ReferenceSunriseSunset:
			providers = append(providers, reference.SunriseSunset{})
		case ReferenceGoSunrise:
			providers = append(providers, reference.GoSunrise{})
		case ReferenceMET:
			providers = append(providers, reference.NewMET(config.UserAgent))
		}
	}
	return providers
}

// SetProviders replaces the reference providers
func (s *SunScheduler) SetProviders(providers ...reference.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = providers
}

// GetConfig returns the current configuration
func (s *SunScheduler) GetConfig() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Location returns the timezone used to pick the current day
func (s *SunScheduler) Location() *time.Location {
	return s.location
}

func (s *SunScheduler) getInitialDelay(now time.Time, delayInterval time.Duration) time.Duration {
	top := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	delay := now.Sub(top)
	for delay > 0 {
		delay = delay - delayInterval
	}
	return -delay
}

// Start begins the scheduler's periodic tasks
func (s *SunScheduler) Start(ctx context.Context, serverOnly bool) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	config := s.GetConfig()

	if config.DryRun {
		s.logger.Printf("DRY-RUN MODE ENABLED: Events will not be persisted")
	} else if config.PostgresConnString != "" {
		db, err := sql.Open("postgres", config.PostgresConnString)
		if err != nil {
			s.logger.Printf("Failed to connect to DB: %v", err)
		} else if err := ensureSchema(ctx, db); err != nil {
			s.logger.Printf("Failed to prepare DB schema: %v", err)
			db.Close()
		} else {
			s.mu.Lock()
			s.db = db
			s.mu.Unlock()
		}
	}

	// Start web server if configured
	if s.webServer != nil {
		err := s.webServer.Start()
		if err != nil {
			s.logger.Printf("Failed to start web server: %v", err)
		} else {
			s.logger.Printf("Web server started on port %d", s.webServer.port)
		}
		if serverOnly {
			return err
		}
	}

	tasks := []PeriodicTask{
		{
			name:         "SunCalculation",
			initialDelay: 0,
			interval:     config.RecalcInterval,
			runFunc: func() {
				if _, err := s.RunCalculation(ctx); err != nil {
					s.logger.Printf("Sun calculation failed: %v", err)
				}
			},
		},
	}

	if config.ReferenceCheckInterval > 0 && len(s.providers) > 0 {
		tasks = append(tasks, PeriodicTask{
			name:         "ReferenceCheck",
			initialDelay: s.getInitialDelay(s.now(), config.ReferenceCheckInterval) + time.Second,
			interval:     config.ReferenceCheckInterval,
			runFunc: func() {
				if _, err := s.RunReferenceCheck(ctx); err != nil {
					s.logger.Printf("Reference check failed: %v", err)
				}
			},
		})
	}

	// Start each periodic task in its own goroutine
	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		go func() {
			defer wg.Done()
			task.run(ctx, s.stopChan, s.logger)
		}()
	}

	wg.Wait()

	s.logger.Printf("All periodic tasks stopped")
	s.stop()
	return nil
}

// Stop gracefully stops the scheduler
func (s *SunScheduler) Stop() {
	s.stop()
}

func (s *SunScheduler) stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}

	s.isRunning = false

	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}

	webServer, db := s.webServer, s.db
	s.db = nil
	s.mu.Unlock()

	// In-flight handlers read scheduler state, so shut down without the lock
	if webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := webServer.Stop(ctx); err != nil {
			s.logger.Printf("Error stopping web server: %v", err)
		}
	}

	if db != nil {
		if err := db.Close(); err != nil {
			s.logger.Printf("Error closing database: %v", err)
		}
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *SunScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current status of the scheduler
func (s *SunScheduler) GetStatus() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{
		IsRunning:      s.isRunning,
		HasEvent:       s.latestEvent != nil,
		Calculations:   s.calculations,
		ReferenceCount: len(s.providers),
		Persisting:     s.db != nil,
	}
	if !s.lastCalculation.IsZero() {
		t := s.lastCalculation
		status.LastCalculation = &t
	}
	if !s.lastReferenceCheck.IsZero() {
		t := s.lastReferenceCheck
		status.LastReferenceCheck = &t
	}
	return status
}

// GetLatestEvent returns a copy of the most recently computed event
func (s *SunScheduler) GetLatestEvent() (SunEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latestEvent == nil {
		return SunEvent{}, false
	}
	return *s.latestEvent, true
}

func (s *SunScheduler) database() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// GetDrifts returns a copy of the last reference comparison
func (s *SunScheduler) GetDrifts() []reference.Drift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastDrifts == nil {
		return nil
	}
	drifts := make([]reference.Drift, len(s.lastDrifts))
	copy(drifts, s.lastDrifts)
	return drifts
}

// SchedulerStatus represents the current status of the scheduler
type SchedulerStatus struct {
	IsRunning          bool       `json:"is_running"`
	HasEvent           bool       `json:"has_event"`
	Calculations       int        `json:"calculations"`
	ReferenceCount     int        `json:"reference_count"`
	Persisting         bool       `json:"persisting"`
	LastCalculation    *time.Time `json:"last_calculation,omitempty"`
	LastReferenceCheck *time.Time `json:"last_reference_check,omitempty"`
}
