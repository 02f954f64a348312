package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/devskill-org/sunrise/julian"
	"github.com/devskill-org/sunrise/sun"
	"github.com/gorilla/websocket"
)

// WebServer provides HTTP endpoints for health checking, monitoring and sun queries
type WebServer struct {
	scheduler *SunScheduler
	server    *http.Server
	port      int
	startTime time.Time
	upgrader  websocket.Upgrader
	clients   sync.Map
	broadcast chan []byte
	done      chan struct{}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Version   string          `json:"version,omitempty"`
	Scheduler SchedulerHealth `json:"scheduler"`
	System    SystemHealth    `json:"system"`
}

// SchedulerHealth represents scheduler-specific health information
type SchedulerHealth struct {
	IsRunning       bool       `json:"is_running"`
	HasEvent        bool       `json:"has_event"`
	LastCalculation *time.Time `json:"last_calculation,omitempty"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	Elevation       float64    `json:"elevation"`
	RecalcInterval  string     `json:"recalc_interval"`
}

// SystemHealth represents system-level health information
type SystemHealth struct {
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines,omitempty"`
}

// SunResponse is the /api/sun answer
type SunResponse struct {
	Observer           sun.Observer `json:"observer"`
	Timestamp          float64      `json:"timestamp"`
	JulianDate         float64      `json:"julian_date"`
	Result             string       `json:"result"` // rise_set or polar
	Sunrise            *time.Time   `json:"sunrise,omitempty"`
	Sunset             *time.Time   `json:"sunset,omitempty"`
	Transit            *time.Time   `json:"transit,omitempty"`
	SunriseTimestamp   float64      `json:"sunrise_timestamp,omitempty"`
	SunsetTimestamp    float64      `json:"sunset_timestamp,omitempty"`
	DayLengthHours     float64      `json:"day_length_hours"`
	AlwaysAboveHorizon *bool        `json:"always_above_horizon,omitempty"`
}

// errorResponse is written for rejected requests
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewWebServer creates a new web server; a non-positive port disables it
func NewWebServer(scheduler *SunScheduler, port int) *WebServer {
	if port <= 0 {
		return nil
	}

	hs := &WebServer{
		scheduler: scheduler,
		port:      port,
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
	}

	hs.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      hs.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return hs
}

func (hs *WebServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", hs.healthHandler)
	mux.HandleFunc("/api/ready", hs.readinessHandler)
	mux.HandleFunc("/api/status", hs.statusHandler)
	mux.HandleFunc("/api/sun", hs.sunHandler)
	mux.HandleFunc("/api/history", hs.historyHandler)
	mux.HandleFunc("/api/ws", hs.wsHandler)
	return mux
}

// Start starts the web server
func (hs *WebServer) Start() error {
	if hs == nil {
		return nil
	}

	go hs.handleBroadcasts()
	go hs.broadcastStatus()

	go func() {
		if err := hs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			hs.scheduler.logger.Printf("Web server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the web server
func (hs *WebServer) Stop(ctx context.Context) error {
	if hs == nil {
		return nil
	}

	close(hs.done)

	hs.clients.Range(func(key, value any) bool {
		if conn, ok := key.(*websocket.Conn); ok {
			conn.Close()
		}
		return true
	})

	return hs.server.Shutdown(ctx)
}

// publish queues a message for all WebSocket clients without blocking
func (hs *WebServer) publish(v any) {
	if hs == nil {
		return
	}

	message, err := json.Marshal(v)
	if err != nil {
		hs.scheduler.logger.Printf("Failed to marshal broadcast: %v", err)
		return
	}

	select {
	case hs.broadcast <- message:
	default:
		hs.scheduler.logger.Printf("Broadcast queue full, dropping message")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (hs *WebServer) health() HealthResponse {
	status := hs.scheduler.GetStatus()
	config := hs.scheduler.GetConfig()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
		Scheduler: SchedulerHealth{
			IsRunning:       status.IsRunning,
			HasEvent:        status.HasEvent,
			LastCalculation: status.LastCalculation,
			Latitude:        config.Latitude,
			Longitude:       config.Longitude,
			Elevation:       config.Elevation,
			RecalcInterval:  config.RecalcInterval.String(),
		},
		System: SystemHealth{
			Uptime:     formatUptime(time.Since(hs.startTime)),
			Goroutines: runtime.NumGoroutine(),
		},
	}

	if !status.IsRunning {
		health.Status = "unhealthy"
	}

	return health
}

// healthHandler handles the /api/health endpoint
func (hs *WebServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := hs.health()

	code := http.StatusOK
	if health.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

// readinessHandler handles the /api/ready endpoint
func (hs *WebServer) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := hs.scheduler.GetStatus()
	ready := status.IsRunning && status.HasEvent

	response := map[string]any{
		"ready":     ready,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

// statusHandler handles the /api/status endpoint (detailed status)
func (hs *WebServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, hs.buildStatusData())
}

// sunHandler handles /api/sun?lat=&lon=&elevation=&ts=
// Missing coordinates default to the configured observer, a missing ts to now.
func (hs *WebServer) sunHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	obs := hs.scheduler.GetConfig().Observer()
	ts := julian.Timestamp(hs.scheduler.now())

	query := r.URL.Query()
	params := []struct {
		name  string
		field *float64
	}{
		{"lat", &obs.Latitude},
		{"lon", &obs.Longitude},
		{"elevation", &obs.Elevation},
		{"ts", &ts},
	}
	for _, p := range params {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("invalid %s: %q is not a number", p.name, raw),
				Field: p.name,
			})
			return
		}
		*p.field = v
	}

	if obs.Longitude < -180 || obs.Longitude > 180 {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("longitude must be between -180 and 180, got: %g", obs.Longitude),
			Field: "longitude",
		})
		return
	}

	result, err := sun.CalculateFor(ts, obs)
	if err != nil {
		var validationErr *sun.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: validationErr.Field})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, newSunResponse(ts, obs, result))
}

func newSunResponse(ts float64, obs sun.Observer, result sun.Result) SunResponse {
	response := SunResponse{
		Observer:   obs,
		Timestamp:  ts,
		JulianDate: julian.FromTimestamp(ts),
	}

	switch r := result.(type) {
	case sun.RiseSet:
		rise, set, transit := r.SunriseTime(), r.SunsetTime(), r.TransitTime()
		response.Result = "rise_set"
		response.Sunrise = &rise
		response.Sunset = &set
		response.Transit = &transit
		response.SunriseTimestamp = r.Sunrise
		response.SunsetTimestamp = r.Sunset
		response.DayLengthHours = r.DayLengthHours()
	case sun.Polar:
		up := r.AlwaysAboveHorizon
		response.Result = "polar"
		response.AlwaysAboveHorizon = &up
		if up {
			response.DayLengthHours = 24
		}
	}

	return response
}

// historyHandler handles /api/history?from=YYYY-MM-DD&to=YYYY-MM-DD for the configured observer
func (hs *WebServer) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if hs.scheduler.database() == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "persistence is not enabled"})
		return
	}

	today := hs.scheduler.now().In(hs.scheduler.Location())
	from, to := today.AddDate(0, 0, -7), today

	for _, p := range []struct {
		name  string
		field *time.Time
	}{{"from", &from}, {"to", &to}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("invalid %s: expected YYYY-MM-DD", p.name),
				Field: p.name,
			})
			return
		}
		*p.field = t
	}

	events, err := hs.scheduler.loadSunEvents(r.Context(), hs.scheduler.GetConfig().Observer(), from, to)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"events": events,
	})
}

// wsHandler handles WebSocket connections
func (hs *WebServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	logger := hs.scheduler.logger

	conn, err := hs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Printf("WebSocket upgrade error: %v", err)
		return
	}

	hs.clients.Store(conn, true)
	logger.Printf("New WebSocket client connected. Total clients: %d", hs.clientCount())

	// Send initial data immediately
	hs.sendStatusToClient(conn)

	defer func() {
		hs.clients.Delete(conn)
		conn.Close()
		logger.Printf("WebSocket client disconnected. Total clients: %d", hs.clientCount())
	}()

	// Read messages from client (ping/pong, close)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (hs *WebServer) clientCount() int {
	count := 0
	hs.clients.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// handleBroadcasts sends messages to all connected clients
func (hs *WebServer) handleBroadcasts() {
	for {
		select {
		case message := <-hs.broadcast:
			hs.clients.Range(func(key, value any) bool {
				conn, ok := key.(*websocket.Conn)
				if !ok {
					return true
				}

				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					hs.scheduler.logger.Printf("WebSocket write error: %v", err)
					conn.Close()
					hs.clients.Delete(conn)
				}
				return true
			})
		case <-hs.done:
			return
		}
	}
}

// broadcastStatus periodically broadcasts status updates
func (hs *WebServer) broadcastStatus() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if hs.clientCount() > 0 {
				hs.publish(hs.buildStatusData())
			}
		case <-hs.done:
			return
		}
	}
}

// sendStatusToClient sends status data to a specific client
func (hs *WebServer) sendStatusToClient(conn *websocket.Conn) {
	if err := conn.WriteJSON(hs.buildStatusData()); err != nil {
		hs.scheduler.logger.Printf("Failed to send initial data: %v", err)
	}
}

// buildStatusData builds combined health and status data
func (hs *WebServer) buildStatusData() map[string]any {
	status := hs.scheduler.GetStatus()

	data := map[string]any{
		"type":             "status_update",
		"health":           hs.health(),
		"scheduler_status": status,
		"references":       driftRows(hs.scheduler.GetDrifts()),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	}

	if event, ok := hs.scheduler.GetLatestEvent(); ok {
		data["event"] = event
	}

	return data
}

// formatUptime formats a duration as a string with seconds rounded to integer
func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
