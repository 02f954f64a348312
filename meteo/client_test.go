package meteo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	userAgent := "TestApp/1.0 (test@example.com)"
	client := NewClient(userAgent)

	if client == nil {
		t.Fatal("NewClient returned nil")
	}

	if client.userAgent != userAgent {
		t.Errorf("Expected user agent %q, got %q", userAgent, client.userAgent)
	}

	if client.baseURL != "https://api.met.no/weatherapi/sunrise/3.0" {
		t.Errorf("Expected default base URL, got %q", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("HTTP client is nil")
	}
}

func TestNewClientOptions(t *testing.T) {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	client := NewClient("TestApp/1.0",
		WithHTTPClient(httpClient),
		WithBaseURL("https://mirror.example.com/sunrise/"),
	)

	if client.httpClient != httpClient {
		t.Error("Custom HTTP client was not set")
	}
	if client.baseURL != "https://mirror.example.com/sunrise" {
		t.Errorf("Expected trimmed base URL, got %q", client.baseURL)
	}

	client = NewClient("TestApp/1.0", WithTimeout(2*time.Second))
	if client.httpClient.Timeout != 2*time.Second {
		t.Errorf("Expected 2s timeout, got %v", client.httpClient.Timeout)
	}
}

func TestGetSun_UserAgentRequired(t *testing.T) {
	client := NewClient("")

	_, err := client.GetSun(context.Background(), SunParams{
		Location: Location{Latitude: 59.9139, Longitude: 10.7522},
		Date:     time.Now(),
	})
	if !errors.Is(err, ErrUserAgentRequired) {
		t.Errorf("Expected ErrUserAgentRequired, got %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	client := NewClient("TestApp/1.0")
	client.SetBaseURL("https://api.example.com")

	cest := time.FixedZone("CEST", 2*3600)

	tests := []struct {
		name     string
		params   SunParams
		expected string
	}{
		{
			name: "Offset from date location",
			params: SunParams{
				Location: Location{Latitude: 59.9139, Longitude: 10.7522},
				Date:     time.Date(2023, 6, 21, 9, 0, 0, 0, cest),
			},
			expected: "https://api.example.com/sun?date=2023-06-21&lat=59.9139&lon=10.7522&offset=%2B02%3A00",
		},
		{
			name: "Explicit offset",
			params: SunParams{
				Location: Location{Latitude: 43.268399, Longitude: -79.774549},
				Date:     time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
				Offset:   "-04:00",
			},
			expected: "https://api.example.com/sun?date=2024-06-21&lat=43.268399&lon=-79.774549&offset=-04%3A00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := client.buildURL("sun", tt.params)
			if err != nil {
				t.Fatalf("buildURL returned error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected URL %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetSun(t *testing.T) {
	data, err := os.ReadFile("../test_data/sunrise/oslo_2023-06-21.json")
	if err != nil {
		t.Fatalf("Failed to read test data file: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sun" {
			t.Errorf("Expected path '/sun', got '%s'", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "TestApp/1.0" {
			t.Errorf("Expected User-Agent 'TestApp/1.0', got '%s'", r.Header.Get("User-Agent"))
		}
		if r.URL.Query().Get("lat") != "59.9139" {
			t.Errorf("Expected lat parameter '59.9139', got '%s'", r.URL.Query().Get("lat"))
		}
		if r.URL.Query().Get("date") != "2023-06-21" {
			t.Errorf("Expected date parameter '2023-06-21', got '%s'", r.URL.Query().Get("date"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer server.Close()

	client := NewClient("TestApp/1.0")
	client.SetBaseURL(server.URL)

	resp, err := client.GetSun(context.Background(), SunParams{
		Location: Location{Latitude: 59.9139, Longitude: 10.7522},
		Date:     time.Date(2023, 6, 21, 0, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
	})
	if err != nil {
		t.Fatalf("GetSun returned error: %v", err)
	}

	if resp.Type != "Feature" {
		t.Errorf("Expected type 'Feature', got '%s'", resp.Type)
	}

	rise, set, ok := resp.RiseSet()
	if !ok {
		t.Fatal("Expected sunrise and sunset")
	}

	expectedRise := time.Date(2023, 6, 21, 1, 54, 0, 0, time.UTC)
	if !rise.Equal(expectedRise) {
		t.Errorf("Expected sunrise %v, got %v", expectedRise, rise.UTC())
	}
	expectedSet := time.Date(2023, 6, 21, 20, 44, 0, 0, time.UTC)
	if !set.Equal(expectedSet) {
		t.Errorf("Expected sunset %v, got %v", expectedSet, set.UTC())
	}

	if _, polar := resp.Polar(); polar {
		t.Error("Expected no polar condition for Oslo")
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Bad Request: Invalid parameters"))
	}))
	defer server.Close()

	client := NewClient("TestApp/1.0")
	client.SetBaseURL(server.URL)

	_, err := client.GetSun(context.Background(), SunParams{
		Location: Location{Latitude: 59.9139, Longitude: 10.7522},
		Date:     time.Now(),
	})
	if err == nil {
		t.Fatal("Expected API error, got nil")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("Expected APIError, got %T", err)
	}

	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, apiErr.StatusCode)
	}

	expectedMessage := "Bad Request: Invalid parameters"
	if apiErr.Message != expectedMessage {
		t.Errorf("Expected message '%s', got '%s'", expectedMessage, apiErr.Message)
	}
	if apiErr.Endpoint != "sun" {
		t.Errorf("Expected endpoint 'sun', got '%s'", apiErr.Endpoint)
	}
	if IsRetryable(err) {
		t.Error("Bad request should not be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"throttled", &APIError{StatusCode: http.StatusTooManyRequests}, true},
		{"server error", &APIError{StatusCode: http.StatusBadGateway}, true},
		{"forbidden", &APIError{StatusCode: http.StatusForbidden}, false},
		{"network", &NetworkError{Operation: "GET /sun", Err: errors.New("connection reset")}, true},
		{"wrapped network", fmt.Errorf("met: %w", &NetworkError{Operation: "GET /sun", Err: errors.New("eof")}), true},
		{"cancelled", context.Canceled, false},
		{"validation", &ValidationError{Field: "lat", Value: 91.0, Message: "must be between -90 and 90"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestGetSun_Expires(t *testing.T) {
	data, err := os.ReadFile("../test_data/sunrise/oslo_2023-06-21.json")
	if err != nil {
		t.Fatalf("Failed to read test data file: %v", err)
	}
	expires := time.Date(2023, 6, 21, 10, 30, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Expires", expires.Format(http.TimeFormat))
		w.Write(data)
	}))
	defer server.Close()

	client := NewClient("TestApp/1.0", WithBaseURL(server.URL))
	resp, err := client.GetSun(context.Background(), SunParams{
		Location: Location{Latitude: 59.9139, Longitude: 10.7522},
		Date:     time.Date(2023, 6, 21, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetSun returned error: %v", err)
	}
	if !resp.Expires.Equal(expires) {
		t.Errorf("Expected expiry %v, got %v", expires, resp.Expires)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateLocation(Location{Latitude: 91})
	if err == nil || err.Error() != "invalid lat 91: must be between -90 and 90" {
		t.Errorf("Unexpected error %v", err)
	}

	err = &ValidationError{Field: "date", Message: "must be set"}
	if err.Error() != "invalid date: must be set" {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient("TestApp/1.0")
	client.SetBaseURL(baseURL)

	_, err := client.GetSun(context.Background(), SunParams{
		Location: Location{Latitude: 59.9139, Longitude: 10.7522},
		Date:     time.Now(),
	})

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Expected NetworkError, got %T: %v", err, err)
	}
	if netErr.Unwrap() == nil {
		t.Error("Expected wrapped error")
	}
}

func TestGetSun_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient("TestApp/1.0")
	client.SetBaseURL(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetSun(ctx, SunParams{
		Location: Location{Latitude: 59.9139, Longitude: 10.7522},
		Date:     time.Now(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestGetSun_Validation(t *testing.T) {
	client := NewClient("TestApp/1.0")

	tests := []struct {
		name   string
		params SunParams
		field  string
	}{
		{"Latitude out of range", SunParams{Location: Location{Latitude: 91}, Date: time.Now()}, "lat"},
		{"Longitude out of range", SunParams{Location: Location{Longitude: -181}, Date: time.Now()}, "lon"},
		{"Missing date", SunParams{Location: Location{Latitude: 10}}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetSun(context.Background(), tt.params)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("Expected field '%s', got '%s'", tt.field, validationErr.Field)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{59.9139, "59.9139"},
		{10.0, "10"},
		{-123.456789, "-123.456789"},
		{0.0, "0"},
	}

	for _, tt := range tests {
		result := formatFloat(tt.input)
		if result != tt.expected {
			t.Errorf("formatFloat(%f) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
