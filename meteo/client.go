package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devskill-org/sunrise/utils"
)

// DefaultBaseURL is the MET Norway Sunrise API root
const DefaultBaseURL = "https://api.met.no/weatherapi/sunrise/3.0"

// maxErrorBody caps how much of an error response ends up in APIError
const maxErrorBody = 512

// Client talks to the MET Norway Sunrise API
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithBaseURL points the client at another API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: timeout} }
}

// NewClient creates a client identifying itself with userAgent, as MET's
// terms of service require
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetBaseURL sets the base URL for the API (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	WithBaseURL(baseURL)(c)
}

// GetSun retrieves sunrise, sunset and solar noon for one position and day.
// The response's Expires field carries the server's cache deadline when sent.
func (c *Client) GetSun(ctx context.Context, params SunParams) (*SunResponse, error) {
	if c.userAgent == "" {
		return nil, ErrUserAgentRequired
	}
	if err := ValidateLocation(params.Location); err != nil {
		return nil, err
	}
	if params.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "must be set"}
	}

	reqURL, err := c.buildURL("sun", params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &NetworkError{Operation: "GET " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   "sun",
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var sun SunResponse
	if err := json.NewDecoder(resp.Body).Decode(&sun); err != nil {
		return nil, fmt.Errorf("failed to decode sun response: %w", err)
	}
	if expires, err := http.ParseTime(resp.Header.Get("Expires")); err == nil {
		sun.Expires = expires
	}

	return &sun, nil
}

func (c *Client) buildURL(endpoint string, params SunParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u.Path = u.Path + "/" + endpoint

	offset := params.Offset
	if offset == "" {
		offset = utils.GetOffsetString(params.Date)
	}

	query := url.Values{}
	query.Set("lat", formatFloat(params.Location.Latitude))
	query.Set("lon", formatFloat(params.Location.Longitude))
	query.Set("date", utils.GetDateString(params.Date))
	query.Set("offset", offset)

	u.RawQuery = query.Encode()
	return u.String(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ValidateLocation checks that a position is on the globe
func ValidateLocation(loc Location) error {
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return &ValidationError{Field: "lat", Value: loc.Latitude, Message: "must be between -90 and 90"}
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return &ValidationError{Field: "lon", Value: loc.Longitude, Message: "must be between -180 and 180"}
	}
	return nil
}
