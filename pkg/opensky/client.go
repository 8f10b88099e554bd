package opensky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

const (
	defaultBaseURL = "https://opensky-network.org/api"

	// OpenSky OAuth2 token endpoint
	defaultTokenURL = "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"

	defaultTimeout = 30 * time.Second

	// MaxWindow is the longest interval the flights endpoints accept.
	MaxWindow = 7 * 24 * time.Hour
)

var (
	ErrInvalidWindow = errors.New("end must be after begin")
	ErrWindowTooLong = errors.New("time window must not exceed 7 days")
	ErrUpstream      = errors.New("opensky request failed")
)

// Direction selects the arrivals or the departures endpoint.
type Direction string

const (
	Arrival   Direction = "arrival"
	Departure Direction = "departure"
)

func (d Direction) path() string {
	return "/flights/" + string(d)
}

// UpstreamError reports a non-200 answer from OpenSky.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: unexpected status: %d", ErrUpstream, e.Endpoint, e.StatusCode)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets the API root (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout bounds every flights request. It also becomes the timeout of
// the default HTTP client, which token requests go through.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithCredentials sets Basic Auth credentials (legacy OpenSky accounts).
func WithCredentials(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithClientCredentials enables OAuth2 client-credentials authentication.
// It takes precedence over Basic Auth.
func WithClientCredentials(clientID, clientSecret string) ClientOption {
	return func(c *Client) {
		c.oauth = &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     defaultTokenURL,
		}
	}
}

// WithTokenURL overrides the OAuth2 token endpoint. Only meaningful after
// WithClientCredentials.
func WithTokenURL(url string) ClientOption {
	return func(c *Client) {
		if c.oauth != nil {
			c.oauth.TokenURL = url
		}
	}
}

// Client fetches flights by airport from the OpenSky Network API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	username   string
	password   string
	oauth      *clientcredentials.Config
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.oauth != nil {
		// The token source reuses the base client for token requests.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		authed := c.oauth.Client(ctx)
		authed.Timeout = c.httpClient.Timeout
		c.httpClient = authed
	}
	return c
}

// ValidateWindow checks the interval the same way OpenSky does before any
// request is sent.
func ValidateWindow(begin, end time.Time) error {
	b, e := begin.Unix(), end.Unix()
	if b >= e {
		return fmt.Errorf("%w: begin %d, end %d", ErrInvalidWindow, b, e)
	}
	if e-b > int64(MaxWindow/time.Second) {
		return fmt.Errorf("%w: %s", ErrWindowTooLong, end.Sub(begin))
	}
	return nil
}

// Arrivals returns the flights that arrived at airport within [begin, end].
func (c *Client) Arrivals(ctx context.Context, airport string, begin, end time.Time) ([]typing.RawFlight, error) {
	return c.Flights(ctx, Arrival, airport, begin, end)
}

// Departures returns the flights that departed from airport within [begin, end].
func (c *Client) Departures(ctx context.Context, airport string, begin, end time.Time) ([]typing.RawFlight, error) {
	return c.Flights(ctx, Departure, airport, begin, end)
}

func (c *Client) Flights(ctx context.Context, dir Direction, airport string, begin, end time.Time) ([]typing.RawFlight, error) {
	body, err := c.FlightsJSON(ctx, dir, airport, begin, end)
	if err != nil {
		return nil, err
	}

	var flights []typing.RawFlight
	if err := json.Unmarshal(body, &flights); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", dir, err)
	}
	return flights, nil
}

// ArrivalsJSON returns the arrivals response body untouched.
func (c *Client) ArrivalsJSON(ctx context.Context, airport string, begin, end time.Time) ([]byte, error) {
	return c.FlightsJSON(ctx, Arrival, airport, begin, end)
}

// DeparturesJSON returns the departures response body untouched.
func (c *Client) DeparturesJSON(ctx context.Context, airport string, begin, end time.Time) ([]byte, error) {
	return c.FlightsJSON(ctx, Departure, airport, begin, end)
}

// FlightsJSON returns the response body untouched.
func (c *Client) FlightsJSON(ctx context.Context, dir Direction, airport string, begin, end time.Time) ([]byte, error) {
	if err := ValidateWindow(begin, end); err != nil {
		return nil, err
	}

	params := url.Values{
		"airport": {airport},
		"begin":   {strconv.FormatInt(begin.Unix(), 10)},
		"end":     {strconv.FormatInt(end.Unix(), 10)},
	}
	endpoint := c.baseURL + dir.path()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.oauth == nil && c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			Endpoint:   dir.path(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return body, nil
}
