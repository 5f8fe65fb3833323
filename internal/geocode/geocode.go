package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"charityportal/pkg/types"
)

var ErrNoMatch = errors.New("address did not resolve to a coordinate")

const maxResponseBytes = 1 << 20

// Candidate paths for the first match, in the order they are tried. The
// first covers Nominatim style arrays, the second Google style results.
var matchPaths = []struct {
	lat string
	lng string
}{
	{lat: "0.lat", lng: "0.lon"},
	{lat: "results.0.geometry.location.lat", lng: "results.0.geometry.location.lng"},
	{lat: "lat", lng: "lng"},
}

// Client resolves free-text addresses against an HTTP geocoder.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
}

func New(endpoint string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid geocoder url %q", endpoint)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	return &Client{endpoint: u, httpClient: httpClient}, nil
}

func (c *Client) Geocode(ctx context.Context, address string) (types.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Coordinate{}, ErrNoMatch
	}

	u := *c.endpoint
	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.Coordinate{}, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Coordinate{}, fmt.Errorf("failed to geocode address: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return types.Coordinate{}, fmt.Errorf("failed to read geocode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return types.Coordinate{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return types.Coordinate{}, errors.New("geocoder response is not valid json")
	}

	root := gjson.ParseBytes(body)
	for _, p := range matchPaths {
		lat, lng := root.Get(p.lat), root.Get(p.lng)
		if lat.Exists() && lng.Exists() {
			return types.Coordinate{Lat: lat.Float(), Lng: lng.Float()}, nil
		}
	}

	return types.Coordinate{}, ErrNoMatch
}
