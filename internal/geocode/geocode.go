// Package geocode wraps an external Nominatim-style address lookup
// service. It is a pure I/O adapter: no retries, no fallback logic of its
// own. Callers substitute the configured town-center default when a
// lookup fails or finds nothing.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cantilanlgu/lifeline/internal/geo"
)

const defaultTimeout = 10 * time.Second

// Client talks to a Nominatim-compatible geocoding endpoint. Forward
// lookups are cached for the process lifetime keyed by the raw address
// string, which covers the fixed hotline set and repeat renders.
type Client struct {
	endpoint   string
	country    string
	userAgent  string
	httpClient *http.Client
	cache      *gocache.Cache
}

// cachedLookup is what we keep per address so not-found results are
// cached as well, not just hits.
type cachedLookup struct {
	coord geo.Coordinate
	found bool
}

// New creates a geocoding client. country is appended to every forward
// lookup as a qualifier (e.g. "Philippines"). A non-positive timeout
// falls back to the default.
func New(endpoint, country string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		country:    country,
		userAgent:  "lifeline",
		httpClient: &http.Client{Timeout: timeout},
		cache:      gocache.New(gocache.NoExpiration, 0),
	}
}

// Lookup resolves a free-text address to a coordinate. ok=false means the
// provider found nothing; a non-nil error means the call itself failed.
// Either way the caller is expected to substitute a fallback coordinate.
// A single failed call is "unknown", never retried.
func (c *Client) Lookup(ctx context.Context, address string) (geo.Coordinate, bool, error) {
	if address == "" {
		return geo.Coordinate{}, false, nil
	}

	if v, hit := c.cache.Get(address); hit {
		cl := v.(cachedLookup)
		return cl.coord, cl.found, nil
	}

	query := address
	if c.country != "" {
		query = address + ", " + c.country
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("geocode: invalid endpoint: %w", err)
	}
	u.Path = "/search"
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return geo.Coordinate{}, false, err
	}

	// Nominatim returns numeric fields as strings.
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		c.cache.Set(address, cachedLookup{}, gocache.NoExpiration)
		return geo.Coordinate{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("geocode: parse lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("geocode: parse lon %q: %w", results[0].Lon, err)
	}

	coord := geo.Coordinate{Lat: lat, Lon: lon}
	c.cache.Set(address, cachedLookup{coord: coord, found: true}, gocache.NoExpiration)
	return coord, true, nil
}

// Reverse resolves a coordinate to a formatted address string. ok=false
// means the provider has no address for the point; callers substitute a
// placeholder string.
func (c *Client) Reverse(ctx context.Context, coord geo.Coordinate) (string, bool, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", false, fmt.Errorf("geocode: invalid endpoint: %w", err)
	}
	u.Path = "/reverse"
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return "", false, err
	}

	var result struct {
		DisplayName string `json:"display_name"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", false, fmt.Errorf("geocode: decode response: %w", err)
	}
	if result.DisplayName == "" {
		return "", false, nil
	}
	return result.DisplayName, true, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("geocode: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: provider returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
