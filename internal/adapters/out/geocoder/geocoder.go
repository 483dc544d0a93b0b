// Package geocoder resolves street addresses to coordinates through a
// Nominatim-compatible search endpoint.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

const (
	DefaultTimeout = 3 * time.Second
	dependency     = "geocoder"
	maxBody        = 1 << 20
)

// ErrAddressNotFound is returned when the address yields no match.
var ErrAddressNotFound = ports.ErrAddressNotFound

// Client implements ports.Geocoder.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a client for baseURL. A non-positive timeout means
// DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errs.NewValueIsRequiredError("geocoder url")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("geocoder url", fmt.Errorf("%q is not an absolute url", baseURL))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger.With("component", "geocoder"),
	}, nil
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the first match for address. Timeouts, transport failures
// and 5xx answers become errs.UnavailableError; an empty result is
// ErrAddressNotFound.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(address), nil)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "geocoder request failed", "error", err, "elapsed", time.Since(started))
		return kernel.GeoPoint{}, errs.NewUnavailableError(dependency, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		// The geocoder could not make sense of the address itself.
		return kernel.GeoPoint{}, fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	default:
		// Rate limits, auth failures and server errors are ours to retry.
		c.logger.WarnContext(ctx, "geocoder refused request", "status", resp.StatusCode, "elapsed", time.Since(started))
		return kernel.GeoPoint{}, errs.NewUnavailableError(dependency, fmt.Errorf("status %d", resp.StatusCode))
	}

	var results []searchResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&results); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return kernel.GeoPoint{}, errs.NewUnavailableError(dependency, err)
		}
		return kernel.GeoPoint{}, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	}

	return parsePoint(results[0])
}

func (c *Client) searchURL(address string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/search"
	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()
	return u.String()
}

func parsePoint(r searchResult) (kernel.GeoPoint, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("geocoder latitude %q: %w", r.Lat, err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("geocoder longitude %q: %w", r.Lon, err)
	}
	return kernel.NewGeoPoint(lat, lng)
}
