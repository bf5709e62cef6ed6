// Package timesource fetches the current Unix time from an HTTP endpoint that
// answers with the number of seconds as plain text.
package timesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultURL answers with the current Unix time in seconds.
const DefaultURL = "https://io.adafruit.com/api/v2/time/seconds"

const maxBody = 64

// ErrBadPayload is returned when the response is not a non-negative integer.
var ErrBadPayload = errors.New("timesource: payload is not a unix timestamp")

// Client fetches timestamps over HTTP.
type Client struct {
	http *http.Client
}

// New creates a client whose requests give up after timeout.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch returns the integer seconds served at url.
func (c *Client) Fetch(ctx context.Context, url string) (int64, error) {
	slog.Debug("timesource: fetching", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("timesource: create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("timesource: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("timesource: %s returned status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return 0, fmt.Errorf("timesource: read body: %w", err)
	}
	if len(body) > maxBody {
		return 0, fmt.Errorf("%w: body longer than %d bytes", ErrBadPayload, maxBody)
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadPayload, body)
	}
	return secs, nil
}
