// Package navis polls a Navis live-data sensor over HTTP and turns its
// historical and live responses into wind reports.
package navis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultBaseURL is the public Navis live-data site
	DefaultBaseURL = "https://www.navis-livedata.com"
	DefaultTimeout = 15 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"

	// bodyLimit caps how much of a response is read; a day of history is well under this
	bodyLimit = 4 << 20
)

// ErrEmptyResponse is returned when the server answers with no data or with
// its literal "error" body.
var ErrEmptyResponse = errors.New("navis: empty or error response")

// Client fetches raw records for one sensor. The server ties queries to a
// session cookie obtained from the station's view page, so Bootstrap must
// succeed before FetchLive or FetchHistory.
type Client struct {
	baseURL  string
	viewUser string
	imei     string
	http     *http.Client
	logger   *zap.SugaredLogger
}

// NewClient creates a client for the sensor identified by imei, viewed
// through the page of viewUser. An empty baseURL selects DefaultBaseURL and a
// zero timeout selects DefaultTimeout.
func NewClient(baseURL, viewUser, imei string, timeout time.Duration, logger *zap.SugaredLogger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		viewUser: viewUser,
		imei:     imei,
		http:     &http.Client{Timeout: timeout, Jar: jar},
		logger:   logger,
	}, nil
}

func (c *Client) viewURL() string {
	return c.baseURL + "/view.php?u=" + url.QueryEscape(c.viewUser)
}

func (c *Client) queryURL(params url.Values) string {
	params.Set("imei", c.imei)
	return c.baseURL + "/query.php?" + params.Encode()
}

// Bootstrap loads the view page to establish a session cookie.
func (c *Client) Bootstrap(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.viewURL(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9,fr;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, bodyLimit))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to establish session: unexpected status code: %d", resp.StatusCode)
	}

	c.logger.Debugf("session established for view user %s", c.viewUser)
	return nil
}

// FetchLive returns the body of the live query, e.g. "id:ts:hex".
func (c *Client) FetchLive(ctx context.Context) (string, error) {
	return c.query(ctx, url.Values{"type": {"live"}})
}

// FetchHistory returns the pipe-delimited history between from and to.
func (c *Client) FetchHistory(ctx context.Context, from, to time.Time) (string, error) {
	return c.query(ctx, url.Values{
		"type": {"data"},
		"from": {strconv.FormatInt(from.Unix(), 10)},
		"to":   {strconv.FormatInt(to.Unix(), 10)},
	})
}

func (c *Client) query(ctx context.Context, params url.Values) (string, error) {
	fetchID := uuid.New().String()
	queryType := params.Get("type")

	req, err := http.NewRequestWithContext(ctx, "GET", c.queryURL(params), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Referer", c.viewURL())
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query %s data: %w", queryType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s query: unexpected status code: %d", queryType, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", queryType, err)
	}

	content := strings.TrimSpace(string(body))
	c.logger.Debugw("navis query complete",
		"fetch_id", fetchID,
		"type", queryType,
		"bytes", len(content),
		"duration", time.Since(start),
	)

	if content == "" || content == "error" {
		return "", fmt.Errorf("%s query: %w", queryType, ErrEmptyResponse)
	}

	return content, nil
}
