// Package search is the client for the external keyword search provider
package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"tubepulse/internal/adapters/httpx"
	"tubepulse/internal/platform/config"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/logger"
)

const (
	defaultTimeout = 30 * time.Second
	maxResultBytes = 4 << 20
)

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// FromConfig reads BASE_URL, API_KEY and TIMEOUT under cfg, e.g. SEARCH_
func FromConfig(cfg config.Conf) Options {
	return Options{
		BaseURL: cfg.MayString("BASE_URL", ""),
		APIKey:  cfg.MayString("API_KEY", ""),
		Timeout: cfg.MayDuration("TIMEOUT", defaultTimeout),
	}
}

// Client runs keyword searches and returns the provider result untouched
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client; an empty BaseURL makes every search Unavailable
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{http: &http.Client{Timeout: o.Timeout}, opts: o, log: *logger.Named("search")}
}

// Search fetches results for keyword in category; the body must be a JSON document
func (c *Client) Search(ctx context.Context, keyword, category string, limit int) (json.RawMessage, error) {
	if c.opts.BaseURL == "" {
		return nil, perr.Unavailablef("search provider is not configured")
	}
	v := url.Values{}
	v.Set("q", keyword)
	v.Set("category", category)
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/search?"+v.Encode(), nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "search new request failed")
	}
	req.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("X-API-Key", c.opts.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httpx.Transport("search", err)
	}
	c.log.Debug().Str("keyword", keyword).Str("category", category).
		Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("search http response")

	if err := httpx.Status("search", resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBytes))
	_ = resp.Body.Close()
	if err != nil {
		return nil, httpx.Transport("search", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, perr.Wrap(perr.JSONErrf("search result is not valid JSON"), perr.ErrorCodeUnavailable, "search provider returned garbage")
	}
	return json.RawMessage(body), nil
}
