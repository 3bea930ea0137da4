// Package analytics is the client for the provider's reporting API
package analytics

import (
	"cmp"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tubepulse/internal/adapters/httpx"
	"tubepulse/internal/core/version"
	"tubepulse/internal/platform/config"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/logger"
	ptime "tubepulse/internal/platform/time"
)

const (
	baseURLDefault = "https://youtubeanalytics.googleapis.com/v2"
	defaultTimeout = 20 * time.Second
	maxReportBytes = 8 << 20
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// RPS and Burst bound outgoing requests to stay inside provider quota; RPS <= 0 disables
	RPS   float64
	Burst int
}

// FromConfig reads BASE_URL, TOKEN, TIMEOUT, RPS and BURST under cfg, e.g. ANALYTICS_
func FromConfig(cfg config.Conf) Options {
	return Options{
		BaseURL: cfg.MayString("BASE_URL", baseURLDefault),
		Token:   cfg.MayString("TOKEN", ""),
		Timeout: cfg.MayDuration("TIMEOUT", defaultTimeout),
		RPS:     cfg.MayFloat64("RPS", 5),
		Burst:   cfg.MayInt("BURST", 5),
	}
}

// Query asks for one report; Token overrides the client token for per channel credentials
type Query struct {
	EntityID   string
	Start      time.Time
	End        time.Time
	Metrics    []string
	Dimensions []string
	Filters    string
	Token      string
}

// Client fetches reports; it never retries, callers decide what a failure means
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
}

// NewClient creates a Client with defaults applied
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = version.ServiceName + "-ingest"
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if o.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(o.RPS), max(o.Burst, 1))
	}
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: lim,
		log:     *logger.Named("analytics"),
		now:     time.Now,
	}
}

func (c *Client) reportURL(q Query) string {
	v := url.Values{}
	v.Set("ids", "channel=="+q.EntityID)
	v.Set("startDate", ptime.FormatDate(q.Start))
	v.Set("endDate", ptime.FormatDate(q.End))
	v.Set("metrics", strings.Join(q.Metrics, ","))
	if len(q.Dimensions) > 0 {
		v.Set("dimensions", strings.Join(q.Dimensions, ","))
	}
	if q.Filters != "" {
		v.Set("filters", q.Filters)
	}
	return c.opts.BaseURL + "/reports?" + v.Encode()
}

// Query waits for a rate token, fetches the report and parses its envelope
func (c *Client) Query(ctx context.Context, q Query) (Report, error) {
	if q.EntityID == "" || len(q.Metrics) == 0 {
		return Report{}, perr.InvalidArgf("analytics query needs an entity and metrics")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Report{}, httpx.Transport("analytics", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.reportURL(q), nil)
	if err != nil {
		return Report{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "analytics new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if tok := cmp.Or(q.Token, c.opts.Token); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, httpx.Transport("analytics", err)
	}
	c.log.Debug().
		Str("entity_id", q.EntityID).
		Str("date", ptime.FormatDate(q.Start)).
		Strs("dimensions", q.Dimensions).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("analytics http response")

	if err := httpx.Status("analytics", resp); err != nil {
		return Report{}, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes))
	_ = resp.Body.Close()
	if err != nil {
		return Report{}, httpx.Transport("analytics", err)
	}
	return ParseReport(body)
}
