// Package httpx holds the response classification shared by provider clients
package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	perr "tubepulse/internal/platform/errors"
)

// maxErrBody bounds how much of an error body ends up in messages
const maxErrBody = 512

// Transport classifies a failed round trip; deadline overruns are Timeout, the rest Unavailable
func Transport(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return perr.Wrapf(err, perr.ErrorCodeTimeout, "%s request timed out", provider)
	}
	if errors.Is(err, context.Canceled) {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s request canceled", provider)
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s request failed", provider)
}

// Status maps a non 2xx response to a project error and closes its body; 2xx returns nil
func Status(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	_ = resp.Body.Close()
	msg := strings.TrimSpace(string(body))

	var code perr.ErrorCode
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		code = perr.ErrorCodeUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		code = perr.ErrorCodeForbidden
	case resp.StatusCode == http.StatusTooManyRequests:
		code = perr.ErrorCodeTooManyRequests
	case resp.StatusCode == http.StatusNotFound:
		code = perr.ErrorCodeNotFound
	case resp.StatusCode >= 500:
		code = perr.ErrorCodeUnavailable
	default:
		code = perr.ErrorCodeInvalidArgument
	}
	err := perr.Newf(code, "%s status %d: %s", provider, resp.StatusCode, msg)
	if code == perr.ErrorCodeTooManyRequests {
		if d := RetryAfter(resp.Header); d > 0 {
			err = perr.WithField(err, "retry_after="+d.String())
		}
	}
	return err
}

// RetryAfter reads a Retry-After header given in seconds
func RetryAfter(h http.Header) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// DrainAndClose discards a little of the body so the connection can be reused
func DrainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, maxErrBody))
	return rc.Close()
}
