// Package config reads application configuration from environment variables
package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"tubepulse/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, e.g. "INGEST_"
type Conf struct{ prefix string }

// New creates a root Conf
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) raw(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// must panics through the logger when key is empty or parse fails
func must[T any](c Conf, key, what string, parse func(string) (T, error)) T {
	s := c.raw(key)
	if s == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", c.key(key)).Str("value", s).Msg("invalid " + what)
	}
	return v
}

// may returns def when key is empty and logs then returns def when parse fails
func may[T any](c Conf, key, what string, def T, parse func(string) (T, error)) T {
	s := c.raw(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msg("invalid " + what + "; using default")
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

// MustString panics if key is missing or empty
func (c Conf) MustString(key string) string { return must(c, key, "string", parseString) }

// MustInt panics if key is missing or not an int
func (c Conf) MustInt(key string) int { return must(c, key, "int", strconv.Atoi) }

// MustDuration panics if key is missing or not a duration like 250ms or 24h
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration", time.ParseDuration)
}

// MustURL panics if key is missing or not an absolute URL
func (c Conf) MustURL(key string) *url.URL {
	return must(c, key, "absolute URL", func(s string) (*url.URL, error) {
		u, err := url.Parse(s)
		if err == nil && !u.IsAbs() {
			err = errNotAbsolute
		}
		return u, err
	})
}

var errNotAbsolute = errors.New("url is not absolute")

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return may(c, key, "string", def, parseString) }

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, "int", def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, "float64", def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, "bool", def, strconv.ParseBool) }

// MayDuration returns the value or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, "duration", def, time.ParseDuration)
}

// MayCSV splits a comma separated value dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for p := range strings.SplitSeq(c.raw(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayInts parses a comma separated list of ints; any bad element gives def
func (c Conf) MayInts(key string, def []int) []int {
	parts := c.MayCSV(key, nil)
	if len(parts) == 0 {
		return def
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			logger.Get().Warn().Str("key", c.key(key)).Str("value", p).Msg("invalid int list; using default")
			return def
		}
		out = append(out, n)
	}
	return out
}

// MayEnum returns the value lowercased if it is one of allowed, def when empty, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	if v == def {
		return v
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
