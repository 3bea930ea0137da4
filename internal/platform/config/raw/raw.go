// Package raw is the bootstrap env reader the logger uses
// it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed view over environment variables
type Conf struct{ prefix string }

// New returns a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child Conf, e.g. Prefix("LOG_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.prefix + k)) }

// Get returns the trimmed value or def when empty
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1|true|yes|on, anything else is false; empty gives def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.lookup(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// GetInt parses a non negative integer; empty or malformed gives def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
