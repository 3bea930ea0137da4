// Package strings provides small string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content, otherwise panics naming what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path to a single leading slash and no trailing slash
// panics on an empty or root path
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Or returns the first non blank value
func Or(vals ...string) string {
	for _, v := range vals {
		if std.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
