// Package version reports build metadata stamped with -ldflags
package version

// ServiceName is the product name used in logs, docs and the application_name of db sessions
const ServiceName = "tubepulse"

// Version, Commit and Date are set at build time, e.g.
//
//	-ldflags "-X tubepulse/internal/core/version.Version=v0.3.0 -X tubepulse/internal/core/version.Commit=abcd"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the named binary, e.g. tubepulse-api
func Info(binary string) BuildInfo {
	if binary == "" {
		binary = ServiceName
	}
	return BuildInfo{Service: binary, Version: Version, Commit: Commit, Date: Date}
}
