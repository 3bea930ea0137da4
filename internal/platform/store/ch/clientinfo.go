package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process in clickhouse's system.query_log
// role examples: "api", "ingest"
func BuildClientInfo(app, role string) clickhouse.ClientInfo {
	host, _ := os.Hostname()

	type kv = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []kv{
		{Name: orDefault(app, "tubepulse"), Version: vcsShortSHA()},
		{Name: "role", Version: orDefault(role, "unknown")},
		{Name: "go", Version: runtime.Version()},
		{Name: "host", Version: strings.TrimSpace(host)},
	}}
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
