package store

import (
	"time"

	"tubepulse/internal/core/version"
	"tubepulse/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot guard; zero values take the defaults below
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string

	// Role tags the connection in system.query_log, e.g. "ingest"
	Role string
}

const (
	defaultConnectRetries = 8
	defaultPingTimeout    = 3 * time.Second
	backoffStart          = 150 * time.Millisecond
	backoffCeiling        = 2 * time.Second
)

func (c PGConfig) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return defaultConnectRetries
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return defaultPingTimeout
}

// FromEnv reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* under root
// postgres is required; clickhouse is enabled only when its DBURL is set
func FromEnv(root config.Conf, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	chURL := ch.MayString("DBURL", "")
	return Config{
		AppName: version.ServiceName + "-" + role,
		PG: PGConfig{
			Enabled:        true,
			URL:            pg.MustString("DBURL"),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", defaultConnectRetries),
		},
		CH: CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
			Role:    role,
		},
	}
}
