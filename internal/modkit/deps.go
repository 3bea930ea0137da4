// Package modkit provides module wiring and core deps
package modkit

import (
	"tubepulse/internal/modkit/repokit"
	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/logger"
	"tubepulse/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// CH is nil when the ClickHouse archive is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore builds Deps over an opened store
func FromStore(st *store.Store, cfg config.Conf) Deps {
	d := Deps{Log: *logger.Get(), Cfg: cfg}
	if st != nil {
		d.Log = st.Log
		d.PG = st.PG
		d.CH = st.CH
	}
	return d
}
