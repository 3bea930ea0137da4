// Package module wires the snapshot store as a modkit module
package module

import (
	"context"

	"tubepulse/internal/modkit"
	"tubepulse/internal/platform/config"
	"tubepulse/internal/services/snapshots/domain"
	snaprepo "tubepulse/internal/services/snapshots/repo"
	snapsvc "tubepulse/internal/services/snapshots/service"
)

// Name is the registry name of the module
const Name = "snapshots"

// Ports exported by the snapshot module
type Ports struct {
	Writer domain.Writer
	Reader domain.Reader
}

// Options for the snapshot module
type Options struct {
	Archive bool
}

// FromConfig fills options from environment
// SNAPSHOTS_ARCHIVE (default true) mirrors writes to clickhouse when clickhouse is enabled
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SNAPSHOTS_")
	return Options{Archive: c.MayBool("ARCHIVE", true)}
}

// New constructs the module and registers its ports; it has no routes
func New(deps modkit.Deps) modkit.Mounted {
	opts := FromConfig(deps.Cfg)

	var archive domain.Archive
	if a := snaprepo.NewArchive(deps.CH, nil); a != nil && opts.Archive {
		archive = a
	}
	svc := snapsvc.New(deps.PG, snaprepo.NewPG(), archive)

	return modkit.New(
		modkit.WithName(Name),
		modkit.WithPorts(Ports{Writer: svc, Reader: svc}),
	)
}

// Migrate creates the clickhouse mirror table when clickhouse is enabled
func Migrate(ctx context.Context, deps modkit.Deps) error {
	a := snaprepo.NewArchive(deps.CH, nil)
	if a == nil {
		return nil
	}
	return a.Ensure(ctx)
}
