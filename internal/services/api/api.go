// Package api composes the read API modules under /api/v1
package api

import (
	"tubepulse/internal/platform/config"
	phttp "tubepulse/internal/platform/net/http"
	"tubepulse/internal/platform/store"

	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/module"
	"tubepulse/internal/modkit/swaggerkit"

	analyticsmod "tubepulse/internal/services/api/analytics/module"
	commentsmod "tubepulse/internal/services/api/comments/module"
	keywordsmod "tubepulse/internal/services/api/keywords/module"
	metamod "tubepulse/internal/services/api/meta/module"
	searchdom "tubepulse/internal/services/api/search/domain"
	searchmod "tubepulse/internal/services/api/search/module"
	snapmod "tubepulse/internal/services/snapshots/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
	// Search overrides the provider client built from SEARCH_* config
	Search searchdom.Searcher
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.FromStore(opt.Store, opt.Config)

	var checks map[string]store.Pinger
	if opt.Store != nil {
		checks = opt.Store.Checks()
	}

	// snapshots owns the Reader port analytics reads through
	snaps := snapmod.New(deps)

	mods := []module.Module{
		metamod.New(deps, "tubepulse-api", checks),
		snaps,
		analyticsmod.New(deps, snaps),
		commentsmod.New(deps),
		keywordsmod.New(deps),
		searchmod.New(deps, opt.Search),
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackFromConfig(opt.Config.Prefix("HTTP_")))
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
