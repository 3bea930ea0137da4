// Package module wires keyword ranking into the API using modkit
package module

import (
	"tubepulse/internal/core/keywords"
	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/swaggerkit"
	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/logger"
	"tubepulse/internal/services/api/keywords/domain"
	kwhttp "tubepulse/internal/services/api/keywords/http"
	kwrepo "tubepulse/internal/services/api/keywords/repo"
	kwsvc "tubepulse/internal/services/api/keywords/service"
)

// Prefix is the route prefix, relative to the versioned api root
const Prefix = "/channels/{channelID}/keywords"

// Ports exported by the keywords module
type Ports struct {
	Service domain.ServicePort
}

// Stopwords builds the stopword set once from the built in lists and
// KEYWORDS_STOPWORDS_EXTRA, a csv of lang:word entries
func Stopwords(cfg config.Conf) keywords.Stopwords {
	extra := cfg.Prefix("KEYWORDS_").MayCSV("STOPWORDS_EXTRA", nil)
	sw := keywords.DefaultStopwords().With(extra...)
	logger.Get().Debug().Strs("languages", sw.Languages()).Int("extra", len(extra)).Msg("keywords: stopwords loaded")
	return sw
}

// New constructs the keywords module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Mounted {
	svc := kwsvc.New(deps.PG, kwrepo.NewPG(), Stopwords(deps.Cfg))

	swaggerkit.Document(swaggerkit.Route{
		Method: "get", Path: "/api/v1" + Prefix, Summary: "Top keywords of recent uploads", Tag: "keywords",
	})

	return modkit.New(append([]modkit.Option{
		modkit.WithName("keywords"),
		modkit.WithPrefix(Prefix),
		modkit.WithPorts(Ports{Service: svc}),
		modkit.WithRegister(func(r httpkit.Router) { kwhttp.Register(r, svc) }),
	}, opts...)...)
}
