// Package service ranks the keywords of a channel's recent uploads
package service

import (
	"context"
	"time"

	"tubepulse/internal/core/keywords"
	"tubepulse/internal/modkit/repokit"
	"tubepulse/internal/services/api/keywords/domain"
	"tubepulse/internal/services/api/keywords/repo"
)

// Service defines the keywords service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the keywords service
type Svc struct {
	Repo      repo.Repo
	Stopwords keywords.Stopwords
	Now       func() time.Time
}

// New constructs a keywords service with a stopword set built by the caller
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], sw keywords.Stopwords) *Svc {
	if db == nil {
		panic("keywords.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("keywords.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), Stopwords: sw, Now: time.Now}
}

func clamp(n int) int {
	if n <= 0 {
		return domain.DefaultLimit
	}
	return min(n, domain.MaxLimit)
}

// Top ranks terms across titles, descriptions and tags in the window
func (s *Svc) Top(ctx context.Context, in domain.Input) (domain.Out, error) {
	w := in.Period.Window(s.Now().UTC())
	vids, err := s.Repo.Texts(ctx, in.ChannelID, w.Start, w.End)
	if err != nil {
		return domain.Out{}, err
	}
	texts := make([]string, 0, len(vids)*3)
	for _, v := range vids {
		texts = append(texts, v.Title, v.Description)
		texts = append(texts, v.Tags...)
	}
	return domain.Out{Window: w, Terms: keywords.Rank(texts, s.Stopwords, clamp(in.Limit))}, nil
}
