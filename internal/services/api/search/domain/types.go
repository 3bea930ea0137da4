// Package domain holds the cache key and contracts of the search gate
package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	perr "tubepulse/internal/platform/errors"
	ptime "tubepulse/internal/platform/time"
)

// DefaultCategory is used when the caller names none
const DefaultCategory = "ALL"

// Key identifies one cached search result; one provider call per key per day
type Key struct {
	Keyword        string
	CollectionDate time.Time
	Category       string
}

// NewKey normalizes keyword and category and pins the key to the UTC date of now
// keywords are case folded with inner whitespace collapsed; categories are upper cased
func NewKey(keyword, category string, now time.Time) (Key, error) {
	kw := strings.ToLower(strings.Join(strings.Fields(keyword), " "))
	if kw == "" {
		return Key{}, perr.WithField(perr.InvalidArgf("keyword is required"), "keyword")
	}
	cat := strings.ToUpper(strings.TrimSpace(category))
	if cat == "" {
		cat = DefaultCategory
	}
	return Key{Keyword: kw, CollectionDate: ptime.Day(now), Category: cat}, nil
}

// String renders the key for logs and singleflight
func (k Key) String() string {
	return k.Keyword + "|" + ptime.FormatDate(k.CollectionDate) + "|" + k.Category
}

// Input is a search request
type Input struct {
	Keyword  string
	Category string
	Limit    int
}

// Result is a provider blob with the key it is cached under
type Result struct {
	Keyword        string          `json:"keyword"`
	Category       string          `json:"category"`
	CollectionDate string          `json:"collection_date"`
	Cached         bool            `json:"cached"`
	Result         json.RawMessage `json:"result"`
}

// Searcher is the external search provider
type Searcher interface {
	Search(ctx context.Context, keyword, category string, limit int) (json.RawMessage, error)
}

// StorageRepo persists cached results
type StorageRepo interface {
	Get(ctx context.Context, k Key) (json.RawMessage, bool, error)
	Upsert(ctx context.Context, k Key, blob json.RawMessage) error
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Search(ctx context.Context, in Input) (Result, error)
}
