// Package schema embeds the postgres DDL and applies it in file order
package schema

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
)

//go:embed *.sql
var files embed.FS

// Files returns the embedded DDL file names in apply order
func Files() []string {
	names, _ := fs.Glob(files, "*.sql")
	sort.Strings(names)
	return names
}

// Apply runs every DDL file in one transaction; statements are idempotent
func Apply(ctx context.Context, db store.TxRunner) error {
	return db.Tx(ctx, func(q store.RowQuerier) error {
		for _, name := range Files() {
			body, err := files.ReadFile(name)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeUnknown, "schema: read %s", name)
			}
			if _, err := q.Exec(ctx, string(body)); err != nil {
				return perr.FromPostgresf(err, "schema: apply %s", name)
			}
		}
		return nil
	})
}
