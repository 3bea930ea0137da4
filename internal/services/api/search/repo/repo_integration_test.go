//go:build integration_pg

package repo

import (
	"context"
	"encoding/json"
	"testing"

	"tubepulse/internal/platform/store"
	"tubepulse/internal/platform/testkit/pgtest"
)

func TestUpsertOverwrites_Integration(t *testing.T) {
	st := pgtest.Start(t)
	ctx := context.Background()
	r := NewPG().Bind(st.PG)

	if err := r.Upsert(ctx, key, json.RawMessage(`{"v":1}`)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := r.Upsert(ctx, key, json.RawMessage(`{"v":2}`)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	blob, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: %v %v", ok, err)
	}
	var got struct{ V int }
	if err := json.Unmarshal(blob, &got); err != nil || got.V != 2 {
		t.Fatalf("blob = %s", blob)
	}

	n, err := store.Scalar[int64](ctx, st.PG, `select count(*) from search_cache where keyword = $1`, key.Keyword)
	if err != nil || n != 1 {
		t.Fatalf("rows = %d %v", n, err)
	}
}
