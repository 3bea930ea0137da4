package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/services/snapshots/domain"
)

// memRepo is an in memory StorageRepo keyed like the table
type memRepo struct {
	rows    map[domain.Key]domain.Snapshot
	failKey string
}

func (m *memRepo) Upsert(_ context.Context, s domain.Snapshot) error {
	if s.EntityID == m.failKey {
		return perr.New(perr.ErrorCodeDB, "boom")
	}
	m.rows[s.Key] = s
	return nil
}

func (m *memRepo) Get(_ context.Context, k domain.Key) (domain.Snapshot, bool, error) {
	s, ok := m.rows[k]
	return s, ok, nil
}

func (m *memRepo) Range(_ context.Context, id string, from, to time.Time, kind domain.DimensionKind) ([]domain.Snapshot, error) {
	out := []domain.Snapshot{}
	for k, s := range m.rows {
		if k.EntityID == id && k.Dimension.Kind == kind && !k.Date.Before(from) && !k.Date.After(to) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b domain.Snapshot) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Dimension.Value, b.Dimension.Value)
	})
	return out, nil
}

// txQ satisfies TxRunner and counts transactions
type txQ struct{ txs int }

func (t *txQ) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (t *txQ) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (t *txQ) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (t *txQ) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	t.txs++
	return fn(t)
}

type recArchive struct {
	batches [][]domain.Snapshot
	err     error
}

func (a *recArchive) Append(_ context.Context, b []domain.Snapshot) error {
	a.batches = append(a.batches, b)
	return a.err
}

func newSvc(a domain.Archive) (*Service, *memRepo, *txQ) {
	m := &memRepo{rows: map[domain.Key]domain.Snapshot{}}
	tx := &txQ{}
	return New(tx, repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return m }), a), m, tx
}

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestUpsertSecondWriteWins(t *testing.T) {
	t.Parallel()

	svc, m, _ := newSvc(nil)
	ctx := context.Background()
	// a non midnight timestamp lands on the same key
	first := domain.Snapshot{Key: domain.Key{EntityID: "UC1", Date: day.Add(5 * time.Hour)}, Measures: domain.Measures{Views: 10}}
	second := domain.Snapshot{Key: domain.NewKey("UC1", day, domain.Dimension{}), Measures: domain.Measures{Views: 25, Likes: 3}}

	if err := svc.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := svc.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if len(m.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(m.rows))
	}
	got, ok, err := svc.Get(ctx, domain.NewKey("UC1", day, domain.Dimension{}))
	if err != nil || !ok {
		t.Fatalf("Get ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(domain.Measures{Views: 25, Likes: 3}, got.Measures); diff != "" {
		t.Fatalf("measures mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissingIsNotAnError(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSvc(nil)
	_, ok, err := svc.Get(context.Background(), domain.NewKey("nope", day, domain.Dimension{}))
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestUpsertValidates(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSvc(nil)
	cases := []struct {
		name  string
		snap  domain.Snapshot
		field string
	}{
		{"no entity", domain.Snapshot{Key: domain.NewKey("", day, domain.Dimension{})}, "entity_id"},
		{"no date", domain.Snapshot{Key: domain.Key{EntityID: "UC1"}}, "date"},
		{"kind without value", domain.Snapshot{Key: domain.NewKey("UC1", day, domain.Dimension{Kind: domain.DimDevice})}, "dimension"},
		{"value without kind", domain.Snapshot{Key: domain.NewKey("UC1", day, domain.Dimension{Value: "MOBILE"})}, "dimension"},
	}
	for _, tc := range cases {
		err := svc.Upsert(context.Background(), tc.snap)
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("%s: err = %v", tc.name, err)
		}
		if e, _ := perr.As(err); e.Field() != tc.field {
			t.Fatalf("%s: field = %q", tc.name, e.Field())
		}
	}
}

func TestUpsertManyRunsInOneTxAndArchives(t *testing.T) {
	t.Parallel()

	a := &recArchive{}
	svc, m, tx := newSvc(a)
	batch := []domain.Snapshot{
		{Key: domain.NewKey("UC1", day, domain.Dimension{Kind: domain.DimDevice, Value: "MOBILE"}), Measures: domain.Measures{Views: 7}},
		{Key: domain.NewKey("UC1", day, domain.Dimension{Kind: domain.DimDevice, Value: "DESKTOP"}), Measures: domain.Measures{Views: 3}},
	}
	if err := svc.UpsertMany(context.Background(), batch); err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}
	if tx.txs != 1 || len(m.rows) != 2 {
		t.Fatalf("txs=%d rows=%d", tx.txs, len(m.rows))
	}
	if len(a.batches) != 1 || len(a.batches[0]) != 2 {
		t.Fatalf("archive batches = %v", a.batches)
	}

	got, err := svc.Range(context.Background(), "UC1", day, day, domain.DimDevice)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 2 || got[0].Dimension.Value != "DESKTOP" {
		t.Fatalf("Range order = %+v", got)
	}
}

func TestUpsertManyStoreErrorSkipsArchive(t *testing.T) {
	t.Parallel()

	a := &recArchive{}
	svc, m, _ := newSvc(a)
	m.failKey = "UC9"
	err := svc.UpsertMany(context.Background(), []domain.Snapshot{
		{Key: domain.NewKey("UC9", day, domain.Dimension{})},
	})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v", err)
	}
	if len(a.batches) != 0 {
		t.Fatalf("archive should not see a failed batch")
	}
}

func TestArchiveFailureDoesNotFailUpsert(t *testing.T) {
	t.Parallel()

	a := &recArchive{err: errors.New("clickhouse down")}
	svc, m, _ := newSvc(a)
	if err := svc.Upsert(context.Background(), domain.Snapshot{Key: domain.NewKey("UC1", day, domain.Dimension{})}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(m.rows) != 1 || len(a.batches) != 1 {
		t.Fatalf("rows=%d archive=%d", len(m.rows), len(a.batches))
	}
}

func TestRangeRejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSvc(nil)
	_, err := svc.Range(context.Background(), "UC1", day, day.AddDate(0, 0, -1), domain.DimTotal)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	got, err := svc.Range(context.Background(), "UC1", day, day, domain.DimTotal)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty range = %v, %v", got, err)
	}
}

func TestNewPanicsOnNilDeps(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(nil, nil, nil)
}
