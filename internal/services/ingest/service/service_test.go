package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tubepulse/internal/adapters/analytics"
	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	kit "tubepulse/internal/platform/testkit"
	"tubepulse/internal/services/ingest/domain"
	"tubepulse/internal/services/ingest/guardrails"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

type txQ struct{}

func (txQ) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (txQ) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (txQ) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (t txQ) Tx(_ context.Context, fn func(repokit.Queryer) error) error      { return fn(t) }

type fakeRepo struct {
	mu       sync.Mutex
	entities []domain.Entity
	runs     []domain.RunResult
}

func (r *fakeRepo) TrackedEntities(context.Context) ([]domain.Entity, error) { return r.entities, nil }
func (r *fakeRepo) RecordRun(_ context.Context, run domain.RunResult) error {
	r.mu.Lock()
	r.runs = append(r.runs, run)
	r.mu.Unlock()
	return nil
}

// fakeSource answers per entity and dimension with a canned body or error
type fakeSource struct {
	mu      sync.Mutex
	bodies  map[string]string
	errs    map[string]error
	queries []analytics.Query
	started chan struct{}
	release chan struct{}
}

func (f *fakeSource) Query(ctx context.Context, q analytics.Query) (analytics.Report, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
		select {
		case <-f.release:
		case <-ctx.Done():
			return analytics.Report{}, ctx.Err()
		}
	}
	key := q.EntityID + "/" + strings.Join(q.Dimensions, ",")
	if err := f.errs[q.EntityID]; err != nil {
		return analytics.Report{}, err
	}
	body, ok := f.bodies[key]
	if !ok {
		body = `{"columnHeaders":[{"name":"day"}],"rows":[]}`
	}
	return analytics.ParseReport([]byte(body))
}

type fakeWriter struct {
	mu   sync.Mutex
	rows map[snapdom.Key]snapdom.Snapshot
	fail string
}

func (w *fakeWriter) Upsert(ctx context.Context, s snapdom.Snapshot) error {
	return w.UpsertMany(ctx, []snapdom.Snapshot{s})
}

func (w *fakeWriter) UpsertMany(_ context.Context, b []snapdom.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range b {
		if s.EntityID == w.fail {
			return perr.New(perr.ErrorCodeDB, "write failed")
		}
		w.rows[s.Key] = s
	}
	return nil
}

var (
	target = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2025, 3, 11, 6, 30, 0, 0, time.UTC)
)

const dayBody = `{"columnHeaders":[{"name":"day"},{"name":"views"},{"name":"estimatedMinutesWatched"},{"name":"subscribersGained"},{"name":"averageViewDuration"},{"name":"likes"},{"name":"comments"}],
"rows":[["2025-03-10",120,300,4,95.5,10,2]]}`

func newSvc(entities []string, src *fakeSource, cfg Config) (*Service, *fakeRepo, *fakeWriter) {
	r := &fakeRepo{}
	for _, id := range entities {
		r.entities = append(r.entities, domain.Entity{ID: id, CredentialRef: "ref-" + id})
	}
	w := &fakeWriter{rows: map[snapdom.Key]snapdom.Snapshot{}}
	s := New(txQ{}, repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return r }), w, src, cfg, nil)
	clock := kit.NewClock(now)
	s.Now = clock.Now
	n := 0
	s.NewID = func() string { n++; return fmt.Sprintf("run-%d", n) }
	return s, r, w
}

func totalKey(id string) snapdom.Key { return snapdom.NewKey(id, target, snapdom.Dimension{}) }

func TestRunOnceIsolatesFailingEntity(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		bodies: map[string]string{"A/day": dayBody, "C/day": dayBody},
		errs:   map[string]error{"B": perr.Unavailablef("provider down")},
	}
	s, repo, w := newSvc([]string{"A", "B", "C"}, src, Config{})

	res, err := s.RunOnce(context.Background(), target)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.Entities != 3 || res.Succeeded != 2 || res.Failed != 1 {
		t.Fatalf("result = %+v", res)
	}
	for _, id := range []string{"A", "C"} {
		if got := w.rows[totalKey(id)]; got.Views != 120 || got.AverageDurationSeconds != 95.5 {
			t.Fatalf("%s snapshot = %+v", id, got)
		}
	}
	if len(repo.runs) != 1 || repo.runs[0].RunID != "run-1" || repo.runs[0].FinishedAt.IsZero() {
		t.Fatalf("runs = %+v", repo.runs)
	}
}

func TestRunOnceContinuesPastPersistenceError(t *testing.T) {
	t.Parallel()

	src := &fakeSource{bodies: map[string]string{"A/day": dayBody, "B/day": dayBody}}
	s, _, w := newSvc([]string{"A", "B"}, src, Config{})
	w.fail = "A"

	res, err := s.RunOnce(context.Background(), target)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.Failed != 1 || res.Succeeded != 1 {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := w.rows[totalKey("B")]; !ok {
		t.Fatalf("B should be written after A failed")
	}
}

func TestColumnOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	permuted := `{"columnHeaders":[{"name":"comments"},{"name":"averageViewDuration"},{"name":"views"},{"name":"day"},{"name":"likes"},{"name":"subscribersGained"},{"name":"estimatedMinutesWatched"}],
"rows":[[2,95.5,120,"2025-03-10",10,4,300]]}`
	src := &fakeSource{bodies: map[string]string{"A/day": dayBody, "B/day": permuted}}
	s, _, w := newSvc([]string{"A", "B"}, src, Config{})
	if _, err := s.RunOnce(context.Background(), target); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if diff := cmp.Diff(w.rows[totalKey("A")].Measures, w.rows[totalKey("B")].Measures); diff != "" {
		t.Fatalf("measures differ by column order (-A +B):\n%s", diff)
	}
}

func TestBadRowsAreSkippedAndCounted(t *testing.T) {
	t.Parallel()

	body := `{"columnHeaders":[{"name":"day"},{"name":"views"},{"name":"estimatedMinutesWatched"},{"name":"subscribersGained"},{"name":"averageViewDuration"}],
"rows":[["2025-03-09","many",1,1,1.0],["2025-03-10",5,1,0,30.0],["2025-03-08",1]]}`
	src := &fakeSource{bodies: map[string]string{"A/day": body}}
	s, _, w := newSvc([]string{"A"}, src, Config{})

	res, err := s.RunOnce(context.Background(), target)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.SkippedRows != 2 || res.Succeeded != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(w.rows) != 1 || w.rows[totalKey("A")].Views != 5 {
		t.Fatalf("rows = %+v", w.rows)
	}
}

func TestDimensionsAreWrittenUnderTheTargetDay(t *testing.T) {
	t.Parallel()

	src := &fakeSource{bodies: map[string]string{
		"A/day":        dayBody,
		"A/deviceType": `{"columnHeaders":[{"name":"deviceType"},{"name":"views"},{"name":"estimatedMinutesWatched"}],"rows":[["MOBILE",80,200],["DESKTOP",40,100]]}`,
		"A/ageGroup,gender": `{"columnHeaders":[{"name":"ageGroup"},{"name":"gender"},{"name":"viewerPercentage"}],
"rows":[["age25-34","female",41.5],["age18-24","male",58.5]]}`,
	}}
	s, _, w := newSvc([]string{"A"}, src, Config{Dimensions: []snapdom.DimensionKind{snapdom.DimDevice, snapdom.DimDemographic}})
	if _, err := s.RunOnce(context.Background(), target); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	mobile := w.rows[snapdom.NewKey("A", target, snapdom.Dimension{Kind: snapdom.DimDevice, Value: "MOBILE"})]
	if mobile.Views != 80 || mobile.WatchMinutes != 200 {
		t.Fatalf("mobile = %+v", mobile)
	}
	demo := w.rows[snapdom.NewKey("A", target, snapdom.Dimension{Kind: snapdom.DimDemographic, Value: "female|25-34"})]
	if demo.ViewerPercentage != 41.5 {
		t.Fatalf("demographic = %+v", demo)
	}
	if len(w.rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(w.rows))
	}
}

func TestTokensAndDateReachTheSource(t *testing.T) {
	t.Parallel()

	src := &fakeSource{bodies: map[string]string{"A/day": dayBody}}
	s, _, _ := newSvc([]string{"A"}, src, Config{})
	s.Tokens = func(ref string) string { return "tok:" + ref }

	if !s.tick(context.Background()) {
		t.Fatalf("tick should run")
	}
	if len(src.queries) != 1 {
		t.Fatalf("queries = %d", len(src.queries))
	}
	q := src.queries[0]
	if q.Token != "tok:ref-A" || !q.Start.Equal(target) || !q.End.Equal(target) {
		t.Fatalf("query = %+v", q)
	}
}

func TestTickSkipsWhileAPassIsRunning(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		bodies:  map[string]string{"A/day": dayBody},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s, repo, _ := newSvc([]string{"A"}, src, Config{})

	done := make(chan bool)
	go func() { done <- s.tick(context.Background()) }()
	<-src.started

	if s.tick(context.Background()) {
		t.Fatalf("second tick should be skipped while the first runs")
	}
	close(src.release)
	if !<-done {
		t.Fatalf("first tick should report it ran")
	}
	if len(repo.runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(repo.runs))
	}
}

func TestLeaseHeldIsACleanSkip(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	s, repo, _ := newSvc([]string{"A"}, src, Config{})
	s.Lease = func(context.Context, func(context.Context) error) error { return guardrails.ErrLeaseHeld }

	res, err := s.RunOnce(context.Background(), target)
	if err != nil || !res.Skipped {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if len(src.queries) != 0 || len(repo.runs) != 0 {
		t.Fatalf("a skipped pass must not fetch or record")
	}

	boom := errors.New("pg down")
	s.Lease = func(context.Context, func(context.Context) error) error { return boom }
	if _, err := s.RunOnce(context.Background(), target); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestConcurrentEntities(t *testing.T) {
	t.Parallel()

	ids := []string{"A", "B", "C", "D", "E"}
	bodies := map[string]string{}
	for _, id := range ids {
		bodies[id+"/day"] = dayBody
	}
	src := &fakeSource{bodies: bodies, errs: map[string]error{"C": perr.Unavailablef("nope")}}
	s, _, w := newSvc(ids, src, Config{Concurrency: 3})

	res, err := s.RunOnce(context.Background(), target)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.Succeeded != 4 || res.Failed != 1 || len(w.rows) != 4 {
		t.Fatalf("res=%+v rows=%d", res, len(w.rows))
	}
}

func TestEntityTimeoutBoundsTheFetch(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		bodies:  map[string]string{"A/day": dayBody},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s, _, _ := newSvc([]string{"A"}, src, Config{EntityTimeout: 20 * time.Millisecond})

	res, err := s.RunOnce(context.Background(), target)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.Failed != 1 {
		t.Fatalf("a hung fetch should fail the entity: %+v", res)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	src := &fakeSource{bodies: map[string]string{"A/day": dayBody}}
	s, repo, _ := newSvc([]string{"A"}, src, Config{Warmup: time.Millisecond, Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error)
	go func() { errc <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		repo.mu.Lock()
		n := len(repo.runs)
		repo.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("first pass did not run after warmup")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v", err)
	}
}
