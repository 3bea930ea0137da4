package module

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tubepulse/internal/adapters/analytics"
	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/module"
	"tubepulse/internal/modkit/repokit"
	"tubepulse/internal/platform/config"
	snapdom "tubepulse/internal/services/snapshots/domain"
	snapmod "tubepulse/internal/services/snapshots/module"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("INGEST_INTERVAL", "12h")
	t.Setenv("INGEST_CONCURRENCY", "4")
	t.Setenv("INGEST_DIMENSIONS", "device, Traffic_Source, bogus")

	o := FromConfig(config.New())
	if o.Interval != 12*time.Hour || o.Warmup != time.Minute || o.EntityTimeout != 30*time.Second {
		t.Fatalf("durations = %+v", o)
	}
	if o.Concurrency != 4 || !o.EnableLease || o.LeaseTTL != time.Hour {
		t.Fatalf("options = %+v", o)
	}
	want := []snapdom.DimensionKind{snapdom.DimDevice, snapdom.DimTrafficSource}
	if diff := cmp.Diff(want, o.Dimensions); diff != "" {
		t.Fatalf("dimensions mismatch (-want +got):\n%s", diff)
	}
}

func TestTokensFromConfig(t *testing.T) {
	t.Setenv("ANALYTICS_TOKEN_BRAND_KR", "secret")

	tokens := TokensFromConfig(config.New())
	if got := tokens("brand-kr"); got != "secret" {
		t.Fatalf("token = %q", got)
	}
	if got := tokens(""); got != "" {
		t.Fatalf("empty ref = %q", got)
	}
	if got := tokens("other"); got != "" {
		t.Fatalf("unknown ref = %q", got)
	}
}

type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (t nopTx) Tx(_ context.Context, fn func(repokit.Queryer) error) error      { return fn(t) }

type nopSource struct{}

func (nopSource) Query(context.Context, analytics.Query) (analytics.Report, error) {
	return analytics.Report{}, nil
}

func TestNewResolvesSnapshotWriter(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	deps := modkit.Deps{Cfg: config.New(), PG: nopTx{}}
	m := New(deps, snapmod.New(deps), nopSource{})
	p, ok := module.PortsAs[Ports](Name)
	if !ok || p.Runner == nil || m.Name() != Name {
		t.Fatalf("ports = %+v", p)
	}
}
