package module

import (
	"testing"

	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/module"
	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/testkit/dbfake"
)

func TestStopwordsExtra(t *testing.T) {
	t.Setenv("KEYWORDS_STOPWORDS_EXTRA", "en:vlog, ko:브이로그")
	sw := Stopwords(config.New())
	if !sw.Contains("vlog") || !sw.Contains("the") {
		t.Fatalf("stopwords should hold built ins and extras")
	}
}

func TestNewRegistersService(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	m := New(modkit.Deps{Cfg: config.New(), PG: &dbfake.Q{}})
	if p, ok := module.PortsAs[Ports]("keywords"); !ok || p.Service == nil || m.Name() != "keywords" {
		t.Fatalf("ports = %+v", p)
	}
}
