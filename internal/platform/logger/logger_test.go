package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	kit "tubepulse/internal/platform/testkit"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"off", "disabled"},
		{"", "info"},
		{"  nonsense ", "info"},
	}
	for _, c := range cases {
		if got := parseLevel(c.in).String(); got != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInitNamedAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "debug",
		Format:       "json",
		Service:      "tubepulse-test",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})

	Named("ingest").Info().Msg("named-msg")

	ctx := WithRun(WithRequest(context.Background(), "req-1"), "run-42")
	C(ctx).Info().Msg("ctx-msg")
	C(context.Background()).Debug().Msg("bare-msg")

	out := buf.String()
	if !strings.Contains(out, `"service":"tubepulse-test"`) {
		// another test may have initialised the root first
		t.Skip("root logger already initialised elsewhere")
	}
	kit.MustContain(t, out, `"component":"ingest"`)
	kit.MustContain(t, out, `"request_id":"req-1"`)
	kit.MustContain(t, out, `"run_id":"run-42"`)
	kit.MustContain(t, out, `"build":"test"`)
	kit.MustContain(t, out, "bare-msg")
}

func TestRunID(t *testing.T) {
	t.Parallel()

	if RunID(context.Background()) != "" {
		t.Fatalf("expected empty run id")
	}
	if got := RunID(WithRun(context.Background(), "abc")); got != "abc" {
		t.Fatalf("RunID = %q", got)
	}
	if got := RunID(WithRun(context.Background(), "")); got != "" {
		t.Fatalf("empty run id should not be stored, got %q", got)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_CALLER", "yes")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "svc-b" || !opt.WithCaller {
		t.Fatalf("FromEnv mismatch: %+v", opt)
	}
}

func TestSetReplacesRoot(t *testing.T) {
	prev := *Get()
	t.Cleanup(func() { Set(prev) })

	var buf bytes.Buffer
	Set(zerolog.New(&buf))
	Named("ingest").Info().Msg("hello")
	if !strings.Contains(buf.String(), `"component":"ingest"`) {
		t.Fatalf("Set root not used: %q", buf.String())
	}
}
