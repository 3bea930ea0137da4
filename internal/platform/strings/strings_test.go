package strings

import (
	"testing"

	kit "tubepulse/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	if got := IfEmpty(nil, []string{"GET"}); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("IfEmpty(nil) = %v", got)
	}
	if got := IfEmpty([]int{1, 2}, []int{9}); len(got) != 2 {
		t.Fatalf("IfEmpty(non empty) = %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"comments":    "/comments",
		"/comments/":  "/comments",
		"  /meta  ":   "/meta",
		"channels/a/": "/channels/a",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { _ = MustPrefix(" / ") })
}

func TestMustStringAndOr(t *testing.T) {
	t.Parallel()

	if MustString("x", "name") != "x" {
		t.Fatalf("MustString changed its input")
	}
	kit.MustPanic(t, func() { _ = MustString("  ", "name") })

	if got := Or("", "  ", "ALL", "b"); got != "ALL" {
		t.Fatalf("Or = %q", got)
	}
	if got := Or(); got != "" {
		t.Fatalf("Or() = %q", got)
	}
}
