package ui

import (
	"strings"
	"testing"

	"github.com/five82/usher/internal/overseerr"
)

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("missing").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(missing) = %q, want Nightfox", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q, want Slate", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	seen := map[string]bool{}
	name := names[0]
	for range names {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != names[0] {
		t.Fatalf("NextTheme did not wrap, ended at %q", name)
	}
	if len(seen) != len(names) {
		t.Fatalf("visited %d themes, want %d", len(seen), len(names))
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestThemes_CoverEveryStatusLabel(t *testing.T) {
	labels := []string{
		overseerr.RequestStatusPending.String(),
		overseerr.RequestStatusApproved.String(),
		overseerr.RequestStatusDeclined.String(),
		overseerr.MediaStatusAvailable.String(),
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, l := range labels {
			if _, ok := th.StatusColors[strings.ToLower(l)]; !ok {
				t.Fatalf("theme %s has no color for %q", name, l)
			}
		}
	}
}

func TestTruncateAndPad(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"héllo", 2, "h…"},
		{"x", 0, ""},
		{"abc", 1, "…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight should not cut, got %q", got)
	}
}
