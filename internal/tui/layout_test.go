package tui

import (
	"reflect"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestSplitShellWords(t *testing.T) {
	cases := map[string][]string{
		"vi":                       {"vi"},
		"  code   --wait ":         {"code", "--wait"},
		`"my editor" -f`:           {"my editor", "-f"},
		`emacs -nw '--eval (x y)'`: {"emacs", "-nw", "--eval (x y)"},
		`a\ b c`:                   {"a b", "c"},
		`''`:                       {""},
	}
	for in, want := range cases {
		if got := splitShellWords(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("splitShellWords(%q) = %q, want %q", in, got, want)
		}
	}
	if got := splitShellWords("   "); len(got) != 0 {
		t.Fatalf("expected no words, got %q", got)
	}
}

func TestNormalizePane(t *testing.T) {
	out := normalizePane("short\n"+strings.Repeat("x", 30), 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d width = %d", i, w)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected truncation marker, got %q", lines[1])
	}
}
