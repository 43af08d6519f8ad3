package docs

import (
	"strings"
	"testing"
)

func TestTopics_IncludesHelp(t *testing.T) {
	found := false
	for _, tp := range Topics() {
		if tp == "help" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected help topic, got %v", Topics())
	}
}

func TestHelp_FallsBackToEnglish(t *testing.T) {
	en := Help("en")
	if !strings.Contains(en, "# Thought records") {
		t.Fatalf("unexpected english help: %q", en)
	}
	if Help("de") != en {
		t.Fatalf("expected fallback to english for unknown locale")
	}
	if !strings.Contains(Help("hu"), "# Gondolatnapló") {
		t.Fatalf("expected hungarian help")
	}
}
