package core

import (
	"strings"
	"testing"
)

func TestParseMergeStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    MergeStrategy
		wantErr bool
	}{
		{"", StrategyAsk, false},
		{"ask", StrategyAsk, false},
		{"keep-local", StrategyKeepLocal, false},
		{"use-imported", StrategyUseImported, false},
		{"abort", StrategyAbort, false},
		{"merge", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMergeStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMergeStrategy(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMergeStrategy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGenerateUnifiedDiff(t *testing.T) {
	if d := GenerateUnifiedDiff("a", "same\n", "same\n"); d != "" {
		t.Errorf("Expected empty diff, got %q", d)
	}

	d := GenerateUnifiedDiff("Flying", "Title: Flying\n\nover the city\n", "Title: Flying\n\nover the sea\n")
	if !strings.HasPrefix(d, "--- local/Flying\n+++ backup/Flying\n") {
		t.Errorf("Missing diff headers: %q", d)
	}
	if !strings.Contains(d, "@@") {
		t.Errorf("Missing hunk header: %q", d)
	}
}

func TestEntryTextIncludesMetadata(t *testing.T) {
	text := entryText(Entry{Title: "Flying", Tags: []string{"flight"}, Lucid: true, Content: "up"})
	for _, want := range []string{"Title: Flying", "Tags: flight", "Lucid: yes", "up\n"} {
		if !strings.Contains(text, want) {
			t.Errorf("entryText missing %q: %q", want, text)
		}
	}
}
