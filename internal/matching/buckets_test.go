package matching

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBucketTable_ResolvesKnownLabels(t *testing.T) {
	table := DefaultBucketTable()

	portfolios := map[string]int64{
		"under_100k": 50_000,
		"100k_250k":  175_000,
		"250k_500k":  375_000,
		"500k_1m":    750_000,
		"over_1m":    1_500_000,
	}
	for label, want := range portfolios {
		if got := table.ResolvePortfolio(label); got != want {
			t.Fatalf("portfolio %q: expected %d, got %d", label, want, got)
		}
	}

	ages := map[string]int{
		"under_30": 25,
		"30_44":    37,
		"45_60":    52,
		"over_60":  67,
	}
	for label, want := range ages {
		if got := table.ResolveAge(label); got != want {
			t.Fatalf("age %q: expected %d, got %d", label, want, got)
		}
	}
}

func TestBucketTable_UnknownLabelsFallBackToDefaults(t *testing.T) {
	table := DefaultBucketTable()

	if got := table.ResolvePortfolio("a_trillion"); got != table.DefaultPortfolio {
		t.Fatalf("expected default portfolio %d, got %d", table.DefaultPortfolio, got)
	}
	if got := table.ResolvePortfolio(""); got != table.DefaultPortfolio {
		t.Fatalf("expected default portfolio for empty label, got %d", got)
	}
	if got := table.ResolveAge("immortal"); got != table.DefaultAge {
		t.Fatalf("expected default age %d, got %d", table.DefaultAge, got)
	}
}

func TestLoadBucketTable_EmptyPathKeepsDefaults(t *testing.T) {
	table, err := LoadBucketTable("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.ResolvePortfolio("over_1m") != 1_500_000 {
		t.Fatal("expected compiled-in defaults for empty path")
	}
}

func TestLoadBucketTable_FileOverridesSelectedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buckets.yaml")
	content := []byte("portfolio:\n  tiny: 1000\n  huge: 9000000\ndefaultAge: 50\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadBucketTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := table.ResolvePortfolio("huge"); got != 9_000_000 {
		t.Fatalf("expected overridden portfolio 9000000, got %d", got)
	}
	if got := table.ResolvePortfolio("over_1m"); got != table.DefaultPortfolio {
		t.Fatalf("expected replaced portfolio map to drop default labels, got %d", got)
	}
	if table.DefaultAge != 50 {
		t.Fatalf("expected overridden default age 50, got %d", table.DefaultAge)
	}
	// Age map was not overridden, so the compiled-in entries survive.
	if got := table.ResolveAge("45_60"); got != 52 {
		t.Fatalf("expected compiled-in age mapping to survive, got %d", got)
	}
}

func TestLoadBucketTable_MissingFileErrors(t *testing.T) {
	if _, err := LoadBucketTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
