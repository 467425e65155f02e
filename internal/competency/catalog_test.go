package competency

import (
	"strings"
	"testing"
)

func TestDefaultCatalogLevels(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	levels := cat.Levels()
	if len(levels) != 3 {
		t.Fatalf("Levels() = %v, want 3 levels", levels)
	}
	for _, level := range levels {
		comps, ok := cat.ForLevel(level)
		if !ok {
			t.Fatalf("ForLevel(%s) missing", level)
		}
		if len(comps) != PerLevel {
			t.Fatalf("level %s has %d competencies, want %d", level, len(comps), PerLevel)
		}
		for _, c := range comps {
			if c.ID == "" || c.Name == "" {
				t.Fatalf("level %s has incomplete competency %+v", level, c)
			}
		}
	}
}

func TestContains(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if !cat.Contains("TOV1", "craftsmanship") {
		t.Fatalf("TOV1 should contain craftsmanship")
	}
	if cat.Contains("TOV1", "strategic_vision") {
		t.Fatalf("TOV1 should not contain strategic_vision")
	}
	if !cat.Contains("TOV3", "strategic_vision") {
		t.Fatalf("TOV3 should contain strategic_vision")
	}
	if cat.Contains("TOV9", "craftsmanship") {
		t.Fatalf("unknown level should contain nothing")
	}
}

func TestParseRejectsWrongCount(t *testing.T) {
	raw := []byte(`levels:
  TOV1:
    - id: a
      name: A
    - id: b
      name: B
`)
	_, err := Parse(raw)
	if err == nil || !strings.Contains(err.Error(), "defines 2 competencies") {
		t.Fatalf("expected count error, got %v", err)
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	raw := []byte(`levels:
  TOV1:
    - id: a
      name: A
    - id: a
      name: A again
    - id: b
      name: B
    - id: c
      name: C
    - id: d
      name: D
    - id: e
      name: E
`)
	_, err := Parse(raw)
	if err == nil || !strings.Contains(err.Error(), "repeats competency") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParseRejectsEmptyCatalog(t *testing.T) {
	if _, err := Parse([]byte("levels: {}")); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}
