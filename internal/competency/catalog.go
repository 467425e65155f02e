// Package competency loads the competency framework catalog: which six
// competencies apply at each TOV level.
package competency

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	_ "embed"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// PerLevel is fixed by the framework: every level defines exactly six
// competencies and a review needs all six scored.
const PerLevel = 6

type Competency struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type Catalog struct {
	levels map[string][]Competency
}

type catalogFile struct {
	Levels map[string][]Competency `yaml:"levels"`
}

func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse competency catalog: %w", err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("competency catalog has no levels")
	}
	for level, comps := range f.Levels {
		if len(comps) != PerLevel {
			return nil, fmt.Errorf("level %s defines %d competencies, want %d", level, len(comps), PerLevel)
		}
		seen := map[string]struct{}{}
		for _, c := range comps {
			if c.ID == "" {
				return nil, fmt.Errorf("level %s has a competency without id", level)
			}
			if _, dup := seen[c.ID]; dup {
				return nil, fmt.Errorf("level %s repeats competency %s", level, c.ID)
			}
			seen[c.ID] = struct{}{}
		}
	}
	return &Catalog{levels: f.Levels}, nil
}

func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func (c *Catalog) ForLevel(level string) ([]Competency, bool) {
	comps, ok := c.levels[level]
	return comps, ok
}

func (c *Catalog) Contains(level, competencyID string) bool {
	comps, ok := c.levels[level]
	if !ok {
		return false
	}
	for _, comp := range comps {
		if comp.ID == competencyID {
			return true
		}
	}
	return false
}

func (c *Catalog) Levels() []string {
	out := make([]string, 0, len(c.levels))
	for l := range c.levels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
