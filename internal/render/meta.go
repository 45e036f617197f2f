// Package render turns enriched rows into standalone slide documents.
// The layout lives in an HTML template; which columns land in which
// template region is declared in a YAML metadata file so a template
// redesign never silently drops a field.
package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yuhsinlo/execprofile/internal/common"
)

// Region maps one template region id onto sheet columns.
type Region struct {
	ID        string   `yaml:"id"`
	Label     string   `yaml:"label"`
	Fields    []string `yaml:"fields"`
	Multiline bool     `yaml:"multiline"`
}

// Meta is the template's region declaration file.
type Meta struct {
	EmptyText string   `yaml:"empty_text"`
	Regions   []Region `yaml:"regions"`
}

// LoadMeta reads and checks the region metadata.
func LoadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template regions %s: %w", path, err)
	}
	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse template regions %s: %w", path, err)
	}
	if len(m.Regions) == 0 {
		return nil, fmt.Errorf("template regions %s declares no regions", path)
	}
	seen := map[string]struct{}{}
	for _, r := range m.Regions {
		if r.ID == "" {
			return nil, fmt.Errorf("template regions %s: region without id", path)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("template regions %s: duplicate region %q", path, r.ID)
		}
		seen[r.ID] = struct{}{}
		if len(r.Fields) == 0 {
			return nil, fmt.Errorf("template regions %s: region %q has no fields", path, r.ID)
		}
	}
	if m.EmptyText == "" {
		m.EmptyText = "(待補充)"
	}
	return &m, nil
}

// Region returns the metadata for a region id. A miss is an error, never
// a silent skip; a stale template must fail the row loudly.
func (m *Meta) Region(id string) (Region, error) {
	for _, r := range m.Regions {
		if r.ID == id {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("template region %q not declared in metadata: %w", id, common.ErrNotFound)
}
