// Package catalog describes the static game content: store items, the tasks a
// new profile starts with, the reroll template pool and the named themes.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Item is something the store sells.
type Item struct {
	Kind        string `yaml:"kind"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cost        int    `yaml:"cost"`
}

// TaskTemplate is a name/reward pair used for seeding and rerolls.
type TaskTemplate struct {
	Name   string `yaml:"name"`
	Reward int    `yaml:"reward"`
}

// Theme is a named color palette.
type Theme struct {
	Name       string `yaml:"name"`
	Primary    string `yaml:"primary"`
	Background string `yaml:"background"`
}

// Catalog is the full static content set.
type Catalog struct {
	Store     []Item         `yaml:"store"`
	SeedTasks []TaskTemplate `yaml:"seed_tasks"`
	Templates []TaskTemplate `yaml:"templates"`
	Themes    []Theme        `yaml:"themes"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog override from path. An empty path returns the default.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates catalog YAML.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Store))
	for _, it := range c.Store {
		if strings.TrimSpace(it.Kind) == "" {
			return fmt.Errorf("catalog: store item missing kind")
		}
		if seen[it.Kind] {
			return fmt.Errorf("catalog: duplicate store item %q", it.Kind)
		}
		seen[it.Kind] = true
		if it.Cost < 0 {
			return fmt.Errorf("catalog: store item %q has negative cost", it.Kind)
		}
	}
	for _, list := range [][]TaskTemplate{c.SeedTasks, c.Templates} {
		for _, tt := range list {
			if strings.TrimSpace(tt.Name) == "" || tt.Reward <= 0 {
				return fmt.Errorf("catalog: invalid task template %q (reward %d)", tt.Name, tt.Reward)
			}
		}
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("catalog: template pool is empty")
	}
	return nil
}

// Item looks up a store item by kind.
func (c *Catalog) Item(kind string) (Item, bool) {
	for _, it := range c.Store {
		if it.Kind == kind {
			return it, true
		}
	}
	return Item{}, false
}

// Theme looks up a named theme.
func (c *Catalog) Theme(name string) (Theme, bool) {
	for _, th := range c.Themes {
		if strings.EqualFold(th.Name, strings.TrimSpace(name)) {
			return th, true
		}
	}
	return Theme{}, false
}

// ThemeNames lists the named themes in catalog order.
func (c *Catalog) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for _, th := range c.Themes {
		names = append(names, th.Name)
	}
	return names
}
