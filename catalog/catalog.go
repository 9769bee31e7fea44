// Package catalog loads the fixed set of canned traffic_stops queries shown
// by the dashboard.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed queries.yaml
var embedded []byte

var ErrNotFound = errors.New("query not found")

type Section struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

type Query struct {
	ID      string `yaml:"id" json:"id"`
	Section string `yaml:"section" json:"section"`
	Label   string `yaml:"label" json:"label"`
	SQL     string `yaml:"sql" json:"sql"`
}

// Catalog is immutable after Load.
type Catalog struct {
	sections []Section
	queries  []Query
	byID     map[string]int
}

type document struct {
	Sections []Section `yaml:"sections"`
	Queries  []Query   `yaml:"queries"`
}

// Load parses the embedded query file.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	known := make(map[string]bool, len(doc.Sections))
	for _, s := range doc.Sections {
		known[s.ID] = true
	}

	c := &Catalog{sections: doc.Sections, byID: make(map[string]int, len(doc.Queries))}
	for _, q := range doc.Queries {
		q.SQL = strings.TrimSpace(q.SQL)
		switch {
		case q.ID == "":
			return nil, fmt.Errorf("query %q: missing id", q.Label)
		case q.SQL == "":
			return nil, fmt.Errorf("query %s: empty sql", q.ID)
		case !known[q.Section]:
			return nil, fmt.Errorf("query %s: unknown section %q", q.ID, q.Section)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("query %s: duplicate id", q.ID)
		}
		c.byID[q.ID] = len(c.queries)
		c.queries = append(c.queries, q)
	}
	return c, nil
}

func (c *Catalog) Get(id string) (Query, error) {
	i, ok := c.byID[id]
	if !ok {
		return Query{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.queries[i], nil
}

// All returns every query in file order.
func (c *Catalog) All() []Query {
	return append([]Query(nil), c.queries...)
}

func (c *Catalog) Sections() []Section {
	return append([]Section(nil), c.sections...)
}

// InSection returns the queries of one section in file order.
func (c *Catalog) InSection(section string) []Query {
	var out []Query
	for _, q := range c.queries {
		if q.Section == section {
			out = append(out, q)
		}
	}
	return out
}
