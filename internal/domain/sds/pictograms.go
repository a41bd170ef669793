package sds

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/pictograms.yaml
var pictogramsYAML []byte

// Pictogram is one GHS hazard symbol.
type Pictogram struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
	URL  string `yaml:"url"`
}

// LabelElement renders the pictogram as a label element keyed by name.
func (p Pictogram) LabelElement() LabelElement {
	return LabelElement{URL: p.URL, Description: p.Name}
}

// PictogramTable is an ordered, immutable set of pictograms keyed by Name.
type PictogramTable struct {
	items  []Pictogram
	byName map[string]int
}

// ParsePictogramTable reads the YAML list form.  Names must be unique.
func ParsePictogramTable(data []byte) (PictogramTable, error) {
	var items []Pictogram
	if err := yaml.Unmarshal(data, &items); err != nil {
		return PictogramTable{}, fmt.Errorf("sds: decoding pictogram table: %w", err)
	}
	return NewPictogramTable(items)
}

// NewPictogramTable builds a table from items, keeping their order.
func NewPictogramTable(items []Pictogram) (PictogramTable, error) {
	t := PictogramTable{items: make([]Pictogram, 0, len(items)), byName: make(map[string]int, len(items))}
	for _, p := range items {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" || p.URL == "" {
			return PictogramTable{}, fmt.Errorf("sds: pictogram %q needs a name and url", p.Code)
		}
		if _, dup := t.byName[p.Name]; dup {
			return PictogramTable{}, fmt.Errorf("sds: duplicate pictogram %q", p.Name)
		}
		t.byName[p.Name] = len(t.items)
		t.items = append(t.items, p)
	}
	return t, nil
}

var (
	defaultPictogramsOnce sync.Once
	defaultPictograms     PictogramTable
)

// DefaultPictograms returns the embedded GHS01..GHS09 table.
func DefaultPictograms() PictogramTable {
	defaultPictogramsOnce.Do(func() {
		t, err := ParsePictogramTable(pictogramsYAML)
		if err != nil {
			panic(err)
		}
		defaultPictograms = t
	})
	return defaultPictograms
}

// Get returns the pictogram called name.
func (t PictogramTable) Get(name string) (Pictogram, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Pictogram{}, false
	}
	return t.items[i], true
}

// Keys lists pictogram names in table order.
func (t PictogramTable) Keys() []string {
	out := make([]string, len(t.items))
	for i, p := range t.items {
		out[i] = p.Name
	}
	return out
}

// Has reports whether name is a known pictogram.
func (t PictogramTable) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// LabelElements maps names to label elements, skipping unknown names.
func (t PictogramTable) LabelElements(names []string) []LabelElement {
	out := make([]LabelElement, 0, len(names))
	for _, n := range names {
		if p, ok := t.Get(n); ok {
			out = append(out, p.LabelElement())
		}
	}
	return out
}

// KeysIn returns the table names that appear as descriptions in els, in table
// order.  The wizard uses it to preselect additional pictograms.
func (t PictogramTable) KeysIn(els []LabelElement) []string {
	present := make(map[string]struct{}, len(els))
	for _, el := range els {
		present[el.Description] = struct{}{}
	}
	out := make([]string, 0)
	for _, p := range t.items {
		if _, ok := present[p.Name]; ok {
			out = append(out, p.Name)
		}
	}
	return out
}

//Personal.AI order the ending
