package sds

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/precautionary_codes.yaml
var precautionaryCodesYAML []byte

// CodeTable is an immutable P-code to description lookup.  It is built once
// and shared; callers inject it wherever P-codes are described.
type CodeTable struct {
	codes map[string]string
}

// NewCodeTable copies codes into a table.  Keys are trimmed and uppercased.
func NewCodeTable(codes map[string]string) CodeTable {
	m := make(map[string]string, len(codes))
	for k, v := range codes {
		m[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return CodeTable{codes: m}
}

// ParseCodeTable reads the category-grouped YAML form:
//
//	prevention:
//	  P210: "Keep away from heat..."
//
// Every code must categorize into the group it is listed under.
func ParseCodeTable(data []byte) (CodeTable, error) {
	var grouped map[Category]map[string]string
	if err := yaml.Unmarshal(data, &grouped); err != nil {
		return CodeTable{}, fmt.Errorf("sds: decoding code table: %w", err)
	}
	flat := make(map[string]string)
	for group, codes := range grouped {
		for code, desc := range codes {
			cat, ok := CategorizeByPrefix(code)
			if !ok {
				return CodeTable{}, fmt.Errorf("sds: code table entry %q is not a P-code", code)
			}
			if cat != group {
				return CodeTable{}, fmt.Errorf("sds: code %s listed under %s, belongs to %s", code, group, cat)
			}
			flat[code] = strings.TrimSpace(desc)
		}
	}
	return NewCodeTable(flat), nil
}

var (
	defaultCodesOnce sync.Once
	defaultCodes     CodeTable
)

// DefaultCodeTable returns the embedded GHS table.  The embedded file is
// checked by tests, so a decode failure here is a build defect.
func DefaultCodeTable() CodeTable {
	defaultCodesOnce.Do(func() {
		t, err := ParseCodeTable(precautionaryCodesYAML)
		if err != nil {
			panic(err)
		}
		defaultCodes = t
	})
	return defaultCodes
}

// Lookup returns the description for code.  A combination code missing from
// the table is described by joining its parts, provided every part is known.
func (t CodeTable) Lookup(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if desc, ok := t.codes[code]; ok {
		return desc, true
	}
	if !strings.Contains(code, "+") {
		return "", false
	}
	parts := strings.Split(code, "+")
	descs := make([]string, 0, len(parts))
	for _, p := range parts {
		desc, ok := t.codes[p]
		if !ok {
			return "", false
		}
		descs = append(descs, desc)
	}
	return strings.Join(descs, " "), true
}

// Len is the number of entries.
func (t CodeTable) Len() int { return len(t.codes) }

// Codes lists every entry code in sorted order.
func (t CodeTable) Codes() []string {
	out := make([]string, 0, len(t.codes))
	for k := range t.codes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
