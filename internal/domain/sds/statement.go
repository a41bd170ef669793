package sds

import (
	"regexp"
	"strings"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Category
// ─────────────────────────────────────────────────────────────────────────────

// Category is the precautionary statement group selected by the leading digit
// of a P-code.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryPrevention Category = "prevention"
	CategoryResponse   Category = "response"
	CategoryStorage    Category = "storage"
	CategoryDisposal   Category = "disposal"
)

// Categories lists every Category in document order.
var Categories = []Category{
	CategoryGeneral,
	CategoryPrevention,
	CategoryResponse,
	CategoryStorage,
	CategoryDisposal,
}

var categoryByDigit = map[byte]Category{
	'1': CategoryGeneral,
	'2': CategoryPrevention,
	'3': CategoryResponse,
	'4': CategoryStorage,
	'5': CategoryDisposal,
}

// FieldName is the Record/wizard field holding this category's statements.
func (c Category) FieldName() string { return string(c) + "_statements" }

// Title is the label used in the rendered precautionary table.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ─────────────────────────────────────────────────────────────────────────────
// StatementCode
// ─────────────────────────────────────────────────────────────────────────────

// pCodePattern accepts single codes (P210) and combinations (P301+P310).
var pCodePattern = regexp.MustCompile(`^P(\d+)((?:\+P\d+)*)$`)

// StatementCode is a GHS statement identifier with its text.  Number holds
// everything after the prefix letter, so for P301+P310 it is "301+P310".
type StatementCode struct {
	Prefix      byte
	Number      string
	Description string
}

// Code renders the identifier, e.g. "P210".
func (s StatementCode) Code() string { return string(s.Prefix) + s.Number }

// String renders the wizard form "P210: Keep away from heat".
func (s StatementCode) String() string {
	if s.Description == "" {
		return s.Code()
	}
	return s.Code() + ": " + s.Description
}

// CategorizeByPrefix maps a P-code to its Category by the first digit of its
// number.  Anything that is not a well-formed P-code, or whose digit is outside
// 1..5, reports false.
func CategorizeByPrefix(code string) (Category, bool) {
	m := pCodePattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return "", false
	}
	cat, ok := categoryByDigit[m[1][0]]
	return cat, ok
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulletize
// ─────────────────────────────────────────────────────────────────────────────

// Bullet prefixes each line produced by Bulletize.
const Bullet = "•"

// Bulletize splits text on delimiter and renders each non-empty, trimmed part
// as a "• part" line.  Text that already starts with a bullet is returned as
// is, so applying it twice is harmless.
func Bulletize(text, delimiter string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, Bullet) {
		return text
	}
	if delimiter == "" {
		delimiter = ";"
	}
	lines := make([]string, 0)
	for _, part := range strings.Split(trimmed, delimiter) {
		if p := strings.TrimSpace(part); p != "" {
			lines = append(lines, Bullet+" "+p)
		}
	}
	return strings.Join(lines, "\n")
}

// SplitStatements splits a delimited statement field into trimmed non-empty
// parts.
func SplitStatements(text, delimiter string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(text, delimiter) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// PrecautionarySet
// ─────────────────────────────────────────────────────────────────────────────

// PrecautionarySet groups described P-codes by Category.  Within a category
// codes keep the order they were added in and appear at most once.
type PrecautionarySet struct {
	groups map[Category][]StatementCode
}

// NewPrecautionarySet returns an empty set.
func NewPrecautionarySet() PrecautionarySet {
	return PrecautionarySet{groups: make(map[Category][]StatementCode)}
}

// Add files sc under cat.  A repeated code is ignored.
func (p *PrecautionarySet) Add(cat Category, sc StatementCode) {
	if p.groups == nil {
		p.groups = make(map[Category][]StatementCode)
	}
	for _, existing := range p.groups[cat] {
		if existing.Code() == sc.Code() {
			return
		}
	}
	p.groups[cat] = append(p.groups[cat], sc)
}

// Codes returns the codes in cat.
func (p PrecautionarySet) Codes(cat Category) []StatementCode {
	return p.groups[cat]
}

// Len is the total number of codes across all categories.
func (p PrecautionarySet) Len() int {
	n := 0
	for _, g := range p.groups {
		n += len(g)
	}
	return n
}

// Statements renders cat in the wizard field form
// "P210: Keep away from heat; P233: Keep container tightly closed".
func (p PrecautionarySet) Statements(cat Category) string {
	codes := p.groups[cat]
	parts := make([]string, len(codes))
	for i, sc := range codes {
		parts[i] = sc.String()
	}
	return strings.Join(parts, "; ")
}

// Fields renders every category keyed by its Record field name.  Empty
// categories map to "".
func (p PrecautionarySet) Fields() map[string]string {
	out := make(map[string]string, len(Categories))
	for _, cat := range Categories {
		out[cat.FieldName()] = p.Statements(cat)
	}
	return out
}

// ParsePrecautionary turns a raw GHS "Precautionary Statement Codes" row into
// a PrecautionarySet.  Separators are ";", "," and " and ".  Codes that are
// malformed or missing from table are dropped, logged at warn and returned in
// the second value.
func ParsePrecautionary(row string, table CodeTable, logger logging.Logger) (PrecautionarySet, []string) {
	if logger == nil {
		logger = logging.Default()
	}
	set := NewPrecautionarySet()
	dropped := make([]string, 0)

	cleaned := strings.ReplaceAll(row, ";", ",")
	cleaned = strings.ReplaceAll(cleaned, " and ", ",")
	for _, raw := range strings.Split(cleaned, ",") {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		cat, ok := CategorizeByPrefix(code)
		if !ok {
			logger.Warn("invalid precautionary code format", logging.String("code", code))
			dropped = append(dropped, code)
			continue
		}
		desc, ok := table.Lookup(code)
		if !ok {
			logger.Warn("precautionary code has no description", logging.String("code", code))
			dropped = append(dropped, code)
			continue
		}
		set.Add(cat, StatementCode{Prefix: code[0], Number: code[1:], Description: desc})
	}
	return set, dropped
}

//Personal.AI order the ending
