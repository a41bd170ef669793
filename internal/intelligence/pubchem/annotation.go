package pubchem

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/k3a/html2text"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
)

// ─────────────────────────────────────────────────────────────────────────────
// PUG View wire types
// ─────────────────────────────────────────────────────────────────────────────

type viewResponse struct {
	Record *viewRecord `json:"Record"`
	Fault  *viewFault  `json:"Fault"`
}

type viewFault struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type viewRecord struct {
	RecordType   string        `json:"RecordType"`
	RecordNumber int64         `json:"RecordNumber"`
	RecordTitle  string        `json:"RecordTitle"`
	Section      []viewSection `json:"Section"`
}

type viewSection struct {
	TOCHeading  string            `json:"TOCHeading"`
	Section     []viewSection     `json:"Section"`
	Information []viewInformation `json:"Information"`
}

type viewInformation struct {
	Name  string    `json:"Name"`
	Value viewValue `json:"Value"`
}

type viewValue struct {
	StringWithMarkup []stringWithMarkup `json:"StringWithMarkup"`
	Number           []float64          `json:"Number"`
	Unit             string             `json:"Unit"`
}

type stringWithMarkup struct {
	String string       `json:"String"`
	Markup []viewMarkup `json:"Markup"`
}

type viewMarkup struct {
	URL   string `json:"URL"`
	Type  string `json:"Type"`
	Extra string `json:"Extra"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Annotation
// ─────────────────────────────────────────────────────────────────────────────

// Row is one PUG View Information entry flattened to text.
type Row struct {
	Name string
	Text string
}

// Annotation is the ordered row table PubChem returns for one heading.  Row
// order is significant; positional reads go through a Layout.
type Annotation struct {
	CID     CID
	Heading string
	Rows    []Row

	// Icons holds every .svg icon markup found under the heading.
	Icons []sds.LabelElement
}

// Texts returns the row texts in order.
func (a Annotation) Texts() []string {
	out := make([]string, len(a.Rows))
	for i, r := range a.Rows {
		out[i] = r.Text
	}
	return out
}

// NonEmpty returns the non-blank row texts in order.
func (a Annotation) NonEmpty() []string {
	out := make([]string, 0, len(a.Rows))
	for _, r := range a.Rows {
		if strings.TrimSpace(r.Text) != "" {
			out = append(out, r.Text)
		}
	}
	return out
}

// First returns the first non-blank row, or "".
func (a Annotation) First() string {
	for _, r := range a.Rows {
		if t := strings.TrimSpace(r.Text); t != "" {
			return r.Text
		}
	}
	return ""
}

// Field reads the row layout names.  A row whose Information name matches
// one of the field's names wins; otherwise the field's position is used.
// The row count is checked here, and only here.
func (a Annotation) Field(layout Layout, name string) (string, error) {
	f, ok := layout.fields[name]
	if !ok {
		return "", fmt.Errorf("layout %q has no field %q", layout.Heading, name)
	}
	for _, alias := range f.names {
		for _, r := range a.Rows {
			if strings.EqualFold(strings.TrimSpace(r.Name), alias) {
				return r.Text, nil
			}
		}
	}
	if f.position >= len(a.Rows) {
		return "", fmt.Errorf("%s has %d rows, field %q needs row %d", a.Heading, len(a.Rows), name, f.position)
	}
	return a.Rows[f.position].Text, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Layout
// ─────────────────────────────────────────────────────────────────────────────

type layoutField struct {
	position int
	names    []string
}

// Layout names the rows of a heading so callers never index rows directly.
type Layout struct {
	Heading string
	fields  map[string]layoutField
}

// NewLayout starts an empty layout for heading.
func NewLayout(heading string) Layout {
	return Layout{Heading: heading, fields: make(map[string]layoutField)}
}

// With adds a field at position, also matched by any of the Information names.
func (l Layout) With(field string, position int, names ...string) Layout {
	fields := make(map[string]layoutField, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[field] = layoutField{position: position, names: names}
	return Layout{Heading: l.Heading, fields: fields}
}

// Layouts used by the resolver.
var (
	GHSClassificationLayout = NewLayout(HeadingGHSClassification).
				With("signal_word", 2, "Signal").
				With("hazard_codes", 3, "GHS Hazard Statements").
				With("precautionary_codes", 4, "Precautionary Statement Codes")

	HazardClassesLayout = NewLayout(HeadingHazardClasses).
				With("classification", 2)
)

// ─────────────────────────────────────────────────────────────────────────────
// Decoding
// ─────────────────────────────────────────────────────────────────────────────

// decodeAnnotation turns a PUG View body into an Annotation.  Information
// under sections titled heading is used; when no section carries that title
// every Information entry in the record is taken.
func decodeAnnotation(body []byte, cid CID, heading string) (Annotation, error) {
	var resp viewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Annotation{}, err
	}
	if resp.Record == nil {
		if resp.Fault != nil {
			return Annotation{}, fmt.Errorf("fault %s: %s", resp.Fault.Code, resp.Fault.Message)
		}
		return Annotation{}, fmt.Errorf("response has no Record")
	}

	ann := Annotation{CID: cid, Heading: heading}
	var matched []viewSection
	collectSections(resp.Record.Section, heading, &matched)
	if len(matched) == 0 {
		matched = resp.Record.Section
	}
	seen := make(map[[2]string]struct{})
	for _, s := range matched {
		appendInformation(&ann, s, seen)
	}
	return ann, nil
}

func collectSections(sections []viewSection, heading string, out *[]viewSection) {
	for _, s := range sections {
		if strings.EqualFold(s.TOCHeading, heading) {
			*out = append(*out, s)
			continue
		}
		collectSections(s.Section, heading, out)
	}
}

func appendInformation(ann *Annotation, s viewSection, seen map[[2]string]struct{}) {
	for _, info := range s.Information {
		ann.Rows = append(ann.Rows, Row{Name: info.Name, Text: flattenValue(info.Value)})
		for _, swm := range info.Value.StringWithMarkup {
			for _, m := range swm.Markup {
				if m.Type != "Icon" || !strings.HasSuffix(m.URL, ".svg") {
					continue
				}
				desc := m.Extra
				if desc == "" {
					desc = "GHS Label"
				}
				k := [2]string{m.URL, desc}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				ann.Icons = append(ann.Icons, sds.LabelElement{URL: m.URL, Description: desc})
			}
		}
	}
	for _, sub := range s.Section {
		appendInformation(ann, sub, seen)
	}
}

// flattenValue renders strings joined by "; ", or numbers followed by the
// unit.
func flattenValue(v viewValue) string {
	if len(v.StringWithMarkup) > 0 {
		parts := make([]string, 0, len(v.StringWithMarkup))
		for _, swm := range v.StringWithMarkup {
			if s := flattenMarkup(swm.String); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	if len(v.Number) > 0 {
		nums := make([]string, len(v.Number))
		for i, n := range v.Number {
			nums[i] = strconv.FormatFloat(n, 'f', -1, 64)
		}
		s := strings.Join(nums, ", ")
		if v.Unit != "" {
			s += " " + v.Unit
		}
		return s
	}
	return ""
}

func flattenMarkup(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = html2text.HTML2Text(s)
	}
	return strings.TrimSpace(s)
}

//Personal.AI order the ending
