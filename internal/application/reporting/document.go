// Package reporting turns a completed safety data sheet into a renderable
// Document and drives the HTML and PDF renderers over it.
package reporting

import "strings"

// ============================================================================
// Blocks
// ============================================================================

// BlockKind selects how a Block is laid out.
type BlockKind string

const (
	KindHeading       BlockKind = "heading"
	KindSubheading    BlockKind = "subheading"
	KindKeyValueTable BlockKind = "kv_table"
	KindTable         BlockKind = "table"
	KindImageGrid     BlockKind = "image_grid"
	KindText          BlockKind = "text"
	KindCentered      BlockKind = "centered"
)

// ImagesPerRow caps the width of an image grid.
const ImagesPerRow = 3

// KeyValue is one row of a two-column label/value table.
type KeyValue struct {
	Key   string
	Value string
}

// Image is one pictogram in a grid.
type Image struct {
	URL     string
	Caption string
}

// Block is one renderable unit.  Which fields are set depends on Kind:
//
//	Heading, Subheading    Text
//	Text, Centered         Text, optionally led by a bold Label
//	KeyValueTable          Pairs
//	Table                  Headers, Rows
//	ImageGrid              Label over the first row only, Images
//
// Multi-line values use "\n"; the renderer decides how to break them.
type Block struct {
	Kind    BlockKind
	Text    string
	Label   string
	Pairs   []KeyValue
	Headers []string
	Rows    [][]string
	Images  [][]Image
}

// Document is the ordered block sequence for one record.  It carries no
// timestamps; footers are added at render time.
type Document struct {
	Title  string
	Blocks []Block
}

// Headings returns the section headings in order.
func (d Document) Headings() []string {
	out := make([]string, 0, 16)
	for _, b := range d.Blocks {
		if b.Kind == KindHeading {
			out = append(out, b.Text)
		}
	}
	return out
}

// Section returns the blocks from the heading starting with prefix up to the
// next heading, or nil when no heading matches.  Pass the colon
// ("Section 1:") to tell 1 from 12.
func (d Document) Section(prefix string) []Block {
	start := -1
	for i, b := range d.Blocks {
		if b.Kind != KindHeading {
			continue
		}
		if start >= 0 {
			return d.Blocks[start:i]
		}
		if strings.HasPrefix(b.Text, prefix) {
			start = i
		}
	}
	if start < 0 {
		return nil
	}
	return d.Blocks[start:]
}

func heading(text string) Block    { return Block{Kind: KindHeading, Text: text} }
func subheading(text string) Block { return Block{Kind: KindSubheading, Text: text} }

func text(label, body string) Block {
	return Block{Kind: KindText, Label: label, Text: body}
}

func kvTable(pairs []KeyValue) Block {
	return Block{Kind: KindKeyValueTable, Pairs: pairs}
}

func table(headers []string, rows ...[]string) Block {
	return Block{Kind: KindTable, Headers: headers, Rows: rows}
}

// imageGrid wraps images into rows of at most ImagesPerRow.
func imageGrid(label string, images []Image) Block {
	rows := make([][]Image, 0, (len(images)+ImagesPerRow-1)/ImagesPerRow)
	for i := 0; i < len(images); i += ImagesPerRow {
		end := i + ImagesPerRow
		if end > len(images) {
			end = len(images)
		}
		rows = append(rows, images[i:end])
	}
	return Block{Kind: KindImageGrid, Label: label, Images: rows}
}

//Personal.AI order the ending
