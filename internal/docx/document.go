package docx

import (
	"strings"

	godocx "github.com/fumiama/go-docx"
)

// Run is a span of text sharing one set of character flags.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Paragraph is a body paragraph.
type Paragraph struct {
	// StyleID is the w:pStyle value, empty when the paragraph has no style.
	StyleID string
	// StyleName is the display name of the style, "Normal" by default.
	StyleName string
	Runs      []Run
}

// Text returns the concatenated text of all runs.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Table is a body table reduced to the text of its cells.
type Table struct {
	Rows [][]string
}

// Columns returns the width of the widest row.
func (t Table) Columns() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

// InlineShape is an image placed inline with text.
type InlineShape struct {
	// EmbedID is the relationship id of the image part.
	EmbedID string
	// Name is the drawing's docPr name.
	Name string
	// WidthEMU and HeightEMU are the extent in English Metric Units.
	WidthEMU  int64
	HeightEMU int64
}

// Part is a package part resolved through a relationship.
type Part struct {
	Name string
	Data []byte
}

// Metadata holds the core document properties.
type Metadata struct {
	Title   string
	Subject string
	Author  string
}

// defaultStyleName is the name Word gives paragraphs without a style.
const defaultStyleName = "Normal"

// styleTable resolves style ids to display names.
type styleTable map[string]string

func newStyleTable(s *stylesXML) styleTable {
	st := styleTable{}
	if s == nil {
		return st
	}
	for _, def := range s.Styles {
		if def.Type != "" && def.Type != "paragraph" {
			continue
		}
		if def.StyleID != "" && def.Name.Val != "" {
			st[def.StyleID] = canonicalStyleName(def.Name.Val)
		}
	}
	return st
}

// name returns the display name for a style id. Built-in heading ids are
// recognized even when styles.xml is missing.
func (st styleTable) name(id string) string {
	if id == "" {
		return defaultStyleName
	}
	if n, ok := st[id]; ok {
		return n
	}
	return canonicalStyleName(id)
}

// canonicalStyleName maps the lowercase and compact spellings of built-in
// style names to the form Word shows in its UI ("heading 1" becomes
// "Heading 1", "Heading1" becomes "Heading 1").
func canonicalStyleName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case lower == "title":
		return "Title"
	case lower == "normal":
		return defaultStyleName
	case strings.HasPrefix(lower, "heading"):
		level := strings.TrimSpace(lower[len("heading"):])
		if level == "" {
			return "Heading"
		}
		if isDigits(level) {
			return "Heading " + level
		}
	}
	return name
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func convertParagraph(p *godocx.Paragraph, styles styleTable) Paragraph {
	var id string
	if p.Properties != nil && p.Properties.Style != nil {
		id = p.Properties.Style.Val
	}
	return Paragraph{
		StyleID:   id,
		StyleName: styles.name(id),
		Runs:      paragraphRuns(p),
	}
}

// paragraphRuns flattens the runs of a paragraph. The runs of a hyperlink
// arrive merged into one run.
func paragraphRuns(p *godocx.Paragraph) []Run {
	runs := make([]Run, 0, len(p.Children))
	for _, c := range p.Children {
		switch o := c.(type) {
		case *godocx.Run:
			runs = append(runs, convertRun(o))
		case *godocx.Hyperlink:
			if len(o.Run.Children) > 0 {
				runs = append(runs, convertRun(&o.Run))
			}
		}
	}
	return runs
}

// convertRun reads the character flags of r. go-docx records w:b and w:i by
// presence only; w:u keeps its value so "none" turns underline off.
func convertRun(r *godocx.Run) Run {
	out := Run{Text: runText(r)}
	if props := r.RunProperties; props != nil {
		out.Bold = props.Bold != nil
		out.Italic = props.Italic != nil
		out.Underline = props.Underline != nil && underlined(props.Underline.Val)
	}
	return out
}

func underlined(val string) bool {
	switch strings.ToLower(val) {
	case "none", "false", "0", "off":
		return false
	}
	return true
}

func runText(r *godocx.Run) string {
	var sb strings.Builder
	for _, c := range r.Children {
		switch x := c.(type) {
		case *godocx.Text:
			sb.WriteString(x.Text)
		case *godocx.Tab:
			sb.WriteByte('\t')
		case *godocx.BarterRabbet:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func paragraphText(p *godocx.Paragraph) string {
	var sb strings.Builder
	for _, r := range paragraphRuns(p) {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// convertTable flattens a table to cell text. Horizontally merged cells are
// repeated across the columns they span and vertically merged cells repeat
// the text of the cell that starts the merge.
func convertTable(t *godocx.Table) Table {
	out := Table{Rows: make([][]string, 0, len(t.TableRows))}
	var above []string
	for _, tr := range t.TableRows {
		row := make([]string, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			parts := make([]string, 0, len(tc.Paragraphs))
			for _, p := range tc.Paragraphs {
				parts = append(parts, paragraphText(p))
			}
			text := strings.Join(parts, "\n")
			col := len(row)
			if props := tc.TableCellProperties; props != nil && props.VMerge != nil &&
				props.VMerge.Val != "restart" && col < len(above) {
				text = above[col]
			}
			for range spanOf(tc) {
				row = append(row, text)
			}
		}
		out.Rows = append(out.Rows, row)
		above = row
	}
	return out
}

// maxGridSpan bounds the columns a single cell may claim.
const maxGridSpan = 63

func spanOf(tc *godocx.WTableCell) int {
	props := tc.TableCellProperties
	if props == nil || props.GridSpan == nil {
		return 1
	}
	return min(max(props.GridSpan.Val, 1), maxGridSpan)
}

func collectTableShapes(t *godocx.Table, dst []InlineShape) []InlineShape {
	for _, tr := range t.TableRows {
		for _, tc := range tr.TableCells {
			for _, p := range tc.Paragraphs {
				dst = collectShapes(p, dst)
			}
			for _, nested := range tc.Tables {
				dst = collectTableShapes(nested, dst)
			}
		}
	}
	return dst
}

func collectShapes(p *godocx.Paragraph, dst []InlineShape) []InlineShape {
	for _, c := range p.Children {
		switch o := c.(type) {
		case *godocx.Run:
			dst = runShapes(o, dst)
		case *godocx.Hyperlink:
			dst = runShapes(&o.Run, dst)
		}
	}
	return dst
}

func runShapes(r *godocx.Run, dst []InlineShape) []InlineShape {
	for _, c := range r.Children {
		d, ok := c.(*godocx.Drawing)
		if !ok || d.Inline == nil {
			continue
		}
		if s, ok := inlineShape(d.Inline); ok {
			dst = append(dst, s)
		}
	}
	return dst
}

// inlineShape keeps pictures only; shapes, canvases and groups carry no
// embedded image.
func inlineShape(in *godocx.WPInline) (InlineShape, bool) {
	g := in.Graphic
	if g == nil || g.GraphicData == nil || g.GraphicData.Pic == nil || g.GraphicData.Pic.BlipFill == nil {
		return InlineShape{}, false
	}
	s := InlineShape{EmbedID: g.GraphicData.Pic.BlipFill.Blip.Embed}
	if s.EmbedID == "" {
		return InlineShape{}, false
	}
	if in.DocPr != nil {
		s.Name = in.DocPr.Name
	}
	if in.Extent != nil {
		s.WidthEMU, s.HeightEMU = in.Extent.CX, in.Extent.CY
	}
	return s, true
}
