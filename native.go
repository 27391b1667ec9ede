package docx2pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/alnah/go-docx2pdf/internal/pipeline"
)

const (
	fontFamily = "Helvetica"
	creator    = "docx2pdf"
)

// paragraphStyle holds the typography of one paragraph style in points.
type paragraphStyle struct {
	fontStyle   string
	size        float64
	leading     float64
	spaceBefore float64
	spaceAfter  float64
}

var paragraphStyles = map[pipeline.StyleLevel]paragraphStyle{
	pipeline.StyleDefault:  {fontStyle: "", size: 10, leading: 12},
	pipeline.StyleHeading1: {fontStyle: "B", size: 18, leading: 22, spaceAfter: 6},
	pipeline.StyleHeading2: {fontStyle: "B", size: 14, leading: 18, spaceBefore: 12, spaceAfter: 6},
	pipeline.StyleHeading3: {fontStyle: "BI", size: 12, leading: 14, spaceBefore: 12, spaceAfter: 6},
}

// Table cell typography in points.
const (
	cellFontSize = 10.0
	cellLeading  = 12.0
	cellPadX     = 6.0
	cellPadY     = 3.0
	// cellBaseline is the distance from a line's top to its baseline.
	cellBaseline = 9.0
)

// nativeRenderer lays out flows with fpdf and the core Helvetica fonts.
type nativeRenderer struct{}

func newNativeRenderer() *nativeRenderer {
	return &nativeRenderer{}
}

// Close is a no-op; the native renderer holds no resources.
func (r *nativeRenderer) Close() error {
	return nil
}

// Render lays out the flow on pages described by opts.Page.
func (r *nativeRenderer) Render(ctx context.Context, flow *pipeline.Flow, opts *renderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := opts.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	l := newLayout(page, logger)
	l.pdf.SetCompression(opts.Compress)
	l.pdf.SetCreator(creator, false)
	if opts.Title != "" {
		l.pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		l.pdf.SetAuthor(opts.Author, true)
	}
	if !opts.CreatedAt.IsZero() {
		l.pdf.SetCreationDate(opts.CreatedAt)
		l.pdf.SetModificationDate(opts.CreatedAt)
	}

	for i, it := range flow.Items {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		switch it.Kind {
		case pipeline.KindText:
			l.text(it.Text)
		case pipeline.KindSpacer:
			l.spacer(it.Spacer)
		case pipeline.KindTable:
			l.table(it.Table)
		case pipeline.KindImage:
			l.image(it.Image)
		}
		if err := l.pdf.Error(); err != nil {
			return nil, fmt.Errorf("laying out %s item %d: %w", it.Kind, i, err)
		}
	}

	var buf bytes.Buffer
	if err := l.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	for _, d := range l.dropped {
		flow.DropImage(d.img, d.err)
	}
	return buf.Bytes(), nil
}

// layout tracks the frame of the current document.
type layout struct {
	pdf    *fpdf.Fpdf
	logger *slog.Logger
	left   float64
	top    float64
	width  float64
	bottom float64
	height float64
	// dropped collects images that could not be placed, in flow order.
	dropped []droppedImage
}

func newLayout(page *PageSettings, logger *slog.Logger) *layout {
	w, h := page.dimensions()
	m := page.marginPoints()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(m, m, m)
	pdf.SetAutoPageBreak(true, m)
	pdf.SetCellMargin(0)
	pdf.SetCatalogSort(true)
	pdf.SetTextColor(0, 0, 0)
	pdf.AddPage()

	return &layout{
		pdf:    pdf,
		logger: logger,
		left:   m,
		top:    m,
		width:  w - 2*m,
		bottom: h - m,
		height: h - 2*m,
	}
}

// atTop reports whether the cursor sits at the top of the frame.
func (l *layout) atTop() bool {
	return l.pdf.GetY() <= l.top+0.01
}

// ensure starts a new page when h points do not fit below the cursor.
// Items taller than the frame are placed at the top of a page.
func (l *layout) ensure(h float64) {
	if l.pdf.GetY()+h > l.bottom && !l.atTop() {
		l.pdf.AddPage()
	}
}

func (l *layout) text(t *pipeline.TextBlock) {
	st, ok := paragraphStyles[t.Style]
	if !ok {
		st = paragraphStyles[pipeline.StyleDefault]
	}

	if st.spaceBefore > 0 && !l.atTop() {
		l.pdf.Ln(st.spaceBefore)
	}
	l.ensure(st.leading)
	l.pdf.SetX(l.left)

	for _, seg := range pipeline.ParseMarkup(t.Markup) {
		l.pdf.SetFont(fontFamily, segmentStyle(st.fontStyle, seg), st.size)
		l.pdf.Write(st.leading, encodeText(seg.Text))
	}
	l.pdf.Ln(st.leading)

	if st.spaceAfter > 0 {
		l.pdf.Ln(st.spaceAfter)
	}
}

// segmentStyle merges the paragraph font style with inline flags into an
// fpdf style string.
func segmentStyle(base string, seg pipeline.Segment) string {
	bold := seg.Bold || strings.Contains(base, "B")
	italic := seg.Italic || strings.Contains(base, "I")
	var s string
	if bold {
		s += "B"
	}
	if italic {
		s += "I"
	}
	if seg.Underline {
		s += "U"
	}
	return s
}

// spacer advances the cursor. A gap that reaches past the frame is
// dropped instead of starting a page.
func (l *layout) spacer(h float64) {
	y := l.pdf.GetY() + h
	if y > l.bottom {
		return
	}
	l.pdf.SetY(y)
}

func (l *layout) table(t *pipeline.TableGrid) {
	cols := t.Columns()
	if cols == 0 {
		return
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, cols)
		for j := range row {
			rows[i][j] = encodeText(row[j])
		}
	}

	widths := l.columnWidths(rows, t.Style.HeaderBold)
	total := 0.0
	for _, w := range widths {
		total += w
	}
	x0 := l.left + (l.width-total)/2

	st := t.Style
	l.pdf.SetLineWidth(st.GridWidth)
	l.pdf.SetDrawColor(int(st.GridColor.R), int(st.GridColor.G), int(st.GridColor.B))

	for i, row := range rows {
		header := i == 0
		l.setCellFont(header && st.HeaderBold)

		cells := make([][]string, cols)
		lines := 1
		for j, cell := range row {
			cells[j] = wrapCell(l.pdf.GetStringWidth, cell, widths[j]-2*cellPadX)
			lines = max(lines, len(cells[j]))
		}
		rowH := float64(lines)*cellLeading + 2*cellPadY

		l.ensure(rowH)
		y := l.pdf.GetY()

		border := "D"
		if header {
			bg := st.HeaderBackground
			l.pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
			border = "FD"
		}

		x := x0
		for j := range cells {
			l.pdf.Rect(x, y, widths[j], rowH, border)
			for k, line := range cells[j] {
				if line == "" {
					continue
				}
				l.pdf.Text(x+cellPadX, y+cellPadY+float64(k)*cellLeading+cellBaseline, line)
			}
			x += widths[j]
		}
		l.pdf.SetXY(l.left, y+rowH)
	}
}

func (l *layout) setCellFont(bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	l.pdf.SetFont(fontFamily, style, cellFontSize)
}

// columnWidths sizes each column to its widest line plus padding and
// scales the set down proportionally when it overflows the frame.
func (l *layout) columnWidths(rows [][]string, headerBold bool) []float64 {
	widths := make([]float64, len(rows[0]))
	for i, row := range rows {
		l.setCellFont(i == 0 && headerBold)
		for j, cell := range row {
			for _, line := range strings.Split(cell, "\n") {
				widths[j] = max(widths[j], l.pdf.GetStringWidth(line))
			}
		}
	}

	total := 0.0
	for j := range widths {
		widths[j] += 2 * cellPadX
		total += widths[j]
	}
	if total > l.width {
		scale := l.width / total
		for j := range widths {
			widths[j] *= scale
		}
	}
	return widths
}

// wrapCell breaks text into lines no wider than width. Words wider than a
// line are split between characters. Text must be single-byte encoded.
func wrapCell(measure func(string) float64, text string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for len(word) > 1 && measure(word) > width {
				n := fitPrefix(measure, word, width)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// fitPrefix returns the length of the longest prefix of s that fits in
// width, and at least 1.
func fitPrefix(measure func(string) float64, s string, width float64) int {
	n := 1
	for n < len(s) && measure(s[:n+1]) <= width {
		n++
	}
	return n
}

// droppedImage is an image the layout could not place.
type droppedImage struct {
	img *pipeline.ImageBlock
	err error
}

func (l *layout) image(img *pipeline.ImageBlock) {
	w, h := img.Width, img.Height
	if w <= 0 || h <= 0 {
		l.drop(img, fmt.Errorf("invalid display size %.1fx%.1f", w, h))
		return
	}
	if w > l.width {
		h *= l.width / w
		w = l.width
	}
	if h > l.height {
		w *= l.height / h
		h = l.height
	}

	opts := fpdf.ImageOptions{ImageType: img.Format, ReadDpi: false}
	l.pdf.RegisterImageOptions(img.Path, opts)
	if l.pdf.Err() {
		err := l.pdf.Error()
		l.pdf.ClearError()
		l.drop(img, err)
		return
	}

	l.ensure(h)
	y := l.pdf.GetY()
	x := l.left + (l.width-w)/2
	l.pdf.ImageOptions(img.Path, x, y, w, h, false, opts, 0, "")
	l.pdf.SetXY(l.left, y+h)
}

func (l *layout) drop(img *pipeline.ImageBlock, err error) {
	l.logger.Warn("image not placed", "path", img.Path, "error", err)
	l.dropped = append(l.dropped, droppedImage{img: img, err: err})
}
