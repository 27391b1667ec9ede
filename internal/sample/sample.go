// Package sample writes small .docx packages. It backs the "sample" command
// and builds fixtures for tests.
package sample

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	godocx "github.com/fumiama/go-docx"
	"github.com/fumiama/imgsz"
)

// Block is a piece of body content: *Paragraph, *Table or *Image.
type Block interface {
	writeTo(w *writer) error
}

// Run is a span of text with character flags.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Paragraph is a body paragraph. Style is a style id such as "Heading1",
// empty for the default style.
type Paragraph struct {
	Style string
	Runs  []Run
}

// Table is a grid of plain-text cells. Short rows are padded with empty
// cells.
type Table struct {
	Rows [][]string
}

// Image is an inline image in its own paragraph. Data is stored as-is under
// word/media/, so it may hold any bytes. With MissingRelationship set the
// drawing points at a relationship id that does not exist.
type Image struct {
	Name                string
	Data                []byte
	WidthEMU            int64
	HeightEMU           int64
	MissingRelationship bool
}

// Document describes a package to write.
type Document struct {
	Title  string
	Author string
	Blocks []Block
}

// Heading returns a heading paragraph of the given level.
func Heading(level int, text string) *Paragraph {
	return &Paragraph{Style: fmt.Sprintf("Heading%d", level), Runs: []Run{{Text: text}}}
}

// Text returns an unstyled single-run paragraph.
func Text(text string) *Paragraph {
	return &Paragraph{Runs: []Run{{Text: text}}}
}

// Default returns the document written by the "sample" command: a heading,
// a paragraph mixing bold, italic and plain runs, a small table and an image.
func Default() Document {
	return Document{
		Title: "Conversion Example",
		Blocks: []Block{
			Heading(1, "Conversion Example"),
			&Paragraph{Runs: []Run{
				{Text: "This is a sample paragraph with ", Bold: true},
				{Text: "bold, ", Italic: true},
				{Text: "italic and plain text."},
			}},
			&Table{Rows: [][]string{
				{"Column 1", "Column 2", "Column 3"},
				{"Data A1", "Data B1", "Data C1"},
			}},
			&Image{Name: "gradient.png", Data: GradientPNG(160, 80)},
		},
	}
}

// GradientPNG encodes a w x h PNG filled with a color gradient.
func GradientPNG(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{
				R: uint8(255 * x / max(w-1, 1)),
				G: uint8(255 * y / max(h-1, 1)),
				B: 160,
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// WriteFile writes doc as a .docx package at path.
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path) // #nosec G304 -- caller-provided output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write writes doc as a .docx package to w.
func Write(w io.Writer, doc Document) error {
	tmpl, err := templateFS(doc)
	if err != nil {
		return err
	}
	out := &writer{pkg: godocx.New().UseTemplate(templateName, godocx.DefaultTemplateFilesList, tmpl)}
	for _, blk := range doc.Blocks {
		if err := blk.writeTo(out); err != nil {
			return err
		}
	}
	out.pkg.WithA4Page()

	if _, err := out.pkg.WriteTo(w); err != nil {
		return fmt.Errorf("writing package: %w", err)
	}
	return nil
}

type writer struct {
	pkg    *godocx.Docx
	images int
}

func (p *Paragraph) writeTo(w *writer) error {
	para := w.pkg.AddParagraph()
	if p.Style != "" {
		para.Style(p.Style)
	}
	addRuns(para, p.Runs)
	return nil
}

func addRuns(para *godocx.Paragraph, runs []Run) {
	for _, r := range runs {
		run := para.AddText(r.Text)
		if r.Bold {
			run.Bold()
		}
		if r.Italic {
			run.Italic()
		}
		if r.Underline {
			run.Underline("single")
		}
		for _, c := range run.Children {
			if t, ok := c.(*godocx.Text); ok {
				t.XMLSpace = "preserve"
			}
		}
	}
}

func (t *Table) writeTo(w *writer) error {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	tbl := w.pkg.AddTable(len(t.Rows), cols, 0, nil)
	for i, tr := range tbl.TableRows {
		for j, tc := range tr.TableCells {
			var text string
			if j < len(t.Rows[i]) {
				text = t.Rows[i][j]
			}
			// One paragraph per line, as Word stores multi-line cells.
			for _, line := range strings.Split(text, "\n") {
				addRuns(tc.AddParagraph(), []Run{{Text: line}})
			}
		}
	}
	return nil
}

// emuPerPixel converts 96 dpi pixels to English Metric Units.
const emuPerPixel = 9525

// placeholderPNG stands in for image data go-docx cannot size; the bytes
// stored in the package are swapped back afterwards.
var placeholderPNG = GradientPNG(1, 1)

func (img *Image) writeTo(w *writer) error {
	w.images++
	para := w.pkg.AddParagraph()

	size, _, sizeErr := imgsz.DecodeSize(bytes.NewReader(img.Data))
	data := img.Data
	if sizeErr != nil {
		data = placeholderPNG
	}
	run, err := para.AddInlineDrawing(data)
	if err != nil {
		return fmt.Errorf("adding image %q: %w", img.Name, err)
	}
	inline := inlineOf(run)
	if inline == nil {
		return fmt.Errorf("adding image %q: no inline drawing", img.Name)
	}
	blip := &inline.Graphic.GraphicData.Pic.BlipFill.Blip

	if sizeErr != nil {
		if err := w.replaceMedia(blip.Embed, img.Data); err != nil {
			return fmt.Errorf("adding image %q: %w", img.Name, err)
		}
	}

	cx, cy := img.WidthEMU, img.HeightEMU
	if cx == 0 || cy == 0 {
		cx, cy = 100*emuPerPixel, 100*emuPerPixel
		if sizeErr == nil {
			cx, cy = int64(size.Width)*emuPerPixel, int64(size.Height)*emuPerPixel
		}
	}
	inline.Size(cx, cy)

	name := img.Name
	if name == "" {
		name = fmt.Sprintf("Picture %d", w.images)
	}
	inline.DocPr.Name = name
	if nv := inline.Graphic.GraphicData.Pic.NonVisualPicProperties; nv != nil {
		nv.NonVisualDrawingProperties.Name = name
	}

	if img.MissingRelationship {
		blip.Embed = fmt.Sprintf("rIdMissing%d", w.images)
	}
	return nil
}

// replaceMedia overwrites the bytes of the media part behind relationship id.
func (w *writer) replaceMedia(id string, data []byte) error {
	target, err := w.pkg.ReferTarget(id)
	if err != nil {
		return err
	}
	m := w.pkg.Media(strings.TrimPrefix(target, "media/"))
	if m == nil {
		return fmt.Errorf("media %s not found", target)
	}
	m.Data = data
	return nil
}

func inlineOf(run *godocx.Run) *godocx.WPInline {
	for _, c := range run.Children {
		if d, ok := c.(*godocx.Drawing); ok && d.Inline != nil {
			return d.Inline
		}
	}
	return nil
}
