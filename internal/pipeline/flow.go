package pipeline

import (
	"fmt"
	"slices"
)

// Kind identifies the payload of a flow Item.
type Kind int

const (
	KindText Kind = iota + 1
	KindSpacer
	KindTable
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSpacer:
		return "spacer"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// Colors used by the default table style.
var (
	ColorBlack     = Color{0, 0, 0}
	ColorLightGrey = Color{0xD3, 0xD3, 0xD3}
)

// TableStyle describes how a table grid is drawn.
type TableStyle struct {
	// GridWidth is the line width of the cell grid in points.
	GridWidth float64
	GridColor Color
	// HeaderBackground fills the first row.
	HeaderBackground Color
	// HeaderBold sets the first row in the bold face.
	HeaderBold bool
}

// DefaultTableStyle is a 0.5pt black grid with a bold header row on a light
// grey background.
var DefaultTableStyle = TableStyle{
	GridWidth:        0.5,
	GridColor:        ColorBlack,
	HeaderBackground: ColorLightGrey,
	HeaderBold:       true,
}

// TextBlock is a styled paragraph of inline markup.
type TextBlock struct {
	Markup string
	Style  StyleLevel
}

// TableGrid is a table of plain-text cells.
type TableGrid struct {
	Rows  [][]string
	Style TableStyle
}

// Columns returns the width of the widest row.
func (t *TableGrid) Columns() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

// ImageBlock is an image file placed at a fixed display size in points.
type ImageBlock struct {
	Path string
	// Format is the fpdf image type of the file: "PNG" or "JPG".
	Format string
	Width  float64
	Height float64
}

// Item is one element of a Flow. Exactly the field matching Kind is set.
type Item struct {
	Kind   Kind
	Text   *TextBlock
	Spacer float64
	Table  *TableGrid
	Image  *ImageBlock
}

// Flow is the ordered sequence of items a renderer lays out, plus the
// images that could not be extracted.
type Flow struct {
	Items   []Item
	Skipped []error
}

// Count returns the number of items of kind k.
func (f *Flow) Count(k Kind) int {
	n := 0
	for _, it := range f.Items {
		if it.Kind == k {
			n++
		}
	}
	return n
}

func (f *Flow) addText(markup string, style StyleLevel) {
	f.Items = append(f.Items, Item{Kind: KindText, Text: &TextBlock{Markup: markup, Style: style}})
}

func (f *Flow) addSpacer(h float64) {
	f.Items = append(f.Items, Item{Kind: KindSpacer, Spacer: h})
}

func (f *Flow) addTable(rows [][]string, style TableStyle) {
	f.Items = append(f.Items, Item{Kind: KindTable, Table: &TableGrid{Rows: rows, Style: style}})
}

func (f *Flow) addImage(img ImageBlock) {
	f.Items = append(f.Items, Item{Kind: KindImage, Image: &img})
}

// DropImage removes the item holding img and records err in Skipped wrapped
// with ErrImageExtraction. Renderers call it for images they could not place
// so the flow ends up describing what was drawn.
func (f *Flow) DropImage(img *ImageBlock, err error) {
	for i, it := range f.Items {
		if it.Kind == KindImage && it.Image == img {
			f.Items = slices.Delete(f.Items, i, i+1)
			break
		}
	}
	f.Skipped = append(f.Skipped, fmt.Errorf("%w: %s: %w", ErrImageExtraction, img.Path, err))
}

// Heading returns the plain text of the first heading in the flow, or ""
// when there is none.
func (f *Flow) Heading() string {
	for _, it := range f.Items {
		if it.Kind == KindText && it.Text.Style.IsHeading() {
			return PlainText(it.Text.Markup)
		}
	}
	return ""
}
