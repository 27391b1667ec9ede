package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alnah/go-docx2pdf/internal/docx"
)

// SpacerHeight is the vertical gap in points placed after every paragraph
// and table.
const SpacerHeight = 12.0

// Source is the document content the assembler reads.
type Source interface {
	Paragraphs() []docx.Paragraph
	Tables() []docx.Table
	InlineShapes() []docx.InlineShape
}

// ImageSource turns inline shapes into image files.
type ImageSource interface {
	Extract(shape docx.InlineShape) (ImageBlock, error)
}

// Assembler builds a Flow from a document.
type Assembler struct {
	images ImageSource
	logger *slog.Logger
	style  TableStyle
}

// NewAssembler returns an Assembler. A nil images source drops every
// inline shape; a nil logger discards logs.
func NewAssembler(images ImageSource, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{images: images, logger: logger, style: DefaultTableStyle}
}

// Assemble lays out the document as paragraphs first, then tables, then
// images, each group in document order.
//
// A paragraph is kept when its markup has visible characters or its style
// is a heading; every kept paragraph and every table is followed by a
// spacer. Images that fail to extract are logged, recorded in
// Flow.Skipped and left out. The only error returned is the context's.
func (a *Assembler) Assemble(ctx context.Context, src Source) (*Flow, error) {
	flow := &Flow{}

	for _, p := range src.Paragraphs() {
		markup := ParagraphMarkup(p)
		level := MapStyle(p.StyleName)
		if strings.TrimSpace(markup) == "" && !level.IsHeading() {
			continue
		}
		flow.addText(markup, level)
		flow.addSpacer(SpacerHeight)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, t := range src.Tables() {
		rows := normalizeRows(t.Rows)
		if len(rows) == 0 || len(rows[0]) == 0 {
			continue
		}
		flow.addTable(rows, a.style)
		flow.addSpacer(SpacerHeight)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if a.images == nil {
		return flow, nil
	}
	for i, shape := range src.InlineShapes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := a.images.Extract(shape)
		if err != nil {
			a.logger.Warn("skipping image", "index", i, "embed", shape.EmbedID, "name", shape.Name, "error", err)
			flow.Skipped = append(flow.Skipped, err)
			continue
		}
		a.logger.Debug("extracted image", "index", i, "embed", shape.EmbedID, "format", img.Format,
			"width", img.Width, "height", img.Height)
		flow.addImage(img)
	}

	a.logger.Debug("assembled flow",
		"paragraphs", flow.Count(KindText),
		"tables", flow.Count(KindTable),
		"images", flow.Count(KindImage),
		"skipped", len(flow.Skipped))
	return flow, nil
}

// normalizeRows pads ragged rows with empty cells so every row has the
// same number of columns.
func normalizeRows(rows [][]string) [][]string {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, cols)
		copy(row, r)
		out[i] = row
	}
	return out
}
