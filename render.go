package docx2pdf

import (
	"context"
	"log/slog"
	"time"

	"github.com/alnah/go-docx2pdf/internal/pipeline"
)

// pdfRenderer lays out an assembled flow as PDF bytes.
type pdfRenderer interface {
	Render(ctx context.Context, flow *pipeline.Flow, opts *renderOptions) ([]byte, error)
	Close() error
}

// renderOptions holds per-document settings for a pdfRenderer.
type renderOptions struct {
	Page      *PageSettings
	Title     string
	Author    string
	CreatedAt time.Time
	Compress  bool
	Logger    *slog.Logger
}

// Compile-time interface checks
var (
	_ pdfRenderer = (*nativeRenderer)(nil)
	_ pdfRenderer = (*chromeRenderer)(nil)
)
