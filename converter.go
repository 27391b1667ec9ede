package docx2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docx2pdf/internal/assets"
	"github.com/alnah/go-docx2pdf/internal/docx"
	"github.com/alnah/go-docx2pdf/internal/fileutil"
	"github.com/alnah/go-docx2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Source       = (*docx.Document)(nil)
	_ pipeline.PartResolver = (*docx.Document)(nil)
	_ pipeline.ImageSource  = (*pipeline.ImageExtractor)(nil)
)

// filePermissions is the mode of written PDF files.
const filePermissions = 0o644

// Converter orchestrates the docx-to-PDF conversion pipeline.
// Create with NewConverter(), use Convert() or ConvertFile() for
// conversion, and Close() when done.
type Converter struct {
	cfg         converterConfig
	assetLoader assets.Loader
	renderer    pdfRenderer
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithEngine, WithPage, WithTimeout).
// Returns error if an option is invalid or chrome assets cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			engine:   EngineNative,
			timeout:  defaultTimeout,
			compress: true,
			now:      time.Now,
			style:    assets.DefaultStyleName,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.logger == nil {
		c.cfg.logger = slog.New(slog.DiscardHandler)
	}
	if c.cfg.page == nil {
		c.cfg.page = DefaultPageSettings()
	}
	if err := c.cfg.page.Validate(); err != nil {
		return nil, err
	}
	if err := c.cfg.engine.Validate(); err != nil {
		return nil, err
	}

	// Create renderer if not injected (e.g., by tests)
	if c.renderer != nil {
		return c, nil
	}

	switch c.cfg.engine {
	case EngineChrome:
		if err := c.initAssets(); err != nil {
			return nil, err
		}
		c.renderer = newChromeRenderer(c.assetLoader, c.cfg.style, c.cfg.timeout)
	default:
		c.renderer = newNativeRenderer()
	}
	return c, nil
}

// initAssets resolves the asset loader and checks the style exists, so a
// bad style fails at construction rather than on the first conversion.
func (c *Converter) initAssets() error {
	resolver, err := assets.NewResolver(c.cfg.assetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.assetLoader = resolver

	if _, err := c.assetLoader.LoadStyle(c.cfg.style); err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, c.cfg.style)
		}
		return fmt.Errorf("loading style: %w", err)
	}
	return nil
}

// Convert reads the .docx file at input.Path and returns the PDF bytes.
// The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	log := c.cfg.logger.With("input", input.Path)
	start := time.Now()

	doc, err := docx.Open(input.Path)
	if err != nil {
		return nil, err
	}
	log.Debug("package read",
		"paragraphs", len(doc.Paragraphs()),
		"tables", len(doc.Tables()),
		"shapes", len(doc.InlineShapes()))

	dir, err := fileutil.NewTempDir()
	if err != nil {
		return nil, fmt.Errorf("preparing image directory: %w", err)
	}
	defer func() {
		if cerr := dir.Cleanup(); cerr != nil {
			log.Warn("temp directory not removed", "path", dir.Path(), "error", cerr)
		}
	}()

	pageWidth, _ := c.cfg.page.dimensions()
	extractor := pipeline.NewImageExtractor(doc, dir, pageWidth, c.cfg.imageMaxWidth)
	flow, err := pipeline.NewAssembler(extractor, log).Assemble(ctx, doc)
	if err != nil {
		return nil, err
	}

	meta := doc.Metadata()
	title := meta.Title
	if title == "" {
		title = flow.Heading()
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(input.Path), filepath.Ext(input.Path))
	}

	pdf, err := c.renderer.Render(ctx, flow, &renderOptions{
		Page:      c.cfg.page,
		Title:     title,
		Author:    meta.Author,
		CreatedAt: c.cfg.now(),
		Compress:  c.cfg.compress,
		Logger:    log,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	stats := statsOf(flow)
	log.Info("converted",
		"engine", string(c.cfg.engine),
		"paragraphs", stats.Paragraphs,
		"tables", stats.Tables,
		"images", stats.Images,
		"skipped_images", stats.SkippedImages,
		"bytes", len(pdf),
		"duration", time.Since(start))

	return &ConvertResult{PDF: pdf, Stats: stats, Skipped: flow.Skipped}, nil
}

// ConvertFile converts inputPath and writes the PDF to outputPath.
// An empty outputPath writes next to the input with the extension replaced
// by .pdf. Returns the path written.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = fileutil.ReplaceExt(inputPath, ".pdf")
	}

	result, err := c.Convert(ctx, Input{Path: inputPath})
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(outputPath, result.PDF, filePermissions); err != nil { // #nosec G306 -- PDF output is meant to be shared
		return "", fmt.Errorf("%w: writing %s: %w", ErrRender, outputPath, err)
	}
	return outputPath, nil
}

// Close releases renderer resources.
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// ConvertFile converts inputPath to outputPath with a one-shot Converter.
// See Converter.ConvertFile.
func ConvertFile(ctx context.Context, inputPath, outputPath string, opts ...Option) (string, error) {
	c, err := NewConverter(opts...)
	if err != nil {
		return "", err
	}
	defer c.Close()
	return c.ConvertFile(ctx, inputPath, outputPath)
}
