package docx2pdf

import (
	"errors"

	"github.com/alnah/go-docx2pdf/internal/docx"
	"github.com/alnah/go-docx2pdf/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = docx.ErrNotFound
	// ErrFormat is returned when the input lacks the .docx extension or
	// cannot be parsed as a .docx package.
	ErrFormat = docx.ErrFormat
	// ErrImageExtraction wraps image failures listed in ConvertResult.Skipped.
	ErrImageExtraction = pipeline.ErrImageExtraction
	// ErrRender is returned when the PDF cannot be produced or written.
	ErrRender = errors.New("PDF rendering failed")

	// Browser engine errors, wrapped together with ErrRender.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Option validation errors.
	ErrInvalidEngine      = errors.New("invalid rendering engine")
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
