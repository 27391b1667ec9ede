package docx2pdf

import (
	"fmt"
	"strings"

	"github.com/alnah/go-docx2pdf/internal/pipeline"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

const pointsPerInch = 72.0

// pageSizes holds portrait page dimensions in points.
var pageSizes = map[string][2]float64{
	PageSizeLetter: {612, 792},
	PageSizeA4:     {595.28, 841.89},
	PageSizeLegal:  {612, 1008},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns US Letter portrait with one inch margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := pageSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// dimensions returns the page width and height in points.
func (p *PageSettings) dimensions() (width, height float64) {
	size, ok := pageSizes[strings.ToLower(p.Size)]
	if !ok {
		size = pageSizes[PageSizeLetter]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return size[1], size[0]
	}
	return size[0], size[1]
}

// marginPoints returns the margin in points.
func (p *PageSettings) marginPoints() float64 {
	return p.Margin * pointsPerInch
}

// Engine selects how the PDF is produced.
type Engine string

const (
	// EngineNative lays pages out with the built-in PDF writer.
	EngineNative Engine = "native"
	// EngineChrome prints an HTML rendering with headless Chrome.
	EngineChrome Engine = "chrome"
)

// Validate checks that e names a known engine.
func (e Engine) Validate() error {
	switch e {
	case EngineNative, EngineChrome:
		return nil
	}
	return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidEngine, string(e), EngineNative, EngineChrome)
}

// Input contains conversion parameters.
type Input struct {
	Path string // path to the .docx file (required)
}

// Stats counts the items laid out in the PDF.
type Stats struct {
	Paragraphs    int
	Tables        int
	Images        int
	SkippedImages int
}

// ConvertResult contains the output of a successful conversion.
type ConvertResult struct {
	PDF   []byte
	Stats Stats
	// Skipped holds one error per image left out, each wrapping
	// ErrImageExtraction.
	Skipped []error
}

func statsOf(f *pipeline.Flow) Stats {
	return Stats{
		Paragraphs:    f.Count(pipeline.KindText),
		Tables:        f.Count(pipeline.KindTable),
		Images:        f.Count(pipeline.KindImage),
		SkippedImages: len(f.Skipped),
	}
}
