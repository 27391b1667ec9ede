package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // register decoder
	_ "image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/alnah/go-docx2pdf/internal/docx"
	"github.com/alnah/go-docx2pdf/internal/fileutil"
)

// ErrImageExtraction wraps every failure to turn an inline shape into an
// image file. Such failures skip the image; they never fail a conversion.
var ErrImageExtraction = errors.New("image extraction failed")

// Image sizing in points.
const (
	// DefaultImageMaxWidth caps the display width of every image.
	DefaultImageMaxWidth = 250.0
	// ImageSideAllowance is subtracted from the page width to bound the
	// display width on narrow pages.
	ImageSideAllowance = 100.0
)

// maxImagePixels bounds decoded image size.
const maxImagePixels = 64 << 20

// PartResolver resolves relationship ids to package parts.
type PartResolver interface {
	Related(id string) (docx.Part, error)
}

// ImageExtractor writes embedded images to a temp directory, normalized to
// formats a PDF writer can embed: JPEG stays as-is, everything else is
// re-encoded as 8-bit PNG.
type ImageExtractor struct {
	parts    PartResolver
	dir      *fileutil.TempDir
	maxWidth float64
	width    float64
}

// NewImageExtractor returns an extractor sizing images for a page of the
// given width in points. maxWidth <= 0 selects DefaultImageMaxWidth.
func NewImageExtractor(parts PartResolver, dir *fileutil.TempDir, pageWidth, maxWidth float64) *ImageExtractor {
	if maxWidth <= 0 {
		maxWidth = DefaultImageMaxWidth
	}
	return &ImageExtractor{parts: parts, dir: dir, maxWidth: maxWidth, width: pageWidth}
}

// DisplayWidth returns the width every image is drawn at.
func (e *ImageExtractor) DisplayWidth() float64 {
	w := min(e.maxWidth, e.width-ImageSideAllowance)
	if w <= 0 {
		return e.maxWidth
	}
	return w
}

// Extract resolves shape to its image part, validates and normalizes it,
// and writes it to the temp directory.
func (e *ImageExtractor) Extract(shape docx.InlineShape) (ImageBlock, error) {
	part, err := e.parts.Related(shape.EmbedID)
	if err != nil {
		return ImageBlock{}, fmt.Errorf("%w: %v", ErrImageExtraction, err)
	}

	mtype := mimetype.Detect(part.Data)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(part.Data))
	if err != nil {
		return ImageBlock{}, fmt.Errorf("%w: %s (%s): %v", ErrImageExtraction, part.Name, mtype.String(), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		return ImageBlock{}, fmt.Errorf("%w: %s: unsupported dimensions %dx%d", ErrImageExtraction, part.Name, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(part.Data))
	if err != nil {
		return ImageBlock{}, fmt.Errorf("%w: %s: %v", ErrImageExtraction, part.Name, err)
	}

	data, format, ext := part.Data, "JPG", "jpg"
	if !mtype.Is("image/jpeg") {
		var buf bytes.Buffer
		if err := png.Encode(&buf, toNRGBA(img)); err != nil {
			return ImageBlock{}, fmt.Errorf("%w: %s: encoding png: %v", ErrImageExtraction, part.Name, err)
		}
		data, format, ext = buf.Bytes(), "PNG", "png"
	}

	path, err := e.dir.WriteFile(data, ext)
	if err != nil {
		return ImageBlock{}, fmt.Errorf("%w: %v", ErrImageExtraction, err)
	}

	w := e.DisplayWidth()
	return ImageBlock{
		Path:   path,
		Format: format,
		Width:  w,
		Height: w * float64(cfg.Height) / float64(cfg.Width),
	}, nil
}

// toNRGBA converts img to non-interlaced 8-bit RGBA.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
