package docx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	godocx "github.com/fumiama/go-docx"
	"github.com/gabriel-vasile/mimetype"
)

// Extension is the only file extension Open accepts.
const Extension = ".docx"

// MaxPackageSize bounds the size of a package read into memory.
const MaxPackageSize = 256 << 20

// Document is a parsed .docx package.
type Document struct {
	pkg        *godocx.Docx
	parts      partIndex
	paragraphs []Paragraph
	tables     []Table
	shapes     []InlineShape
	meta       Metadata
}

// Open reads and parses the .docx package at path.
// It returns ErrNotFound when path does not exist and ErrFormat when the
// extension is not .docx or the package cannot be read.
func Open(filename string) (*Document, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if !strings.EqualFold(filepath.Ext(filename), Extension) {
		return nil, fmt.Errorf("%w: %s: expected %s extension", ErrFormat, filename, Extension)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFormat, filename)
	}
	if info.Size() > MaxPackageSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFormat, filename, MaxPackageSize)
	}

	data, err := os.ReadFile(filename) // #nosec G304 -- user-provided input path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return Parse(data)
}

// Parse parses a .docx package held in memory.
func Parse(data []byte) (*Document, error) {
	if !isZip(mimetype.Detect(data)) {
		return nil, fmt.Errorf("%w: content is not a zip package", ErrFormat)
	}
	// The index is built first so oversized parts are rejected before the
	// document and its media are decompressed.
	parts, err := indexParts(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	for _, name := range []string{contentTypesPart, documentPart} {
		if !parts.has(name) {
			return nil, fmt.Errorf("%w: missing required part %s", ErrFormat, name)
		}
	}

	pkg, err := godocx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing document: %v", ErrFormat, err)
	}

	d := &Document{pkg: pkg, parts: parts}
	d.build(newStyleTable(parts.styles()))
	d.meta = parts.metadata()
	return d, nil
}

func isZip(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

// build walks the body once. Inline shapes are gathered in document order,
// table cells included.
func (d *Document) build(styles styleTable) {
	for _, item := range d.pkg.Document.Body.Items {
		switch it := item.(type) {
		case *godocx.Paragraph:
			d.paragraphs = append(d.paragraphs, convertParagraph(it, styles))
			d.shapes = collectShapes(it, d.shapes)
		case *godocx.Table:
			d.tables = append(d.tables, convertTable(it))
			d.shapes = collectTableShapes(it, d.shapes)
		}
	}
}

// Paragraphs returns the body paragraphs in document order.
// Paragraphs inside tables are not included.
func (d *Document) Paragraphs() []Paragraph { return d.paragraphs }

// Tables returns the top-level body tables in document order.
func (d *Document) Tables() []Table { return d.tables }

// InlineShapes returns every inline image in document order.
func (d *Document) InlineShapes() []InlineShape { return d.shapes }

// Metadata returns the core properties of the package.
func (d *Document) Metadata() Metadata { return d.meta }

// Related resolves a relationship id from the main document part to the
// package part it targets. Media parts come from the parsed package; any
// other target is read from the archive.
func (d *Document) Related(id string) (Part, error) {
	var (
		rel   godocx.Relationship
		found bool
	)
	_ = d.pkg.RangeRelationships(func(r *godocx.Relationship) error {
		if !found && r.ID == id {
			rel, found = *r, true
		}
		return nil
	})
	if !found {
		return Part{}, fmt.Errorf("%w: no relationship %q", ErrRelationship, id)
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return Part{}, fmt.Errorf("%w: %q targets external resource %s", ErrRelationship, id, rel.Target)
	}

	name := resolveTarget(rel.Target)
	if media, ok := strings.CutPrefix(name, godocx.MEDIA_FOLDER); ok {
		if m := d.pkg.Media(media); m != nil {
			return Part{Name: name, Data: m.Data}, nil
		}
	}
	data, err := d.parts.read(name)
	if err != nil {
		return Part{}, fmt.Errorf("%w: %q: %v", ErrRelationship, id, err)
	}
	return Part{Name: name, Data: data}, nil
}

// resolveTarget turns a relationship target into a part name. Relative
// targets are relative to the word/ directory.
func resolveTarget(target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Clean(path.Join("/word", target)), "/")
}
