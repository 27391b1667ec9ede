package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Package part names.
const (
	contentTypesPart = "[Content_Types].xml"
	documentPart     = "word/document.xml"
	stylesPart       = "word/styles.xml"
	corePropsPart    = "docProps/core.xml"
)

// maxPartSize bounds the decompressed size of a single part.
const maxPartSize = 128 << 20

// partIndex gives access to the parts go-docx does not keep: the style
// definitions, the core properties and relationship targets outside
// word/media.
type partIndex map[string]*zip.File

func indexParts(data []byte) (partIndex, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}
	idx := make(partIndex, len(zr.File))
	for _, f := range zr.File {
		if f.UncompressedSize64 > maxPartSize {
			return nil, fmt.Errorf("part %s exceeds %d bytes", f.Name, maxPartSize)
		}
		idx[f.Name] = f
	}
	return idx, nil
}

func (idx partIndex) has(name string) bool {
	_, ok := idx[name]
	return ok
}

// read returns the decompressed content of a part.
func (idx partIndex) read(name string) ([]byte, error) {
	f, ok := idx[name]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", name, fs.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("part %s exceeds %d bytes", name, maxPartSize)
	}
	return data, nil
}

func (idx partIndex) decode(name string, v any) error {
	data, err := idx.read(name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// stylesXML is the subset of word/styles.xml used to name paragraph styles.
type stylesXML struct {
	Styles []struct {
		Type    string `xml:"type,attr"`
		StyleID string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// styles returns the style definitions, or nil when the part is missing or
// unreadable. Built-in names still resolve without them.
func (idx partIndex) styles() *stylesXML {
	var s stylesXML
	if err := idx.decode(stylesPart, &s); err != nil {
		return nil
	}
	return &s
}

// corePropertiesXML is docProps/core.xml. Elements are matched by local name
// so the dc: and cp: prefixes need no namespace bookkeeping.
type corePropertiesXML struct {
	Title   string `xml:"title"`
	Subject string `xml:"subject"`
	Creator string `xml:"creator"`
}

func (idx partIndex) metadata() Metadata {
	var core corePropertiesXML
	if err := idx.decode(corePropsPart, &core); err != nil {
		return Metadata{}
	}
	return Metadata{
		Title:   strings.TrimSpace(core.Title),
		Subject: strings.TrimSpace(core.Subject),
		Author:  strings.TrimSpace(core.Creator),
	}
}
