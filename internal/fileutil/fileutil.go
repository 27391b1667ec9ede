// Package fileutil provides temp file handling and path helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrTempDirClosed          = errors.New("temp directory already removed")
)

// tempPrefix prefixes every temp file and directory created by this package.
const tempPrefix = "docx2pdf-"

// TempDir is a private directory holding the temp files of one conversion.
// Cleanup removes it with everything written into it.
type TempDir struct {
	path string
}

// NewTempDir creates a temp directory under the system temp location.
func NewTempDir() (*TempDir, error) {
	dir, err := os.MkdirTemp("", tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	return &TempDir{path: dir}, nil
}

// Path returns the directory path, empty after Cleanup.
func (d *TempDir) Path() string {
	return d.path
}

// WriteFile writes data to a new uniquely named file with the given
// extension and returns its path.
func (d *TempDir) WriteFile(data []byte, extension string) (string, error) {
	if d.path == "" {
		return "", ErrTempDirClosed
	}
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(d.path, "part-*."+extension)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return path, nil
}

// Cleanup removes the directory and its contents. It is safe to call more
// than once.
func (d *TempDir) Cleanup() error {
	if d.path == "" {
		return nil
	}
	path := d.path
	d.path = ""
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing temp directory: %w", err)
	}
	return nil
}

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// ReplaceExt swaps the extension of path for ext, which includes the dot.
// A path without an extension gets ext appended.
//
// Examples:
//   - "report.docx", ".pdf" -> "report.pdf"
//   - "dir/a.b.docx", ".pdf" -> "dir/a.b.pdf"
//   - "notes", ".pdf" -> "notes.pdf"
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
