package docx

import "errors"

// Sentinel errors returned by Open and Document.Related.
var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("input file not found")
	// ErrFormat is returned when the input is not a readable .docx package.
	ErrFormat = errors.New("not a valid .docx document")
	// ErrRelationship is returned when a relationship id cannot be resolved
	// to a part inside the package.
	ErrRelationship = errors.New("relationship cannot be resolved")
)
