package assets

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("reading asset")
	ErrPathTraversal    = errors.New("asset path leaves its directory")
)

// Loader returns stylesheet and page template sources by bare name,
// e.g. "compact" for styles/compact.css.
type Loader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// checkName rejects names that could reach outside the asset directory or
// change the file extension.
func checkName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, `/\.`):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
