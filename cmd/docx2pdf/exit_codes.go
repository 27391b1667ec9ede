package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	docx2pdf "github.com/alnah/go-docx2pdf"
	"github.com/alnah/go-docx2pdf/internal/assets"
	"github.com/alnah/go-docx2pdf/internal/config"
	"github.com/alnah/go-docx2pdf/internal/fileutil"
	"github.com/alnah/go-docx2pdf/internal/hints"
)

// Exit codes for the docx2pdf CLI. Every failure, usage errors included,
// exits with ExitFailure; the message on stderr tells them apart.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Sentinel errors for argument handling.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = errors.New("missing input file")
	ErrTooManyArgs = errors.New("too many arguments")
	ErrNotTerminal = errors.New("interactive mode needs a terminal")
)

// hintContext carries what hintFor needs to tailor a hint.
type hintContext struct {
	input  string
	config string
}

// hintFor returns an actionable hint for err, or "".
// It uses errors.Is, so callers must wrap with %w.
func hintFor(err error, hc hintContext) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, docx2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, docx2pdf.ErrNotFound), errors.Is(err, ErrNoInput):
		return hints.ForNotFound()
	case errors.Is(err, docx2pdf.ErrFormat):
		return hints.ForFormat(hc.input)
	case errors.Is(err, config.ErrConfigNotFound):
		if fileutil.IsFilePath(hc.config) {
			return hints.ForConfigNotFound(nil)
		}
		return hints.ForConfigNotFound(config.SearchPaths(hc.config))
	case errors.Is(err, docx2pdf.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return hints.ForOutputDirectory()
	}
	return ""
}

// reportError prints err with its hint on stderr and returns ExitFailure.
func reportError(env *Environment, err error, hc hintContext) int {
	fmt.Fprintf(env.Stderr, "ERROR: %v%s\n", err, hintFor(err, hc))
	return ExitFailure
}
