package main

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	docx2pdf "github.com/alnah/go-docx2pdf"
)

// fileConverter is the part of *docx2pdf.Converter the CLI uses.
type fileConverter interface {
	ConvertFile(ctx context.Context, inputPath, outputPath string) (string, error)
	Close() error
}

// Environment holds injectable dependencies for testability.
// Includes I/O, time, terminal detection, and converter construction.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Stdin        io.Reader
	Getwd        func() (string, error)
	IsTerminal   func() bool
	TermWidth    func() int
	NewConverter func(opts ...docx2pdf.Option) (fileConverter, error)
}

// DefaultEnv returns the production environment bound to the process's
// standard streams.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
		Getwd:      os.Getwd,
		IsTerminal: stdinIsTerminal,
		TermWidth:  stdoutWidth,
		NewConverter: func(opts ...docx2pdf.Option) (fileConverter, error) {
			return docx2pdf.NewConverter(opts...)
		},
	}
}

// stdinIsTerminal reports whether stdin is an interactive terminal.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115 -- file descriptors fit in int
}

// stdoutWidth returns the terminal width of stdout, or 0 when unknown.
func stdoutWidth() int {
	fd := int(os.Stdout.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
