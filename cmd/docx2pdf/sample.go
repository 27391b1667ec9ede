package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docx2pdf/internal/fileutil"
	"github.com/alnah/go-docx2pdf/internal/sample"
)

// defaultSamplePath is where "docx2pdf sample" writes without an argument.
const defaultSamplePath = "sample.docx"

// runSampleCmd writes the sample document and returns the exit code.
func runSampleCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	force := fs.BoolP("force", "f", false, "overwrite an existing file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printSampleUsage(env.Stdout)
			return ExitSuccess
		}
		return reportError(env, fmt.Errorf("%w: %v", ErrUsage, err), hintContext{})
	}
	if fs.NArg() > 1 {
		return reportError(env, fmt.Errorf("%w: expected at most one path", ErrTooManyArgs), hintContext{})
	}

	path := defaultSamplePath
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}

	if fileutil.FileExists(path) && !*force {
		return reportError(env, fmt.Errorf("%w: %s (use --force to overwrite)", os.ErrExist, path), hintContext{})
	}

	if err := sample.WriteFile(path, sample.Default()); err != nil {
		return reportError(env, err, hintContext{})
	}

	fmt.Fprintf(env.Stdout, "SUCCESS: sample document written to: %s\n", path)
	return ExitSuccess
}
