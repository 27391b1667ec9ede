package main

import (
	"context"
	"errors"
	"fmt"

	docx2pdf "github.com/alnah/go-docx2pdf"
	"github.com/alnah/go-docx2pdf/internal/config"
	"github.com/alnah/go-docx2pdf/internal/dialog"
)

// maxDialogWidth caps alert boxes on wide terminals.
const maxDialogWidth = 100

// runGUI runs the interactive dialog. The optional positional argument is
// the directory to start browsing in. Conversion failures are shown in the
// dialog and do not change the exit code.
func runGUI(ctx context.Context, args []string, cfg *config.Config, opts []docx2pdf.Option, env *Environment) int {
	if !env.IsTerminal() {
		return reportError(env, ErrNotTerminal, hintContext{})
	}
	if len(args) > 1 {
		return reportError(env, fmt.Errorf("%w: --gui takes at most a start directory", ErrTooManyArgs), hintContext{})
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		wd, err := env.Getwd()
		if err != nil {
			return reportError(env, err, hintContext{})
		}
		dir = wd
	}

	convert := func(ctx context.Context, input, output string) (string, error) {
		path, err := convertOne(ctx, env, opts, input, resolveOutput(input, output, cfg))
		if err != nil {
			return "", fmt.Errorf("%w%s", err, hintFor(err, hintContext{input: input}))
		}
		return path, nil
	}

	var dialogOpts []dialog.Option
	if w := env.TermWidth(); w > 0 {
		dialogOpts = append(dialogOpts, dialog.WithWidth(min(w, maxDialogWidth)))
	}

	c := dialog.New(env.Stdin, env.Stdout, dir, convert, dialogOpts...)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return reportError(env, err, hintContext{})
	}
	return ExitSuccess
}
