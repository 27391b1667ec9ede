package main

// Notes:
// - The dialog is driven through env.Stdin; IsTerminal is stubbed so the
//   tests run without a terminal.
// - Dialog behavior itself is covered in internal/dialog; these tests check
//   the wiring: start directory, conversion through env.NewConverter, and
//   exit codes.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// guiTree creates a directory holding only doc.docx, listed as entry 1.
func guiTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.docx"), []byte("x"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return dir
}

func TestRunGUI(t *testing.T) {
	t.Parallel()

	t.Run("refuses without terminal", func(t *testing.T) {
		t.Parallel()
		conv := &fakeConverter{}
		env, _, stderr := newTestEnv(conv)
		code := runConvertCmd(context.Background(), []string{"--gui"}, env)
		if code != ExitFailure {
			t.Errorf("exit code = %d, want %d", code, ExitFailure)
		}
		if !strings.Contains(stderr.String(), ErrNotTerminal.Error()) {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("browse and convert", func(t *testing.T) {
		t.Parallel()
		dir := guiTree(t)
		conv := &fakeConverter{path: "out.pdf"}
		env, stdout, stderr := newTestEnv(conv)
		env.IsTerminal = func() bool { return true }
		env.TermWidth = func() int { return 200 }
		env.Stdin = strings.NewReader("b\n1\nc\nq\n")

		code := runConvertCmd(context.Background(), []string{"--gui", dir}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d\nstderr: %s", code, stderr.String())
		}
		if want := filepath.Join(dir, "doc.docx"); conv.input != want {
			t.Errorf("converted %q, want %q", conv.input, want)
		}
		if !strings.Contains(stdout.String(), "PDF generated at: out.pdf") {
			t.Errorf("stdout missing success alert:\n%s", stdout.String())
		}
		for _, line := range strings.Split(stdout.String(), "\n") {
			if strings.HasPrefix(line, "+") && len(line) > maxDialogWidth {
				t.Errorf("alert wider than %d: %q", maxDialogWidth, line)
			}
		}
	})

	t.Run("conversion failure keeps exit code", func(t *testing.T) {
		t.Parallel()
		dir := guiTree(t)
		conv := &fakeConverter{err: errors.New("broken package")}
		env, stdout, _ := newTestEnv(conv)
		env.IsTerminal = func() bool { return true }
		env.Stdin = strings.NewReader("b\n1\nc\nq\n")

		if code := runConvertCmd(context.Background(), []string{"--gui", dir}, env); code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "broken package") {
			t.Errorf("stdout missing error alert:\n%s", stdout.String())
		}
	})

	t.Run("starts in working directory", func(t *testing.T) {
		t.Parallel()
		dir := guiTree(t)
		conv := &fakeConverter{}
		env, stdout, _ := newTestEnv(conv)
		env.IsTerminal = func() bool { return true }
		env.Getwd = func() (string, error) { return dir, nil }
		env.Stdin = strings.NewReader("b\n\nq\n")

		if code := runConvertCmd(context.Background(), []string{"--gui"}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if !strings.Contains(stdout.String(), "doc.docx") {
			t.Errorf("listing of %s missing:\n%s", dir, stdout.String())
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()
		env, _, stderr := newTestEnv(&fakeConverter{})
		env.IsTerminal = func() bool { return true }
		if code := runConvertCmd(context.Background(), []string{"--gui", "a", "b"}, env); code != ExitFailure {
			t.Errorf("exit code = %d, want %d", code, ExitFailure)
		}
		if !strings.Contains(stderr.String(), "too many arguments") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}
