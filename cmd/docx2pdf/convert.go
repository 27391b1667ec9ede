package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	docx2pdf "github.com/alnah/go-docx2pdf"
	"github.com/alnah/go-docx2pdf/internal/config"
	"github.com/alnah/go-docx2pdf/internal/fileutil"
)

// runConvertCmd converts the file named in args, or starts the interactive
// dialog with --gui, and returns the exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConvertUsage(env.Stdout)
			return ExitSuccess
		}
		return reportError(env, fmt.Errorf("%w: %v (run 'docx2pdf --help')", ErrUsage, err), hintContext{})
	}
	if flags.version {
		printVersion(env.Stdout)
		return ExitSuccess
	}

	hc := hintContext{config: flags.common.config}
	if len(positional) > 0 {
		hc.input = positional[0]
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return reportError(env, err, hc)
	}

	// CLI flags override config
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return reportError(env, err, hc)
	}

	logger := newLogger(env.Stderr, cfg.Logging)
	opts, err := buildOptions(cfg, logger, env.Now)
	if err != nil {
		return reportError(env, err, hc)
	}

	if flags.gui {
		return runGUI(ctx, positional, cfg, opts, env)
	}

	input, output, err := resolvePaths(positional, cfg)
	if err != nil {
		return reportError(env, err, hc)
	}

	path, err := convertOne(ctx, env, opts, input, output)
	if err != nil {
		return reportError(env, err, hc)
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "SUCCESS: PDF generated at: %s\n", path)
	}
	return ExitSuccess
}

// convertOne runs a single conversion with a fresh converter.
func convertOne(ctx context.Context, env *Environment, opts []docx2pdf.Option, input, output string) (string, error) {
	conv, err := env.NewConverter(opts...)
	if err != nil {
		return "", err
	}
	defer func() { _ = conv.Close() }()

	return conv.ConvertFile(ctx, input, output)
}

// loadConfig returns the defaults when name is empty, otherwise the named
// config with empty fields filled from the defaults.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	fillDefaults(cfg)
	return cfg, nil
}

// fillDefaults sets every empty field of cfg to its default value.
func fillDefaults(cfg *config.Config) {
	def := config.DefaultConfig()
	if cfg.Engine == "" {
		cfg.Engine = def.Engine
	}
	if cfg.Timeout == "" {
		cfg.Timeout = def.Timeout
	}
	if cfg.Page.Size == "" {
		cfg.Page.Size = def.Page.Size
	}
	if cfg.Page.Orientation == "" {
		cfg.Page.Orientation = def.Page.Orientation
	}
	if cfg.Page.Margin == 0 {
		cfg.Page.Margin = def.Page.Margin
	}
	if cfg.Images.MaxWidth == 0 {
		cfg.Images.MaxWidth = def.Images.MaxWidth
	}
	if cfg.Chrome.Style == "" {
		cfg.Chrome.Style = def.Chrome.Style
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.engine != "" {
		cfg.Engine = flags.engine
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.imageWidth != 0 {
		cfg.Images.MaxWidth = flags.imageWidth
	}
	if flags.noCompress {
		off := false
		cfg.PDF.Compress = &off
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Chrome flags
	if flags.chrome.style != "" {
		cfg.Chrome.Style = flags.chrome.style
	}
	if flags.chrome.assetPath != "" {
		cfg.Chrome.BasePath = flags.chrome.assetPath
	}

	// Verbosity: --verbose wins over --quiet
	if flags.common.quiet {
		cfg.Logging.Level = "error"
	}
	if flags.common.verbose {
		cfg.Logging.Level = "debug"
	}
}

// newLogger builds the stderr logger described by the logging section.
func newLogger(w io.Writer, lc config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// buildOptions translates the merged config into converter options.
func buildOptions(cfg *config.Config, logger *slog.Logger, now func() time.Time) ([]docx2pdf.Option, error) {
	opts := []docx2pdf.Option{
		docx2pdf.WithLogger(logger),
		docx2pdf.WithClock(now),
	}

	if cfg.Engine != "" {
		opts = append(opts, docx2pdf.WithEngine(docx2pdf.Engine(strings.ToLower(cfg.Engine))))
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, docx2pdf.WithTimeout(timeout))
	}

	page, err := buildPageSettings(cfg)
	if err != nil {
		return nil, err
	}
	if page != nil {
		opts = append(opts, docx2pdf.WithPage(page))
	}

	if cfg.Images.MaxWidth > 0 {
		opts = append(opts, docx2pdf.WithImageMaxWidth(cfg.Images.MaxWidth))
	}
	if cfg.PDF.Compress != nil {
		opts = append(opts, docx2pdf.WithCompression(*cfg.PDF.Compress))
	}
	if cfg.Chrome.Style != "" {
		opts = append(opts, docx2pdf.WithStyle(cfg.Chrome.Style))
	}
	if cfg.Chrome.BasePath != "" {
		opts = append(opts, docx2pdf.WithAssetPath(cfg.Chrome.BasePath))
	}
	return opts, nil
}

// buildPageSettings creates page settings from config.
// Returns nil when the config sets nothing, leaving the library default.
func buildPageSettings(cfg *config.Config) (*docx2pdf.PageSettings, error) {
	if cfg.Page.Size == "" && cfg.Page.Orientation == "" && cfg.Page.Margin == 0 {
		return nil, nil
	}

	ps := &docx2pdf.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}

	// Apply defaults
	if ps.Size == "" {
		ps.Size = docx2pdf.PageSizeLetter
	}
	if ps.Orientation == "" {
		ps.Orientation = docx2pdf.OrientationPortrait
	}
	if ps.Margin == 0 {
		ps.Margin = docx2pdf.DefaultMargin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// resolvePaths returns the input and output paths from the positional
// arguments. An empty output means "next to the input".
func resolvePaths(args []string, cfg *config.Config) (input, output string, err error) {
	switch {
	case len(args) == 0:
		return "", "", ErrNoInput
	case len(args) > 2:
		return "", "", fmt.Errorf("%w: expected <input.docx> [output.pdf], got %d arguments", ErrTooManyArgs, len(args))
	}

	input = args[0]
	if len(args) == 2 {
		output = args[1]
	}
	return input, resolveOutput(input, output, cfg), nil
}

// resolveOutput places the PDF inside output when it names an existing
// directory, or inside output.defaultDir when no output is given.
func resolveOutput(input, output string, cfg *config.Config) string {
	name := fileutil.ReplaceExt(filepath.Base(input), ".pdf")

	if output == "" {
		if cfg.Output.DefaultDir == "" {
			return ""
		}
		return filepath.Join(cfg.Output.DefaultDir, name)
	}

	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}
