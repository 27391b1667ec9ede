package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// chromeFlags holds options of the chrome engine.
type chromeFlags struct {
	style     string
	assetPath string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	gui        bool
	engine     string
	timeout    string
	imageWidth float64
	noCompress bool
	version    bool
	page       pageFlags
	chrome     chromeFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addChromeFlags adds chrome engine flags to a FlagSet.
func addChromeFlags(fs *flag.FlagSet, f *chromeFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name (chrome engine)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory (chrome engine)")
}

// parseConvertFlags parses convert command flags and returns positional args.
// It prints nothing; -h is reported as flag.ErrHelp.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &convertFlags{}

	fs.BoolVar(&f.gui, "gui", false, "pick files in an interactive dialog")
	fs.StringVarP(&f.engine, "engine", "e", "", "renderer: native, chrome")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.Float64Var(&f.imageWidth, "image-width", 0, "maximum image width in points")
	fs.BoolVar(&f.noCompress, "no-compress", false, "write uncompressed PDF streams (native engine)")
	fs.BoolVar(&f.version, "version", false, "show version and exit")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addChromeFlags(fs, &f.chrome)

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
