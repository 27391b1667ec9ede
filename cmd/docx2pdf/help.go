package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2pdf [flags] <input.docx> [output.pdf]")
	fmt.Fprintln(w, "       docx2pdf <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a Word document to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a .docx file (default when the first argument is a file)")
	fmt.Fprintln(w, "  sample     Write a sample .docx document")
	fmt.Fprintln(w, "  doctor     Check the system for the chrome engine")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docx2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2pdf [convert] <input.docx> [output.pdf] [flags]")
	fmt.Fprintln(w, "       docx2pdf --gui [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a .docx file to PDF. Without output.pdf the PDF is written next")
	fmt.Fprintln(w, "to the input (or in output.defaultDir from the config).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "      --gui                 Pick files in an interactive dialog")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -e, --engine <s>          Renderer: native, chrome (default: native)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Conversion timeout (default: 30s)")
	fmt.Fprintln(w, "      --image-width <f>     Maximum image width in points (default: 250)")
	fmt.Fprintln(w, "      --no-compress         Write uncompressed PDF streams")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chrome engine:")
	fmt.Fprintln(w, "      --style <name>        CSS style name (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/ and templates/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --version             Show version and exit")
	fmt.Fprintln(w, "  -h, --help                Show this help")
}

// printSampleUsage prints usage for the sample command.
func printSampleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2pdf sample [path]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a sample document with a heading, formatted text, a table")
	fmt.Fprintln(w, "and an image. The default path is sample.docx.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2pdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome availability and the environment. Chrome is only")
	fmt.Fprintln(w, "needed by the chrome engine, so a missing browser is a warning.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2pdf config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration that conversions would use, as YAML.")
}

// printHelp prints help for the named command, or the main usage.
func printHelp(w io.Writer, command string) {
	switch command {
	case "convert":
		printConvertUsage(w)
	case "sample":
		printSampleUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "config":
		printConfigUsage(w)
	default:
		printUsage(w)
	}
}
