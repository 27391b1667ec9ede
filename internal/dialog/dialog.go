// Package dialog implements the interactive mode of the CLI: a small
// line-oriented menu to browse for a .docx file, pick an output path and run
// a conversion, with results shown in boxed alerts.
//
// All session state lives in a Controller. The conversion itself is passed in
// as a plain function so the package has no dependency on the converter.
package dialog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// ConvertFunc converts input to output and returns the path written.
// An empty output lets the converter choose the default path.
type ConvertFunc func(ctx context.Context, input, output string) (string, error)

// DefaultWidth is the alert width used when the terminal width is unknown.
const DefaultWidth = 60

const (
	minWidth     = 20
	docxExt      = ".docx"
	parentEntry  = ".."
	alertSuccess = "Success"
	alertError   = "Error"
)

// ErrNoInput is shown when convert is chosen before an input is selected.
var ErrNoInput = errors.New("no input file selected")

// Controller owns the state of one interactive session.
type Controller struct {
	in      *bufio.Reader
	out     io.Writer
	convert ConvertFunc
	width   int

	dir    string
	input  string
	output string
}

// Option configures a Controller.
type Option func(*Controller)

// WithWidth sets the alert width in columns. Values below a usable minimum
// are raised to it.
func WithWidth(w int) Option {
	return func(c *Controller) {
		c.width = max(w, minWidth)
	}
}

// New returns a Controller reading commands from in and writing to out.
// Browsing starts in dir.
func New(in io.Reader, out io.Writer, dir string, convert ConvertFunc, opts ...Option) *Controller {
	c := &Controller{
		in:      bufio.NewReader(in),
		out:     out,
		convert: convert,
		width:   DefaultWidth,
		dir:     dir,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input returns the selected input path, empty if none.
func (c *Controller) Input() string { return c.input }

// Output returns the chosen output path, empty for the default.
func (c *Controller) Output() string { return c.output }

// Run shows the menu until the user quits, input ends or ctx is canceled.
// Conversion failures are reported in alerts and never returned.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()
		line, err := c.prompt("> ")
		if err != nil {
			return endOfInput(err)
		}

		switch strings.ToLower(line) {
		case "b", "browse":
			if err := c.browse(); err != nil {
				return endOfInput(err)
			}
		case "o", "output":
			if err := c.chooseOutput(); err != nil {
				return endOfInput(err)
			}
		case "c", "convert":
			c.runConvert(ctx)
		case "q", "quit", "exit":
			return nil
		case "":
		default:
			fmt.Fprintf(c.out, "unknown choice %q\n", line)
		}
	}
}

// endOfInput maps EOF to a clean exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Controller) printMenu() {
	input := c.input
	if input == "" {
		input = "(none)"
	}
	output := c.output
	if output == "" {
		output = "(next to input)"
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "docx2pdf")
	fmt.Fprintf(c.out, "  input:  %s\n", input)
	fmt.Fprintf(c.out, "  output: %s\n", output)
	fmt.Fprintln(c.out, "[b]rowse  [o]utput  [c]onvert  [q]uit")
}

// prompt writes label and reads one trimmed line. A final line without a
// newline is returned before io.EOF.
func (c *Controller) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// entry is one selectable line in the browser.
type entry struct {
	name  string
	isDir bool
}

// listDir returns "..", then subdirectories, then .docx files, each group
// sorted by name. Hidden entries are skipped.
func listDir(dir string) ([]entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []entry
	for _, it := range items {
		name := it.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if it.IsDir() {
			dirs = append(dirs, entry{name: name, isDir: true})
			continue
		}
		if strings.EqualFold(filepath.Ext(name), docxExt) {
			files = append(files, entry{name: name})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	out := make([]entry, 0, 1+len(dirs)+len(files))
	out = append(out, entry{name: parentEntry, isDir: true})
	out = append(out, dirs...)
	return append(out, files...), nil
}

// browse lets the user walk directories and pick a file by number or path.
// An empty answer leaves the selection unchanged.
func (c *Controller) browse() error {
	for {
		entries, err := listDir(c.dir)
		if err != nil {
			c.alert(alertError, fmt.Sprintf("cannot list %s: %v", c.dir, err))
			return nil
		}

		fmt.Fprintf(c.out, "\n%s\n", c.dir)
		for i, e := range entries {
			name := e.name
			if e.isDir && name != parentEntry {
				name += string(filepath.Separator)
			}
			fmt.Fprintf(c.out, "  %2d) %s\n", i, name)
		}

		answer, err := c.prompt("number or path (empty to cancel): ")
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}

		var target string
		if n, convErr := strconv.Atoi(answer); convErr == nil {
			if n < 0 || n >= len(entries) {
				fmt.Fprintf(c.out, "no entry %d\n", n)
				continue
			}
			target = filepath.Join(c.dir, entries[n].name)
		} else {
			target = c.resolve(answer)
		}

		info, statErr := os.Stat(target)
		if statErr != nil {
			c.alert(alertError, fmt.Sprintf("%s: not found", target))
			continue
		}
		if info.IsDir() {
			c.dir = filepath.Clean(target)
			continue
		}
		c.input = filepath.Clean(target)
		return nil
	}
}

// chooseOutput asks for an output path. An empty answer restores the default.
func (c *Controller) chooseOutput() error {
	answer, err := c.prompt("output path (empty for default): ")
	if err != nil {
		return err
	}
	if answer == "" {
		c.output = ""
		return nil
	}
	c.output = c.resolve(answer)
	return nil
}

// resolve makes p absolute against the browsing directory.
func (c *Controller) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.dir, p)
}

func (c *Controller) runConvert(ctx context.Context) {
	if c.input == "" {
		c.alert(alertError, ErrNoInput.Error())
		return
	}

	path, err := c.convert(ctx, c.input, c.output)
	if err != nil {
		c.alert(alertError, err.Error())
		return
	}
	c.alert(alertSuccess, "PDF generated at: "+path)
}

// alert writes msg in a titled box as wide as the controller.
func (c *Controller) alert(title, msg string) {
	fmt.Fprint(c.out, Box(title, msg, c.width))
}

// Box frames msg in an ASCII box of the given total width, with title set
// into the top border. Long words are broken to fit.
func Box(title, msg string, width int) string {
	width = max(width, minWidth)
	inner := width - 4

	var b strings.Builder
	label := " " + title + " "
	fill := max(width-2-ansi.PrintableRuneWidth(label), 0)
	b.WriteString("+" + strings.Repeat("-", fill/2) + label + strings.Repeat("-", fill-fill/2) + "+\n")

	body := wrap.String(wordwrap.String(msg, inner), inner)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, " ")
		padded := padding.String(line, uint(inner))
		if padded == "" {
			padded = strings.Repeat(" ", inner)
		}
		b.WriteString("| " + padded + " |\n")
	}

	b.WriteString("+" + strings.Repeat("-", width-2) + "+\n")
	return b.String()
}
