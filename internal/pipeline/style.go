package pipeline

import (
	"strings"

	"github.com/alnah/go-docx2pdf/internal/docx"
)

// StyleLevel is the closed set of paragraph styles a renderer knows about.
type StyleLevel int

const (
	StyleDefault StyleLevel = iota
	StyleHeading1
	StyleHeading2
	StyleHeading3
)

// String returns the style name used in logs and HTML class names.
func (s StyleLevel) String() string {
	switch s {
	case StyleHeading1:
		return "Heading1"
	case StyleHeading2:
		return "Heading2"
	case StyleHeading3:
		return "Heading3"
	default:
		return "Default"
	}
}

// IsHeading reports whether s is one of the heading levels.
func (s StyleLevel) IsHeading() bool {
	return s != StyleDefault
}

// headingPrefix marks the paragraph style names treated as headings.
const headingPrefix = "Heading"

// MapStyle maps a paragraph style name to a level. Names starting with
// "Heading" map by the digit that follows: 1, 2 and 3 map to their level,
// anything else (including "Heading 4" or a bare "Heading") maps to
// Heading1. All other names map to Default.
func MapStyle(name string) StyleLevel {
	if !strings.HasPrefix(name, headingPrefix) {
		return StyleDefault
	}
	switch strings.TrimSpace(name[len(headingPrefix):]) {
	case "2":
		return StyleHeading2
	case "3":
		return StyleHeading3
	default:
		return StyleHeading1
	}
}

// IsHeading reports whether a paragraph style name maps to a heading.
func IsHeading(name string) bool {
	return MapStyle(name).IsHeading()
}

// markupEscaper escapes the characters that would otherwise be read as
// markup. Ampersand comes first so existing entities are not preserved.
var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeMarkup escapes &, < and > in s.
func EscapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

// RunMarkup returns the escaped text of r wrapped in the tags for its
// flags. Underline is innermost and bold outermost, so a run with all
// three flags becomes <b><i><u>text</u></i></b>.
func RunMarkup(r docx.Run) string {
	s := EscapeMarkup(r.Text)
	if r.Underline {
		s = "<u>" + s + "</u>"
	}
	if r.Italic {
		s = "<i>" + s + "</i>"
	}
	if r.Bold {
		s = "<b>" + s + "</b>"
	}
	return s
}

// ParagraphMarkup concatenates the markup of all runs in order.
func ParagraphMarkup(p docx.Paragraph) string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(RunMarkup(r))
	}
	return sb.String()
}
