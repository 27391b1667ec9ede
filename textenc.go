package docx2pdf

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// tabSpaces replaces a tab in laid out text.
const tabSpaces = "    "

// encodeText converts UTF-8 text to the Windows-1252 bytes expected by the
// core PDF fonts. Text is NFC normalized first so combining sequences with
// a precomposed form survive. Characters without a mapping become '?'.
func encodeText(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteByte('\n')
		case r == '\t':
			b.WriteString(tabSpaces)
		case r < 0x20 || r == 0x7f:
			// control characters have no glyph
		default:
			c, ok := charmap.Windows1252.EncodeRune(r)
			if !ok {
				c = '?'
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
