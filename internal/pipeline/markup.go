package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// Segment is a span of plain text with the inline flags in effect.
type Segment struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

func (s Segment) sameFlags(o Segment) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Underline == o.Underline
}

// ParseMarkup splits inline markup into segments. Only <b>, <i> and <u>
// (and their <strong>/<em> spellings) change flags; other tags are
// dropped and entities are decoded. Adjacent segments with equal flags
// are merged.
func ParseMarkup(markup string) []Segment {
	z := html.NewTokenizer(strings.NewReader(markup))
	var bold, italic, underline int
	var out []Segment

	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.TextToken:
			seg := Segment{
				Text:      string(z.Text()),
				Bold:      bold > 0,
				Italic:    italic > 0,
				Underline: underline > 0,
			}
			if seg.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].sameFlags(seg) {
				out[n-1].Text += seg.Text
				continue
			}
			out = append(out, seg)
		case html.StartTagToken:
			name, _ := z.TagName()
			adjust(string(name), 1, &bold, &italic, &underline)
		case html.EndTagToken:
			name, _ := z.TagName()
			adjust(string(name), -1, &bold, &italic, &underline)
		}
	}
}

func adjust(tag string, delta int, bold, italic, underline *int) {
	var c *int
	switch tag {
	case "b", "strong":
		c = bold
	case "i", "em":
		c = italic
	case "u":
		c = underline
	default:
		return
	}
	*c = max(*c+delta, 0)
}

// PlainText returns the markup with tags removed and entities decoded.
func PlainText(markup string) string {
	var sb strings.Builder
	for _, s := range ParseMarkup(markup) {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
