package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrHTMLRender is returned when the page template fails to execute.
var ErrHTMLRender = errors.New("html page rendering failed")

// HTMLPage holds the page-level values passed to the page template.
type HTMLPage struct {
	Title string
	Lang  string
}

// htmlBlock is one flow item prepared for the page template.
type htmlBlock struct {
	Kind   string
	Tag    string
	Class  string
	Inline template.HTML
	Header []string
	Rows   [][]string
	Style  template.CSS
	Head   template.CSS
	Src    template.URL
	Alt    string
	Height float64
	Width  float64
}

type htmlData struct {
	HTMLPage
	Blocks []htmlBlock
}

// HTMLWriter renders a Flow as a standalone HTML page.
type HTMLWriter struct {
	tmpl *template.Template
}

// NewHTMLWriter creates an HTMLWriter from page template content.
// Returns error if the template cannot be parsed.
func NewHTMLWriter(tmplContent string) (*HTMLWriter, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	return &HTMLWriter{tmpl: tmpl}, nil
}

// Render executes the page template over the flow and injects css into the
// page head.
func (w *HTMLWriter) Render(ctx context.Context, flow *Flow, page HTMLPage, css string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page.Lang == "" {
		page.Lang = "en"
	}

	data := htmlData{HTMLPage: page, Blocks: make([]htmlBlock, 0, len(flow.Items))}
	for _, it := range flow.Items {
		switch it.Kind {
		case KindText:
			data.Blocks = append(data.Blocks, textBlock(it.Text))
		case KindSpacer:
			data.Blocks = append(data.Blocks, htmlBlock{Kind: "spacer", Height: it.Spacer})
		case KindTable:
			data.Blocks = append(data.Blocks, tableBlock(it.Table))
		case KindImage:
			data.Blocks = append(data.Blocks, htmlBlock{
				Kind:   "image",
				Src:    template.URL(FileURL(it.Image.Path)), // #nosec G203 -- path created by ImageExtractor
				Alt:    filepath.Base(it.Image.Path),
				Width:  it.Image.Width,
				Height: it.Image.Height,
			})
		}
	}

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}
	return InjectCSS(buf.String(), css), nil
}

var headingTags = map[StyleLevel]string{
	StyleHeading1: "h1",
	StyleHeading2: "h2",
	StyleHeading3: "h3",
}

func textBlock(t *TextBlock) htmlBlock {
	tag, ok := headingTags[t.Style]
	if !ok {
		tag = "p"
	}
	return htmlBlock{
		Kind:   "text",
		Tag:    tag,
		Class:  strings.ToLower(t.Style.String()),
		Inline: inlineHTML(t.Markup),
	}
}

// inlineHTML re-serializes markup from its parsed segments so only the
// inline tags known to ParseMarkup reach the page.
func inlineHTML(markup string) template.HTML {
	var sb strings.Builder
	for _, s := range ParseMarkup(markup) {
		text := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br>")
		if s.Underline {
			text = "<u>" + text + "</u>"
		}
		if s.Italic {
			text = "<i>" + text + "</i>"
		}
		if s.Bold {
			text = "<b>" + text + "</b>"
		}
		sb.WriteString(text)
	}
	return template.HTML(sb.String()) // #nosec G203 -- text escaped above
}

func tableBlock(t *TableGrid) htmlBlock {
	b := htmlBlock{
		Kind:  "table",
		Style: template.CSS(fmt.Sprintf("border: %.2fpt solid %s", t.Style.GridWidth, cssColor(t.Style.GridColor))),
	}
	head := fmt.Sprintf("background-color: %s", cssColor(t.Style.HeaderBackground))
	if t.Style.HeaderBold {
		head += "; font-weight: bold"
	}
	b.Head = template.CSS(head)
	if len(t.Rows) > 0 {
		b.Header = t.Rows[0]
		b.Rows = t.Rows[1:]
	}
	return b
}

func cssColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// FileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths.
func FileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
