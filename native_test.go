package docx2pdf

// Notes:
// - Layout is verified through the PDF content streams: with compression
//   off, every text show operator appears as "(text) Tj", so the strings a
//   reader would see can be pulled out with a regexp.
// - Exact glyph positions are not asserted; they depend on font metrics.
//   Tests check presence, order and page breaks instead.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-docx2pdf/internal/pipeline"
	"github.com/alnah/go-docx2pdf/internal/sample"
)

var showText = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*Tj`)

// pdfStrings returns the operands of every Tj operator in order, unescaped.
func pdfStrings(pdf []byte) []string {
	unescape := strings.NewReplacer(`\\`, `\`, `\(`, `(`, `\)`, `)`)
	var out []string
	for _, m := range showText.FindAllSubmatch(pdf, -1) {
		out = append(out, unescape.Replace(string(m[1])))
	}
	return out
}

func pageCount(pdf []byte) int {
	return len(regexp.MustCompile(`/Type /Page\b`).FindAll(pdf, -1))
}

func renderFlow(t *testing.T, flow *pipeline.Flow, page *PageSettings) []byte {
	t.Helper()
	pdf, err := newNativeRenderer().Render(context.Background(), flow, &renderOptions{
		Page:      page,
		Title:     "test",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return pdf
}

func textFlow(markups ...string) *pipeline.Flow {
	f := &pipeline.Flow{}
	for _, m := range markups {
		f.Items = append(f.Items,
			pipeline.Item{Kind: pipeline.KindText, Text: &pipeline.TextBlock{Markup: m, Style: pipeline.StyleDefault}},
			pipeline.Item{Kind: pipeline.KindSpacer, Spacer: pipeline.SpacerHeight},
		)
	}
	return f
}

// ---------------------------------------------------------------------------
// TestNativeRender - End to End
// ---------------------------------------------------------------------------

func TestNativeRender_SampleDocument(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "sample.docx", sample.Default())
	c, err := NewConverter(WithCompression(false))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer c.Close()

	result, err := c.Convert(context.Background(), Input{Path: path})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !bytes.HasPrefix(result.PDF, []byte("%PDF-")) {
		t.Fatalf("output does not start with %%PDF-: %q", result.PDF[:min(16, len(result.PDF))])
	}

	text := strings.Join(pdfStrings(result.PDF), "|")
	want := []string{
		"Conversion Example",
		"This is a sample paragraph with ",
		"bold, ",
		"italic and plain text.",
		"Column 1", "Column 3", "Data A1", "Data C1",
	}
	last := -1
	for _, w := range want {
		idx := strings.Index(text, w)
		if idx < 0 {
			t.Errorf("text %q not found in %q", w, text)
			continue
		}
		if idx < last {
			t.Errorf("text %q out of order", w)
		}
		last = idx
	}

	if !bytes.Contains(result.PDF, []byte("/Subtype /Image")) {
		t.Error("no image XObject in output")
	}
}

func TestNativeRender_Deterministic(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "same.docx", sample.Default())
	fixed := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	c, err := NewConverter(WithClock(fixed))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	first, err := c.Convert(context.Background(), Input{Path: path})
	if err != nil {
		t.Fatalf("first Convert() error = %v", err)
	}
	second, err := c.Convert(context.Background(), Input{Path: path})
	if err != nil {
		t.Fatalf("second Convert() error = %v", err)
	}
	if !bytes.Equal(first.PDF, second.PDF) {
		t.Errorf("outputs differ: %d vs %d bytes", len(first.PDF), len(second.PDF))
	}
}

func TestNativeRender_EmptyFlow(t *testing.T) {
	t.Parallel()

	pdf := renderFlow(t, &pipeline.Flow{}, nil)
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("empty flow did not produce a PDF")
	}
	if n := pageCount(pdf); n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
}

func TestNativeRender_EscapesAndEncodes(t *testing.T) {
	t.Parallel()

	pdf := renderFlow(t, textFlow("a (paren) &amp; back\\slash", "café — 世"), nil)
	got := pdfStrings(pdf)
	joined := strings.Join(got, "|")

	if !strings.Contains(joined, `a (paren) & back\slash`) {
		t.Errorf("escaped text missing in %q", joined)
	}
	// é and the em dash exist in Windows-1252; the CJK character does not.
	if !strings.Contains(joined, "caf\xe9 \x97 ?") {
		t.Errorf("cp1252 text missing in %q", joined)
	}
}

func TestNativeRender_PageBreaks(t *testing.T) {
	t.Parallel()

	markups := make([]string, 120)
	for i := range markups {
		markups[i] = "line of text"
	}
	pdf := renderFlow(t, textFlow(markups...), nil)
	if n := pageCount(pdf); n < 2 {
		t.Errorf("pages = %d, want at least 2", n)
	}
}

func TestNativeRender_TableAcrossPages(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"Name", "Value"}}
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"row", "value"})
	}
	f := &pipeline.Flow{Items: []pipeline.Item{{
		Kind:  pipeline.KindTable,
		Table: &pipeline.TableGrid{Rows: rows, Style: pipeline.DefaultTableStyle},
	}}}

	pdf := renderFlow(t, f, nil)
	if n := pageCount(pdf); n < 2 {
		t.Errorf("pages = %d, want at least 2", n)
	}
	if got := strings.Count(strings.Join(pdfStrings(pdf), "|"), "row"); got != 80 {
		t.Errorf("rendered %d body rows, want 80", got)
	}
}

func TestNativeRender_LandscapeA4(t *testing.T) {
	t.Parallel()

	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 0.5}
	pdf := renderFlow(t, textFlow("wide"), page)
	if !bytes.Contains(pdf, []byte("/MediaBox [0 0 841.89 595.28]")) {
		t.Error("landscape A4 media box not found")
	}
}

func TestNativeRender_ReportsUnplacedImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	if err := os.WriteFile(good, sample.GradientPNG(20, 10), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o600); err != nil {
		t.Fatal(err)
	}

	flow := textFlow("images follow")
	flow.Items = append(flow.Items,
		pipeline.Item{Kind: pipeline.KindImage, Image: &pipeline.ImageBlock{Path: good, Format: "PNG", Width: 20, Height: 10}},
		pipeline.Item{Kind: pipeline.KindSpacer, Spacer: pipeline.SpacerHeight},
		pipeline.Item{Kind: pipeline.KindImage, Image: &pipeline.ImageBlock{Path: bad, Format: "PNG", Width: 20, Height: 10}},
		pipeline.Item{Kind: pipeline.KindSpacer, Spacer: pipeline.SpacerHeight},
		pipeline.Item{Kind: pipeline.KindImage, Image: &pipeline.ImageBlock{Path: good, Format: "PNG"}},
	)
	renderFlow(t, flow, nil)

	stats := statsOf(flow)
	if stats.Images != 1 || stats.SkippedImages != 2 {
		t.Errorf("stats = %+v, want 1 image and 2 skipped", stats)
	}
	for _, err := range flow.Skipped {
		if !errors.Is(err, ErrImageExtraction) {
			t.Errorf("skipped error %v does not wrap ErrImageExtraction", err)
		}
	}
	for _, it := range flow.Items {
		if it.Kind == pipeline.KindImage && (it.Image.Path != good || it.Image.Width != 20) {
			t.Errorf("unexpected image left in flow: %+v", it.Image)
		}
	}
}

func TestNativeRender_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newNativeRenderer().Render(ctx, textFlow("x"), &renderOptions{})
	if err == nil {
		t.Error("Render() with canceled context returned nil error")
	}
}

// ---------------------------------------------------------------------------
// TestSegmentStyle
// ---------------------------------------------------------------------------

func TestSegmentStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		seg  pipeline.Segment
		want string
	}{
		{"", pipeline.Segment{}, ""},
		{"", pipeline.Segment{Bold: true}, "B"},
		{"", pipeline.Segment{Italic: true, Underline: true}, "IU"},
		{"B", pipeline.Segment{Italic: true}, "BI"},
		{"BI", pipeline.Segment{Bold: true, Underline: true}, "BIU"},
	}

	for _, tt := range tests {
		if got := segmentStyle(tt.base, tt.seg); got != tt.want {
			t.Errorf("segmentStyle(%q, %+v) = %q, want %q", tt.base, tt.seg, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWrapCell
// ---------------------------------------------------------------------------

func TestWrapCell(t *testing.T) {
	t.Parallel()

	// One unit per byte keeps widths readable.
	measure := func(s string) float64 { return float64(len(s)) }

	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{name: "empty", text: "", width: 10, want: []string{""}},
		{name: "fits", text: "abc def", width: 10, want: []string{"abc def"}},
		{name: "wraps at space", text: "abc def ghi", width: 7, want: []string{"abc def", "ghi"}},
		{name: "explicit newline", text: "ab\ncd", width: 10, want: []string{"ab", "cd"}},
		{name: "long word split", text: "abcdefgh", width: 3, want: []string{"abc", "def", "gh"}},
		{name: "zero width", text: "ab", width: 0, want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := wrapCell(measure, tt.text, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("wrapCell(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEncodeText
// ---------------------------------------------------------------------------

func TestEncodeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "hello", want: "hello"},
		{name: "latin1", in: "naïve", want: "na\xefve"},
		{name: "combining sequence composed", in: "e\u0301", want: "\xe9"},
		{name: "euro sign", in: "€5", want: "\x805"},
		{name: "unmapped", in: "世界", want: "??"},
		{name: "tab expands", in: "a\tb", want: "a    b"},
		{name: "newline kept", in: "a\nb", want: "a\nb"},
		{name: "carriage return dropped", in: "a\r\nb", want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := encodeText(tt.in); got != tt.want {
				t.Errorf("encodeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
