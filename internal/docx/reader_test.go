package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/alnah/go-docx2pdf/internal/sample"
)

// Notes:
// - Packages are built by hand with archive/zip so each test controls the
//   exact XML under test. The sample package covers what go-docx writes.
// - Real Word output carries many more parts (settings, theme, fonts);
//   only the parts read by Open are written here.

const testDocumentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
  xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
  xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
  xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
  xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
  <w:body>`

const testDocumentFooter = `</w:body></w:document>`

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`

// createTestDOCX writes a package with the given body XML and extra parts.
func createTestDOCX(t *testing.T, body string, extra map[string]string) string {
	t.Helper()

	parts := map[string]string{
		"[Content_Types].xml": testContentTypes,
		"word/document.xml":   testDocumentHeader + body + testDocumentFooter,
	}
	for k, v := range extra {
		parts[k] = v
	}
	return writeZip(t, "test.docx", parts)
}

func writeZip(t *testing.T, name string, parts map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	zw := zip.NewWriter(f)
	for n, content := range parts {
		w, err := zw.Create(n)
		if err != nil {
			t.Fatalf("zip create %s: %v", n, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", n, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
	return path
}

func mustOpen(t *testing.T, path string) *Document {
	t.Helper()

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestOpen - Input Validation
// ---------------------------------------------------------------------------

func TestOpen_NotFound(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.docx"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open() error = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open() error = %v, want it to wrap fs.ErrNotExist", err)
	}
}

func TestOpen_NotFoundCheckedBeforeExtension(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestOpen_FormatErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wrongExt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(wrongExt, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	notZip := filepath.Join(dir, "plain.docx")
	if err := os.WriteFile(notZip, []byte("just text"), 0o600); err != nil {
		t.Fatal(err)
	}
	dirDocx := filepath.Join(dir, "folder.docx")
	if err := os.Mkdir(dirDocx, 0o750); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"wrong extension", wrongExt},
		{"not a zip", notZip},
		{"directory", dirDocx},
		{"missing document part", writeZip(t, "nodoc.docx", map[string]string{
			"[Content_Types].xml": testContentTypes,
		})},
		{"missing content types", writeZip(t, "notypes.docx", map[string]string{
			"word/document.xml": testDocumentHeader + testDocumentFooter,
		})},
		{"malformed document xml", writeZip(t, "broken.docx", map[string]string{
			"[Content_Types].xml": testContentTypes,
			"word/document.xml":   testDocumentHeader + "<w:p><w:r>",
		})},
		{"relationship id without rId prefix", writeZip(t, "rels.docx", map[string]string{
			"[Content_Types].xml": testContentTypes,
			"word/document.xml":   testDocumentHeader + testDocumentFooter,
			"word/_rels/document.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="image1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Open(tt.path)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Open() error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestOpen_UppercaseExtension(t *testing.T) {
	t.Parallel()

	src := createTestDOCX(t, `<w:p><w:r><w:t>Hi</w:t></w:r></w:p>`, nil)
	dst := filepath.Join(t.TempDir(), "REPORT.DOCX")
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		t.Fatal(err)
	}
	doc := mustOpen(t, dst)
	if got := len(doc.Paragraphs()); got != 1 {
		t.Errorf("paragraphs = %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// TestParagraphs - Runs and Styles
// ---------------------------------------------------------------------------

func TestParagraphs_Runs(t *testing.T) {
	t.Parallel()

	body := `
<w:p>
  <w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Bold </w:t></w:r>
  <w:r><w:rPr><w:i/><w:u w:val="single"/></w:rPr><w:t>italic-underline</w:t></w:r>
  <w:r><w:rPr><w:u w:val="none"/></w:rPr><w:t>plain</w:t></w:r>
  <w:r><w:rPr><w:b/><w:i/><w:u/></w:rPr><w:t>all</w:t></w:r>
  <w:r><w:t>bare</w:t></w:r>
</w:p>`
	doc := mustOpen(t, createTestDOCX(t, body, nil))

	paras := doc.Paragraphs()
	if len(paras) != 1 {
		t.Fatalf("paragraphs = %d, want 1", len(paras))
	}
	want := []Run{
		{Text: "Bold ", Bold: true},
		{Text: "italic-underline", Italic: true, Underline: true},
		{Text: "plain"},
		{Text: "all", Bold: true, Italic: true, Underline: true},
		{Text: "bare"},
	}
	if !reflect.DeepEqual(paras[0].Runs, want) {
		t.Errorf("runs = %+v, want %+v", paras[0].Runs, want)
	}
	if got := paras[0].Text(); got != "Bold italic-underlineplainallbare" {
		t.Errorf("Text() = %q", got)
	}
}

func TestParagraphs_TabsBreaksAndHyperlinks(t *testing.T) {
	t.Parallel()

	body := `
<w:p>
  <w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r>
  <w:hyperlink r:id="rId9"><w:r><w:t>link</w:t></w:r></w:hyperlink>
  <w:proofErr w:type="spellStart"/>
  <w:r><w:t>end</w:t></w:r>
</w:p>`
	doc := mustOpen(t, createTestDOCX(t, body, nil))

	p := doc.Paragraphs()[0]
	if len(p.Runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(p.Runs))
	}
	if got := p.Text(); got != "a\tb\nclinkend" {
		t.Errorf("Text() = %q, want %q", got, "a\tb\nclinkend")
	}
}

func TestParagraphs_StyleNames(t *testing.T) {
	t.Parallel()

	styles := `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
  <w:style w:type="paragraph" w:styleId="Titre2"><w:name w:val="heading 2"/></w:style>
  <w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/></w:style>
  <w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/></w:style>
</w:styles>`
	body := `
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>one</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Titre2"/></w:pPr><w:r><w:t>two</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Quote"/></w:pPr><w:r><w:t>quote</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading3"/></w:pPr><w:r><w:t>three</w:t></w:r></w:p>
<w:p><w:r><w:t>normal</w:t></w:r></w:p>`
	doc := mustOpen(t, createTestDOCX(t, body, map[string]string{"word/styles.xml": styles}))

	want := []string{"Heading 1", "Heading 2", "Quote", "Heading 3", "Normal"}
	paras := doc.Paragraphs()
	if len(paras) != len(want) {
		t.Fatalf("paragraphs = %d, want %d", len(paras), len(want))
	}
	for i, p := range paras {
		if p.StyleName != want[i] {
			t.Errorf("paragraph %d StyleName = %q, want %q", i, p.StyleName, want[i])
		}
	}
}

func TestCanonicalStyleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"heading 1", "Heading 1"},
		{"Heading1", "Heading 1"},
		{"HEADING 12", "Heading 12"},
		{"heading", "Heading"},
		{"Heading Custom", "Heading Custom"},
		{"title", "Title"},
		{"normal", "Normal"},
		{"Body Text", "Body Text"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := canonicalStyleName(tt.in); got != tt.want {
				t.Errorf("canonicalStyleName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParagraphs_ExcludeTableCells(t *testing.T) {
	t.Parallel()

	body := `
<w:p><w:r><w:t>before</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>after</w:t></w:r></w:p>`
	doc := mustOpen(t, createTestDOCX(t, body, nil))

	var got []string
	for _, p := range doc.Paragraphs() {
		got = append(got, p.Text())
	}
	if !reflect.DeepEqual(got, []string{"before", "after"}) {
		t.Errorf("paragraphs = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestTables
// ---------------------------------------------------------------------------

func TestTables_CellText(t *testing.T) {
	t.Parallel()

	body := `
<w:tbl>
  <w:tr>
    <w:tc><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>B</w:t></w:r></w:p><w:p><w:r><w:t>B2</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p/></w:tc>
    <w:tc><w:p><w:r><w:t>D</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>`
	doc := mustOpen(t, createTestDOCX(t, body, nil))

	tables := doc.Tables()
	if len(tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(tables))
	}
	want := [][]string{{"A", "B\nB2"}, {"", "D"}}
	if !reflect.DeepEqual(tables[0].Rows, want) {
		t.Errorf("rows = %q, want %q", tables[0].Rows, want)
	}
	if tables[0].Columns() != 2 {
		t.Errorf("Columns() = %d, want 2", tables[0].Columns())
	}
}

func TestTables_MergedCells(t *testing.T) {
	t.Parallel()

	body := `
<w:tbl>
  <w:tr>
    <w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>wide</w:t></w:r></w:p></w:tc>
    <w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>tall</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>y</w:t></w:r></w:p></w:tc>
    <w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
  </w:tr>
</w:tbl>`
	doc := mustOpen(t, createTestDOCX(t, body, nil))

	want := [][]string{{"wide", "wide", "tall"}, {"x", "y", "tall"}}
	if got := doc.Tables()[0].Rows; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestInlineShapes and TestRelated
// ---------------------------------------------------------------------------

func drawingFixture(id, name string) string {
	return `<w:r><w:drawing><wp:inline>
  <wp:extent cx="952500" cy="476250"/>
  <wp:docPr id="1" name="` + name + `"/>
  <a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="` + id + `"/></pic:blipFill></pic:pic></a:graphicData></a:graphic>
</wp:inline></w:drawing></w:r>`
}

const testRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="/word/media/image2.png"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="https://example.com/x.png" TargetMode="External"/>
  <Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/absent.png"/>
</Relationships>`

func TestInlineShapes_DocumentOrder(t *testing.T) {
	t.Parallel()

	body := `<w:p>` + drawingFixture("rId1", "first") + `</w:p>
<w:tbl><w:tr><w:tc><w:p>` + drawingFixture("rId2", "in-table") + `</w:p></w:tc></w:tr></w:tbl>
<w:p>` + drawingFixture("rId3", "last") + `</w:p>`
	doc := mustOpen(t, createTestDOCX(t, body, nil))

	shapes := doc.InlineShapes()
	if len(shapes) != 3 {
		t.Fatalf("shapes = %d, want 3", len(shapes))
	}
	var names []string
	for _, s := range shapes {
		names = append(names, s.Name)
	}
	if !reflect.DeepEqual(names, []string{"first", "in-table", "last"}) {
		t.Errorf("order = %q", names)
	}
	first := shapes[0]
	if first.EmbedID != "rId1" || first.WidthEMU != 952500 || first.HeightEMU != 476250 {
		t.Errorf("first shape = %+v", first)
	}
}

func TestRelated(t *testing.T) {
	t.Parallel()

	doc := mustOpen(t, createTestDOCX(t, "", map[string]string{
		"word/_rels/document.xml.rels": testRels,
		"word/media/image1.png":        "one",
		"word/media/image2.png":        "two",
	}))

	tests := []struct {
		name     string
		id       string
		wantName string
		wantData string
		wantErr  bool
	}{
		{"relative target", "rId1", "word/media/image1.png", "one", false},
		{"absolute target", "rId2", "word/media/image2.png", "two", false},
		{"external target", "rId3", "", "", true},
		{"missing part", "rId4", "", "", true},
		{"unknown id", "rId99", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			part, err := doc.Related(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrRelationship) {
					t.Fatalf("Related(%q) error = %v, want ErrRelationship", tt.id, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Related(%q) error = %v", tt.id, err)
			}
			if part.Name != tt.wantName || string(part.Data) != tt.wantData {
				t.Errorf("Related(%q) = {%s %q}, want {%s %q}", tt.id, part.Name, part.Data, tt.wantName, tt.wantData)
			}
		})
	}
}

func TestResolveTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"media/image1.png", "word/media/image1.png"},
		{"../media/image1.png", "media/image1.png"},
		{"/word/media/a.png", "word/media/a.png"},
		{`media\b.png`, "word/media/b.png"},
		{"../../../etc/passwd", "etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := resolveTarget(tt.in); got != tt.want {
				t.Errorf("resolveTarget(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMetadata
// ---------------------------------------------------------------------------

func TestMetadata(t *testing.T) {
	t.Parallel()

	core := `<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title> Quarterly Report </dc:title>
  <dc:creator>Jane Doe</dc:creator>
</cp:coreProperties>`
	doc := mustOpen(t, createTestDOCX(t, "", map[string]string{"docProps/core.xml": core}))

	want := Metadata{Title: "Quarterly Report", Author: "Jane Doe"}
	if got := doc.Metadata(); got != want {
		t.Errorf("Metadata() = %+v, want %+v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestParse - Generated package
// ---------------------------------------------------------------------------

func TestParse_SamplePackage(t *testing.T) {
	t.Parallel()

	src := sample.Default()
	src.Author = "Ada"
	src.Blocks = append(src.Blocks,
		&sample.Paragraph{Runs: []sample.Run{{Text: "under", Underline: true}, {Text: "\tend"}}},
		&sample.Table{Rows: [][]string{{"two\nlines", "x"}, {"y"}}},
	)
	var buf bytes.Buffer
	if err := sample.Write(&buf, src); err != nil {
		t.Fatalf("sample.Write() error = %v", err)
	}
	doc, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	paras := doc.Paragraphs()
	if len(paras) != 4 {
		t.Fatalf("paragraphs = %d, want 4", len(paras))
	}
	if paras[0].StyleID != "Heading1" || paras[0].StyleName != "Heading 1" || paras[0].Text() != "Conversion Example" {
		t.Errorf("heading = %+v", paras[0])
	}
	wantRuns := []Run{
		{Text: "This is a sample paragraph with ", Bold: true},
		{Text: "bold, ", Italic: true},
		{Text: "italic and plain text."},
	}
	if !reflect.DeepEqual(paras[1].Runs, wantRuns) {
		t.Errorf("runs = %+v, want %+v", paras[1].Runs, wantRuns)
	}
	if paras[2].StyleName != "Normal" || paras[2].Text() != "" {
		t.Errorf("image paragraph = %+v", paras[2])
	}
	wantLast := []Run{{Text: "under", Underline: true}, {Text: "\tend"}}
	if !reflect.DeepEqual(paras[3].Runs, wantLast) {
		t.Errorf("runs = %+v, want %+v", paras[3].Runs, wantLast)
	}

	tables := doc.Tables()
	if len(tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(tables))
	}
	if want := [][]string{{"two\nlines", "x"}, {"y", ""}}; !reflect.DeepEqual(tables[1].Rows, want) {
		t.Errorf("rows = %q, want %q", tables[1].Rows, want)
	}

	shapes := doc.InlineShapes()
	if len(shapes) != 1 || shapes[0].Name != "gradient.png" {
		t.Fatalf("shapes = %+v", shapes)
	}
	if shapes[0].WidthEMU != 160*9525 || shapes[0].HeightEMU != 80*9525 {
		t.Errorf("extent = %dx%d", shapes[0].WidthEMU, shapes[0].HeightEMU)
	}
	part, err := doc.Related(shapes[0].EmbedID)
	if err != nil {
		t.Fatalf("Related() error = %v", err)
	}
	if !bytes.Equal(part.Data, src.Blocks[3].(*sample.Image).Data) {
		t.Error("image bytes differ from the written media")
	}

	if got := doc.Metadata(); got.Title != "Conversion Example" || got.Author != "Ada" {
		t.Errorf("Metadata() = %+v", got)
	}
}
