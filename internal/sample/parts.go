package sample

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"strings"
	"testing/fstest"

	godocx "github.com/fumiama/go-docx"
)

// templateName is the directory go-docx reads template parts from, as
// xml/<name>/<part>.
const templateName = "sample"

// templateFS returns go-docx's default template parts with the core
// properties and paragraph styles replaced for doc.
func templateFS(doc Document) (fs.FS, error) {
	files := fstest.MapFS{}
	for _, name := range godocx.DefaultTemplateFilesList {
		data, err := fs.ReadFile(godocx.TemplateXMLFS, "xml/default/"+name)
		if err != nil {
			return nil, fmt.Errorf("reading template part %s: %w", name, err)
		}
		files["xml/"+templateName+"/"+name] = &fstest.MapFile{Data: data}
	}
	files["xml/"+templateName+"/docProps/core.xml"] = &fstest.MapFile{Data: []byte(corePropsXML(doc))}
	files["xml/"+templateName+"/word/styles.xml"] = &fstest.MapFile{Data: []byte(stylesXML)}
	return files, nil
}

func corePropsXML(doc Document) string {
	return xml.Header +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>` + escape(doc.Title) + `</dc:title>` +
		`<dc:creator>` + escape(doc.Author) + `</dc:creator>` +
		`</cp:coreProperties>`
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/>
    <w:rPr><w:sz w:val="56"/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>
    <w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/>
    <w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/>
    <w:rPr><w:b/><w:i/><w:sz w:val="24"/></w:rPr></w:style>
  <w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/></w:style>
</w:styles>`
