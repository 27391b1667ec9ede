// Package docx2pdf converts Word documents (.docx) to PDF.
//
// # Quick Start
//
//	conv, err := docx2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	out, err := conv.ConvertFile(ctx, "report.docx", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("written to", out) // report.pdf
//
// # Conversion Pipeline
//
//  1. Package reading: paragraphs, runs, tables and inline images are read
//     from the .docx zip package
//  2. Style mapping: paragraph styles map to Normal or Heading 1-3, run flags
//     to inline <b>, <i> and <u> markup
//  3. Assembly: paragraphs, then tables, then images become an ordered flow
//     of layout items; images that cannot be decoded are skipped
//  4. Rendering: the flow is laid out on Letter pages with the built-in
//     PDF writer, or printed by headless Chrome with EngineChrome
//
// # Configuration
//
//	conv, err := docx2pdf.NewConverter(
//	    docx2pdf.WithPage(&docx2pdf.PageSettings{Size: "a4", Orientation: "portrait", Margin: 1}),
//	    docx2pdf.WithTimeout(time.Minute),
//	    docx2pdf.WithLogger(slog.Default()),
//	)
//
// # Errors
//
// Failures are classified by sentinel errors checked with errors.Is:
// ErrNotFound for a missing input, ErrFormat for input that is not a
// readable .docx package and ErrRender when the PDF cannot be produced or
// written. Image failures wrap ErrImageExtraction and are reported in
// ConvertResult.Skipped without failing the conversion.
package docx2pdf
