// Package docx reads the parts of a Word (.docx) package needed to lay the
// document out again: body paragraphs with their runs, tables, inline images
// and the relationships that point at embedded media.
//
// The body, relationships and media are parsed by github.com/fumiama/go-docx.
// Style names and core properties, which that library does not read, come
// from a small lookup over the same archive.
//
// The whole package is read into memory by Open, so a Document holds no file
// handle and needs no Close.
package docx
