// Package pipeline turns a parsed .docx document into a flow of layout
// items ready for a PDF renderer.
//
// Stages:
//   - style mapping: paragraph style names to a closed set of levels
//   - run markup: character flags to escaped inline markup (<b>, <i>, <u>)
//   - image extraction: embedded media to normalized files in a temp directory
//   - assembly: paragraphs, tables and images to an ordered Flow
//   - HTML rendering: a Flow to a standalone HTML page for browser engines
//
// PDF layout is handled by the root docx2pdf package. Keeping document
// structure here lets each renderer focus on page geometry.
package pipeline
