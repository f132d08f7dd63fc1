// Package report renders analysis reports.
//
// Writers for the supported output formats:
//   - SimpleWriter: plain text for terminal display
//   - MarkdownWriter: Markdown with tables and a Mermaid pie chart
//   - HTMLWriter: the Markdown report rendered as a standalone page
//   - JSONWriter: structured JSON for tool integration
//
// The model package holds the data; this package only formats it. Writers
// implement the Writer interface and can be combined with MultiWriter.
package report
