package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nao1215/wpanalyzer/internal/model"
)

// pageTemplate wraps the rendered body. The arguments are the escaped
// title and the body HTML.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: left; }
code { background: #f4f4f4; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTMLWriter renders the Markdown report as a standalone HTML page.
type HTMLWriter struct {
	baseWriter

	markdown *MarkdownWriter
	engine   goldmark.Markdown
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
// Options apply to the underlying Markdown rendering.
func NewHTMLWriter(output io.Writer, opts ...MarkdownWriterOption) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
		markdown:   NewMarkdownWriter(io.Discard, opts...),
		engine:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Write outputs the report as an HTML page.
func (w *HTMLWriter) Write(report *model.AnalysisReport) (int, error) {
	var body bytes.Buffer
	if err := w.engine.Convert([]byte(w.markdown.render(report)), &body); err != nil {
		return 0, fmt.Errorf("failed to render HTML report: %w", err)
	}

	title := html.EscapeString("wpanalyzer: " + report.Source)
	return fmt.Fprintf(w.output, pageTemplate, title, body.String())
}
