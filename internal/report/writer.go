package report

import (
	"io"
	"unicode/utf8"

	"github.com/nao1215/wpanalyzer/internal/model"
)

// Writer outputs an analysis report in one format.
type Writer interface {
	// Write renders report to the configured destination and returns the
	// number of bytes written.
	Write(report *model.AnalysisReport) (int, error)
}

// MultiWriter writes a report to several Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to every Writer, stopping on the first error.
func (m *MultiWriter) Write(report *model.AnalysisReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// untypedLabel is shown for taxonomy usage by items without a post type.
const untypedLabel = "(none)"

func postTypeLabel(postType string) string {
	if postType == "" {
		return untypedLabel
	}
	return postType
}

// truncate shortens s to at most maxRunes runes, ending in "...".
// maxRunes <= 0 disables truncation.
func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
