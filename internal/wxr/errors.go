package wxr

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// ParseError is returned when an export cannot be loaded, either because
// the file is unreadable or because its content is not well-formed XML.
type ParseError struct {
	// Path is the file that failed to load. Empty when parsing from a reader.
	Path string

	// Line is the line of the syntax error, or 0 when unknown.
	Line int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	source := e.Path
	if source == "" {
		source = "export"
	}
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s (line %d): %v", source, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", source, e.Err)
}

// Unwrap returns the underlying error so errors.Is(err, fs.ErrNotExist)
// keeps working for missing files.
func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	// ErrNoRootElement is returned when the input contains no element at all.
	ErrNoRootElement = errors.New("no root element")

	// ErrTrailingContent is returned when something other than whitespace,
	// comments or processing instructions follows the root element.
	ErrTrailingContent = errors.New("content after root element")
)

// newParseError wraps err, lifting the line number out of xml.SyntaxError.
func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Err: err}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Line = syntaxErr.Line
	}
	return pe
}
