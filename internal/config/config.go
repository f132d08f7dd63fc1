package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultLimit lists every matching post.
	DefaultLimit = -1

	// DefaultValueWidth disables truncation of custom field values in
	// text output.
	DefaultValueWidth = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "wpanalyzer"
)

// Output formats accepted in the configuration file.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// Config holds all configuration options for one wpanalyzer run.
// This struct is populated from CLI flags and the configuration file and
// passed through the application rather than kept in global state.
type Config struct {
	// Inputs are export paths or glob patterns.
	Inputs []string

	// PostTypes enables the post-type census.
	PostTypes bool

	// CustomFields enables the custom-field inventory.
	CustomFields bool

	// PostTypeFilter restricts the custom-field inventory to one post type.
	PostTypeFilter string

	// Taxonomies enables the taxonomy usage report.
	Taxonomies bool

	// ShowPosts is the post type to list. Empty disables the listing.
	ShowPosts string

	// Limit caps the number of listed posts. Negative means no cap.
	Limit int

	// IncludeContent adds post bodies to the listing.
	IncludeContent bool

	// TermRegistry seeds custom taxonomies from <wp:term> declarations.
	TermRegistry bool

	// ValueWidth truncates custom field values in text output. 0 disables it.
	ValueWidth int

	// JSONReport, MarkdownReport and HTMLReport select the output format.
	// At most one may be set; the default is plain text.
	JSONReport     bool
	MarkdownReport bool
	HTMLReport     bool

	// ReportFile is the output file path. Empty writes to stdout.
	ReportFile string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file given on the command line.
	ConfigFilePath string

	// File is the loaded configuration file, never nil after loading.
	File *File

	// SaveHistory stores each analysis in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Limit:       DefaultLimit,
		ValueWidth:  DefaultValueWidth,
		SaveHistory: true,
		DBDir:       XDGDataDir(),
		File:        &File{Exports: make(map[string]ExportConfig)},
	}
}

// XDGDataDir returns the XDG data directory for wpanalyzer.
// On Linux: ~/.local/share/wpanalyzer
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wpanalyzer.
// On Linux: ~/.config/wpanalyzer
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// AnyReport reports whether at least one report is selected.
func (c *Config) AnyReport() bool {
	return c.PostTypes || c.CustomFields || c.Taxonomies || c.ShowPosts != ""
}

// Format returns the selected output format.
func (c *Config) Format() string {
	switch {
	case c.JSONReport:
		return FormatJSON
	case c.MarkdownReport:
		return FormatMarkdown
	case c.HTMLReport:
		return FormatHTML
	default:
		return FormatText
	}
}

// SetFormat selects format, clearing the others. Unknown formats select text.
func (c *Config) SetFormat(format string) {
	c.JSONReport = format == FormatJSON
	c.MarkdownReport = format == FormatMarkdown
	c.HTMLReport = format == FormatHTML
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if !c.AnyReport() {
		return ErrNoReportSelected
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.Limit < DefaultLimit {
		return ErrInvalidLimit
	}

	if c.ValueWidth < 0 {
		return ErrInvalidValueWidth
	}

	return nil
}

// ForExport returns a copy of c with the configuration file applied for
// the export at path. Values set on the command line win over the file;
// explicit lists the flags the user set.
func (c *Config) ForExport(path string, explicit map[string]bool) *Config {
	out := *c
	if c.File == nil {
		return &out
	}

	ec := c.File.ExportConfig(filepath.Base(path))
	if ec.Limit != 0 && !explicit["limit"] {
		out.Limit = ec.Limit
	}
	if ec.ValueWidth != 0 && !explicit["value-width"] {
		out.ValueWidth = ec.ValueWidth
	}
	if ec.IncludeContent && !explicit["content"] {
		out.IncludeContent = true
	}
	if ec.TermRegistry && !explicit["term-registry"] {
		out.TermRegistry = true
	}
	if ec.Format != "" && !explicit["json"] && !explicit["markdown"] && !explicit["html"] {
		out.SetFormat(ec.Format)
	}
	return &out
}
