package config

// ExportConfig holds settings for a single export file.
// Zero values mean "not set" and fall back to the defaults.
type ExportConfig struct {
	// Limit caps the number of listed posts.
	Limit int `yaml:"limit,omitempty"`

	// ValueWidth truncates custom field values in text output.
	ValueWidth int `yaml:"valueWidth,omitempty"`

	// Format is one of text, markdown, html or json.
	Format string `yaml:"format,omitempty"`

	// IncludeContent adds post bodies to the listing.
	IncludeContent bool `yaml:"includeContent,omitempty"`

	// TermRegistry seeds custom taxonomies from <wp:term> declarations.
	TermRegistry bool `yaml:"termRegistry,omitempty"`
}

// File represents the structure of the .wpanalyzer configuration file.
type File struct {
	// Exports maps export file base names to their settings.
	Exports map[string]ExportConfig `yaml:"exports,omitempty"`

	// Defaults applies to every export unless overridden.
	Defaults ExportConfig `yaml:"defaults,omitempty"`
}

// ExportConfig returns the settings for the export named name (a file
// base name), merging the export entry over the defaults.
func (f *File) ExportConfig(name string) ExportConfig {
	result := f.Defaults

	override, ok := f.Exports[name]
	if !ok {
		return result
	}
	if override.Limit != 0 {
		result.Limit = override.Limit
	}
	if override.ValueWidth != 0 {
		result.ValueWidth = override.ValueWidth
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.IncludeContent {
		result.IncludeContent = true
	}
	if override.TermRegistry {
		result.TermRegistry = true
	}
	return result
}

// validFormat reports whether format is empty or a known format.
func validFormat(format string) bool {
	switch format {
	case "", FormatText, FormatMarkdown, FormatHTML, FormatJSON:
		return true
	default:
		return false
	}
}
