package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoInput is returned when no export file is given.
	ErrNoInput = errors.New("no input specified: provide one or more export files")

	// ErrNoReportSelected is returned when none of --post-types,
	// --custom-fields, --taxonomies or --show-posts is given.
	ErrNoReportSelected = errors.New("no report selected")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown and --html is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --json, --markdown, --html")

	// ErrInvalidLimit is returned when the post limit is below -1.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative, or -1 for no limit")

	// ErrInvalidValueWidth is returned when the value width is negative.
	ErrInvalidValueWidth = errors.New("invalid value width: must be non-negative")

	// ErrUnknownFormat is returned when the configuration file names an
	// unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
)
