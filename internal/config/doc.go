// Package config provides configuration structures and utilities for wpanalyzer.
// It defines which reports to produce, how to render them and where to keep
// the analysis history, and loads per-export overrides from a YAML file.
package config
