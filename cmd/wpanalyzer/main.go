// Package main provides the entry point for the wpanalyzer CLI.
//
// wpanalyzer inspects WordPress eXtended RSS (WXR) export files and reports
// the post types, custom fields, taxonomies and posts they contain.
//
// Usage:
//
//	wpanalyzer analyze --post-types export.xml
//	wpanalyzer analyze --show-posts page --limit 5 'exports/**/*.xml'
//
// See --help for all available options.
package main

func main() {
	Execute()
}
