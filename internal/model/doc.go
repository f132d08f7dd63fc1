// Package model defines the report views produced by the analyzer.
//
// This package contains the following main types:
//   - PostTypeCensus: item counts per post type
//   - FieldInventory: custom field names per post type
//   - Post: the detail view of a single item
//   - TaxonomyIndex: terms and usage per taxonomy domain
//   - AnalysisReport: the envelope that carries all four views for one export
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The analyzer, pipeline, report writers and history store all
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
