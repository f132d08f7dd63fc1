// Package analyzer answers the four report queries over a loaded export:
// the post-type census, the custom-field inventory, taxonomy usage and the
// per-post listing.
//
// An Analyzer owns its document and never mutates it, so every query may
// be called any number of times, in any order. Queries never fail: missing
// optional elements are defaulted, and items without a post type are left
// out of type-scoped views.
package analyzer
