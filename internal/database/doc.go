// Package database stores the history of export analyses in SQLite
// (modernc.org/sqlite, no cgo).
//
// Each analysis run is one row keyed by a random UUID. The row keeps the
// export path, the digest of the export content, the post-type census and
// the complete report as JSON, so earlier runs can be listed and compared
// without re-reading the export.
package database
