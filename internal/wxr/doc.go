// Package wxr loads WordPress eXtended RSS (WXR) export documents.
//
// A document is parsed once into an in-memory element tree that keeps the
// namespace URI of every element. Lookups are always namespace-qualified:
// the export-specific elements live in the "wp" namespace, whose URI
// depends on the WXR version that produced the file, while post bodies and
// excerpts live in the content and excerpt namespaces.
//
// Every optional value is returned together with a presence flag. Callers
// decide how to default a missing element; nothing in this package assumes
// that an export is well populated.
package wxr
