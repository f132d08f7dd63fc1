package wxr

// Namespace URIs used by WordPress exports.
const (
	// NamespaceWXR12 is the export namespace written by WordPress 3.1 and later.
	NamespaceWXR12 = "http://wordpress.org/export/1.2/"

	// NamespaceWXR11 is the export namespace written by WordPress 3.0.
	NamespaceWXR11 = "http://wordpress.org/export/1.1/"

	// NamespaceWXR10 is the export namespace written by WordPress 2.x.
	NamespaceWXR10 = "http://wordpress.org/export/1.0/"

	// NamespaceContent holds the full post body (content:encoded).
	NamespaceContent = "http://purl.org/rss/1.0/modules/content/"

	// NamespaceExcerpt12 holds the post excerpt (excerpt:encoded) in WXR 1.2.
	NamespaceExcerpt12 = "http://wordpress.org/export/1.2/excerpt/"

	// NamespaceExcerpt11 is the excerpt namespace of WXR 1.1.
	NamespaceExcerpt11 = "http://wordpress.org/export/1.1/excerpt/"

	// NamespaceExcerpt10 is the excerpt namespace of WXR 1.0.
	NamespaceExcerpt10 = "http://wordpress.org/export/1.0/excerpt/"
)

// Prefixes WordPress binds to the export and excerpt namespaces.
const (
	exportPrefix  = "wp"
	excerptPrefix = "excerpt"
)

// excerptNamespaces maps each export namespace to the excerpt namespace of
// the same WXR version.
var excerptNamespaces = map[string]string{
	NamespaceWXR12: NamespaceExcerpt12,
	NamespaceWXR11: NamespaceExcerpt11,
	NamespaceWXR10: NamespaceExcerpt10,
}

// knownExportNamespaces lists the export namespaces in preference order.
var knownExportNamespaces = []string{
	NamespaceWXR12,
	NamespaceWXR11,
	NamespaceWXR10,
}

// isExportNamespace reports whether uri is one of the WXR export namespaces.
func isExportNamespace(uri string) bool {
	for _, ns := range knownExportNamespaces {
		if uri == ns {
			return true
		}
	}
	return false
}
